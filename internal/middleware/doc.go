// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package middleware provides HTTP middleware for the API server.
//
// CORS, rate limiting, and panic recovery come from chi and its ecosystem
// packages and are wired directly in the router; this package holds the
// middleware that needs application context: request ID propagation into
// the logging package and Prometheus request instrumentation.
package middleware
