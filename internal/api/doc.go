// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package api provides the HTTP surface: Chi routing, JSON request and
// response handling, and the handlers for tracks, releases, the owned
// collection, transitions, key compatibility lookups, recommendations,
// and collection imports.
//
// All responses use the models.APIResponse envelope. Handlers validate
// input with go-playground/validator and never expose internal error
// strings to clients; failures are logged with the request ID and
// returned as stable machine-readable error codes.
package api
