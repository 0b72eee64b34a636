// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package config provides layered configuration loading for the
// Cratedigger server.
//
// Configuration is loaded with Koanf v2 from three layered sources, in
// increasing priority:
//
//  1. Built-in defaults
//  2. An optional YAML config file
//  3. Environment variables
//
// Environment variables use flat legacy names (HTTP_PORT, DUCKDB_PATH,
// DISCOGS_TOKEN) mapped onto the nested structure; unmapped variables are
// ignored so the process environment cannot pollute the configuration.
//
// The loaded Config is validated before use; the server refuses to start
// on an invalid configuration rather than limping along with one.
package config
