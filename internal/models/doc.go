// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package models defines the domain entities shared across Cratedigger:
// tracks, releases, canonical songs, ownership records, user-curated
// transitions, and the standard API response envelope.
//
// The package has no dependencies on other internal packages so that the
// database, recommendation, and API layers can all consume it without
// import cycles.
package models
