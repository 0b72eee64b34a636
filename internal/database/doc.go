// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package database provides the DuckDB persistence layer.
//
// The DB type wraps a database/sql connection to DuckDB and exposes typed
// data access methods for the collection (songs, releases, tracks),
// ownership records, and curated transitions. It also implements
// recommend.DataProvider, so the recommendation engine reads directly from
// the store without an import cycle.
//
// Schema strategy: all tables are defined in the initial CREATE TABLE
// statements and applied idempotently at startup. Genre tag lists are
// stored as JSON text; DuckDB list columns do not round-trip cleanly
// through database/sql.
//
// An empty database path opens an in-memory database, which the tests use.
package database
