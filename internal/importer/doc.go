// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package importer ingests external collections into the store.
//
// Two sources are supported: the Discogs collection API (vinyl ownership)
// and an exported Rekordbox library XML (digital ownership). Both paths
// share the same pipeline: create releases and tracks, record ownership,
// resolve key labels to Camelot codes, and link each track to a canonical
// song so the same recording owned on vinyl and digitally is recognized as
// one song.
//
// Song linking is fuzzy: titles differ across pressings ("Original Mix"
// suffixes, bracketed remix tags), so candidate songs by the same artist
// are matched with Jaro-Winkler similarity on normalized titles.
//
// Imports are idempotent at the ownership level; re-importing a
// collection does not duplicate ownership rows.
package importer
