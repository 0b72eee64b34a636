// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package recommend implements the track-compatibility scoring and
// DJ-mixing recommendation engine.
//
// Given a source track and the requesting user's owned-track universe, the
// engine builds a bounded candidate pool, scores every candidate, and
// returns a ranked, deduplicated, explained result list. Four signals
// contribute additively to a candidate's score:
//
//   - Relation priority: user-curated transitions with the source track
//     (the strongest signal by far), plus ownership of other tracks on the
//     source's label or by the source's artist.
//   - BPM proximity: tiered bands of percentage tempo difference, bounded
//     by the realistic DJ pitch-fader range.
//   - Harmonic key compatibility: Camelot wheel adjacency and relative
//     major/minor, resolved by the camelot package.
//   - Metadata affinity: shared label, artist, genre tags, and release-year
//     proximity.
//
// The pipeline is pure and stateless: all persisted data is read through
// the injected DataProvider, every invocation is independent, and nothing
// is written. Missing metadata (bpm, key, label, year, genres) never
// errors; each sub-rule independently contributes zero when its inputs are
// absent. Failed auxiliary lookups degrade to a zero contribution for that
// signal. Only a failure to load the source track itself propagates, and a
// source track that simply does not exist yields an empty result list.
//
// Candidate evaluation requires per-track data lookups, so the pool size
// cap is a hard ceiling on work performed per request, not a display limit.
//
// Historical note: scoring previously existed in two independently drifted
// variants with different point values. Both are now profiles of this one
// engine: DefaultConfig is the server-side variant, MobileProfile the
// client-helper variant.
package recommend
