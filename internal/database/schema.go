// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package database

import (
	"context"
	"fmt"
)

// createSchema applies the schema idempotently: sequences, tables, then
// indexes.
func (db *DB) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_song_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_release_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_track_id START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_transition_id START 1`,

		// Canonical songs: one row per recording, shared across the
		// vinyl pressings and digital files that carry it.
		`CREATE TABLE IF NOT EXISTS songs (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_song_id'),
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			genres TEXT,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,

		// Releases: physical or digital editions (Discogs release,
		// Rekordbox album).
		`CREATE TABLE IF NOT EXISTS releases (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_release_id'),
			title TEXT NOT NULL,
			artist TEXT,
			label TEXT,
			year INTEGER,
			genres TEXT,
			styles TEXT,
			cover_url TEXT,
			ownership_type TEXT NOT NULL DEFAULT 'vinyl',
			relations_excluded BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,

		// Tracks: individual playable entries on a release.
		`CREATE TABLE IF NOT EXISTS tracks (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_track_id'),
			release_id BIGINT,
			song_id BIGINT,
			title TEXT NOT NULL,
			position TEXT,
			bpm DOUBLE NOT NULL DEFAULT 0,
			key_label TEXT,
			camelot_key TEXT,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,

		// Ownership: which user owns which track, with listening stats.
		`CREATE TABLE IF NOT EXISTS ownership (
			user_id BIGINT NOT NULL,
			track_id BIGINT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 0,
			play_count INTEGER NOT NULL DEFAULT 0,
			source TEXT,
			added_at TIMESTAMP DEFAULT current_timestamp,
			PRIMARY KEY (user_id, track_id)
		)`,

		// Curated transitions: user-recorded mixes between two tracks.
		`CREATE TABLE IF NOT EXISTS transitions (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_transition_id'),
			user_id BIGINT NOT NULL,
			from_track_id BIGINT NOT NULL,
			to_track_id BIGINT NOT NULL,
			worked BOOLEAN NOT NULL DEFAULT TRUE,
			rating INTEGER NOT NULL DEFAULT 0,
			note TEXT,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tracks_release ON tracks(release_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tracks_song ON tracks(song_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tracks_camelot ON tracks(camelot_key)`,
		`CREATE INDEX IF NOT EXISTS idx_releases_label ON releases(label)`,
		`CREATE INDEX IF NOT EXISTS idx_releases_artist ON releases(artist)`,
		`CREATE INDEX IF NOT EXISTS idx_ownership_user ON ownership(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_from ON transitions(user_id, from_track_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_to ON transitions(user_id, to_track_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
