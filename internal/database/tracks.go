// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// InsertTrack inserts a track and populates its generated ID.
func (db *DB) InsertTrack(ctx context.Context, track *models.Track) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("insert", "tracks", time.Since(start), err)
	}(time.Now())

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO tracks (release_id, song_id, title, position, bpm, key_label, camelot_key, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		nullableID(track.ReleaseID), nullableID(track.SongID), track.Title, track.Position,
		track.BPM, track.KeyLabel, track.CamelotKey, track.DurationSeconds,
	)
	if err = row.Scan(&track.ID); err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}
	return nil
}

// GetTrack returns a track by ID, or models.ErrNotFound.
func (db *DB) GetTrack(ctx context.Context, id int64) (track *models.Track, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "tracks", time.Since(start), ignoreNotFound(err))
	}(time.Now())

	row := db.conn.QueryRowContext(ctx, `
		SELECT id, COALESCE(release_id, 0), COALESCE(song_id, 0), title, COALESCE(position, ''),
		       bpm, COALESCE(key_label, ''), COALESCE(camelot_key, ''), duration_seconds
		FROM tracks WHERE id = ?`, id)

	track = &models.Track{}
	err = row.Scan(&track.ID, &track.ReleaseID, &track.SongID, &track.Title, &track.Position,
		&track.BPM, &track.KeyLabel, &track.CamelotKey, &track.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track %d: %w", id, err)
	}
	return track, nil
}

// ListTracksByRelease returns the tracks on a release in position order.
func (db *DB) ListTracksByRelease(ctx context.Context, releaseID int64) (tracks []models.Track, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "tracks", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, COALESCE(release_id, 0), COALESCE(song_id, 0), title, COALESCE(position, ''),
		       bpm, COALESCE(key_label, ''), COALESCE(camelot_key, ''), duration_seconds
		FROM tracks WHERE release_id = ? ORDER BY position, id`, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks for release %d: %w", releaseID, err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// UpdateTrackKey sets a track's key label and resolved Camelot code.
func (db *DB) UpdateTrackKey(ctx context.Context, id int64, keyLabel, camelotKey string) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("update", "tracks", time.Since(start), err)
	}(time.Now())

	res, err := db.conn.ExecContext(ctx,
		`UPDATE tracks SET key_label = ?, camelot_key = ? WHERE id = ?`,
		keyLabel, camelotKey, id)
	if err != nil {
		return fmt.Errorf("failed to update track %d key: %w", id, err)
	}
	return requireRowAffected(res)
}

// UpdateTrackBPM sets a track's tempo.
func (db *DB) UpdateTrackBPM(ctx context.Context, id int64, bpm float64) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("update", "tracks", time.Since(start), err)
	}(time.Now())

	res, err := db.conn.ExecContext(ctx, `UPDATE tracks SET bpm = ? WHERE id = ?`, bpm, id)
	if err != nil {
		return fmt.Errorf("failed to update track %d bpm: %w", id, err)
	}
	return requireRowAffected(res)
}

// SetTrackSong links a track to its canonical song.
func (db *DB) SetTrackSong(ctx context.Context, trackID, songID int64) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("update", "tracks", time.Since(start), err)
	}(time.Now())

	res, err := db.conn.ExecContext(ctx, `UPDATE tracks SET song_id = ? WHERE id = ?`, songID, trackID)
	if err != nil {
		return fmt.Errorf("failed to link track %d to song %d: %w", trackID, songID, err)
	}
	return requireRowAffected(res)
}

// ListTracksMissingCamelot returns tracks that carry a raw key label but no
// resolved Camelot code. Used by the enrichment worker.
func (db *DB) ListTracksMissingCamelot(ctx context.Context, limit int) (tracks []models.Track, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "tracks", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, COALESCE(release_id, 0), COALESCE(song_id, 0), title, COALESCE(position, ''),
		       bpm, COALESCE(key_label, ''), COALESCE(camelot_key, ''), duration_seconds
		FROM tracks
		WHERE COALESCE(key_label, '') != '' AND COALESCE(camelot_key, '') = ''
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks missing camelot keys: %w", err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

func scanTracks(rows *sql.Rows) ([]models.Track, error) {
	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.ReleaseID, &t.SongID, &t.Title, &t.Position,
			&t.BPM, &t.KeyLabel, &t.CamelotKey, &t.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("track rows: %w", err)
	}
	return tracks, nil
}

// nullableID maps a zero ID to NULL so absent foreign keys stay absent.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// requireRowAffected converts a zero-row update into models.ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ignoreNotFound keeps expected misses out of the error metrics.
func ignoreNotFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
