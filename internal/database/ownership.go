// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// UpsertOwnership records that a user owns a track. Re-imports update the
// source without duplicating the row.
func (db *DB) UpsertOwnership(ctx context.Context, rec *models.OwnershipRecord) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("upsert", "ownership", time.Since(start), err)
	}(time.Now())

	if rec.AddedAt.IsZero() {
		rec.AddedAt = time.Now()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO ownership (user_id, track_id, rating, play_count, source, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, track_id) DO UPDATE SET source = excluded.source`,
		rec.UserID, rec.TrackID, rec.Rating, rec.PlayCount, string(rec.Source), rec.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ownership (user %d, track %d): %w", rec.UserID, rec.TrackID, err)
	}
	return nil
}

// IsOwned reports whether the user owns the track.
func (db *DB) IsOwned(ctx context.Context, userID, trackID int64) (owned bool, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "ownership", time.Since(start), err)
	}(time.Now())

	row := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM ownership WHERE user_id = ? AND track_id = ?`, userID, trackID)
	var n int
	if err = row.Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check ownership (user %d, track %d): %w", userID, trackID, err)
	}
	return n > 0, nil
}

// GetOwnedTrackIDs returns every track ID the user owns, ascending.
func (db *DB) GetOwnedTrackIDs(ctx context.Context, userID int64) (ids []int64, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "ownership", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT track_id FROM ownership WHERE user_id = ? ORDER BY track_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned tracks for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetOwnedTrackIDsByLabel returns IDs of owned tracks on releases carrying
// the given label, case-insensitively.
func (db *DB) GetOwnedTrackIDsByLabel(ctx context.Context, userID int64, label string) (ids []int64, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "ownership", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT o.track_id
		FROM ownership o
		JOIN tracks t ON t.id = o.track_id
		JOIN releases r ON r.id = t.release_id
		WHERE o.user_id = ? AND lower(r.label) = lower(?)
		ORDER BY o.track_id`, userID, label)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned tracks by label %q: %w", label, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GetOwnedTrackIDsByArtist returns IDs of owned tracks on releases by the
// given primary artist, case-insensitively.
func (db *DB) GetOwnedTrackIDsByArtist(ctx context.Context, userID int64, artist string) (ids []int64, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "ownership", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT o.track_id
		FROM ownership o
		JOIN tracks t ON t.id = o.track_id
		JOIN releases r ON r.id = t.release_id
		WHERE o.user_id = ? AND lower(r.artist) = lower(?)
		ORDER BY o.track_id`, userID, artist)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned tracks by artist %q: %w", artist, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("id rows: %w", err)
	}
	return ids, nil
}

// IncrementPlayCount bumps the play counter on an ownership record.
func (db *DB) IncrementPlayCount(ctx context.Context, userID, trackID int64) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("update", "ownership", time.Since(start), err)
	}(time.Now())

	res, err := db.conn.ExecContext(ctx,
		`UPDATE ownership SET play_count = play_count + 1 WHERE user_id = ? AND track_id = ?`,
		userID, trackID)
	if err != nil {
		return fmt.Errorf("failed to increment play count (user %d, track %d): %w", userID, trackID, err)
	}
	return requireRowAffected(res)
}
