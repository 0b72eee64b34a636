// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// InsertTransition records a curated transition between two tracks. Both
// endpoints must be owned by the user; otherwise models.ErrNotOwned.
func (db *DB) InsertTransition(ctx context.Context, t *models.Transition) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("insert", "transitions", time.Since(start), ignoreNotOwned(err))
	}(time.Now())

	for _, trackID := range []int64{t.FromTrackID, t.ToTrackID} {
		owned, ownErr := db.IsOwned(ctx, t.UserID, trackID)
		if ownErr != nil {
			return ownErr
		}
		if !owned {
			return fmt.Errorf("track %d: %w", trackID, models.ErrNotOwned)
		}
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO transitions (user_id, from_track_id, to_track_id, worked, rating, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		t.UserID, t.FromTrackID, t.ToTrackID, t.Worked, t.Rating, t.Note, t.CreatedAt,
	)
	if err = row.Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to insert transition: %w", err)
	}
	return nil
}

// GetTransitions returns the user's transitions touching the given track,
// in either direction, newest first.
func (db *DB) GetTransitions(ctx context.Context, userID, trackID int64) (transitions []models.Transition, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "transitions", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, from_track_id, to_track_id, worked, rating, COALESCE(note, ''), created_at
		FROM transitions
		WHERE user_id = ? AND (from_track_id = ? OR to_track_id = ?)
		ORDER BY created_at DESC, id DESC`, userID, trackID, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transitions for track %d: %w", trackID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transition
		if err = rows.Scan(&t.ID, &t.UserID, &t.FromTrackID, &t.ToTrackID,
			&t.Worked, &t.Rating, &t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		transitions = append(transitions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("transition rows: %w", err)
	}
	return transitions, nil
}

// DeleteTransition removes a transition owned by the user. Returns
// models.ErrNotFound when the row does not exist or belongs to another
// user.
func (db *DB) DeleteTransition(ctx context.Context, userID, id int64) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("delete", "transitions", time.Since(start), ignoreNotFound(err))
	}(time.Now())

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM transitions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transition %d: %w", id, err)
	}
	return requireRowAffected(res)
}

// ignoreNotOwned keeps ownership rejections out of the error metrics.
func ignoreNotOwned(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotOwned) {
		return nil
	}
	return err
}
