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

// InsertRelease inserts a release and populates its generated ID.
func (db *DB) InsertRelease(ctx context.Context, release *models.Release) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("insert", "releases", time.Since(start), err)
	}(time.Now())

	genres, err := marshalTags(release.Genres)
	if err != nil {
		return err
	}
	styles, err := marshalTags(release.Styles)
	if err != nil {
		return err
	}

	ownership := release.OwnershipType
	if ownership == "" {
		ownership = models.OwnershipVinyl
	}

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO releases (title, artist, label, year, genres, styles, cover_url, ownership_type, relations_excluded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		release.Title, release.Artist, release.Label, release.Year,
		genres, styles, release.CoverURL, string(ownership), release.RelationsExcluded,
	)
	if err = row.Scan(&release.ID); err != nil {
		return fmt.Errorf("failed to insert release: %w", err)
	}
	return nil
}

// GetRelease returns a release by ID, or models.ErrNotFound.
func (db *DB) GetRelease(ctx context.Context, id int64) (release *models.Release, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "releases", time.Since(start), ignoreNotFound(err))
	}(time.Now())

	row := db.conn.QueryRowContext(ctx, `
		SELECT id, title, COALESCE(artist, ''), COALESCE(label, ''), COALESCE(year, 0),
		       COALESCE(genres, ''), COALESCE(styles, ''), COALESCE(cover_url, ''),
		       ownership_type, relations_excluded
		FROM releases WHERE id = ?`, id)

	release, err = scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get release %d: %w", id, err)
	}
	return release, nil
}

// ListReleases returns a page of releases, newest first.
func (db *DB) ListReleases(ctx context.Context, limit, offset int) (releases []models.Release, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "releases", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, COALESCE(artist, ''), COALESCE(label, ''), COALESCE(year, 0),
		       COALESCE(genres, ''), COALESCE(styles, ''), COALESCE(cover_url, ''),
		       ownership_type, relations_excluded
		FROM releases ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, scanErr := scanRelease(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan release: %w", scanErr)
		}
		releases = append(releases, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("release rows: %w", err)
	}
	return releases, nil
}

// SetRelationsExcluded toggles a release's exclusion from compatibility
// relations. Tracks on an excluded release never surface as candidates.
func (db *DB) SetRelationsExcluded(ctx context.Context, id int64, excluded bool) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("update", "releases", time.Since(start), err)
	}(time.Now())

	res, err := db.conn.ExecContext(ctx,
		`UPDATE releases SET relations_excluded = ? WHERE id = ?`, excluded, id)
	if err != nil {
		return fmt.Errorf("failed to set relations exclusion on release %d: %w", id, err)
	}
	return requireRowAffected(res)
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanRelease(row scannable) (*models.Release, error) {
	var (
		r         models.Release
		genres    string
		styles    string
		ownership string
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Artist, &r.Label, &r.Year,
		&genres, &styles, &r.CoverURL, &ownership, &r.RelationsExcluded); err != nil {
		return nil, err
	}

	var err error
	if r.Genres, err = unmarshalTags(genres); err != nil {
		return nil, err
	}
	if r.Styles, err = unmarshalTags(styles); err != nil {
		return nil, err
	}
	r.OwnershipType = models.OwnershipType(ownership)
	return &r, nil
}
