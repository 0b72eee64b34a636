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

// InsertSong inserts a canonical song and populates its generated ID.
func (db *DB) InsertSong(ctx context.Context, song *models.Song) (err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("insert", "songs", time.Since(start), err)
	}(time.Now())

	genres, err := marshalTags(song.Genres)
	if err != nil {
		return err
	}

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist, genres)
		VALUES (?, ?, ?)
		RETURNING id`,
		song.Title, song.Artist, genres,
	)
	if err = row.Scan(&song.ID); err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}
	return nil
}

// GetSong returns a canonical song by ID, or models.ErrNotFound.
func (db *DB) GetSong(ctx context.Context, id int64) (song *models.Song, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "songs", time.Since(start), ignoreNotFound(err))
	}(time.Now())

	row := db.conn.QueryRowContext(ctx, `
		SELECT id, title, artist, COALESCE(genres, '')
		FROM songs WHERE id = ?`, id)

	var genres string
	song = &models.Song{}
	err = row.Scan(&song.ID, &song.Title, &song.Artist, &genres)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song %d: %w", id, err)
	}
	if song.Genres, err = unmarshalTags(genres); err != nil {
		return nil, err
	}
	return song, nil
}

// ListSongsByArtist returns the songs credited to an artist,
// case-insensitively. The importer matches new tracks against these to
// link pressings of the same recording.
func (db *DB) ListSongsByArtist(ctx context.Context, artist string) (songs []models.Song, err error) {
	defer func(start time.Time) {
		metrics.RecordDBQuery("select", "songs", time.Since(start), err)
	}(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, artist, COALESCE(genres, '')
		FROM songs WHERE lower(artist) = lower(?) ORDER BY id`, artist)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs for artist %q: %w", artist, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s      models.Song
			genres string
		)
		if err = rows.Scan(&s.ID, &s.Title, &s.Artist, &genres); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		if s.Genres, err = unmarshalTags(genres); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("song rows: %w", err)
	}
	return songs, nil
}
