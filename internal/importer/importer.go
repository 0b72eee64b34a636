// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/rs/zerolog"

	"github.com/fmorozzo/cratedigger/internal/camelot"
	"github.com/fmorozzo/cratedigger/internal/database"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// songMatchThreshold is the Jaro-Winkler similarity above which two track
// titles by the same artist are treated as the same recording.
const songMatchThreshold = 0.9

// Importer ingests external collections into the store.
type Importer struct {
	db     *database.DB
	logger zerolog.Logger
}

// Stats summarizes one import run.
type Stats struct {
	// Releases is the number of releases created.
	Releases int `json:"releases"`

	// Tracks is the number of tracks created.
	Tracks int `json:"tracks"`

	// SongsLinked is the number of tracks linked to an existing song.
	SongsLinked int `json:"songs_linked"`

	// SongsCreated is the number of new canonical songs.
	SongsCreated int `json:"songs_created"`

	// KeysResolved is the number of key labels resolved to Camelot codes.
	KeysResolved int `json:"keys_resolved"`

	// Skipped is the number of entries skipped as unusable.
	Skipped int `json:"skipped"`
}

// New creates an importer over the given store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(db *database.DB, logger zerolog.Logger) *Importer {
	return &Importer{
		db:     db,
		logger: logger.With().Str("component", "importer").Logger(),
	}
}

// importTrack inserts one track, records ownership, and links its song.
// The shared tail of both the Discogs and Rekordbox paths.
func (imp *Importer) importTrack(ctx context.Context, userID int64, track *models.Track, artist string, genres []string, source models.OwnershipType, stats *Stats) error {
	if track.KeyLabel != "" && track.CamelotKey == "" {
		if key, ok := camelot.Parse(track.KeyLabel); ok {
			track.CamelotKey = key.String()
			stats.KeysResolved++
		}
	}

	songID, created, err := imp.linkSong(ctx, track.Title, artist, genres)
	if err != nil {
		return err
	}
	track.SongID = songID
	if created {
		stats.SongsCreated++
	} else {
		stats.SongsLinked++
	}

	if err := imp.db.InsertTrack(ctx, track); err != nil {
		return err
	}
	stats.Tracks++

	rec := &models.OwnershipRecord{
		UserID:  userID,
		TrackID: track.ID,
		Source:  source,
	}
	return imp.db.UpsertOwnership(ctx, rec)
}

// linkSong finds or creates the canonical song for a track title and
// artist. Returns the song ID and whether it was newly created.
func (imp *Importer) linkSong(ctx context.Context, title, artist string, genres []string) (int64, bool, error) {
	if artist == "" {
		artist = "Unknown Artist"
	}

	candidates, err := imp.db.ListSongsByArtist(ctx, artist)
	if err != nil {
		return 0, false, fmt.Errorf("list songs for %q: %w", artist, err)
	}

	normalized := normalizeTitle(title)
	jw := metrics.NewJaroWinkler()

	var (
		bestID    int64
		bestScore float64
	)
	for _, cand := range candidates {
		score := strutil.Similarity(normalized, normalizeTitle(cand.Title), jw)
		if score > bestScore && score >= songMatchThreshold {
			bestScore = score
			bestID = cand.ID
		}
	}
	if bestID != 0 {
		imp.logger.Debug().
			Str("title", title).
			Int64("song_id", bestID).
			Float64("score", bestScore).
			Msg("linked track to existing song")
		return bestID, false, nil
	}

	song := &models.Song{Title: title, Artist: artist, Genres: genres}
	if err := imp.db.InsertSong(ctx, song); err != nil {
		return 0, false, err
	}
	return song.ID, true, nil
}

// normalizeTitle lowercases a title and strips the decorations that vary
// across pressings of the same recording: bracketed remix tags and
// "Original Mix" style suffixes.
func normalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))

	if idx := strings.IndexAny(t, "(["); idx > 0 {
		t = strings.TrimSpace(t[:idx])
	}

	for _, suffix := range []string{"- original mix", "- radio edit", "- remaster", "- remastered"} {
		t = strings.TrimSpace(strings.TrimSuffix(t, suffix))
	}
	return t
}
