// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package importer

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// rekordboxLibrary mirrors the DJ_PLAYLISTS XML Rekordbox exports.
// Only the collection is read; playlists are ignored.
type rekordboxLibrary struct {
	XMLName    xml.Name `xml:"DJ_PLAYLISTS"`
	Collection struct {
		Tracks []RekordboxTrack `xml:"TRACK"`
	} `xml:"COLLECTION"`
}

// RekordboxTrack is one COLLECTION entry of a Rekordbox XML export.
type RekordboxTrack struct {
	Name       string  `xml:"Name,attr"`
	Artist     string  `xml:"Artist,attr"`
	Album      string  `xml:"Album,attr"`
	Genre      string  `xml:"Genre,attr"`
	AverageBpm float64 `xml:"AverageBpm,attr"`
	Tonality   string  `xml:"Tonality,attr"`
	TotalTime  int     `xml:"TotalTime,attr"`
	Year       int     `xml:"Year,attr"`
}

// ParseRekordboxXML reads a Rekordbox library export from disk.
func ParseRekordboxXML(path string) ([]RekordboxTrack, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read rekordbox library: %w", err)
	}
	var lib rekordboxLibrary
	if err := xml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse rekordbox library: %w", err)
	}
	return lib.Collection.Tracks, nil
}

// ImportRekordbox reads the configured Rekordbox XML export and imports
// it as digital ownership for the given user.
func (imp *Importer) ImportRekordbox(ctx context.Context, path string, userID int64) (*Stats, error) {
	start := time.Now()
	tracks, err := ParseRekordboxXML(path)
	if err != nil {
		metrics.RecordImportRun("rekordbox", 0, time.Since(start), err)
		return nil, err
	}
	stats, err := imp.ImportRekordboxTracks(ctx, tracks, userID)
	if stats != nil {
		metrics.RecordImportRun("rekordbox", stats.Tracks, time.Since(start), err)
	} else {
		metrics.RecordImportRun("rekordbox", 0, time.Since(start), err)
	}
	return stats, err
}

// ImportRekordboxTracks imports an already-parsed collection. Tracks are
// grouped by album into digital releases; tracks without an album each
// get a single-track release named after themselves.
func (imp *Importer) ImportRekordboxTracks(ctx context.Context, tracks []RekordboxTrack, userID int64) (*Stats, error) {
	stats := &Stats{}

	// Group by album while preserving first-seen order.
	type albumGroup struct {
		key    string
		tracks []RekordboxTrack
	}
	var groups []*albumGroup
	byKey := make(map[string]*albumGroup)
	for _, rt := range tracks {
		if rt.Name == "" {
			stats.Skipped++
			continue
		}
		key := strings.ToLower(strings.TrimSpace(rt.Album))
		if key == "" {
			// Loose track: its own release.
			groups = append(groups, &albumGroup{tracks: []RekordboxTrack{rt}})
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &albumGroup{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.tracks = append(g.tracks, rt)
	}

	for _, g := range groups {
		if err := imp.importRekordboxAlbum(ctx, g.tracks, userID, stats); err != nil {
			return stats, err
		}
	}

	imp.logger.Info().
		Int("releases", stats.Releases).
		Int("tracks", stats.Tracks).
		Int("keys_resolved", stats.KeysResolved).
		Msg("rekordbox import complete")
	return stats, nil
}

func (imp *Importer) importRekordboxAlbum(ctx context.Context, tracks []RekordboxTrack, userID int64, stats *Stats) error {
	first := tracks[0]
	title := first.Album
	if title == "" {
		title = first.Name
	}

	release := &models.Release{
		Title:         title,
		Artist:        albumArtist(tracks),
		Year:          first.Year,
		Genres:        albumGenres(tracks),
		OwnershipType: models.OwnershipDigital,
	}
	if err := imp.db.InsertRelease(ctx, release); err != nil {
		return fmt.Errorf("insert release %q: %w", title, err)
	}
	stats.Releases++

	for i, rt := range tracks {
		track := &models.Track{
			Title:           rt.Name,
			ReleaseID:       release.ID,
			Position:        fmt.Sprintf("%d", i+1),
			BPM:             rt.AverageBpm,
			KeyLabel:        rt.Tonality,
			DurationSeconds: rt.TotalTime,
		}
		artist := rt.Artist
		if artist == "" {
			artist = release.Artist
		}
		var genres []string
		if rt.Genre != "" {
			genres = []string{rt.Genre}
		}
		if err := imp.importTrack(ctx, userID, track, artist, genres, models.OwnershipDigital, stats); err != nil {
			return fmt.Errorf("import track %q: %w", rt.Name, err)
		}
	}
	return nil
}

// albumArtist picks the shared artist when every track agrees, otherwise
// "Various Artists".
func albumArtist(tracks []RekordboxTrack) string {
	artist := tracks[0].Artist
	for _, rt := range tracks[1:] {
		if rt.Artist != artist {
			return "Various Artists"
		}
	}
	return artist
}

func albumGenres(tracks []RekordboxTrack) []string {
	seen := make(map[string]bool)
	var genres []string
	for _, rt := range tracks {
		g := strings.TrimSpace(rt.Genre)
		if g == "" || seen[strings.ToLower(g)] {
			continue
		}
		seen[strings.ToLower(g)] = true
		genres = append(genres, g)
	}
	return genres
}
