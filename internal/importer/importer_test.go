// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fmorozzo/cratedigger/internal/config"
	"github.com/fmorozzo/cratedigger/internal/database"
	"github.com/fmorozzo/cratedigger/internal/models"
)

func newTestImporter(t *testing.T) (*Importer, *database.DB) {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: "", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db, zerolog.Nop()), db
}

func discogsFixture() []DiscogsRelease {
	return []DiscogsRelease{
		{
			ID: 5156,
			BasicInformation: DiscogsBasicInfo{
				Title:      "Landcruising",
				Year:       1995,
				CoverImage: "https://img.discogs.com/landcruising.jpg",
				Labels:     []DiscogsLabel{{Name: "Blanco Y Negro"}},
				Artists:    []DiscogsArtist{{Name: "Carl Craig"}},
				Genres:     []string{"Electronic"},
				Styles:     []string{"Techno"},
			},
			Tracklist: []DiscogsTracklist{
				{Position: "A1", Title: "Mind Of A Machine", Duration: "5:07"},
				{Position: "A2", Title: "Science Fiction", Duration: "6:12"},
			},
		},
		{
			// No tracklist, must be skipped whole.
			ID:               9999,
			BasicInformation: DiscogsBasicInfo{Title: "Empty Promo"},
		},
	}
}

func TestImportDiscogsReleases(t *testing.T) {
	imp, db := newTestImporter(t)
	ctx := context.Background()

	stats, err := imp.ImportDiscogsReleases(ctx, discogsFixture(), 1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Releases != 1 {
		t.Errorf("releases = %d, want 1", stats.Releases)
	}
	if stats.Tracks != 2 {
		t.Errorf("tracks = %d, want 2", stats.Tracks)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.Skipped)
	}
	if stats.SongsCreated != 2 {
		t.Errorf("songs created = %d, want 2", stats.SongsCreated)
	}

	owned, err := db.GetOwnedTrackIDs(ctx, 1)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("owned tracks = %d, want 2", len(owned))
	}

	track, err := db.GetTrack(ctx, owned[0])
	if err != nil {
		t.Fatalf("get track: %v", err)
	}
	if track.DurationSeconds != 5*60+7 {
		t.Errorf("duration = %d, want 307", track.DurationSeconds)
	}
	if track.SongID == 0 {
		t.Error("track not linked to a song")
	}

	release, err := db.GetRelease(ctx, track.ReleaseID)
	if err != nil {
		t.Fatalf("get release: %v", err)
	}
	if release.Label != "Blanco Y Negro" {
		t.Errorf("label = %q, want Blanco Y Negro", release.Label)
	}
	if release.OwnershipType != models.OwnershipVinyl {
		t.Errorf("ownership type = %q, want vinyl", release.OwnershipType)
	}
	if len(release.Styles) != 1 || release.Styles[0] != "Techno" {
		t.Errorf("styles = %v, want [Techno]", release.Styles)
	}
}

func TestImportDiscogsIdempotentOwnership(t *testing.T) {
	imp, db := newTestImporter(t)
	ctx := context.Background()

	if _, err := imp.ImportDiscogsReleases(ctx, discogsFixture(), 1); err != nil {
		t.Fatalf("first import: %v", err)
	}
	stats, err := imp.ImportDiscogsReleases(ctx, discogsFixture(), 1)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	// Re-imported tracks link to the songs the first run created.
	if stats.SongsCreated != 0 {
		t.Errorf("songs created on re-import = %d, want 0", stats.SongsCreated)
	}
	if stats.SongsLinked != 2 {
		t.Errorf("songs linked on re-import = %d, want 2", stats.SongsLinked)
	}

	owned, err := db.GetOwnedTrackIDs(ctx, 1)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	// Tracks duplicate across pressings but each is individually owned.
	if len(owned) != 4 {
		t.Errorf("owned tracks = %d, want 4", len(owned))
	}
}

const rekordboxXML = `<?xml version="1.0" encoding="UTF-8"?>
<DJ_PLAYLISTS Version="1.0.0">
  <COLLECTION Entries="3">
    <TRACK Name="Strings Of Life (Original Mix)" Artist="Rhythim Is Rhythim" Album="The Beginning" Genre="Techno" AverageBpm="127.00" Tonality="Am" TotalTime="422" Year="1987"/>
    <TRACK Name="Nude Photo" Artist="Rhythim Is Rhythim" Album="The Beginning" Genre="Techno" AverageBpm="122.00" Tonality="F#m" TotalTime="351" Year="1987"/>
    <TRACK Name="Loose Single" Artist="Somebody" Album="" Genre="House" AverageBpm="124.00" Tonality="3A" TotalTime="300" Year="2001"/>
  </COLLECTION>
</DJ_PLAYLISTS>`

func writeRekordboxFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rekordbox.xml")
	if err := os.WriteFile(path, []byte(rekordboxXML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestImportRekordbox(t *testing.T) {
	imp, db := newTestImporter(t)
	ctx := context.Background()

	stats, err := imp.ImportRekordbox(ctx, writeRekordboxFixture(t), 7)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Releases != 2 {
		t.Errorf("releases = %d, want 2 (album + loose single)", stats.Releases)
	}
	if stats.Tracks != 3 {
		t.Errorf("tracks = %d, want 3", stats.Tracks)
	}
	if stats.KeysResolved != 3 {
		t.Errorf("keys resolved = %d, want 3", stats.KeysResolved)
	}

	owned, err := db.GetOwnedTrackIDs(ctx, 7)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if len(owned) != 3 {
		t.Fatalf("owned tracks = %d, want 3", len(owned))
	}

	var sol *models.Track
	for _, id := range owned {
		tr, err := db.GetTrack(ctx, id)
		if err != nil {
			t.Fatalf("get track: %v", err)
		}
		if tr.Title == "Strings Of Life (Original Mix)" {
			sol = tr
		}
	}
	if sol == nil {
		t.Fatal("imported track not found")
	}
	if sol.CamelotKey != "8A" {
		t.Errorf("camelot key = %q, want 8A (from Am)", sol.CamelotKey)
	}
	if sol.BPM != 127 {
		t.Errorf("bpm = %v, want 127", sol.BPM)
	}

	release, err := db.GetRelease(ctx, sol.ReleaseID)
	if err != nil {
		t.Fatalf("get release: %v", err)
	}
	if release.Title != "The Beginning" {
		t.Errorf("release title = %q, want The Beginning", release.Title)
	}
	if release.OwnershipType != models.OwnershipDigital {
		t.Errorf("ownership type = %q, want digital", release.OwnershipType)
	}
	if release.Artist != "Rhythim Is Rhythim" {
		t.Errorf("release artist = %q", release.Artist)
	}
}

func TestSongLinkingAcrossSources(t *testing.T) {
	imp, _ := newTestImporter(t)
	ctx := context.Background()

	vinyl := []DiscogsRelease{{
		BasicInformation: DiscogsBasicInfo{
			Title:   "The Beginning",
			Artists: []DiscogsArtist{{Name: "Rhythim Is Rhythim"}},
		},
		Tracklist: []DiscogsTracklist{
			{Position: "A1", Title: "Strings Of Life", Duration: "7:02"},
		},
	}}
	if _, err := imp.ImportDiscogsReleases(ctx, vinyl, 1); err != nil {
		t.Fatalf("discogs import: %v", err)
	}

	digital := []RekordboxTrack{{
		Name:       "Strings Of Life (Original Mix)",
		Artist:     "Rhythim Is Rhythim",
		Album:      "The Beginning",
		AverageBpm: 127,
	}}
	stats, err := imp.ImportRekordboxTracks(ctx, digital, 1)
	if err != nil {
		t.Fatalf("rekordbox import: %v", err)
	}

	if stats.SongsLinked != 1 {
		t.Errorf("songs linked = %d, want 1 (same recording, different pressing)", stats.SongsLinked)
	}
	if stats.SongsCreated != 0 {
		t.Errorf("songs created = %d, want 0", stats.SongsCreated)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5:07", 307},
		{"0:45", 45},
		{"1:02:03", 3723},
		{"", 0},
		{"abc", 0},
		{" 3:30 ", 210},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in); got != tt.want {
			t.Errorf("parseDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Strings Of Life", "strings of life"},
		{"Strings Of Life (Original Mix)", "strings of life"},
		{"Strings Of Life [Remastered]", "strings of life"},
		{"Acid Phase - Original Mix", "acid phase"},
		{"  Padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlbumArtist(t *testing.T) {
	same := []RekordboxTrack{{Artist: "Derrick May"}, {Artist: "Derrick May"}}
	if got := albumArtist(same); got != "Derrick May" {
		t.Errorf("albumArtist(same) = %q", got)
	}
	mixed := []RekordboxTrack{{Artist: "Derrick May"}, {Artist: "Carl Craig"}}
	if got := albumArtist(mixed); got != "Various Artists" {
		t.Errorf("albumArtist(mixed) = %q", got)
	}
}
