// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package models

import "time"

// OwnershipType distinguishes how a user acquired a track.
type OwnershipType string

const (
	// OwnershipVinyl indicates a track owned on a physical record.
	OwnershipVinyl OwnershipType = "vinyl"
	// OwnershipDigital indicates a track owned as a digital file.
	OwnershipDigital OwnershipType = "digital"
)

// Track is a playable unit: one cut on a release. A track is immutable once
// enriched except for metadata corrections (BPM/key backfill).
type Track struct {
	// ID is the unique track identifier.
	ID int64 `json:"id"`

	// Title is the track title.
	Title string `json:"title"`

	// BPM is the tempo in beats per minute. Zero means unknown.
	BPM float64 `json:"bpm,omitempty"`

	// KeyLabel is the free-form musical key as imported ("Am", "F# Minor").
	KeyLabel string `json:"key_label,omitempty"`

	// CamelotKey is the normalized Camelot wheel position ("8A").
	// Empty when the key is unknown or could not be normalized.
	CamelotKey string `json:"camelot_key,omitempty"`

	// DurationSeconds is the track length. Zero means unknown.
	DurationSeconds int `json:"duration_seconds,omitempty"`

	// ReleaseID is the owning release.
	ReleaseID int64 `json:"release_id"`

	// SongID is the canonical song this track is a pressing of.
	// Zero when the track has not been linked to a canonical song.
	SongID int64 `json:"song_id,omitempty"`

	// Position is the track position on the release ("A1", "3").
	Position string `json:"position,omitempty"`
}

// Release is a physical or digital album/EP. One release owns many tracks.
type Release struct {
	// ID is the unique release identifier.
	ID int64 `json:"id"`

	// Title is the release title.
	Title string `json:"title"`

	// Artist is the primary release artist.
	Artist string `json:"artist"`

	// Label is the record label. Empty when unknown.
	Label string `json:"label,omitempty"`

	// Year is the release year. Zero means unknown.
	Year int `json:"year,omitempty"`

	// Genres is the list of genre tags.
	Genres []string `json:"genres,omitempty"`

	// Styles is the list of style tags (finer-grained than genres).
	Styles []string `json:"styles,omitempty"`

	// CoverURL references the cover art image.
	CoverURL string `json:"cover_url,omitempty"`

	// OwnershipType flags the release as physical or digital.
	OwnershipType OwnershipType `json:"ownership_type,omitempty"`

	// RelationsExcluded marks the release as excluded from recommendation
	// consideration. Tracks on an excluded release never appear in results
	// and never enter the candidate pool.
	RelationsExcluded bool `json:"relations_excluded"`
}

// Song is a canonical musical work deduplicated across releases. The same
// song appearing on multiple pressings or digital copies references one Song.
type Song struct {
	// ID is the unique song identifier.
	ID int64 `json:"id"`

	// Title is the canonical song title.
	Title string `json:"title"`

	// Artist is the canonical song artist.
	Artist string `json:"artist"`

	// Genres is the list of genre tags. Used as a fallback when the
	// release-level tags are absent.
	Genres []string `json:"genres,omitempty"`
}

// OwnershipRecord links a user to a track they possess.
type OwnershipRecord struct {
	// UserID is the owning user.
	UserID int64 `json:"user_id"`

	// TrackID is the owned track.
	TrackID int64 `json:"track_id"`

	// Rating is the personal rating (0 = unrated, 1-5).
	Rating int `json:"rating,omitempty"`

	// PlayCount is the number of logged plays.
	PlayCount int `json:"play_count,omitempty"`

	// Source is how the track was acquired.
	Source OwnershipType `json:"source,omitempty"`

	// AddedAt is when the ownership record was created.
	AddedAt time.Time `json:"added_at"`
}

// Transition is a directed, user-curated edge from one owned track to
// another recording whether the mix worked. Transitions are the strongest
// recommendation signal and are weighted far above any heuristic score.
type Transition struct {
	// ID is the unique transition identifier.
	ID int64 `json:"id"`

	// UserID is the user who curated the transition.
	UserID int64 `json:"user_id"`

	// FromTrackID is the source track of the transition.
	FromTrackID int64 `json:"from_track_id"`

	// ToTrackID is the destination track of the transition.
	ToTrackID int64 `json:"to_track_id"`

	// Worked records whether the transition worked in a set.
	Worked bool `json:"worked"`

	// Rating is an optional numeric rating of the transition (0 = unrated).
	Rating int `json:"rating,omitempty"`

	// Note is free-text context ("big energy lift after the breakdown").
	Note string `json:"note,omitempty"`

	// CreatedAt is when the transition was recorded.
	CreatedAt time.Time `json:"created_at"`
}
