// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"context"
	"time"

	"github.com/fmorozzo/cratedigger/internal/models"
)

// Note: This package depends only on models and camelot to maintain clean
// separation. The DataProvider interface allows integration with the
// database package without creating circular imports.

// Request describes one recommendation query.
type Request struct {
	// UserID is the requesting user.
	UserID int64 `json:"user_id"`

	// SourceTrackID is the track to find mixing candidates for.
	SourceTrackID int64 `json:"source_track_id"`

	// OwnedTrackIDs is the user's owned-track universe. Fetching and
	// paginating this set is the caller's responsibility.
	OwnedTrackIDs []int64 `json:"-"`

	// K is the number of results to return.
	// Defaults to Config.Limits.DefaultK if zero.
	K int `json:"k,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Result is one scored, explained candidate. Results are ephemeral: they
// are computed per request and never persisted.
type Result struct {
	// TrackID identifies the recommended track.
	TrackID int64 `json:"track_id"`

	// Title is the track title.
	Title string `json:"title"`

	// Artist is the release's primary artist.
	Artist string `json:"artist,omitempty"`

	// Album is the owning release title.
	Album string `json:"album,omitempty"`

	// Label is the record label.
	Label string `json:"label,omitempty"`

	// Year is the release year. Zero means unknown.
	Year int `json:"year,omitempty"`

	// BPM is the candidate's tempo. Zero means unknown.
	BPM float64 `json:"bpm,omitempty"`

	// Key is the candidate's key for display (Camelot code when known).
	Key string `json:"key,omitempty"`

	// CoverURL references the release cover art.
	CoverURL string `json:"cover_url,omitempty"`

	// Score is the composite numeric score. Exposed for debugging and
	// testing; not necessarily shown to end users.
	Score float64 `json:"score"`

	// Reasons lists the individual human-readable reason fragments.
	Reasons []string `json:"reasons"`

	// Reason is the joined human-readable explanation.
	Reason string `json:"reason"`
}

// Response is the ranked result list for one request.
type Response struct {
	// Results is the ordered list of recommendations.
	Results []Result `json:"results"`

	// TotalCandidates is the number of candidates evaluated.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// SourceTrackID is the track the recommendations are for.
	SourceTrackID int64 `json:"source_track_id"`

	// LatencyMS is the total computation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// DataProvider defines the read-only snapshot interface the engine scores
// over. It is typically implemented by the database layer. The engine
// performs no writes and owns no I/O policy; batching, pagination, and
// retries live behind this interface.
type DataProvider interface {
	// GetTrack returns a track by id, or models.ErrNotFound.
	GetTrack(ctx context.Context, id int64) (*models.Track, error)

	// GetRelease returns a release by id, or models.ErrNotFound.
	GetRelease(ctx context.Context, id int64) (*models.Release, error)

	// GetSong returns a canonical song by id, or models.ErrNotFound.
	GetSong(ctx context.Context, id int64) (*models.Song, error)

	// GetTransitions returns the user's curated transitions touching the
	// given track, in either direction.
	GetTransitions(ctx context.Context, userID, trackID int64) ([]models.Transition, error)

	// GetOwnedTrackIDsByLabel returns ids of tracks the user owns on
	// releases carrying the given label.
	GetOwnedTrackIDsByLabel(ctx context.Context, userID int64, label string) ([]int64, error)

	// GetOwnedTrackIDsByArtist returns ids of tracks the user owns on
	// releases by the given primary artist.
	GetOwnedTrackIDsByArtist(ctx context.Context, userID int64, artist string) ([]int64, error)
}
