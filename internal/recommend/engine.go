// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fmorozzo/cratedigger/internal/camelot"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// Engine computes ranked mixing recommendations. It holds no mutable state
// across requests and is safe for concurrent use once configured.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider
}

// NewEngine creates a recommendation engine with the given scoring profile.
// A nil config selects DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetDataProvider sets the data provider the engine reads snapshots from.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.provider = dp
}

// GetConfig returns a copy of the current scoring profile.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Recommend computes the ranked, deduplicated, explained recommendation
// list for one (source track, user) pair.
//
// A source track that does not exist yields an empty response, not an
// error. Only a hard provider failure while loading the source propagates;
// all candidate-level and auxiliary failures degrade to zero contributions.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int64("user_id", req.UserID).
		Int64("source_track_id", req.SourceTrackID).
		Logger()
	logger.Debug().Int("owned", len(req.OwnedTrackIDs)).Msg("processing recommendation request")

	if e.provider == nil {
		return nil, fmt.Errorf("data provider not set")
	}

	src, err := e.provider.GetTrack(ctx, req.SourceTrackID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logger.Debug().Msg("source track not found")
			return e.emptyResponse(req, start), nil
		}
		return nil, fmt.Errorf("get source track: %w", err)
	}

	srcFacts, srcKey := e.sourceContext(ctx, src)
	pool := e.buildCandidatePool(ctx, &req, src, srcFacts)

	results := e.scoreCandidates(ctx, &req, src, srcFacts, srcKey, pool, logger)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].TrackID < results[j].TrackID
	})
	if len(results) > req.K {
		results = results[:req.K]
	}

	resp := &Response{
		Results:         results,
		TotalCandidates: len(pool.ordered),
		Metadata: ResponseMetadata{
			RequestID:     req.RequestID,
			SourceTrackID: req.SourceTrackID,
			LatencyMS:     time.Since(start).Milliseconds(),
			Timestamp:     time.Now(),
		},
	}

	logger.Debug().
		Int("candidates", len(pool.ordered)).
		Int("returned", len(results)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("rec-%d", time.Now().UnixNano())
	}

	if req.K <= 0 {
		req.K = e.config.Limits.DefaultK
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}

	return req
}

// sourceContext loads the source track's release and song context, with
// every lookup degrading to absence on failure, and resolves the source's
// key descriptor.
func (e *Engine) sourceContext(ctx context.Context, src *models.Track) (trackFacts, string) {
	release := e.fetchRelease(ctx, src.ReleaseID)
	song := e.fetchSong(ctx, src.SongID)
	return buildFacts(release, song), trackKey(src)
}

// scoreCandidates evaluates every pooled candidate and returns the retained
// results, unordered. Candidates on relations-excluded releases, candidates
// the user has flagged as failed transitions, and silent zero-score
// candidates are all dropped.
func (e *Engine) scoreCandidates(ctx context.Context, req *Request, src *models.Track, srcFacts trackFacts, srcKey string, pool *candidatePool, logger zerolog.Logger) []Result {
	results := make([]Result, 0, len(pool.ordered))

	for _, id := range pool.ordered {
		if _, dropped := pool.dropped[id]; dropped {
			continue
		}

		cand, err := e.provider.GetTrack(ctx, id)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				logger.Warn().Err(err).Int64("candidate_id", id).Msg("candidate fetch failed, skipping")
			}
			continue
		}

		release := e.fetchRelease(ctx, cand.ReleaseID)
		if release != nil && release.RelationsExcluded {
			continue
		}
		song := e.fetchSong(ctx, cand.SongID)

		if result, ok := e.scoreCandidate(src, srcFacts, srcKey, cand, release, song, pool); ok {
			results = append(results, result)
		}
	}

	return results
}

// scoreCandidate accumulates all four signals for one candidate. Returns
// false when the candidate scores zero or earns no reason; such candidates
// are dropped, not returned with score 0.
func (e *Engine) scoreCandidate(src *models.Track, srcFacts trackFacts, srcKey string, cand *models.Track, release *models.Release, song *models.Song, pool *candidatePool) (Result, bool) {
	var (
		score   float64
		reasons []string
	)

	priority, priorityReasons := pool.priorityBonus(cand.ID, cand, src.ReleaseID)
	score += priority
	reasons = append(reasons, priorityReasons...)

	bpmScore, bpmReason := scoreBPM(&e.config.BPM, src.BPM, cand.BPM)
	score += bpmScore
	if bpmReason != "" {
		reasons = append(reasons, bpmReason)
	}

	candKey := trackKey(cand)
	if srcKey != "" && candKey != "" && camelot.IsCompatible(candKey, srcKey) {
		score += e.config.Key.MatchBonus
		reasons = append(reasons, fmt.Sprintf("Harmonic key match (%s → %s)", srcKey, candKey))
	}

	affinity, affinityReasons := scoreAffinity(&e.config.Affinity, srcFacts, buildFacts(release, song))
	score += affinity
	reasons = append(reasons, affinityReasons...)

	// Malformed inputs must never crash scoring; drop the candidate and
	// let tests catch the invariant violation.
	if math.IsNaN(score) || math.IsInf(score, 0) || score <= 0 || len(reasons) == 0 {
		return Result{}, false
	}

	result := Result{
		TrackID: cand.ID,
		Title:   cand.Title,
		BPM:     cand.BPM,
		Key:     candKey,
		Score:   score,
		Reasons: reasons,
		Reason:  strings.Join(reasons, "; "),
	}
	if release != nil {
		result.Artist = release.Artist
		result.Album = release.Title
		result.Label = release.Label
		result.Year = release.Year
		result.CoverURL = release.CoverURL
	}
	if result.Artist == "" && song != nil {
		result.Artist = song.Artist
	}

	return result, true
}

// fetchRelease loads a release, degrading to nil on any failure.
func (e *Engine) fetchRelease(ctx context.Context, id int64) *models.Release {
	if id == 0 {
		return nil
	}
	release, err := e.provider.GetRelease(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			e.logger.Warn().Err(err).Int64("release_id", id).Msg("release fetch failed, degrading")
		}
		return nil
	}
	return release
}

// fetchSong loads a canonical song, degrading to nil on any failure.
func (e *Engine) fetchSong(ctx context.Context, id int64) *models.Song {
	if id == 0 {
		return nil
	}
	song, err := e.provider.GetSong(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			e.logger.Warn().Err(err).Int64("song_id", id).Msg("song fetch failed, degrading")
		}
		return nil
	}
	return song
}

// emptyResponse returns an empty response for a missing source track.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Results:         []Result{},
		TotalCandidates: 0,
		Metadata: ResponseMetadata{
			RequestID:     req.RequestID,
			SourceTrackID: req.SourceTrackID,
			LatencyMS:     time.Since(start).Milliseconds(),
			Timestamp:     time.Now(),
		},
	}
}

// trackKey resolves a track's key descriptor for scoring and display:
// the normalized Camelot code when present, the raw label otherwise.
func trackKey(t *models.Track) string {
	if t.CamelotKey != "" {
		return t.CamelotKey
	}
	return t.KeyLabel
}
