// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package supervisor

import (
	"context"
	"time"

	"github.com/fmorozzo/cratedigger/internal/camelot"
	"github.com/fmorozzo/cratedigger/internal/config"
	"github.com/fmorozzo/cratedigger/internal/logging"
	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// EnrichmentStore is the slice of the database the enrichment worker
// needs: tracks whose key label never resolved to a Camelot code, and
// the update to fix them.
type EnrichmentStore interface {
	ListTracksMissingCamelot(ctx context.Context, limit int) ([]models.Track, error)
	UpdateTrackKey(ctx context.Context, id int64, keyLabel, camelotKey string) error
}

// EnrichmentService periodically resolves key labels to Camelot codes
// for tracks imported before the parser knew their notation, or touched
// by hand in the store. Runs one pass immediately on start, then on the
// configured interval.
type EnrichmentService struct {
	store EnrichmentStore
	cfg   config.EnrichmentConfig
}

// NewEnrichmentService creates the worker.
func NewEnrichmentService(store EnrichmentStore, cfg config.EnrichmentConfig) *EnrichmentService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &EnrichmentService{store: store, cfg: cfg}
}

// Serve implements suture.Service.
func (s *EnrichmentService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce resolves one batch. Failures are logged and retried on the
// next tick; the worker never crashes the tree over a bad row.
func (s *EnrichmentService) runOnce(ctx context.Context) {
	tracks, err := s.store.ListTracksMissingCamelot(ctx, s.cfg.BatchSize)
	if err != nil {
		if ctx.Err() == nil {
			logging.Warn().Err(err).Msg("Key enrichment pass failed to list tracks")
		}
		return
	}
	if len(tracks) == 0 {
		return
	}

	updated := 0
	for i := range tracks {
		track := &tracks[i]
		key, ok := camelot.Parse(track.KeyLabel)
		if !ok {
			continue
		}
		if err := s.store.UpdateTrackKey(ctx, track.ID, track.KeyLabel, key.String()); err != nil {
			logging.Warn().Err(err).Int64("track_id", track.ID).Msg("Failed to store resolved key")
			continue
		}
		updated++
	}

	metrics.RecordEnrichmentRun(updated)
	if updated > 0 {
		logging.Info().
			Int("scanned", len(tracks)).
			Int("updated", updated).
			Msg("Key enrichment pass complete")
	}
}

// String identifies the service in supervision logs.
func (s *EnrichmentService) String() string {
	return "key-enrichment"
}
