// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"context"
	"sort"

	"github.com/fmorozzo/cratedigger/internal/models"
)

// candidatePool is the bounded, ordered evaluation set for one request.
// Priority candidates enter first, generic filler last, so the pool cap
// trims filler before it ever trims a priority candidate.
type candidatePool struct {
	ordered []int64
	seen    map[int64]struct{}

	// transition holds rank-1 bonuses: curated transitions with the
	// source, either direction.
	transition map[int64]float64

	// label holds rank-2 bonuses: owned tracks on releases sharing the
	// source's label.
	label map[int64]float64

	// artist holds rank-3 bonuses: owned tracks by the source's artist.
	// Applied only when the candidate sits on a different release.
	artist map[int64]float64

	// dropped marks candidates whose curated transitions with the source
	// all failed; the user has told us the mix does not work.
	dropped map[int64]struct{}
}

func newCandidatePool() *candidatePool {
	return &candidatePool{
		seen:       make(map[int64]struct{}),
		transition: make(map[int64]float64),
		label:      make(map[int64]float64),
		artist:     make(map[int64]float64),
		dropped:    make(map[int64]struct{}),
	}
}

// add appends a candidate id, skipping the source, duplicates, and anything
// beyond the cap. Returns false once the pool is full.
func (p *candidatePool) add(id, sourceID int64, limit int) bool {
	if len(p.ordered) >= limit {
		return false
	}
	if id == sourceID {
		return true
	}
	if _, dup := p.seen[id]; dup {
		return true
	}
	p.seen[id] = struct{}{}
	p.ordered = append(p.ordered, id)
	return true
}

// priorityBonus returns the relation-priority contribution and reason
// fragments for a candidate. Ranks are exclusive: a curated transition
// outranks label ownership, which outranks artist ownership. Rank 2 and 3
// carry no reason of their own; the affinity scorer produces the
// corresponding label/artist reason text.
func (p *candidatePool) priorityBonus(id int64, cand *models.Track, sourceReleaseID int64) (float64, []string) {
	if b, ok := p.transition[id]; ok {
		return b, []string{"You've mixed these before"}
	}
	if b, ok := p.label[id]; ok {
		return b, nil
	}
	if b, ok := p.artist[id]; ok && cand.ReleaseID != sourceReleaseID {
		return b, nil
	}
	return 0, nil
}

// buildCandidatePool assembles the evaluation pool for a request: rank-1
// transition partners, rank-2 label mates, rank-3 artist mates, then
// generic owned filler, capped at Limits.MaxCandidates. Every auxiliary
// lookup degrades to absence of that signal on failure; pool building
// itself never errors.
func (e *Engine) buildCandidatePool(ctx context.Context, req *Request, src *models.Track, srcFacts trackFacts) *candidatePool {
	pool := newCandidatePool()
	maxCandidates := e.config.Limits.MaxCandidates

	e.collectTransitionPartners(ctx, req, src, pool)
	partners := make([]int64, 0, len(pool.transition))
	for id := range pool.transition {
		partners = append(partners, id)
	}
	// Map order would make the capped subset vary between requests.
	sort.Slice(partners, func(i, j int) bool { return partners[i] < partners[j] })
	for _, id := range partners {
		if !pool.add(id, src.ID, maxCandidates) {
			break
		}
	}

	e.collectLabelMates(ctx, req, src, srcFacts, pool)
	e.collectArtistMates(ctx, req, src, srcFacts, pool)

	for _, id := range req.OwnedTrackIDs {
		if !pool.add(id, src.ID, maxCandidates) {
			break
		}
	}

	return pool
}

// collectTransitionPartners gathers rank-1 candidates from the user's
// curated transitions touching the source, in either direction. Partners
// whose transitions all failed are marked dropped instead.
func (e *Engine) collectTransitionPartners(ctx context.Context, req *Request, src *models.Track, pool *candidatePool) {
	transitions, err := e.provider.GetTransitions(ctx, req.UserID, src.ID)
	if err != nil {
		e.logger.Warn().Err(err).Int64("track_id", src.ID).Msg("transition lookup failed, skipping signal")
		return
	}

	failed := make(map[int64]struct{})
	for _, t := range transitions {
		other := t.ToTrackID
		if other == src.ID {
			other = t.FromTrackID
		}
		if other == src.ID {
			continue
		}

		if t.Worked {
			pool.transition[other] = e.config.Priority.TransitionBonus
		} else {
			failed[other] = struct{}{}
		}
	}

	if !e.config.Priority.DropFailedTransitions {
		return
	}
	for id := range failed {
		if _, alsoWorked := pool.transition[id]; !alsoWorked {
			pool.dropped[id] = struct{}{}
		}
	}
}

// collectLabelMates gathers rank-2 candidates: owned tracks on releases
// sharing the source's label.
func (e *Engine) collectLabelMates(ctx context.Context, req *Request, src *models.Track, srcFacts trackFacts, pool *candidatePool) {
	if srcFacts.Label == "" {
		return
	}

	ids, err := e.provider.GetOwnedTrackIDsByLabel(ctx, req.UserID, srcFacts.Label)
	if err != nil {
		e.logger.Warn().Err(err).Str("label", srcFacts.Label).Msg("label lookup failed, skipping signal")
		return
	}

	for _, id := range ids {
		if _, rank1 := pool.transition[id]; rank1 {
			continue
		}
		if !pool.add(id, src.ID, e.config.Limits.MaxCandidates) {
			return
		}
		pool.label[id] = e.config.Priority.SameLabelBonus
	}
}

// collectArtistMates gathers rank-3 candidates: owned tracks by the
// source's primary artist. The different-release requirement is enforced at
// scoring time, once the candidate's release is known.
func (e *Engine) collectArtistMates(ctx context.Context, req *Request, src *models.Track, srcFacts trackFacts, pool *candidatePool) {
	if srcFacts.Artist == "" {
		return
	}

	ids, err := e.provider.GetOwnedTrackIDsByArtist(ctx, req.UserID, srcFacts.Artist)
	if err != nil {
		e.logger.Warn().Err(err).Str("artist", srcFacts.Artist).Msg("artist lookup failed, skipping signal")
		return
	}

	for _, id := range ids {
		if _, rank1 := pool.transition[id]; rank1 {
			continue
		}
		if _, rank2 := pool.label[id]; rank2 {
			continue
		}
		if !pool.add(id, src.ID, e.config.Limits.MaxCandidates) {
			return
		}
		pool.artist[id] = e.config.Priority.SameArtistBonus
	}
}
