// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fmorozzo/cratedigger/internal/logging"
	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
	"github.com/fmorozzo/cratedigger/internal/recommend"
)

// recommendTimeout bounds one recommendation computation.
const recommendTimeout = 10 * time.Second

// recommendQuery carries the validated query parameters of a
// recommendation request.
type recommendQuery struct {
	K       int    `validate:"omitempty,min=1,max=50"`
	Profile string `validate:"omitempty,oneof=default mobile"`
}

// GetRecommendations handles GET /api/v1/tracks/{id}/recommendations.
// Scores the user's owned tracks against the source track and returns
// the ranked, explained top K.
func (router *Router) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TRACK_ID", "Invalid track ID", err)
		return
	}

	query := recommendQuery{
		K:       getIntParam(r, "k", 0),
		Profile: r.URL.Query().Get("profile"),
	}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	engine := router.engine
	if query.Profile == "mobile" {
		engine = router.mobileEngine
	}

	userID := userIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	owned, err := router.db.GetOwnedTrackIDs(ctx, userID)
	if err != nil {
		metrics.RecordRecommendation("error", 0, time.Since(start))
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load collection", err)
		return
	}

	req := recommend.Request{
		UserID:        userID,
		SourceTrackID: id,
		OwnedTrackIDs: owned,
		K:             query.K,
		RequestID:     logging.RequestIDFromContext(r.Context()),
	}

	resp, err := engine.Recommend(ctx, req)
	if err != nil {
		metrics.RecordRecommendation("error", 0, time.Since(start))
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}

	outcome := "ok"
	if len(resp.Results) == 0 {
		outcome = "empty"
	}
	metrics.RecordRecommendation(outcome, resp.TotalCandidates, time.Since(start))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: resp.Metadata.LatencyMS,
		},
	})
}

// recommendConfigQuery selects which scoring profile to dump.
type recommendConfigQuery struct {
	Profile string `validate:"omitempty,oneof=default mobile"`
}

// GetRecommendationConfig handles GET /api/v1/recommendations/config.
// Exposes the active scoring profile for debugging and client display.
func (router *Router) GetRecommendationConfig(w http.ResponseWriter, r *http.Request) {
	query := recommendConfigQuery{
		Profile: r.URL.Query().Get("profile"),
	}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	engine := router.engine
	profile := "default"
	if query.Profile == "mobile" {
		engine = router.mobileEngine
		profile = "mobile"
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"config":  engine.GetConfig(),
	})
}
