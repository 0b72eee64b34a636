// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"errors"
	"net/http"

	"github.com/fmorozzo/cratedigger/internal/camelot"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// GetTrack handles GET /api/v1/tracks/{id}.
func (router *Router) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TRACK_ID", "Invalid track ID", err)
		return
	}

	track, err := router.db.GetTrack(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "TRACK_NOT_FOUND", "Track not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load track", err)
		return
	}

	respondSuccess(w, http.StatusOK, track)
}

// trackMetadataRequest carries a manual metadata correction. Both fields
// are optional but at least one must be present; a key must resolve on the
// Camelot wheel so corrections cannot make key data worse.
type trackMetadataRequest struct {
	BPM float64 `json:"bpm" validate:"omitempty,gt=0,lt=1000"`
	Key string  `json:"key" validate:"omitempty,camelot"`
}

// UpdateTrackMetadata handles PATCH /api/v1/tracks/{id}.
// Manual BPM/key tagging for tracks the import left incomplete.
func (router *Router) UpdateTrackMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TRACK_ID", "Invalid track ID", err)
		return
	}

	var req trackMetadataRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_BODY", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if req.BPM == 0 && req.Key == "" {
		respondError(w, http.StatusBadRequest, "EMPTY_UPDATE", "Provide a bpm or a key to update", nil)
		return
	}

	if req.BPM > 0 {
		if err := router.db.UpdateTrackBPM(r.Context(), id, req.BPM); err != nil {
			respondTrackUpdateError(w, err)
			return
		}
	}
	if req.Key != "" {
		key, _ := camelot.Parse(req.Key)
		if err := router.db.UpdateTrackKey(r.Context(), id, req.Key, key.String()); err != nil {
			respondTrackUpdateError(w, err)
			return
		}
	}

	track, err := router.db.GetTrack(r.Context(), id)
	if err != nil {
		respondTrackUpdateError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, track)
}

func respondTrackUpdateError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, "TRACK_NOT_FOUND", "Track not found", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update track", err)
}

// RecordPlay handles POST /api/v1/tracks/{id}/plays.
// Increments the acting user's play count for an owned track.
func (router *Router) RecordPlay(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TRACK_ID", "Invalid track ID", err)
		return
	}
	userID := userIDFromRequest(r)

	if err := router.db.IncrementPlayCount(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "TRACK_NOT_OWNED", "Track is not in the user's collection", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record play", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"track_id": id,
		"user_id":  userID,
	})
}
