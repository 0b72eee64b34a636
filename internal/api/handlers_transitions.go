// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"errors"
	"net/http"

	"github.com/fmorozzo/cratedigger/internal/models"
)

// transitionRequest is the body for logging a curated transition.
type transitionRequest struct {
	FromTrackID int64  `json:"from_track_id" validate:"required,gt=0"`
	ToTrackID   int64  `json:"to_track_id" validate:"required,gt=0,nefield=FromTrackID"`
	Worked      *bool  `json:"worked"`
	Rating      int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Note        string `json:"note" validate:"omitempty,max=1000"`
}

// CreateTransition handles POST /api/v1/transitions.
// Both endpoints must be in the user's collection.
func (router *Router) CreateTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	worked := true
	if req.Worked != nil {
		worked = *req.Worked
	}

	transition := &models.Transition{
		UserID:      userIDFromRequest(r),
		FromTrackID: req.FromTrackID,
		ToTrackID:   req.ToTrackID,
		Worked:      worked,
		Rating:      req.Rating,
		Note:        req.Note,
	}

	if err := router.db.InsertTransition(r.Context(), transition); err != nil {
		if errors.Is(err, models.ErrNotOwned) {
			respondError(w, http.StatusConflict, "TRACK_NOT_OWNED", "Both tracks must be in the collection", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save transition", err)
		return
	}

	respondSuccess(w, http.StatusCreated, transition)
}

// ListTransitions handles GET /api/v1/tracks/{id}/transitions.
// Returns the user's transitions touching the track in either direction.
func (router *Router) ListTransitions(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TRACK_ID", "Invalid track ID", err)
		return
	}
	userID := userIDFromRequest(r)

	transitions, err := router.db.GetTransitions(r.Context(), userID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list transitions", err)
		return
	}
	if transitions == nil {
		transitions = []models.Transition{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"transitions": transitions,
		"count":       len(transitions),
	})
}

// DeleteTransition handles DELETE /api/v1/transitions/{id}.
// Only the owning user's transitions are deletable.
func (router *Router) DeleteTransition(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_TRANSITION_ID", "Invalid transition ID", err)
		return
	}
	userID := userIDFromRequest(r)

	if err := router.db.DeleteTransition(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "TRANSITION_NOT_FOUND", "Transition not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete transition", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"transition_id": id,
	})
}
