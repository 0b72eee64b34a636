// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"net/http"
)

// GetCollection handles GET /api/v1/collection.
// Returns the IDs of every track the acting user owns, across vinyl and
// digital sources.
func (router *Router) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	ids, err := router.db.GetOwnedTrackIDs(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load collection", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"track_ids": ids,
		"count":     len(ids),
	})
}
