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

// ListReleases handles GET /api/v1/releases.
// Supports limit/offset pagination bounded by the API configuration.
func (router *Router) ListReleases(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", router.cfg.API.DefaultPageSize)
	if limit < 1 {
		limit = router.cfg.API.DefaultPageSize
	}
	if limit > router.cfg.API.MaxPageSize {
		limit = router.cfg.API.MaxPageSize
	}
	offset := getIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	releases, err := router.db.ListReleases(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list releases", err)
		return
	}
	if releases == nil {
		releases = []models.Release{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"releases": releases,
		"count":    len(releases),
		"limit":    limit,
		"offset":   offset,
	})
}

// GetRelease handles GET /api/v1/releases/{id}.
func (router *Router) GetRelease(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_RELEASE_ID", "Invalid release ID", err)
		return
	}

	release, err := router.db.GetRelease(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "RELEASE_NOT_FOUND", "Release not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load release", err)
		return
	}

	respondSuccess(w, http.StatusOK, release)
}

// ListReleaseTracks handles GET /api/v1/releases/{id}/tracks.
func (router *Router) ListReleaseTracks(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_RELEASE_ID", "Invalid release ID", err)
		return
	}

	tracks, err := router.db.ListTracksByRelease(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list tracks", err)
		return
	}
	if tracks == nil {
		tracks = []models.Track{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// exclusionRequest toggles a release's exclusion from relation-based
// recommendation sourcing.
type exclusionRequest struct {
	Excluded *bool `json:"excluded" validate:"required"`
}

// SetReleaseExclusion handles PATCH /api/v1/releases/{id}/exclusion.
// Excluded releases keep their tracks but never surface through label or
// artist relations.
func (router *Router) SetReleaseExclusion(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_RELEASE_ID", "Invalid release ID", err)
		return
	}

	var req exclusionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if err := router.db.SetRelationsExcluded(r.Context(), id, *req.Excluded); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "RELEASE_NOT_FOUND", "Release not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update release", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"release_id": id,
		"excluded":   *req.Excluded,
	})
}
