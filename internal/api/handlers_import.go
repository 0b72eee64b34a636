// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"net/http"

	"github.com/fmorozzo/cratedigger/internal/importer"
)

// ImportDiscogs handles POST /api/v1/import/discogs.
// Fetches the configured Discogs collection and imports it as vinyl
// ownership for the acting user. Runs synchronously; collections of a
// few thousand releases import in seconds.
func (router *Router) ImportDiscogs(w http.ResponseWriter, r *http.Request) {
	if !router.cfg.Discogs.Enabled {
		respondError(w, http.StatusConflict, "IMPORT_DISABLED", "Discogs import is not configured", nil)
		return
	}

	client := importer.NewDiscogsClient(&router.cfg.Discogs)
	stats, err := router.importer.ImportDiscogs(r.Context(), client, userIDFromRequest(r))
	if err != nil {
		respondError(w, http.StatusBadGateway, "IMPORT_FAILED", "Discogs import failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, stats)
}

// rekordboxImportRequest optionally overrides the configured library path.
type rekordboxImportRequest struct {
	Path string `json:"path" validate:"omitempty,max=4096"`
}

// ImportRekordbox handles POST /api/v1/import/rekordbox.
// Reads a Rekordbox XML export and imports it as digital ownership.
func (router *Router) ImportRekordbox(w http.ResponseWriter, r *http.Request) {
	path := router.cfg.Rekordbox.LibraryPath
	if r.ContentLength > 0 {
		var req rekordboxImportRequest
		if err := decodeJSONBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
			return
		}
		if apiErr := validateRequest(&req); apiErr != nil {
			respondValidationError(w, apiErr)
			return
		}
		if req.Path != "" {
			path = req.Path
		}
	}

	if path == "" {
		respondError(w, http.StatusConflict, "IMPORT_DISABLED", "No Rekordbox library path configured", nil)
		return
	}

	stats, err := router.importer.ImportRekordbox(r.Context(), path, userIDFromRequest(r))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "IMPORT_FAILED", "Rekordbox import failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, stats)
}
