// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fmorozzo/cratedigger/internal/camelot"
)

// GetCompatibleKeys handles GET /api/v1/keys/{key}/compatible.
// Resolves a key descriptor to its harmonically compatible Camelot set.
// Unrecognized descriptors are self-compatible rather than an error, so
// key data of any quality can be queried.
func (router *Router) GetCompatibleKeys(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "key")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "INVALID_KEY", "Key is required", nil)
		return
	}

	resolved := ""
	if k, ok := camelot.Parse(raw); ok {
		resolved = k.String()
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"key":        raw,
		"resolved":   resolved,
		"compatible": camelot.CompatibleStrings(raw),
	})
}
