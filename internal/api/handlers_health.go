// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"net/http"
)

// Health handles GET /api/v1/health.
// Reports overall service health including database reachability.
func (router *Router) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK

	if err := router.db.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
	}

	respondSuccess(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

// HealthLive handles GET /api/v1/health/live.
// Liveness probe: the process is up and serving requests.
func (router *Router) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready.
// Readiness probe: the service can reach its datastore.
func (router *Router) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := router.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database is unreachable", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
