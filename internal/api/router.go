// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fmorozzo/cratedigger/internal/config"
	"github.com/fmorozzo/cratedigger/internal/database"
	"github.com/fmorozzo/cratedigger/internal/importer"
	"github.com/fmorozzo/cratedigger/internal/logging"
	"github.com/fmorozzo/cratedigger/internal/middleware"
	"github.com/fmorozzo/cratedigger/internal/recommend"
)

// Router wires handlers to their dependencies and builds the HTTP handler.
type Router struct {
	cfg          *config.Config
	db           *database.DB
	engine       *recommend.Engine
	mobileEngine *recommend.Engine
	importer     *importer.Importer
}

// NewRouter creates the router and both recommendation engines: the
// default profile and the reduced-weight mobile profile, selected per
// request via ?profile=mobile.
func NewRouter(cfg *config.Config, db *database.DB) (*Router, error) {
	logger := logging.Logger()

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		return nil, err
	}
	engine.SetDataProvider(db)

	mobileEngine, err := recommend.NewEngine(recommend.MobileProfile(), logger)
	if err != nil {
		return nil, err
	}
	mobileEngine.SetDataProvider(db)

	return &Router{
		cfg:          cfg,
		db:           db,
		engine:       engine,
		mobileEngine: mobileEngine,
		importer:     importer.New(db, logger),
	}, nil
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	// Prometheus scrape endpoint, outside the API rate limit.
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if !router.cfg.Server.RateLimitDisabled {
			r.Use(httprate.LimitByIP(router.cfg.Server.RateLimitReqs, router.cfg.Server.RateLimitWindow))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", router.Health)
		r.Get("/health/live", router.HealthLive)
		r.Get("/health/ready", router.HealthReady)

		r.Route("/tracks/{id}", func(r chi.Router) {
			r.Get("/", router.GetTrack)
			r.Patch("/", router.UpdateTrackMetadata)
			r.Get("/recommendations", router.GetRecommendations)
			r.Get("/transitions", router.ListTransitions)
			r.Post("/plays", router.RecordPlay)
		})

		r.Get("/recommendations/config", router.GetRecommendationConfig)

		r.Route("/releases", func(r chi.Router) {
			r.Get("/", router.ListReleases)
			r.Get("/{id}", router.GetRelease)
			r.Get("/{id}/tracks", router.ListReleaseTracks)
			r.Patch("/{id}/exclusion", router.SetReleaseExclusion)
		})

		r.Get("/collection", router.GetCollection)

		r.Route("/transitions", func(r chi.Router) {
			r.Post("/", router.CreateTransition)
			r.Delete("/{id}", router.DeleteTransition)
		})

		r.Get("/keys/{key}/compatible", router.GetCompatibleKeys)

		r.Route("/import", func(r chi.Router) {
			r.Post("/discogs", router.ImportDiscogs)
			r.Post("/rekordbox", router.ImportRekordbox)
		})
	})

	return r
}
