// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package metrics provides Prometheus instrumentation for the server.
//
// Collectors are registered with promauto on the default registry and
// exposed by the API's /metrics handler. Recording helpers keep call sites
// one-liners and consistent about label values:
//
//	defer func(start time.Time) {
//	    metrics.RecordDBQuery("select", "tracks", time.Since(start), err)
//	}(time.Now())
//
// Label cardinality is deliberately small: endpoints use chi route
// patterns rather than raw URLs, and outcomes are fixed enumerations.
package metrics
