// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package models

import "errors"

// Sentinel errors shared across the store and API layers.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwned indicates a transition endpoint is not owned by the
	// issuing user. Both endpoints of a transition must be owned tracks.
	ErrNotOwned = errors.New("track not owned by user")
)
