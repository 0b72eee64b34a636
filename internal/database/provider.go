// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package database

import (
	"github.com/fmorozzo/cratedigger/internal/recommend"
)

// DB satisfies recommend.DataProvider: the engine scores directly over the
// store.
var _ recommend.DataProvider = (*DB)(nil)
