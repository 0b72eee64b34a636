// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"fmt"
	"math"
)

// scoreBPM computes the tiered tempo-proximity score between the source and
// candidate tempos, plus a human-readable reason. Either tempo being absent
// (zero or negative) contributes zero score and no reason; a zero source
// tempo is treated as absent rather than dividing by it.
//
// The percentage difference is computed relative to the source tempo, so
// the score is asymmetric between the two tracks. Historical behavior,
// kept for parity.
func scoreBPM(cfg *BPMConfig, source, candidate float64) (float64, string) {
	if source <= 0 || candidate <= 0 {
		return 0, ""
	}

	pct := math.Abs(source-candidate) / source * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, ""
	}

	var score float64
	switch {
	case pct <= cfg.TightPct:
		score = cfg.TightScore
	case pct <= cfg.MidPct:
		score = cfg.MidScore
	case pct <= cfg.WidePct:
		score = cfg.WideScore
	default:
		return 0, ""
	}
	if score <= 0 {
		return 0, ""
	}

	reason := fmt.Sprintf("BPM match (%s vs %s, %.1f%% apart)",
		formatBPM(source), formatBPM(candidate), pct)
	return score, reason
}

// formatBPM renders a tempo without trailing zeros for whole values.
func formatBPM(bpm float64) string {
	if bpm == math.Trunc(bpm) {
		return fmt.Sprintf("%.0f", bpm)
	}
	return fmt.Sprintf("%.1f", bpm)
}
