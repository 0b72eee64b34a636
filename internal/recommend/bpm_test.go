// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"math"
	"strings"
	"testing"
)

func TestScoreBPMTiers(t *testing.T) {
	cfg := &DefaultConfig().BPM

	tests := []struct {
		name      string
		source    float64
		candidate float64
		want      float64
	}{
		{"identical", 128, 128, 40},
		{"within tight band", 128, 130, 40},
		{"exactly tight boundary", 100, 103, 40},
		{"within mid band", 100, 104, 25},
		{"exactly mid boundary", 100, 105, 25},
		{"within wide band", 100, 105.5, 10},
		{"exactly wide boundary", 100, 106, 10},
		{"beyond wide band", 100, 107, 0},
		{"beyond pitch-fader range", 128, 140, 0},
		{"slower candidate tight", 130, 127, 40},
		{"far apart", 128, 90, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := scoreBPM(cfg, tt.source, tt.candidate)
			if got != tt.want {
				t.Errorf("scoreBPM(%f, %f) = %f, want %f", tt.source, tt.candidate, got, tt.want)
			}
			if tt.want > 0 && reason == "" {
				t.Errorf("positive score should carry a reason")
			}
			if tt.want == 0 && reason != "" {
				t.Errorf("zero score should not carry a reason, got %q", reason)
			}
		})
	}
}

func TestScoreBPMUnknownTempo(t *testing.T) {
	cfg := &DefaultConfig().BPM

	for _, pair := range [][2]float64{{0, 128}, {128, 0}, {0, 0}, {-5, 128}} {
		if got, reason := scoreBPM(cfg, pair[0], pair[1]); got != 0 || reason != "" {
			t.Errorf("scoreBPM(%f, %f) = (%f, %q), want zero contribution", pair[0], pair[1], got, reason)
		}
	}
}

// The percentage is computed relative to the source, so swapping the two
// tempos can change the band. 100 vs 106 is 6.0% from the source side but
// 5.7% from the other; both still land in the wide band here, while 100 vs
// 94 sits exactly on the wide edge one way and beyond it the other.
func TestScoreBPMSourceRelative(t *testing.T) {
	cfg := &DefaultConfig().BPM

	forward, _ := scoreBPM(cfg, 100, 106)
	if forward != 10 {
		t.Fatalf("scoreBPM(100, 106) = %f, want 10", forward)
	}
	backward, _ := scoreBPM(cfg, 106, 100)
	if backward != 10 {
		t.Fatalf("scoreBPM(106, 100) = %f, want 10", backward)
	}

	// 100 vs 94: 6% from 100 but 6.4% from 94. Asymmetry flips the band.
	forward, _ = scoreBPM(cfg, 100, 94)
	if forward != 10 {
		t.Errorf("scoreBPM(100, 94) = %f, want 10", forward)
	}
	backward, _ = scoreBPM(cfg, 94, 100)
	if backward != 0 {
		t.Errorf("scoreBPM(94, 100) = %f, want 0", backward)
	}
}

func TestScoreBPMReasonFormat(t *testing.T) {
	cfg := &DefaultConfig().BPM

	_, reason := scoreBPM(cfg, 128, 130)
	if !strings.Contains(reason, "128") || !strings.Contains(reason, "130") {
		t.Errorf("reason should mention both tempos, got %q", reason)
	}
	if !strings.Contains(reason, "%") {
		t.Errorf("reason should mention the percentage difference, got %q", reason)
	}

	_, reason = scoreBPM(cfg, 127.5, 128)
	if !strings.Contains(reason, "127.5") {
		t.Errorf("fractional tempo should keep one decimal, got %q", reason)
	}
}

func TestScoreBPMNeverNaN(t *testing.T) {
	cfg := &DefaultConfig().BPM

	for _, pair := range [][2]float64{
		{math.NaN(), 128},
		{128, math.NaN()},
		{math.Inf(1), 128},
		{128, math.Inf(1)},
	} {
		got, _ := scoreBPM(cfg, pair[0], pair[1])
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("scoreBPM(%f, %f) produced non-finite score %f", pair[0], pair[1], got)
		}
	}
}
