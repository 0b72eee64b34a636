// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"fmt"
)

// Config contains all scoring parameters for the recommendation engine.
// Every tier threshold and bonus value is a named field rather than a
// literal so that historical scoring variants are plain profiles of one
// engine.
type Config struct {
	// BPM contains the tempo-proximity tier bands.
	BPM BPMConfig `json:"bpm" koanf:"bpm"`

	// Key contains the harmonic-compatibility bonus.
	Key KeyConfig `json:"key" koanf:"key"`

	// Affinity contains label/artist/genre/year bonuses.
	Affinity AffinityConfig `json:"affinity" koanf:"affinity"`

	// Priority contains the relation-priority bonuses.
	Priority PriorityConfig `json:"priority" koanf:"priority"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// BPMConfig defines the tiered tempo-proximity bands. The percentage
// difference is computed relative to the source tempo. Bands must be
// monotonic: tighter bands score at least as high as wider ones, and the
// tightest band sits within the realistic DJ pitch-fader range (±6% is the
// canonical outer bound).
type BPMConfig struct {
	// TightPct is the tightest band in percent. Default: 3.
	TightPct float64 `json:"tight_pct" koanf:"tight_pct"`

	// MidPct is the middle band in percent. Default: 5.
	MidPct float64 `json:"mid_pct" koanf:"mid_pct"`

	// WidePct is the outermost band in percent. Beyond it the BPM
	// contribution is zero and a candidate with no other overlap is
	// excluded entirely. Default: 6, the pitch-fader bound.
	WidePct float64 `json:"wide_pct" koanf:"wide_pct"`

	// TightScore is awarded within TightPct. Default: 40.
	TightScore float64 `json:"tight_score" koanf:"tight_score"`

	// MidScore is awarded within MidPct. Default: 25.
	MidScore float64 `json:"mid_score" koanf:"mid_score"`

	// WideScore is awarded within WidePct. Default: 10.
	WideScore float64 `json:"wide_score" koanf:"wide_score"`
}

// KeyConfig defines the harmonic-compatibility bonus.
type KeyConfig struct {
	// MatchBonus is awarded when the source key is in the candidate
	// key's Camelot-compatible set. Default: 30.
	MatchBonus float64 `json:"match_bonus" koanf:"match_bonus"`
}

// AffinityConfig defines label/artist/genre/year bonuses. All bonuses are
// additive; nothing is normalized or capped here. Capping happens only at
// the aggregator via sort and truncate.
type AffinityConfig struct {
	// LabelBonus is awarded when both tracks share a label. Default: 25.
	LabelBonus float64 `json:"label_bonus" koanf:"label_bonus"`

	// LabelArtistStackBonus is awarded in addition to LabelBonus when the
	// tracks also share the primary artist. Default: 15.
	LabelArtistStackBonus float64 `json:"label_artist_stack_bonus" koanf:"label_artist_stack_bonus"`

	// ArtistBonus is awarded for a shared artist without a shared label.
	// Default: 20.
	ArtistBonus float64 `json:"artist_bonus" koanf:"artist_bonus"`

	// GenreTagBonus is awarded per overlapping genre tag, excluding tags
	// on the stoplist. Default: 5.
	GenreTagBonus float64 `json:"genre_tag_bonus" koanf:"genre_tag_bonus"`

	// GenreStoplist lists overly generic tags that would otherwise
	// dominate every comparison meaninglessly. Matching is
	// case-insensitive. Default: Electronic, Dance.
	GenreStoplist []string `json:"genre_stoplist" koanf:"genre_stoplist"`

	// YearExactBonus is awarded for an identical release year. Default: 10.
	YearExactBonus float64 `json:"year_exact_bonus" koanf:"year_exact_bonus"`

	// YearNearBonus is awarded when the years differ by at most
	// YearWindow. Default: 5.
	YearNearBonus float64 `json:"year_near_bonus" koanf:"year_near_bonus"`

	// YearWindow is the year-proximity window. Default: 2.
	YearWindow int `json:"year_window" koanf:"year_window"`
}

// PriorityConfig defines the relation-priority contributions. Transition
// bonuses must dwarf any heuristic score: a curated transition always
// outranks a candidate with only genre and year overlap.
type PriorityConfig struct {
	// TransitionBonus is awarded to any track that is the endpoint of a
	// transition with the source, in either direction, that worked.
	// Default: 100.
	TransitionBonus float64 `json:"transition_bonus" koanf:"transition_bonus"`

	// SameLabelBonus is the rank-2 contribution for owned tracks on
	// releases sharing the source's label. Default: 15.
	SameLabelBonus float64 `json:"same_label_bonus" koanf:"same_label_bonus"`

	// SameArtistBonus is the rank-3 contribution for owned tracks by the
	// source's artist on a different release. Default: 10.
	SameArtistBonus float64 `json:"same_artist_bonus" koanf:"same_artist_bonus"`

	// DropFailedTransitions removes candidates whose only curated
	// transition with the source is flagged as not having worked. The
	// user has already told us the mix fails. Default: true.
	DropFailedTransitions bool `json:"drop_failed_transitions" koanf:"drop_failed_transitions"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxCandidates caps the evaluation pool. Per-candidate scoring
	// costs auxiliary lookups, so this is a hard ceiling on work per
	// request, not a display limit. Default: 150.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// DefaultK is the result list size when a request does not set K.
	// Default: 20.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK bounds requested result sizes. Default: 50.
	MaxK int `json:"max_k" koanf:"max_k"`
}

// DefaultConfig returns the server scoring profile.
func DefaultConfig() *Config {
	return &Config{
		BPM: BPMConfig{
			TightPct:   3,
			MidPct:     5,
			WidePct:    6,
			TightScore: 40,
			MidScore:   25,
			WideScore:  10,
		},
		Key: KeyConfig{
			MatchBonus: 30,
		},
		Affinity: AffinityConfig{
			LabelBonus:            25,
			LabelArtistStackBonus: 15,
			ArtistBonus:           20,
			GenreTagBonus:         5,
			GenreStoplist:         []string{"Electronic", "Dance"},
			YearExactBonus:        10,
			YearNearBonus:         5,
			YearWindow:            2,
		},
		Priority: PriorityConfig{
			TransitionBonus:       100,
			SameLabelBonus:        15,
			SameArtistBonus:       10,
			DropFailedTransitions: true,
		},
		Limits: LimitsConfig{
			MaxCandidates: 150,
			DefaultK:      20,
			MaxK:          50,
		},
	}
}

// MobileProfile returns the scoring profile the mobile client helper
// historically used: a tighter top BPM band and flatter affinity points.
func MobileProfile() *Config {
	cfg := DefaultConfig()
	cfg.BPM = BPMConfig{
		TightPct:   3,
		MidPct:     5,
		WidePct:    6,
		TightScore: 30,
		MidScore:   20,
		WideScore:  5,
	}
	cfg.Key.MatchBonus = 25
	cfg.Affinity.LabelBonus = 20
	cfg.Affinity.LabelArtistStackBonus = 10
	cfg.Affinity.ArtistBonus = 15
	return cfg
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.BPM.TightPct <= 0 {
		return fmt.Errorf("bpm.tight_pct must be positive, got %f", c.BPM.TightPct)
	}
	if c.BPM.TightPct > 6 {
		return fmt.Errorf("bpm.tight_pct must be within the pitch-fader range (<= 6%%), got %f", c.BPM.TightPct)
	}
	if c.BPM.MidPct < c.BPM.TightPct {
		return fmt.Errorf("bpm.mid_pct must be >= bpm.tight_pct, got %f < %f", c.BPM.MidPct, c.BPM.TightPct)
	}
	if c.BPM.WidePct < c.BPM.MidPct {
		return fmt.Errorf("bpm.wide_pct must be >= bpm.mid_pct, got %f < %f", c.BPM.WidePct, c.BPM.MidPct)
	}
	if c.BPM.TightScore < c.BPM.MidScore || c.BPM.MidScore < c.BPM.WideScore {
		return fmt.Errorf("bpm scores must be monotonically non-increasing with band width, got %f/%f/%f",
			c.BPM.TightScore, c.BPM.MidScore, c.BPM.WideScore)
	}
	if c.BPM.WideScore < 0 {
		return fmt.Errorf("bpm.wide_score must be non-negative, got %f", c.BPM.WideScore)
	}

	if c.Key.MatchBonus < 0 {
		return fmt.Errorf("key.match_bonus must be non-negative, got %f", c.Key.MatchBonus)
	}

	for name, v := range map[string]float64{
		"affinity.label_bonus":              c.Affinity.LabelBonus,
		"affinity.label_artist_stack_bonus": c.Affinity.LabelArtistStackBonus,
		"affinity.artist_bonus":             c.Affinity.ArtistBonus,
		"affinity.genre_tag_bonus":          c.Affinity.GenreTagBonus,
		"affinity.year_exact_bonus":         c.Affinity.YearExactBonus,
		"affinity.year_near_bonus":          c.Affinity.YearNearBonus,
		"priority.same_label_bonus":         c.Priority.SameLabelBonus,
		"priority.same_artist_bonus":        c.Priority.SameArtistBonus,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}
	if c.Affinity.YearWindow < 0 {
		return fmt.Errorf("affinity.year_window must be non-negative, got %d", c.Affinity.YearWindow)
	}

	if c.Priority.TransitionBonus <= 0 {
		return fmt.Errorf("priority.transition_bonus must be positive, got %f", c.Priority.TransitionBonus)
	}

	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Affinity.GenreStoplist = append([]string(nil), c.Affinity.GenreStoplist...)
	return &clone
}
