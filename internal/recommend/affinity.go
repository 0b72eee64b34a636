// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"fmt"
	"strings"

	"github.com/fmorozzo/cratedigger/internal/models"
)

// trackFacts is the flattened metadata a track is scored on: release-level
// fields with song-level fallback for artist and genres. Absent fields stay
// zero-valued and every sub-rule no-ops on them.
type trackFacts struct {
	Label  string
	Artist string
	Genres []string
	Year   int
}

// buildFacts flattens a release and optional canonical song into scoring
// facts. Either input may be nil.
func buildFacts(release *models.Release, song *models.Song) trackFacts {
	var f trackFacts

	if release != nil {
		f.Label = release.Label
		f.Artist = release.Artist
		f.Year = release.Year
		f.Genres = append(f.Genres, release.Genres...)
		f.Genres = append(f.Genres, release.Styles...)
	}

	if song != nil {
		if f.Artist == "" {
			f.Artist = song.Artist
		}
		if len(f.Genres) == 0 {
			f.Genres = append(f.Genres, song.Genres...)
		}
	}

	return f
}

// scoreAffinity computes the additive label/artist/genre/year affinity
// between the source and candidate facts, plus reason fragments. Bonuses
// compose: a shared label and a shared artist stack on top of each other.
// Nothing is normalized or capped here.
func scoreAffinity(cfg *AffinityConfig, src, cand trackFacts) (float64, []string) {
	var (
		score   float64
		reasons []string
	)

	sameLabel := src.Label != "" && strings.EqualFold(src.Label, cand.Label)
	sameArtist := src.Artist != "" && strings.EqualFold(src.Artist, cand.Artist)

	if sameLabel {
		score += cfg.LabelBonus
		reasons = append(reasons, fmt.Sprintf("Same label (%s)", src.Label))
	}

	if sameArtist {
		if sameLabel {
			score += cfg.LabelArtistStackBonus
		} else {
			score += cfg.ArtistBonus
		}
		reasons = append(reasons, fmt.Sprintf("Same artist (%s)", src.Artist))
	}

	if shared := sharedGenres(cfg.GenreStoplist, src.Genres, cand.Genres); len(shared) > 0 {
		score += float64(len(shared)) * cfg.GenreTagBonus
		reasons = append(reasons, fmt.Sprintf("Shared genres: %s", strings.Join(shared, ", ")))
	}

	if src.Year != 0 && cand.Year != 0 {
		diff := src.Year - cand.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			score += cfg.YearExactBonus
			reasons = append(reasons, fmt.Sprintf("Same year (%d)", src.Year))
		case diff <= cfg.YearWindow:
			score += cfg.YearNearBonus
			reasons = append(reasons, fmt.Sprintf("Released %d years apart", diff))
		}
	}

	return score, reasons
}

// sharedGenres returns the case-insensitive intersection of two genre-tag
// lists, excluding stoplisted tags and preserving the source-side ordering
// and spelling. Duplicate tags count once.
func sharedGenres(stoplist, src, cand []string) []string {
	if len(src) == 0 || len(cand) == 0 {
		return nil
	}

	stop := make(map[string]struct{}, len(stoplist))
	for _, tag := range stoplist {
		stop[strings.ToLower(tag)] = struct{}{}
	}

	candSet := make(map[string]struct{}, len(cand))
	for _, tag := range cand {
		candSet[strings.ToLower(tag)] = struct{}{}
	}

	var shared []string
	seen := make(map[string]struct{}, len(src))
	for _, tag := range src {
		lower := strings.ToLower(tag)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}

		if _, stopped := stop[lower]; stopped {
			continue
		}
		if _, ok := candSet[lower]; ok {
			shared = append(shared, tag)
		}
	}
	return shared
}
