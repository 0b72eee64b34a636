// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

// Package camelot resolves musical keys to their harmonically compatible
// neighbors on the Camelot wheel.
//
// The wheel places the 12 minor keys ("A" mode) and 12 major keys ("B" mode)
// on positions 1-12. Mixing between the same position, a numerically adjacent
// position in the same mode, or the relative major/minor (same position,
// other mode) is harmonically smooth; adjacency wraps so position 1 neighbors
// position 12.
//
// Keys appear in collection data in two string forms: Camelot codes ("8A")
// and conventional key names ("Am", "F# Minor"). Both are parsed into the
// single canonical Key representation at the boundary; all compatibility
// arithmetic happens on Key, never on strings.
package camelot

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode identifies the side of the Camelot wheel a key sits on.
type Mode string

const (
	// Minor is the inner "A" ring of the wheel.
	Minor Mode = "A"
	// Major is the outer "B" ring of the wheel.
	Major Mode = "B"
)

// Key is the canonical representation of a wheel position.
type Key struct {
	// Position is the wheel position, 1-12.
	Position int
	// Mode is the wheel ring (Minor "A" or Major "B").
	Mode Mode
}

// String returns the Camelot code, e.g. "8A".
func (k Key) String() string {
	return fmt.Sprintf("%d%s", k.Position, string(k.Mode))
}

// relative returns the relative major/minor: same position, other mode.
func (k Key) relative() Key {
	other := Major
	if k.Mode == Major {
		other = Minor
	}
	return Key{Position: k.Position, Mode: other}
}

// step returns the key delta wheel positions away in the same mode.
// Adjacency wraps modulo 12: position 1 neighbors position 12.
func (k Key) step(delta int) Key {
	pos := ((k.Position-1+delta)%12+12)%12 + 1
	return Key{Position: pos, Mode: k.Mode}
}

// Compatible returns the harmonically compatible neighbor set of k:
// k itself, the two adjacent positions in the same mode, and the relative
// major/minor. The result always contains k and has at most 6 entries.
func (k Key) Compatible() []Key {
	return []Key{
		k,
		k.step(-1),
		k.step(+1),
		k.relative(),
	}
}

// noteToPosition maps a normalized root note to its wheel position per mode.
// Enharmonic spellings (F# / Gb) share a position.
var noteToPosition = map[string]struct{ minor, major int }{
	"C":  {5, 8},
	"C#": {12, 3},
	"DB": {12, 3},
	"D":  {7, 10},
	"D#": {2, 5},
	"EB": {2, 5},
	"E":  {9, 12},
	"F":  {4, 7},
	"F#": {11, 2},
	"GB": {11, 2},
	"G":  {6, 9},
	"G#": {1, 4},
	"AB": {1, 4},
	"A":  {8, 11},
	"A#": {3, 6},
	"BB": {3, 6},
	"B":  {10, 1},
}

// Parse converts a key descriptor into its canonical Key. Both Camelot codes
// ("8A", "12b") and conventional key names ("Am", "F# Minor", "Db maj") are
// accepted. Returns false when the descriptor is not a recognizable key;
// harmonic data is best-effort, so callers treat unrecognized keys as
// self-compatible rather than erroring.
func Parse(s string) (Key, bool) {
	norm := normalize(s)
	if norm == "" {
		return Key{}, false
	}

	if k, ok := parseCamelot(norm); ok {
		return k, true
	}
	return parseConventional(norm)
}

// normalize uppercases, trims, and rewrites unicode accidentals.
func normalize(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "♯", "#") // ♯
	s = strings.ReplaceAll(s, "♭", "B") // ♭
	return s
}

// parseCamelot parses codes like "8A" or "12B".
func parseCamelot(s string) (Key, bool) {
	if len(s) < 2 || len(s) > 3 {
		return Key{}, false
	}

	mode := Mode(s[len(s)-1:])
	if mode != Minor && mode != Major {
		return Key{}, false
	}

	pos, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || pos < 1 || pos > 12 {
		return Key{}, false
	}

	return Key{Position: pos, Mode: mode}, true
}

// parseConventional parses key names like "AM", "F# MINOR", "DBMAJ".
func parseConventional(s string) (Key, bool) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")

	minor := false
	switch {
	case strings.HasSuffix(s, "MINOR"):
		s, minor = strings.TrimSuffix(s, "MINOR"), true
	case strings.HasSuffix(s, "MAJOR"):
		s = strings.TrimSuffix(s, "MAJOR")
	case strings.HasSuffix(s, "MIN"):
		s, minor = strings.TrimSuffix(s, "MIN"), true
	case strings.HasSuffix(s, "MAJ"):
		s = strings.TrimSuffix(s, "MAJ")
	case strings.HasSuffix(s, "M") && len(s) > 1:
		// Trailing lowercase "m" (now uppercased) marks minor: "Am", "F#m".
		// A bare note letter like "B" never reaches here because len must
		// exceed the root note length.
		if root := s[:len(s)-1]; isRoot(root) {
			s, minor = root, true
		}
	}

	pair, ok := noteToPosition[s]
	if !ok {
		return Key{}, false
	}

	if minor {
		return Key{Position: pair.minor, Mode: Minor}, true
	}
	return Key{Position: pair.major, Mode: Major}, true
}

// isRoot reports whether s is a bare root note like "A" or "F#".
func isRoot(s string) bool {
	_, ok := noteToPosition[s]
	return ok
}

// CompatibleStrings returns the compatible key descriptors for the given
// descriptor as Camelot codes. Unrecognized descriptors return a
// single-element set containing just the input: self-compatible only,
// never an error.
func CompatibleStrings(s string) []string {
	k, ok := Parse(s)
	if !ok {
		return []string{s}
	}

	neighbors := k.Compatible()
	out := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, n.String())
	}
	return out
}

// IsCompatible reports whether two key descriptors are harmonically
// compatible: b parses to a member of a's compatible set. Two unparseable
// but identical descriptors are compatible with themselves only.
func IsCompatible(a, b string) bool {
	ka, okA := Parse(a)
	kb, okB := Parse(b)

	if !okA || !okB {
		return normalize(a) != "" && normalize(a) == normalize(b)
	}

	for _, n := range ka.Compatible() {
		if n == kb {
			return true
		}
	}
	return false
}
