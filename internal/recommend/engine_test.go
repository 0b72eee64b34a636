// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package recommend

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fmorozzo/cratedigger/internal/models"
)

// mockProvider is an in-memory DataProvider for engine tests.
type mockProvider struct {
	tracks      map[int64]*models.Track
	releases    map[int64]*models.Release
	songs       map[int64]*models.Song
	transitions []models.Transition
	byLabel     map[string][]int64
	byArtist    map[string][]int64

	trackErr      error
	transitionErr error
	labelErr      error
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		tracks:   make(map[int64]*models.Track),
		releases: make(map[int64]*models.Release),
		songs:    make(map[int64]*models.Song),
		byLabel:  make(map[string][]int64),
		byArtist: make(map[string][]int64),
	}
}

func (m *mockProvider) GetTrack(_ context.Context, id int64) (*models.Track, error) {
	if m.trackErr != nil {
		return nil, m.trackErr
	}
	t, ok := m.tracks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return t, nil
}

func (m *mockProvider) GetRelease(_ context.Context, id int64) (*models.Release, error) {
	r, ok := m.releases[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return r, nil
}

func (m *mockProvider) GetSong(_ context.Context, id int64) (*models.Song, error) {
	s, ok := m.songs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (m *mockProvider) GetTransitions(_ context.Context, _, trackID int64) ([]models.Transition, error) {
	if m.transitionErr != nil {
		return nil, m.transitionErr
	}
	var out []models.Transition
	for _, t := range m.transitions {
		if t.FromTrackID == trackID || t.ToTrackID == trackID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockProvider) GetOwnedTrackIDsByLabel(_ context.Context, _ int64, label string) ([]int64, error) {
	if m.labelErr != nil {
		return nil, m.labelErr
	}
	return m.byLabel[strings.ToLower(label)], nil
}

func (m *mockProvider) GetOwnedTrackIDsByArtist(_ context.Context, _ int64, artist string) ([]int64, error) {
	return m.byArtist[strings.ToLower(artist)], nil
}

func newTestEngine(t *testing.T, provider DataProvider) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	engine.SetDataProvider(provider)
	return engine
}

// fixtureCollection builds a small Planet E centered collection:
//
//	track 1  source: 128 BPM, 8A, Planet E / Carl Craig, 1995, Techno
//	track 2  label mate: 130 BPM, 9A, Planet E / Moodymann, 1996, Techno
//	track 3  affinity only: 129 BPM, 8B, Warp / Autechre, 1995, Techno
//	track 4  incompatible: 90 BPM, 3B, no release context
//	track 5  excluded release: otherwise identical to track 2
func fixtureCollection() *mockProvider {
	p := newMockProvider()

	p.releases[100] = &models.Release{ID: 100, Title: "Landcruising", Artist: "Carl Craig", Label: "Planet E", Year: 1995, Genres: []string{"Techno"}}
	p.releases[101] = &models.Release{ID: 101, Title: "Silentintroduction", Artist: "Moodymann", Label: "Planet E", Year: 1996, Genres: []string{"Techno"}}
	p.releases[102] = &models.Release{ID: 102, Title: "Tri Repetae", Artist: "Autechre", Label: "Warp", Year: 1995, Genres: []string{"Techno"}}
	p.releases[103] = &models.Release{ID: 103, Title: "Excluded", Artist: "Moodymann", Label: "Planet E", Year: 1996, Genres: []string{"Techno"}, RelationsExcluded: true}

	p.tracks[1] = &models.Track{ID: 1, Title: "Mind of a Machine", BPM: 128, CamelotKey: "8A", ReleaseID: 100}
	p.tracks[2] = &models.Track{ID: 2, Title: "Sunday Morning", BPM: 130, CamelotKey: "9A", ReleaseID: 101}
	p.tracks[3] = &models.Track{ID: 3, Title: "Dael", BPM: 129, CamelotKey: "8B", ReleaseID: 102}
	p.tracks[4] = &models.Track{ID: 4, Title: "Slow Burner", BPM: 90, CamelotKey: "3B"}
	p.tracks[5] = &models.Track{ID: 5, Title: "Hidden Cut", BPM: 130, CamelotKey: "9A", ReleaseID: 103}

	p.byLabel["planet e"] = []int64{2, 5}
	p.byArtist["carl craig"] = nil

	return p
}

func ownedRequest(sourceID int64) Request {
	return Request{
		UserID:        1,
		SourceTrackID: sourceID,
		OwnedTrackIDs: []int64{1, 2, 3, 4, 5},
	}
}

func TestRecommendSourceNotFound(t *testing.T) {
	engine := newTestEngine(t, fixtureCollection())

	resp, err := engine.Recommend(context.Background(), ownedRequest(999))
	if err != nil {
		t.Fatalf("missing source should not error, got: %v", err)
	}
	if len(resp.Results) != 0 || resp.TotalCandidates != 0 {
		t.Errorf("missing source should yield empty response, got %+v", resp)
	}
	if resp.Metadata.RequestID == "" {
		t.Errorf("empty response should still carry a request id")
	}
}

func TestRecommendProviderFailure(t *testing.T) {
	p := fixtureCollection()
	p.trackErr = errors.New("connection refused")
	engine := newTestEngine(t, p)

	if _, err := engine.Recommend(context.Background(), ownedRequest(1)); err == nil {
		t.Fatalf("hard provider failure on the source should propagate")
	}
}

func TestRecommendNoProvider(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if _, err := engine.Recommend(context.Background(), ownedRequest(1)); err == nil {
		t.Fatalf("expected error without a data provider")
	}
}

func TestRecommendExcludesSourceAndDeduplicates(t *testing.T) {
	engine := newTestEngine(t, fixtureCollection())

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	seen := make(map[int64]int)
	for _, r := range resp.Results {
		if r.TrackID == 1 {
			t.Errorf("source track must never appear in its own results")
		}
		seen[r.TrackID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("track %d appears %d times, want at most once", id, n)
		}
	}
}

func TestRecommendExcludedReleaseNeverAppears(t *testing.T) {
	engine := newTestEngine(t, fixtureCollection())

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for _, r := range resp.Results {
		if r.TrackID == 5 {
			t.Errorf("track on a relations-excluded release must never appear")
		}
	}
}

// A 128 BPM / 8A source against a 140 BPM / 3B candidate with no label,
// artist, or genre overlap: 9.4% is beyond the pitch-fader range, the keys
// are unrelated, and nothing else contributes. The candidate must be absent
// from the results, not returned with a residual tempo score.
func TestRecommendOutOfRangeTempoExcluded(t *testing.T) {
	p := fixtureCollection()
	p.tracks[6] = &models.Track{ID: 6, Title: "Peak Timer", BPM: 140, CamelotKey: "3B"}
	engine := newTestEngine(t, p)

	req := ownedRequest(1)
	req.OwnedTrackIDs = append(req.OwnedTrackIDs, 6)

	resp, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for _, r := range resp.Results {
		if r.TrackID == 6 {
			t.Errorf("zero-signal candidate returned with score %f (%q)", r.Score, r.Reason)
		}
	}
}

func TestRecommendLabelMateScoring(t *testing.T) {
	engine := newTestEngine(t, fixtureCollection())

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	var labelMate *Result
	for i := range resp.Results {
		if resp.Results[i].TrackID == 2 {
			labelMate = &resp.Results[i]
		}
	}
	if labelMate == nil {
		t.Fatalf("label mate should be recommended, got %+v", resp.Results)
	}

	// 15 label rank + 40 BPM (1.6%) + 30 key (8A->9A) + 25 label +
	// 5 genre + 5 near year.
	if labelMate.Score != 120 {
		t.Errorf("label mate score = %f, want 120 (reasons: %v)", labelMate.Score, labelMate.Reasons)
	}
	joined := labelMate.Reason
	for _, want := range []string{"BPM match", "Harmonic key match", "Same label (Planet E)", "Shared genres: Techno"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected reason fragment %q in %q", want, joined)
		}
	}
	if labelMate.Artist != "Moodymann" || labelMate.Label != "Planet E" {
		t.Errorf("result should carry release metadata, got %+v", labelMate)
	}
}

func TestRecommendRankingOrder(t *testing.T) {
	engine := newTestEngine(t, fixtureCollection())

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if !sort.SliceIsSorted(resp.Results, func(i, j int) bool {
		if resp.Results[i].Score != resp.Results[j].Score {
			return resp.Results[i].Score > resp.Results[j].Score
		}
		return resp.Results[i].TrackID < resp.Results[j].TrackID
	}) {
		t.Errorf("results not sorted by score desc, id asc: %+v", resp.Results)
	}

	if len(resp.Results) == 0 || resp.Results[0].TrackID != 2 {
		t.Errorf("label mate should rank first, got %+v", resp.Results)
	}

	for _, r := range resp.Results {
		if r.TrackID == 4 {
			t.Errorf("silent candidate with no signal should be dropped")
		}
		if r.Score <= 0 {
			t.Errorf("returned candidate must have a positive score: %+v", r)
		}
		if len(r.Reasons) == 0 {
			t.Errorf("returned candidate must carry at least one reason: %+v", r)
		}
	}
}

func TestRecommendTransitionOutranksAffinity(t *testing.T) {
	p := fixtureCollection()
	// Track 4 shares nothing with the source, but the user has mixed the
	// pair before.
	p.transitions = []models.Transition{
		{ID: 1, UserID: 1, FromTrackID: 1, ToTrackID: 4, Worked: true},
	}
	engine := newTestEngine(t, p)

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatalf("expected results")
	}

	var transitioned, heuristic *Result
	for i := range resp.Results {
		switch resp.Results[i].TrackID {
		case 4:
			transitioned = &resp.Results[i]
		case 3:
			heuristic = &resp.Results[i]
		}
	}
	if transitioned == nil {
		t.Fatalf("transition partner should be recommended")
	}
	if transitioned.Score != 100 {
		t.Errorf("transition-only partner score = %f, want 100", transitioned.Score)
	}
	if !strings.Contains(transitioned.Reason, "mixed these before") {
		t.Errorf("transition reason missing, got %q", transitioned.Reason)
	}
	if heuristic != nil && heuristic.Score >= transitioned.Score {
		t.Errorf("heuristic-only candidate (%f) should not outrank a curated transition (%f)",
			heuristic.Score, transitioned.Score)
	}
}

func TestRecommendFailedTransitionDropsCandidate(t *testing.T) {
	p := fixtureCollection()
	// The user flagged the source -> label mate mix as not working.
	p.transitions = []models.Transition{
		{ID: 1, UserID: 1, FromTrackID: 1, ToTrackID: 2, Worked: false},
	}
	engine := newTestEngine(t, p)

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for _, r := range resp.Results {
		if r.TrackID == 2 {
			t.Errorf("candidate with only a failed transition must be dropped")
		}
	}
}

func TestRecommendWorkedTransitionOverridesFailed(t *testing.T) {
	p := fixtureCollection()
	p.transitions = []models.Transition{
		{ID: 1, UserID: 1, FromTrackID: 1, ToTrackID: 2, Worked: false},
		{ID: 2, UserID: 1, FromTrackID: 2, ToTrackID: 1, Worked: true},
	}
	engine := newTestEngine(t, p)

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	found := false
	for _, r := range resp.Results {
		if r.TrackID == 2 {
			found = true
			if !strings.Contains(r.Reason, "mixed these before") {
				t.Errorf("worked transition should carry its reason, got %q", r.Reason)
			}
		}
	}
	if !found {
		t.Errorf("a worked transition should keep the candidate despite a failed one")
	}
}

func TestRecommendAuxiliaryFailuresDegrade(t *testing.T) {
	p := fixtureCollection()
	p.transitionErr = errors.New("timeout")
	p.labelErr = errors.New("timeout")
	engine := newTestEngine(t, p)

	resp, err := engine.Recommend(context.Background(), ownedRequest(1))
	if err != nil {
		t.Fatalf("auxiliary failures must not fail the request: %v", err)
	}

	// Track 2 still surfaces through the owned filler with BPM, key,
	// label affinity, genre and year signals, just without the rank-2
	// priority bonus.
	for _, r := range resp.Results {
		if r.TrackID == 2 && r.Score != 105 {
			t.Errorf("degraded label mate score = %f, want 105", r.Score)
		}
	}
}

func TestRecommendMissingMetadataNoOps(t *testing.T) {
	p := newMockProvider()
	p.tracks[1] = &models.Track{ID: 1, Title: "Bare Source"}
	p.tracks[2] = &models.Track{ID: 2, Title: "Bare Candidate"}
	p.transitions = []models.Transition{
		{ID: 1, UserID: 1, FromTrackID: 1, ToTrackID: 2, Worked: true},
	}
	engine := newTestEngine(t, p)

	resp, err := engine.Recommend(context.Background(), Request{UserID: 1, SourceTrackID: 1, OwnedTrackIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Score != 100 {
		t.Errorf("tracks without metadata should score on transitions alone, got %+v", resp.Results)
	}
}

func TestRecommendKDefaultsAndClamps(t *testing.T) {
	p := newMockProvider()
	p.tracks[1] = &models.Track{ID: 1, BPM: 128, CamelotKey: "8A"}
	owned := []int64{1}
	for id := int64(2); id <= 80; id++ {
		p.tracks[id] = &models.Track{ID: id, BPM: 128, CamelotKey: "8A"}
		owned = append(owned, id)
	}
	engine := newTestEngine(t, p)

	resp, err := engine.Recommend(context.Background(), Request{UserID: 1, SourceTrackID: 1, OwnedTrackIDs: owned})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(resp.Results) != 20 {
		t.Errorf("zero K should default to 20, got %d", len(resp.Results))
	}

	resp, err = engine.Recommend(context.Background(), Request{UserID: 1, SourceTrackID: 1, OwnedTrackIDs: owned, K: 500})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(resp.Results) != 50 {
		t.Errorf("oversized K should clamp to 50, got %d", len(resp.Results))
	}
}

func TestRecommendDeterministicTieBreak(t *testing.T) {
	p := newMockProvider()
	p.tracks[1] = &models.Track{ID: 1, BPM: 128, CamelotKey: "8A"}
	for _, id := range []int64{9, 3, 7, 5} {
		p.tracks[id] = &models.Track{ID: id, BPM: 128, CamelotKey: "8A"}
	}
	engine := newTestEngine(t, p)

	req := Request{UserID: 1, SourceTrackID: 1, OwnedTrackIDs: []int64{9, 3, 7, 5, 1}}
	first, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	wantOrder := []int64{3, 5, 7, 9}
	if len(first.Results) != len(wantOrder) {
		t.Fatalf("expected %d results, got %d", len(wantOrder), len(first.Results))
	}
	for i, id := range wantOrder {
		if first.Results[i].TrackID != id {
			t.Errorf("tied scores should order by ascending id, got %d at position %d", first.Results[i].TrackID, i)
		}
	}

	second, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for i := range first.Results {
		if first.Results[i].TrackID != second.Results[i].TrackID {
			t.Errorf("repeated identical requests must order identically")
		}
	}
}

func TestRecommendPoolCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxCandidates = 10
	engine, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	p := newMockProvider()
	p.tracks[1] = &models.Track{ID: 1, BPM: 128, CamelotKey: "8A"}
	owned := []int64{1}
	for id := int64(2); id <= 100; id++ {
		p.tracks[id] = &models.Track{ID: id, BPM: 128, CamelotKey: "8A"}
		owned = append(owned, id)
	}
	engine.SetDataProvider(p)

	resp, err := engine.Recommend(context.Background(), Request{UserID: 1, SourceTrackID: 1, OwnedTrackIDs: owned})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if resp.TotalCandidates != 10 {
		t.Errorf("pool should cap evaluation at 10 candidates, got %d", resp.TotalCandidates)
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxCandidates = 0
	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for invalid config")
	}
}
