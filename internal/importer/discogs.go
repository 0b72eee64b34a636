// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/fmorozzo/cratedigger/internal/config"
	"github.com/fmorozzo/cratedigger/internal/metrics"
	"github.com/fmorozzo/cratedigger/internal/models"
)

// discogsPageSize is the per-page count requested from the collection API.
const discogsPageSize = 100

// DiscogsRelease is one entry of a Discogs collection folder.
type DiscogsRelease struct {
	ID               int64              `json:"id"`
	BasicInformation DiscogsBasicInfo   `json:"basic_information"`
	Tracklist        []DiscogsTracklist `json:"tracklist"`
}

// DiscogsBasicInfo carries the release metadata Discogs nests under
// basic_information.
type DiscogsBasicInfo struct {
	Title      string          `json:"title"`
	Year       int             `json:"year"`
	CoverImage string          `json:"cover_image"`
	Labels     []DiscogsLabel  `json:"labels"`
	Artists    []DiscogsArtist `json:"artists"`
	Genres     []string        `json:"genres"`
	Styles     []string        `json:"styles"`
}

// DiscogsLabel is a record label reference.
type DiscogsLabel struct {
	Name string `json:"name"`
}

// DiscogsArtist is an artist credit.
type DiscogsArtist struct {
	Name string `json:"name"`
}

// DiscogsTracklist is one tracklist position.
type DiscogsTracklist struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

type discogsPage struct {
	Pagination struct {
		Page  int `json:"page"`
		Pages int `json:"pages"`
	} `json:"pagination"`
	Releases []DiscogsRelease `json:"releases"`
}

// DiscogsClient fetches a user's collection from the Discogs API.
type DiscogsClient struct {
	cfg    *config.DiscogsConfig
	client *http.Client
}

// NewDiscogsClient creates a client for the configured Discogs account.
func NewDiscogsClient(cfg *config.DiscogsConfig) *DiscogsClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DiscogsClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchCollection retrieves every release in the user's "All" folder,
// following pagination until exhausted.
func (c *DiscogsClient) FetchCollection(ctx context.Context) ([]DiscogsRelease, error) {
	var all []DiscogsRelease
	for page := 1; ; page++ {
		body, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, body.Releases...)
		if body.Pagination.Page >= body.Pagination.Pages {
			break
		}
	}
	return all, nil
}

func (c *DiscogsClient) fetchPage(ctx context.Context, page int) (*discogsPage, error) {
	url := fmt.Sprintf("%s/users/%s/collection/folders/0/releases?page=%d&per_page=%d",
		strings.TrimSuffix(c.cfg.URL, "/"), c.cfg.Username, page, discogsPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build discogs request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.cfg.Token)
	req.Header.Set("User-Agent", "cratedigger/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch discogs page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("discogs page %d: status %d: %s", page, resp.StatusCode, string(snippet))
	}

	var body discogsPage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode discogs page %d: %w", page, err)
	}
	return &body, nil
}

// ImportDiscogs fetches the configured Discogs collection and imports it
// as vinyl ownership for the given user.
func (imp *Importer) ImportDiscogs(ctx context.Context, client *DiscogsClient, userID int64) (*Stats, error) {
	start := time.Now()
	releases, err := client.FetchCollection(ctx)
	if err != nil {
		metrics.RecordImportRun("discogs", 0, time.Since(start), err)
		return nil, err
	}
	stats, err := imp.ImportDiscogsReleases(ctx, releases, userID)
	if stats != nil {
		metrics.RecordImportRun("discogs", stats.Tracks, time.Since(start), err)
	} else {
		metrics.RecordImportRun("discogs", 0, time.Since(start), err)
	}
	return stats, err
}

// ImportDiscogsReleases imports an already-fetched set of collection
// entries. Split out so tests and file-based imports skip the network.
func (imp *Importer) ImportDiscogsReleases(ctx context.Context, releases []DiscogsRelease, userID int64) (*Stats, error) {
	stats := &Stats{}
	for i := range releases {
		if err := imp.importDiscogsRelease(ctx, &releases[i], userID, stats); err != nil {
			return stats, err
		}
	}
	imp.logger.Info().
		Int("releases", stats.Releases).
		Int("tracks", stats.Tracks).
		Int("keys_resolved", stats.KeysResolved).
		Msg("discogs import complete")
	return stats, nil
}

func (imp *Importer) importDiscogsRelease(ctx context.Context, dr *DiscogsRelease, userID int64, stats *Stats) error {
	info := dr.BasicInformation
	if info.Title == "" || len(dr.Tracklist) == 0 {
		stats.Skipped++
		return nil
	}

	release := &models.Release{
		Title:         info.Title,
		Artist:        firstArtist(info.Artists),
		Year:          info.Year,
		Genres:        info.Genres,
		Styles:        info.Styles,
		CoverURL:      info.CoverImage,
		OwnershipType: models.OwnershipVinyl,
	}
	if len(info.Labels) > 0 {
		release.Label = info.Labels[0].Name
	}
	if err := imp.db.InsertRelease(ctx, release); err != nil {
		return fmt.Errorf("insert release %q: %w", info.Title, err)
	}
	stats.Releases++

	for _, tl := range dr.Tracklist {
		if tl.Title == "" {
			stats.Skipped++
			continue
		}
		track := &models.Track{
			Title:           tl.Title,
			ReleaseID:       release.ID,
			Position:        tl.Position,
			DurationSeconds: parseDuration(tl.Duration),
		}
		if err := imp.importTrack(ctx, userID, track, release.Artist, info.Genres, models.OwnershipVinyl, stats); err != nil {
			return fmt.Errorf("import track %q: %w", tl.Title, err)
		}
	}
	return nil
}

func firstArtist(artists []DiscogsArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

// parseDuration converts a Discogs "M:SS" or "H:MM:SS" duration string
// to seconds. Unparseable values become 0.
func parseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
