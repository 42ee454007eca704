// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// Scraper fetches a web page and returns the text of the first nodes that
// match a CSS selector as a JSON array.
type Scraper struct {
	// URL is the page to fetch.
	URL string

	// Selector picks the nodes whose text is returned.
	Selector string

	// FailureMessage is the answer for any fetch or parse failure.
	FailureMessage string

	cfg    types.ScrapeConfig
	client *http.Client
}

// NewIMDbTop returns a scraper for the titles of the IMDb top chart.
func NewIMDbTop(cfg types.ScrapeConfig) *Scraper {
	return newScraper(cfg, cfg.IMDbURL, ".titleColumn a", "Failed to fetch IMDb data.")
}

// NewHackerNews returns a scraper for the Hacker News front page stories.
func NewHackerNews(cfg types.ScrapeConfig) *Scraper {
	return newScraper(cfg, cfg.HackerNewsURL, ".storylink", "Failed to fetch Hacker News data.")
}

func newScraper(cfg types.ScrapeConfig, url, selector, failure string) *Scraper {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	return &Scraper{
		URL:            url,
		Selector:       selector,
		FailureMessage: failure,
		cfg:            cfg,
		client:         &http.Client{Timeout: cfg.Timeout},
	}
}

// Extract implements Extractor.
func (s *Scraper) Extract(ctx context.Context, _ types.Question, _ *types.UploadedFile) types.Result {
	items, err := s.scrape(ctx)
	if err != nil {
		return types.Failure(types.KindExternalService, s.FailureMessage, err)
	}
	return types.OK(pyJSONList(items))
}

func (s *Scraper) scrape(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, s.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", s.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.URL, err)
	}

	items := []string{}
	doc.Find(s.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		items = append(items, strings.TrimSpace(sel.Text()))
		return len(items) < s.cfg.Limit
	})
	return items, nil
}
