package scraper

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/filter"
	"github.com/pfrederiksen/futsal-watch/internal/logger"
	"github.com/pfrederiksen/futsal-watch/internal/metrics"
)

const (
	BaseURL           = "https://labola.jp"
	SearchURLTemplate = "https://labola.jp/reserve/events/search/personal/area-13/day-{date}/"
	DatePlaceholder   = "{date}"
	UserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	Timeout           = 30 * time.Second

	DefaultOrganizerLabel = "主催:"
)

// Selectors locate the parts of an event card
type Selectors struct {
	Card   string // event card container
	Title  string // title element holding the event link
	Status string // booking status label
	Text   string // text-bearing elements scanned for the organizer label
}

// DefaultSelectors returns the selectors matching the LaBOLA search results markup
func DefaultSelectors() Selectors {
	return Selectors{
		Card:   ".c-eventcard",
		Title:  ".c-eventcard__title",
		Status: ".c-eventcard__status",
		Text:   "dd, p, li, span",
	}
}

// Config controls where the scraper fetches from and how it reads the page
type Config struct {
	BaseURL           string
	SearchURLTemplate string
	UserAgent         string
	Timeout           time.Duration
	Selectors         Selectors
	OrganizerLabel    string
	Rules             filter.Rules
}

// DefaultConfig returns the configuration for the live site
func DefaultConfig() Config {
	return Config{
		BaseURL:           BaseURL,
		SearchURLTemplate: SearchURLTemplate,
		UserAgent:         UserAgent,
		Timeout:           Timeout,
		Selectors:         DefaultSelectors(),
		OrganizerLabel:    DefaultOrganizerLabel,
		Rules:             filter.DefaultRules(),
	}
}

// Scraper handles fetching and parsing LaBOLA event listings
type Scraper struct {
	client  *http.Client
	cfg     Config
	base    *url.URL
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option customizes a Scraper
type Option func(*Scraper)

// WithLogger sets the logger used for fetch and card diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics updated while scraping
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a new Scraper instance
func New(cfg Config, opts ...Option) (*Scraper, error) {
	if !strings.Contains(cfg.SearchURLTemplate, DatePlaceholder) {
		return nil, fmt.Errorf("search URL template %q has no %s placeholder", cfg.SearchURLTemplate, DatePlaceholder)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", cfg.BaseURL)
	}

	if cfg.Selectors.Card == "" || cfg.Selectors.Title == "" {
		return nil, fmt.Errorf("card and title selectors are required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}

	s := &Scraper{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:  cfg,
		base: base,
		log:  logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// PageURL returns the search page URL for a YYYYMMDD date
func (s *Scraper) PageURL(date string) string {
	return strings.ReplaceAll(s.cfg.SearchURLTemplate, DatePlaceholder, date)
}

// FetchPage fetches and parses the search page for one date.
// Network errors and non-2xx responses are returned as errors; there are no retries.
func (s *Scraper) FetchPage(ctx context.Context, date string) (*goquery.Document, error) {
	pageURL := s.PageURL(date)
	s.log.Info("Fetching page", logger.Fields{"date": date, "url": pageURL})

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		s.metrics.PageFetched(false)
		s.log.Error("Failed to fetch page", logger.Fields{"date": date, "url": pageURL}, err)
		return nil, err
	}

	s.metrics.PageFetched(true)
	return doc, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Events fetches each date in turn and yields its qualifying events in card order.
// A date whose page cannot be fetched is skipped. The sequence is produced lazily,
// one page at a time, and can be ranged over once per call.
func (s *Scraper) Events(ctx context.Context, dates []string) iter.Seq[*event.Event] {
	return func(yield func(*event.Event) bool) {
		for _, date := range dates {
			if ctx.Err() != nil {
				return
			}

			doc, err := s.FetchPage(ctx, date)
			if err != nil {
				continue
			}

			events := s.ParseEvents(doc, date)
			s.log.Info("Parsed page", logger.Fields{"date": date, "events": len(events)})

			for _, evt := range events {
				if !yield(evt) {
					return
				}
			}
		}
	}
}

// ParseHTML parses a page from r and extracts its qualifying events
func (s *Scraper) ParseHTML(r io.Reader, date string) ([]*event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return s.ParseEvents(doc, date), nil
}
