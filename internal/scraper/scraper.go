package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/handbook-courses/internal/course"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the handbook subject-details path. One subject code
	// maps to exactly one document: <base>/<code>.html.
	DefaultBaseURL = "https://handbookpre2025.uts.edu.au/2024/subjects/details"
	UserAgent      = "handbook-courses/1.0 (github.com/pfrederiksen/handbook-courses)"
	Timeout        = 30 * time.Second
)

// Scraper fetches subject pages over HTTP and runs extraction on them.
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	logger    zerolog.Logger
}

// New creates a Scraper for the given base URL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:   baseURL,
		userAgent: UserAgent,
		logger:    log.With().Str("component", "scraper").Logger(),
	}
}

// NewWithClient creates a Scraper using a caller-supplied HTTP client,
// typically for tests.
func NewWithClient(baseURL string, client *http.Client) *Scraper {
	s := New(baseURL)
	s.client = client
	return s
}

// URL returns the document URL for a subject code.
func (s *Scraper) URL(code string) string {
	return fmt.Sprintf("%s/%s.html", s.baseURL, code)
}

// FetchCourse retrieves and extracts one subject. Transport failures,
// non-200 responses, unparseable bodies and extraction panics all surface
// as a returned error; callers treat them uniformly as a failed code.
func (s *Scraper) FetchCourse(ctx context.Context, code string) (rec *course.Record, err error) {
	doc, err := s.fetch(ctx, code)
	if err != nil {
		return nil, err
	}

	// A malformed document can break a structural assumption mid-walk.
	// Trap it here so the batch sees a failed code, not a crash.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("code", code).Interface("panic", r).Msg("extraction panicked")
			rec = nil
			err = fmt.Errorf("extracting %s: %v", code, r)
		}
	}()

	return Extract(doc, code), nil
}

func (s *Scraper) fetch(ctx context.Context, code string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(code), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", code, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", code, err)
	}

	s.logger.Debug().
		Str("code", code).
		Dur("duration", time.Since(start)).
		Msg("fetched subject page")

	return doc, nil
}
