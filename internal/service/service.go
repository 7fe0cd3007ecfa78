package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/page-analyzer/internal/database"
	"github.com/vadimbarashkov/page-analyzer/internal/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/models"
	"github.com/vadimbarashkov/page-analyzer/internal/page"
)

// URLRepository defines the urls-table operations the service relies on.
type URLRepository interface {
	// Create inserts a new URL by its normalized name.
	// Returns database.ErrURLExists if the name is already tracked.
	Create(ctx context.Context, name string) (*models.URL, error)

	// GetByName retrieves a URL by its normalized name.
	// Returns database.ErrURLNotFound if no such row exists.
	GetByName(ctx context.Context, name string) (*models.URL, error)

	// GetByID retrieves a URL by id.
	// Returns database.ErrURLNotFound if no such row exists.
	GetByID(ctx context.Context, id int64) (*models.URL, error)

	// ListWithLatestCheck returns all URLs, newest first, each paired
	// with its latest check or none.
	ListWithLatestCheck(ctx context.Context) ([]models.URLSummary, error)
}

// CheckRepository defines the url_checks-table operations the service relies on.
type CheckRepository interface {
	// Create records one check attempt for a URL.
	Create(ctx context.Context, urlID int64, statusCode int, h1, title, description string) (*models.URLCheck, error)

	// ListByURL returns a URL's checks, newest first.
	ListByURL(ctx context.Context, urlID int64) ([]models.URLCheck, error)
}

// PageFetcher performs the single outbound GET a check consists of.
type PageFetcher interface {
	Fetch(ctx context.Context, target string) (*fetcher.Result, error)
}

// PageService implements the application flows on top of the repositories
// and the fetcher.
type PageService struct {
	urls    URLRepository
	checks  CheckRepository
	fetcher PageFetcher
}

func NewPageService(urls URLRepository, checks CheckRepository, f PageFetcher) *PageService {
	return &PageService{
		urls:    urls,
		checks:  checks,
		fetcher: f,
	}
}

// AddURL stores a normalized URL, deduplicated by name. It reports whether
// a new row was created; an existing row is returned as-is. A concurrent
// insert of the same name losing the race is resolved by looking up the
// winner, so two simultaneous submissions never yield two rows.
func (s *PageService) AddURL(ctx context.Context, name string) (*models.URL, bool, error) {
	const op = "service.PageService.AddURL"

	url, err := s.urls.GetByName(ctx, name)
	if err == nil {
		return url, false, nil
	}
	if !errors.Is(err, database.ErrURLNotFound) {
		return nil, false, fmt.Errorf("%s: failed to look up url: %w", op, err)
	}

	url, err = s.urls.Create(ctx, name)
	if err != nil {
		if errors.Is(err, database.ErrURLExists) {
			url, err = s.urls.GetByName(ctx, name)
			if err != nil {
				return nil, false, fmt.Errorf("%s: failed to look up url: %w", op, err)
			}

			return url, false, nil
		}

		return nil, false, fmt.Errorf("%s: failed to add url: %w", op, err)
	}

	return url, true, nil
}

// GetURL retrieves a tracked URL by id.
func (s *PageService) GetURL(ctx context.Context, id int64) (*models.URL, error) {
	const op = "service.PageService.GetURL"

	url, err := s.urls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url: %w", op, err)
	}

	return url, nil
}

// ListURLs returns all tracked URLs with their latest check summaries.
func (s *PageService) ListURLs(ctx context.Context) ([]models.URLSummary, error) {
	const op = "service.PageService.ListURLs"

	summaries, err := s.urls.ListWithLatestCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return summaries, nil
}

// ListChecks returns a URL's check history, newest first.
func (s *PageService) ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error) {
	const op = "service.PageService.ListChecks"

	checks, err := s.checks.ListByURL(ctx, urlID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list checks: %w", op, err)
	}

	return checks, nil
}

// RunCheck fetches the URL once, extracts the page fields and records the
// check. When the fetch yields no response at all, the fetcher's
// ErrConnectionFailed propagates and nothing is persisted; a response in
// the error range is still a recorded check.
func (s *PageService) RunCheck(ctx context.Context, url *models.URL) (*models.URLCheck, error) {
	const op = "service.PageService.RunCheck"

	res, err := s.fetcher.Fetch(ctx, url.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch page: %w", op, err)
	}

	info := page.Extract(res.Body)

	check, err := s.checks.Create(ctx, url.ID, res.StatusCode, info.H1, info.Title, info.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to record check: %w", op, err)
	}

	return check, nil
}
