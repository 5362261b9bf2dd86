package blog

import (
	"context"
	"math"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// PaginationMeta is the metadata block returned alongside a page-based
// listing.
type PaginationMeta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// AdminPostPage bundles one admin dashboard page with its pagination
// metadata.
type AdminPostPage struct {
	Items      []Post         `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// AdminService exposes the page-based listing used by the admin dashboard.
type AdminService interface {
	ListPosts(ctx context.Context, query AdminListQuery) (*AdminPostPage, error)
}

type adminService struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ AdminService = (*adminService)(nil)

// NewAdminService wires the admin listing service with its dependencies.
func NewAdminService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (AdminService, error) {
	if repo == nil {
		return nil, eris.New("post repository is required")
	}

	return &adminService{repo: repo, logger: logger, sentryHub: hub}, nil
}

// ListPosts runs the count query and the bounded fetch query concurrently
// and derives the pagination metadata from both results.
func (s *adminService) ListPosts(ctx context.Context, query AdminListQuery) (*AdminPostPage, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	filters := AdminFilters{Q: normalized.Q, Status: normalized.Status}
	skip := (normalized.Page - 1) * normalized.PageSize

	type countResult struct {
		total int64
		err   error
	}
	type fetchResult struct {
		items []Post
		err   error
	}

	countCh := make(chan countResult, 1)
	fetchCh := make(chan fetchResult, 1)

	go func() {
		total, err := s.repo.Count(ctx, filters)
		countCh <- countResult{total: total, err: err}
	}()
	go func() {
		items, err := s.repo.Page(ctx, filters, skip, normalized.PageSize)
		fetchCh <- fetchResult{items: items, err: err}
	}()

	counted := <-countCh
	fetched := <-fetchCh

	if counted.err != nil {
		s.recordError(logrus.Fields{"page": normalized.Page}, counted.err, "counting admin posts")
		return nil, eris.Wrap(counted.err, "listing admin posts")
	}
	if fetched.err != nil {
		s.recordError(logrus.Fields{"page": normalized.Page}, fetched.err, "fetching admin posts page")
		return nil, eris.Wrap(fetched.err, "listing admin posts")
	}

	totalPages := int(math.Ceil(float64(counted.total) / float64(normalized.PageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	items := fetched.items
	if items == nil {
		items = []Post{}
	}

	return &AdminPostPage{
		Items: items,
		Pagination: PaginationMeta{
			Page:        normalized.Page,
			PageSize:    normalized.PageSize,
			Total:       counted.total,
			TotalPages:  totalPages,
			HasNextPage: normalized.Page < totalPages,
			HasPrevPage: normalized.Page > 1,
		},
	}, nil
}

func (s *adminService) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
