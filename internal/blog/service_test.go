package blog

import (
	"context"
	"io"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

type stubPostRepository struct {
	Repository

	total    int64
	countErr error
	items    []Post
	pageErr  error

	gotFilters AdminFilters
	gotOffset  int
	gotLimit   int
}

func (s *stubPostRepository) Count(_ context.Context, filters AdminFilters) (int64, error) {
	s.gotFilters = filters
	return s.total, s.countErr
}

func (s *stubPostRepository) Page(_ context.Context, _ AdminFilters, offset, limit int) ([]Post, error) {
	s.gotOffset = offset
	s.gotLimit = limit
	return s.items, s.pageErr
}

func TestNewAdminServiceRequiresRepository(t *testing.T) {
	t.Parallel()

	if _, err := NewAdminService(nil, nil, nil); err == nil {
		t.Fatalf("expected error when repository is nil")
	}
}

func TestListPostsComputesPaginationMetadata(t *testing.T) {
	t.Parallel()

	repo := &stubPostRepository{total: 25, items: make([]Post, 10)}
	service := newTestAdminService(t, repo)

	page, err := service.ListPosts(context.Background(), AdminListQuery{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}

	meta := page.Pagination
	if meta.Page != 2 || meta.PageSize != 10 {
		t.Fatalf("unexpected page metadata: %#v", meta)
	}
	if meta.Total != 25 {
		t.Fatalf("expected total 25, got %d", meta.Total)
	}
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", meta.TotalPages)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Fatalf("expected middle page to have both neighbours: %#v", meta)
	}

	if repo.gotOffset != 10 || repo.gotLimit != 10 {
		t.Fatalf("expected offset 10 limit 10, got %d/%d", repo.gotOffset, repo.gotLimit)
	}
}

func TestListPostsEmptyResultStillReportsOnePage(t *testing.T) {
	t.Parallel()

	repo := &stubPostRepository{total: 0}
	service := newTestAdminService(t, repo)

	page, err := service.ListPosts(context.Background(), AdminListQuery{})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}

	meta := page.Pagination
	if meta.TotalPages != 1 {
		t.Fatalf("expected minimum of 1 total page, got %d", meta.TotalPages)
	}
	if meta.HasNextPage || meta.HasPrevPage {
		t.Fatalf("expected no neighbours on the only page: %#v", meta)
	}
	if page.Items == nil {
		t.Fatalf("expected non-nil items slice")
	}
}

func TestListPostsLastPageFlags(t *testing.T) {
	t.Parallel()

	repo := &stubPostRepository{total: 25, items: make([]Post, 5)}
	service := newTestAdminService(t, repo)

	page, err := service.ListPosts(context.Background(), AdminListQuery{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}

	meta := page.Pagination
	if meta.HasNextPage {
		t.Fatalf("expected no next page on the last page: %#v", meta)
	}
	if !meta.HasPrevPage {
		t.Fatalf("expected previous page on the last page: %#v", meta)
	}
}

func TestListPostsPropagatesRepositoryErrors(t *testing.T) {
	t.Parallel()

	repo := &stubPostRepository{countErr: eris.New("count failed")}
	service := newTestAdminService(t, repo)

	if _, err := service.ListPosts(context.Background(), AdminListQuery{}); err == nil {
		t.Fatalf("expected count error to propagate")
	}

	repo = &stubPostRepository{pageErr: eris.New("fetch failed")}
	service = newTestAdminService(t, repo)

	if _, err := service.ListPosts(context.Background(), AdminListQuery{}); err == nil {
		t.Fatalf("expected fetch error to propagate")
	}
}

func TestListPostsRejectsInvalidQuery(t *testing.T) {
	t.Parallel()

	repo := &stubPostRepository{}
	service := newTestAdminService(t, repo)

	_, err := service.ListPosts(context.Background(), AdminListQuery{Page: -1})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if _, ok := IsValidation(err); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func newTestAdminService(t *testing.T, repo Repository) AdminService {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service, err := NewAdminService(repo, logger, nil)
	if err != nil {
		t.Fatalf("NewAdminService returned error: %v", err)
	}
	return service
}
