package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"inkwell/app/internal/blog"
	"inkwell/app/internal/db"
)

// apiError is the transport error shape: {"error": ..., "details": ...}.
// It implements huma.StatusError so handlers can return it directly.
type apiError struct {
	status  int
	Message string           `json:"error"`
	Details blog.FieldErrors `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	return e.Message
}

func (e *apiError) GetStatus() int {
	return e.status
}

type postResponse struct {
	Body blog.Post
}

type postIDInput struct {
	ID string `path:"id"`
}

type rawBodyInput struct {
	RawBody []byte
}

type updatePostInput struct {
	ID      string `path:"id"`
	RawBody []byte
}

type adminListInput struct {
	Page     string `query:"page"`
	PageSize string `query:"pageSize"`
	Q        string `query:"q"`
	Status   string `query:"status"`
}

type adminListResponse struct {
	Body blog.AdminPostPage
}

type publicListInput struct {
	Q      string `query:"q"`
	Tag    string `query:"tag"`
	Status string `query:"status"`
	Limit  string `query:"limit"`
	Cursor string `query:"cursor"`
}

type publicListResponse struct {
	Body blog.PostPage
}

type postSlugInput struct {
	Slug string `path:"slug"`
}

type deleteResponse struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

type settingsResponse struct {
	Body blog.Settings
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerAdminPostRoutes() {
	huma.Get(s.api, "/api/admin/posts", s.adminListPostsHandler, func(op *huma.Operation) {
		op.Summary = "List posts with page-based pagination"
	})
	huma.Post(s.api, "/api/admin/posts", s.createPostHandler, func(op *huma.Operation) {
		op.Summary = "Create a post"
		op.DefaultStatus = stdhttp.StatusCreated
	})
	huma.Get(s.api, "/api/admin/posts/{id}", s.getPostHandler, func(op *huma.Operation) {
		op.Summary = "Fetch a post by id"
	})
	huma.Put(s.api, "/api/admin/posts/{id}", s.updatePostHandler, func(op *huma.Operation) {
		op.Summary = "Apply a partial update to a post"
	})
	huma.Delete(s.api, "/api/admin/posts/{id}", s.deletePostHandler, func(op *huma.Operation) {
		op.Summary = "Delete a post permanently"
	})
}

func (s *Server) registerPublicPostRoutes() {
	huma.Get(s.api, "/api/posts", s.listPostsHandler, func(op *huma.Operation) {
		op.Summary = "List posts with keyset pagination"
	})
	huma.Get(s.api, "/api/posts/{slug}", s.getPostBySlugHandler, func(op *huma.Operation) {
		op.Summary = "Fetch a post by slug"
	})
}

func (s *Server) registerSettingsRoutes() {
	huma.Get(s.api, "/api/admin/settings", s.getSettingsHandler, func(op *huma.Operation) {
		op.Summary = "Fetch site settings"
	})
	huma.Put(s.api, "/api/admin/settings", s.updateSettingsHandler, func(op *huma.Operation) {
		op.Summary = "Apply a partial update to site settings"
	})
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) adminListPostsHandler(ctx context.Context, input *adminListInput) (*adminListResponse, error) {
	fields := blog.FieldErrors{}
	query := blog.AdminListQuery{
		Q:        strings.TrimSpace(input.Q),
		Status:   input.Status,
		Page:     parseIntParam(fields, "page", input.Page),
		PageSize: parseIntParam(fields, "pageSize", input.PageSize),
	}
	if len(fields) > 0 {
		return nil, &apiError{status: stdhttp.StatusBadRequest, Message: "invalid query parameters", Details: fields}
	}

	page, err := s.admin.ListPosts(ctx, query)
	if err != nil {
		return nil, s.domainError(ctx, err, "GET /api/admin/posts", "invalid query parameters", nil)
	}

	return &adminListResponse{Body: *page}, nil
}

func (s *Server) createPostHandler(ctx context.Context, input *rawBodyInput) (*postResponse, error) {
	var payload blog.CreatePostInput
	if err := json.Unmarshal(input.RawBody, &payload); err != nil {
		return nil, &apiError{status: stdhttp.StatusBadRequest, Message: "invalid JSON payload"}
	}

	post, err := s.posts.Create(ctx, payload)
	if err != nil {
		return nil, s.domainError(ctx, err, "POST /api/admin/posts", "invalid payload", logrus.Fields{"slug": payload.Slug})
	}

	return &postResponse{Body: *post}, nil
}

func (s *Server) getPostHandler(ctx context.Context, input *postIDInput) (*postResponse, error) {
	post, err := s.posts.GetByID(ctx, input.ID)
	if err != nil {
		return nil, s.domainError(ctx, err, "GET /api/admin/posts/{id}", "invalid payload", logrus.Fields{"post_id": input.ID})
	}
	if post == nil {
		return nil, &apiError{status: stdhttp.StatusNotFound, Message: "post not found"}
	}

	return &postResponse{Body: *post}, nil
}

func (s *Server) updatePostHandler(ctx context.Context, input *updatePostInput) (*postResponse, error) {
	var payload blog.UpdatePostInput
	if err := json.Unmarshal(input.RawBody, &payload); err != nil {
		return nil, &apiError{status: stdhttp.StatusBadRequest, Message: "invalid JSON payload"}
	}
	// The path parameter wins over any id in the body.
	payload.ID = input.ID

	post, err := s.posts.Update(ctx, payload)
	if err != nil {
		return nil, s.domainError(ctx, err, "PUT /api/admin/posts/{id}", "invalid payload", logrus.Fields{"post_id": input.ID})
	}

	return &postResponse{Body: *post}, nil
}

func (s *Server) deletePostHandler(ctx context.Context, input *postIDInput) (*deleteResponse, error) {
	if err := s.posts.Delete(ctx, input.ID); err != nil {
		return nil, s.domainError(ctx, err, "DELETE /api/admin/posts/{id}", "invalid payload", logrus.Fields{"post_id": input.ID})
	}

	resp := &deleteResponse{}
	resp.Body.OK = true
	return resp, nil
}

func (s *Server) listPostsHandler(ctx context.Context, input *publicListInput) (*publicListResponse, error) {
	fields := blog.FieldErrors{}
	query := blog.ListQuery{
		Q:      strings.TrimSpace(input.Q),
		Tag:    strings.TrimSpace(input.Tag),
		Status: input.Status,
		Limit:  parseIntParam(fields, "limit", input.Limit),
		Cursor: strings.TrimSpace(input.Cursor),
	}
	if len(fields) > 0 {
		return nil, &apiError{status: stdhttp.StatusBadRequest, Message: "invalid query parameters", Details: fields}
	}

	page, err := s.posts.List(ctx, query)
	if err != nil {
		return nil, s.domainError(ctx, err, "GET /api/posts", "invalid query parameters", nil)
	}

	return &publicListResponse{Body: *page}, nil
}

func (s *Server) getPostBySlugHandler(ctx context.Context, input *postSlugInput) (*postResponse, error) {
	post, err := s.posts.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, s.domainError(ctx, err, "GET /api/posts/{slug}", "invalid payload", logrus.Fields{"slug": input.Slug})
	}
	if post == nil {
		return nil, &apiError{status: stdhttp.StatusNotFound, Message: "post not found"}
	}

	return &postResponse{Body: *post}, nil
}

func (s *Server) getSettingsHandler(ctx context.Context, _ *struct{}) (*settingsResponse, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, s.domainError(ctx, err, "GET /api/admin/settings", "invalid payload", nil)
	}

	return &settingsResponse{Body: *settings}, nil
}

func (s *Server) updateSettingsHandler(ctx context.Context, input *rawBodyInput) (*settingsResponse, error) {
	var payload blog.UpdateSettingsInput
	if err := json.Unmarshal(input.RawBody, &payload); err != nil {
		return nil, &apiError{status: stdhttp.StatusBadRequest, Message: "invalid JSON payload"}
	}

	settings, err := s.settings.Update(ctx, payload)
	if err != nil {
		return nil, s.domainError(ctx, err, "PUT /api/admin/settings", "invalid payload", nil)
	}

	return &settingsResponse{Body: *settings}, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

// domainError maps repository failures to transport errors: validation
// failures become 400 with per-field details, domain codes map to their
// statuses, everything else is a logged 500.
func (s *Server) domainError(ctx context.Context, err error, route, invalidMessage string, fields logrus.Fields) error {
	if validationErr, ok := blog.IsValidation(err); ok {
		return &apiError{status: stdhttp.StatusBadRequest, Message: invalidMessage, Details: validationErr.Fields}
	}

	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["route"] = route
	s.recordError(ctx, err, "request failed", fields)

	if code, ok := blog.CodeOf(err); ok {
		switch code {
		case blog.CodeNotFound:
			return &apiError{status: stdhttp.StatusNotFound, Message: "post not found"}
		case blog.CodeConflict:
			return &apiError{status: stdhttp.StatusConflict, Message: "slug already exists"}
		}
	}

	return &apiError{status: stdhttp.StatusInternalServerError, Message: "internal error"}
}

// parseIntParam converts a numeric query parameter, leaving defaults to
// the schema layer when the parameter is empty.
func parseIntParam(fields blog.FieldErrors, name, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = append(fields[name], "must be an integer")
		return 0
	}
	return value
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
