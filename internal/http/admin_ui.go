package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"inkwell/app/internal/blog"
	"inkwell/app/internal/http/templates"
)

const previewLength = 120

// htmlResponse carries a rendered admin screen through Huma.
type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type adminPostsScreenInput struct {
	Page   string `query:"page"`
	Q      string `query:"q"`
	Status string `query:"status"`
}

type adminPostScreenInput struct {
	ID string `path:"id"`
}

func (s *Server) registerAdminScreenRoutes() {
	htmlOperation := func(op *huma.Operation) {
		op.Hidden = true
	}

	huma.Get(s.api, "/admin/posts", s.adminPostsScreenHandler, htmlOperation)
	huma.Get(s.api, "/admin/posts/new", s.adminNewPostScreenHandler, htmlOperation)
	huma.Get(s.api, "/admin/posts/{id}", s.adminEditPostScreenHandler, htmlOperation)
	huma.Get(s.api, "/admin/settings", s.adminSettingsScreenHandler, htmlOperation)

	s.mux.HandleFunc("GET /admin", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		stdhttp.Redirect(w, r, "/admin/posts", stdhttp.StatusSeeOther)
	})
	s.mux.HandleFunc("GET /admin/{$}", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		stdhttp.Redirect(w, r, "/admin/posts", stdhttp.StatusSeeOther)
	})
}

func (s *Server) adminPostsScreenHandler(ctx context.Context, input *adminPostsScreenInput) (*htmlResponse, error) {
	// Screen filters degrade to defaults instead of failing the render.
	page := 0
	if trimmed := strings.TrimSpace(input.Page); trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			page = parsed
		}
	}

	status := ""
	if parsed, ok := blog.ParseStatus(input.Status); ok {
		status = string(parsed)
	}

	q := strings.TrimSpace(input.Q)
	if len(q) > 120 {
		q = q[:120]
	}

	query := blog.AdminListQuery{
		Page:   page,
		Q:      q,
		Status: status,
	}

	result, err := s.admin.ListPosts(ctx, query)
	if err != nil {
		return s.renderErrorScreen(ctx, err, "GET /admin/posts")
	}

	rows := make([]templates.PostRow, 0, len(result.Items))
	for _, post := range result.Items {
		rows = append(rows, templates.PostRow{
			ID:      post.ID,
			Title:   post.Title,
			Slug:    post.Slug,
			Status:  string(post.Status),
			Tags:    strings.Join(post.Tags, ", "),
			Preview: templates.Truncate(templates.PlainText(post.Content), previewLength),
			Updated: post.UpdatedAt.Format(time.RFC3339),
		})
	}

	pagination := result.Pagination
	data := templates.PostsPageData{
		Layout: s.adminLayout(ctx, "Posts", "posts"),
		Query:  query.Q,
		Status: query.Status,
		Rows:   rows,
		Pager: templates.PagerView{
			Page:       pagination.Page,
			TotalPages: pagination.TotalPages,
			HasPrev:    pagination.HasPrevPage,
			HasNext:    pagination.HasNextPage,
			PrevURL:    adminPostsURL(pagination.Page-1, query.Q, query.Status),
			NextURL:    adminPostsURL(pagination.Page+1, query.Q, query.Status),
		},
	}

	return s.renderScreen(ctx, templates.PostsPage(data))
}

func (s *Server) adminNewPostScreenHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	data := templates.PostFormData{
		Layout:       s.adminLayout(ctx, "New post", "posts"),
		Heading:      "New post",
		SubmitMethod: stdhttp.MethodPost,
		SubmitURL:    "/api/admin/posts",
		Values:       templates.PostFormValues{Status: string(blog.StatusDraft)},
	}

	return s.renderScreen(ctx, templates.PostForm(data))
}

func (s *Server) adminEditPostScreenHandler(ctx context.Context, input *adminPostScreenInput) (*htmlResponse, error) {
	post, err := s.posts.GetByID(ctx, input.ID)
	if err != nil {
		return s.renderErrorScreen(ctx, err, "GET /admin/posts/{id}")
	}
	if post == nil {
		return s.renderNotFoundScreen(ctx)
	}

	values := templates.PostFormValues{
		ID:      post.ID,
		Slug:    post.Slug,
		Title:   post.Title,
		Excerpt: post.Excerpt,
		Content: post.Content,
		Tags:    strings.Join(post.Tags, ", "),
		Status:  string(post.Status),
	}
	if post.CoverImage != nil {
		values.CoverImage = *post.CoverImage
	}
	if post.PublishedAt != nil {
		values.PublishedAt = post.PublishedAt.Format(time.RFC3339)
	}

	apiURL := "/api/admin/posts/" + url.PathEscape(post.ID)
	data := templates.PostFormData{
		Layout:       s.adminLayout(ctx, "Edit post", "posts"),
		Heading:      fmt.Sprintf("Edit %q", post.Title),
		SubmitMethod: stdhttp.MethodPut,
		SubmitURL:    apiURL,
		DeleteURL:    apiURL,
		Values:       values,
	}

	return s.renderScreen(ctx, templates.PostForm(data))
}

func (s *Server) adminSettingsScreenHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return s.renderErrorScreen(ctx, err, "GET /admin/settings")
	}

	data := templates.SettingsFormData{
		Layout:          s.adminLayout(ctx, "Settings", "settings"),
		SubmitURL:       "/api/admin/settings",
		SiteName:        settings.SiteName,
		SiteDescription: settings.SiteDescription,
		Theme:           string(settings.Theme),
		HeroTitle:       settings.HeroTitle,
		HeroSubtitle:    settings.HeroSubtitle,
	}
	if settings.LogoURL != nil {
		data.LogoURL = *settings.LogoURL
	}
	if settings.FaviconURL != nil {
		data.FaviconURL = *settings.FaviconURL
	}

	return s.renderScreen(ctx, templates.SettingsForm(data))
}

// adminLayout builds the shared page chrome. The site name comes from the
// settings record so the admin header tracks configuration changes.
func (s *Server) adminLayout(ctx context.Context, title, active string) templates.Layout {
	layout := templates.Layout{Title: title + " · Inkwell", Active: active}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.recordError(ctx, err, "loading settings for layout", nil)
		return layout
	}

	layout.SiteName = settings.SiteName
	return layout
}

func (s *Server) renderScreen(ctx context.Context, component templ.Component) (*htmlResponse, error) {
	body, err := renderComponent(ctx, component)
	if err != nil {
		return nil, err
	}

	return &htmlResponse{
		Status:      stdhttp.StatusOK,
		ContentType: "text/html; charset=utf-8",
		Body:        body,
	}, nil
}

func adminPostsURL(page int, q, status string) string {
	values := url.Values{}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if q != "" {
		values.Set("q", q)
	}
	if status != "" {
		values.Set("status", status)
	}

	if len(values) == 0 {
		return "/admin/posts"
	}
	return "/admin/posts?" + values.Encode()
}

func (s *Server) renderErrorScreen(ctx context.Context, err error, route string) (*htmlResponse, error) {
	if code, ok := blog.CodeOf(err); ok && code == blog.CodeNotFound {
		return s.renderNotFoundScreen(ctx)
	}

	s.recordError(ctx, err, "rendering admin screen failed", logrus.Fields{"route": route})

	data := templates.ErrorPageData{
		Layout:      s.adminLayout(ctx, "Error", ""),
		StatusLabel: "Something went wrong",
		Message:     "The request could not be completed. Check the server logs for details.",
	}

	body, renderErr := renderComponent(ctx, templates.ErrorPage(data))
	if renderErr != nil {
		return nil, renderErr
	}

	return &htmlResponse{
		Status:      stdhttp.StatusInternalServerError,
		ContentType: "text/html; charset=utf-8",
		Body:        body,
	}, nil
}

func (s *Server) renderNotFoundScreen(ctx context.Context) (*htmlResponse, error) {
	data := templates.ErrorPageData{
		Layout:      s.adminLayout(ctx, "Not found", ""),
		StatusLabel: "Post not found",
		Message:     "The post you are looking for does not exist or has been deleted.",
	}

	body, err := renderComponent(ctx, templates.ErrorPage(data))
	if err != nil {
		return nil, err
	}

	return &htmlResponse{
		Status:      stdhttp.StatusNotFound,
		ContentType: "text/html; charset=utf-8",
		Body:        body,
	}, nil
}
