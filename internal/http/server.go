package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"inkwell/app/internal/blog"
)

// Options configures the HTTP server wiring.
type Options struct {
	Posts       blog.Repository
	Admin       blog.AdminService
	Settings    blog.SettingsRepository
	Database    *gorm.DB
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour. Leaving
// it zero-valued disables rate limiting, which the tests rely on.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	posts       blog.Repository
	admin       blog.AdminService
	settings    blog.SettingsRepository
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Posts == nil {
		return nil, eris.New("post repository is required")
	}
	if opts.Admin == nil {
		return nil, eris.New("admin service is required")
	}
	if opts.Settings == nil {
		return nil, eris.New("settings repository is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Inkwell", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:      api,
		mux:      mux,
		posts:    opts.Posts,
		admin:    opts.Admin,
		settings: opts.Settings,
		logger:   opts.Logger,
		sentry:   opts.SentryHub,
		db:       opts.Database,
	}

	settings := opts.RateLimiter
	if settings.Burst > 0 || settings.RequestsPerSecond > 0 {
		if settings.Burst <= 0 {
			return nil, eris.New("rate limiter burst must be greater than zero")
		}
		if settings.RequestsPerSecond <= 0 {
			return nil, eris.New("rate limiter requests per second must be greater than zero")
		}
		if settings.ClientTTL <= 0 {
			return nil, eris.New("rate limiter client TTL must be greater than zero")
		}
		srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /static/admin.css", adminStylesheetHandler)
	s.mux.HandleFunc("HEAD /static/admin.css", adminStylesheetHandler)

	s.registerAdminPostRoutes()
	s.registerPublicPostRoutes()
	s.registerSettingsRoutes()
	s.registerAdminScreenRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
