// ABOUTME: HTTP server for the embeddable widget and its admin page
// ABOUTME: Wires chi routing, visitor identity, CORS, rate limiting, metrics

package webembed

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/emberhq/ember-widget/internal/backend"
	"github.com/emberhq/ember-widget/internal/config"
	"github.com/emberhq/ember-widget/internal/storage"
	"github.com/emberhq/ember-widget/internal/widget"
)

// BackendAPI is the slice of the chat backend the web surface uses
type BackendAPI interface {
	widget.SettingsFetcher
	widget.HistoryFetcher
	widget.MessageSender
	ListSessions(ctx context.Context, agentID, userID string) ([]backend.SessionSummary, error)
}

// Server serves the widget routes. It owns the conversation registry;
// storage and the backend client are injected.
type Server struct {
	cfg      *config.Config
	store    storage.KV
	backend  BackendAPI
	registry *widget.Registry
	logger   *slog.Logger
	metrics  *metrics
	limiter  *visitorLimiter
	loader   []byte

	// secureCookies controls SameSite=None cookies, which browsers only
	// accept over HTTPS. Derived from the configured base URL.
	secureCookies bool
}

// New creates a widget server
func New(cfg *config.Config, store storage.KV, be BackendAPI, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "webembed")

	loader, err := buildLoaderScript(cfg.Server.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:           cfg,
		store:         store,
		backend:       be,
		registry:      widget.NewRegistry(store, be, cfg.Widget.DefaultGreeting, logger),
		logger:        logger,
		metrics:       newMetrics(),
		limiter:       newVisitorLimiter(cfg.Widget.RateLimitRPS, cfg.Widget.RateLimitBurst),
		loader:        loader,
		secureCookies: strings.HasPrefix(cfg.Server.BaseURL, "https://"),
	}, nil
}

// Close releases server resources
func (s *Server) Close() {
	s.registry.Close()
}

// Routes builds the widget router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(s.cfg.Widget.AllowedOrigins))

	// The loader script needs no visitor identity; cookies are only set
	// once the iframe itself loads.
	r.Get("/widget.js", s.handleLoaderScript)

	r.Group(func(r chi.Router) {
		r.Use(s.visitorMiddleware())

		r.Get("/embed", s.handleEmbed)
		r.Post("/embed/refresh", s.handleRefresh)
		r.Get("/admin/sessions", s.handleAdminSessions)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitMiddleware())
			r.Post("/embed/send", s.handleSend)
		})
	})

	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, s.metrics.handler())
	}

	return r
}
