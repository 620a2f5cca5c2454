// Package httpapi serves the browse lists as a JSON API for browser front ends.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/listing"
	"github.com/mmcdole/cinelist/internal/navigation"
)

// Catalog is what the API needs from the catalog client
type Catalog interface {
	domain.Catalog
	domain.GenreProvider
	Detail(ctx context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error)
}

// Options configures the server
type Options struct {
	Addr        string
	SessionTTL  time.Duration
	PageTimeout time.Duration
	Defaults    navigation.Defaults
	Logger      *slog.Logger
}

// Server owns the gin engine and the per-session lists
type Server struct {
	catalog  Catalog
	opts     Options
	sessions *sessionStore
	engine   *gin.Engine
	logger   *slog.Logger
}

// New creates a server. Routes are registered immediately so Handler can be
// used without Run, e.g. from httptest.
func New(catalog Catalog, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Logger = logger

	s := &Server{
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
	s.sessions = newSessionStore(opts.SessionTTL, s.newSession, logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), Logger(logger), CORS())
	s.RegisterRoutes(engine)
	s.engine = engine
	return s
}

func (s *Server) newSession(id string) *session {
	list := listing.New(s.catalog, listing.Options{
		PageTimeout: s.opts.PageTimeout,
		Logger:      s.logger.With("session", id),
	})
	return &session{
		id:     id,
		list:   list,
		binder: navigation.NewBinder(list, s.opts.Defaults, nil, s.logger),
	}
}

// RegisterRoutes registers all HTTP routes
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	api.GET("/genres", s.handleGenres)
	api.GET("/titles", s.handleTitles)
	api.POST("/titles/more", s.handleMore)
	api.GET("/titles/:kind/:id", s.handleDetail)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.evictLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.sessions.closeAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.closeAll()
	s.logger.Info("http api stopped")
	return err
}

func (s *Server) evictLoop(ctx context.Context) {
	if s.opts.SessionTTL <= 0 {
		return
	}
	interval := max(s.opts.SessionTTL/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.evictIdle(); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n, "active", s.sessions.count())
			}
		}
	}
}
