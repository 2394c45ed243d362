package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/metrics"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/storage"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// ChangelogService is what the HTTP boundary needs from the pipeline.
type ChangelogService interface {
	Generate(ctx context.Context, req services.GenerateRequest) (*models.Changelog, error)
	Commits(ctx context.Context, req services.GenerateRequest) (*services.CommitReport, error)
	List(ctx context.Context, filter storage.ChangelogFilter) ([]models.Changelog, error)
	Get(ctx context.Context, id string) (*models.Changelog, error)
}

type Server struct {
	addr    string
	service ChangelogService
	metrics *metrics.Metrics
	handler http.Handler
}

type Option func(*Server)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func New(addr string, service ChangelogService, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		service: service,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /changelogs", s.handleListChangelogs)
	mux.HandleFunc("GET /changelogs/{id}", s.handleGetChangelog)
	mux.HandleFunc("POST /generate-changelog", s.handleGenerate)
	mux.HandleFunc("GET /github/commits", s.handleCommits)
	mux.HandleFunc("POST /github/commits", s.handleCommits)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return chain(mux,
		logRequests,
		s.instrument,
		recoverPanics,
	)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
// Generation requests are long running; the write timeout is left unset.
func (s *Server) Run(ctx context.Context) error {
	base := logger.FromContext(ctx)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logger.WithLogger(context.Background(), base)
		},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		base.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		base.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
