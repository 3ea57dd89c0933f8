// Package server exposes the static scorer and a trained risk model over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
	"github.com/YuminosukeSato/glucorisk/pretrained"
	"github.com/YuminosukeSato/glucorisk/risk"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Config holds the dependencies of the HTTP service.
type Config struct {
	Addr string
	// Model may be nil; /v1/predict and /v1/model then answer 503.
	Model  *risk.Model
	Scorer *pretrained.Scorer
	Logger log.Logger
}

// Server serves the scoring API.
type Server struct {
	addr   string
	model  *risk.Model
	scorer *pretrained.Scorer
	logger log.Logger
}

// New creates a Server. A nil Scorer is replaced by a lenient one.
func New(cfg Config) *Server {
	s := &Server{
		addr:   cfg.Addr,
		model:  cfg.Model,
		scorer: cfg.Scorer,
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	if s.scorer == nil {
		s.scorer = pretrained.NewScorer(pretrained.WithLogger(s.logger))
	}
	s.logger = s.logger.With(log.ComponentKey, "server")
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Post("/predict", s.handlePredict)
		r.Get("/model", s.handleModel)
	})
	return r
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("listening", "addr", s.addr, "model_loaded", s.model != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			log.HTTPMethodKey, r.Method,
			log.HTTPPathKey, r.URL.Path,
			log.HTTPStatusKey, ww.Status(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
