package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/thywilljoshua/studynotes/internal/extract"
	"github.com/thywilljoshua/studynotes/internal/metrics"
	"github.com/thywilljoshua/studynotes/internal/session"
	"github.com/thywilljoshua/studynotes/internal/study"
)

type Config struct {
	Extractor extract.Extractor
	Service   *study.Service
	Store     *session.Store
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	// Client is used for {"url": ...} uploads; nil means a client bounded by
	// extract.DefaultFetchTimeout.
	Client *http.Client

	MaxUploadBytes int64
	MaxQuestions   int
	PreviewChars   int
}

type Server struct {
	cfg Config
}

func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = session.NewStore()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 10
	}
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = extract.DefaultPreviewChars
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: extract.DefaultFetchTimeout}
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{cfg: cfg}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("elapsed", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Mount("/api/documents", s.documentRoutes())
	return r
}

func (s *Server) documentRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", s.createDocument)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.getDocument)
		r.Delete("/", s.deleteDocument)
		r.Post("/summary", s.generateSummary)
		r.Post("/mcq", s.generateMCQs)
		r.Post("/mixed", s.generateMixed)
		r.Get("/export/{kind}", s.exportArtifact)
	})
	return r
}

// ListenAndServe serves until ctx is done, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info().Msg("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func logger(r *http.Request) *zerolog.Logger {
	return hlog.FromRequest(r)
}
