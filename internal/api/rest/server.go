// Package rest отдаёт оценку креативов как JSON API поверх HTTP.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	app "adscore-bot/internal/application"
)

const (
	maxBodyBytes   = 10 << 20
	requestTimeout = 30 * time.Second
)

// Server HTTP-сервер API
type Server struct {
	router   *chi.Mux
	creative *app.CreativeService
	validate *validator.Validate
	log      *logrus.Logger
}

// NewServer собирает маршруты. metrics может быть nil, тогда /metrics не публикуется.
func NewServer(creative *app.CreativeService, metrics http.Handler, log *logrus.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		creative: creative,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}

	r := s.router
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Post("/palette", s.handlePalette)
		r.Post("/heatmap", s.handleHeatmap)
		r.Post("/ctr", s.handleCTR)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/abtest", s.handleABTest)
		r.Post("/compare", s.handleCompare)
	})

	return s
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает addr до отмены ctx и затем корректно завершает соединения.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http server stopping")
	return srv.Shutdown(shutdownCtx)
}
