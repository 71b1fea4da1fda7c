package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	app "adscore-bot/internal/application"
	"adscore-bot/internal/domain/entity"
	"adscore-bot/internal/domain/palette"
	"adscore-bot/internal/infrastructure/logging"
	"adscore-bot/internal/infrastructure/vision"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePalette принимает изображение телом запроса.
// POST /api/v1/palette?brand=%23ff5500
func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	brand := r.URL.Query().Get("brand")
	if brand != "" {
		if err := s.validate.Var(brand, "hexcolor"); err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("brand: %w", err))
			return
		}
	}

	report, err := s.creative.ExtractPalette(r.Context(), image)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if brand != "" {
		accessible := palette.SuggestAccessiblePalette(report.Colors, brand)
		report.Accessible = &accessible
	}
	s.writeJSON(w, http.StatusOK, report)
}

// POST /api/v1/heatmap
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	var doc entity.Document
	if !s.decode(w, r, &doc) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.creative.PredictHeatmap(doc))
}

// POST /api/v1/ctr
func (s *Server) handleCTR(w http.ResponseWriter, r *http.Request) {
	var req CTRRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.creative.EstimateCTR(req.Document, req.Heatmap))
}

// POST /api/v1/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.creative.Analyze(r.Context(), app.AnalyzeRequest{
		Document:   req.Document,
		Image:      req.Image,
		BrandColor: req.BrandColor,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// POST /api/v1/abtest
func (s *Server) handleABTest(w http.ResponseWriter, r *http.Request) {
	var req ABTestRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.creative.PredictABTest(r.Context(), req.Variants, req.PriorSamples)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// POST /api/v1/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.creative.CompareVariants(r.Context(), app.CompareRequest{
		Variants:     req.Variants,
		Industry:     req.Industry,
		PriorSamples: req.PriorSamples,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// decode читает JSON и проверяет теги validate. При ошибке ответ уже записан.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrEmptyImage), errors.Is(err, app.ErrNoVariants), errors.Is(err, vision.ErrDecode):
		s.writeError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, app.ErrSamplerNotConfigured):
		s.writeError(w, r, http.StatusServiceUnavailable, err)
	case errors.Is(err, r.Context().Err()) && r.Context().Err() != nil:
		s.writeError(w, r, http.StatusGatewayTimeout, err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		s.log.WithFields(logrus.Fields{
			logging.RequestIDKey: id,
			"error":              err.Error(),
		}).Error("request failed")
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: id})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("write response")
	}
}
