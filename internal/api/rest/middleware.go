package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"adscore-bot/internal/infrastructure/logging"
)

const requestIDHeader = "X-Request-ID"

type ctxKey struct{}

// requestID берёт идентификатор из заголовка или выдаёт новый UUID
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestIDFrom возвращает идентификатор запроса из контекста
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return "unknown"
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := logrus.Fields{
			logging.RequestIDKey: RequestIDFrom(r.Context()),
			"method":             r.Method,
			"path":               r.URL.Path,
			"status":             ww.Status(),
			"latency_ms":         time.Since(start).Milliseconds(),
			"ip":                 r.RemoteAddr,
			"response_size":      ww.BytesWritten(),
		}
		entry := s.log.WithFields(fields)
		switch status := ww.Status(); {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Success")
		}
	})
}
