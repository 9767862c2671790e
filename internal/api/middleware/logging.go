package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequestLogging присваивает запросу ID (или берёт пришедший X-Request-ID)
// и логирует метод, путь, статус и длительность
func RequestLogging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(HeaderRequestID)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, requestID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))

			duration := time.Since(start)
			if wrapped.statusCode >= http.StatusInternalServerError {
				log.Warn("request_id=%s %s %s status=%d duration_ms=%d",
					requestID, r.Method, r.URL.Path, wrapped.statusCode, duration.Milliseconds())
				return
			}
			log.Info("request_id=%s %s %s status=%d duration_ms=%d",
				requestID, r.Method, r.URL.Path, wrapped.statusCode, duration.Milliseconds())
		})
	}
}

// RequestIDFromContext возвращает ID запроса, если он есть
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// responseWriter запоминает статус ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
