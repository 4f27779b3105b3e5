package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// logRequests stamps every request with an id and logs its outcome.
func logRequests(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			rw.Header().Set(requestIDHeader, requestID)

			next.ServeHTTP(rw, r)

			logger.Info("request_completed",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.status = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// panicLogger adapts zap to handlers.RecoveryHandlerLogger.
type panicLogger struct{ log *zap.Logger }

func (p panicLogger) Println(v ...interface{}) {
	p.log.Error("handler_panic", zap.String("panic", fmt.Sprint(v...)))
}
