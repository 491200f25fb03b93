package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerMiddleware logs every request with its request ID, status, size and duration.
// Server errors are logged at error level and client errors at warn level.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			if ce := logger.Check(levelForStatus(ww.statusCode), "HTTP request"); ce != nil {
				ce.Write(
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("query", r.URL.RawQuery),
					zap.Int("status", ww.statusCode),
					zap.Int64("request_bytes", r.ContentLength),
					zap.Int("response_bytes", ww.written),
					zap.Duration("duration", time.Since(start)),
					zap.String("ip", r.RemoteAddr),
					zap.String("user_agent", r.UserAgent()),
				)
			}
		})
	}
}

func levelForStatus(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// statusRecorder captures the status code and body size written by the handler
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}
