package observability

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the service logger writing to out. Development gets a
// human-readable console at debug level; every other environment gets JSON lines
// at info level with caller information.
func NewLogger(out io.Writer, serviceName, env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("service", serviceName).
			Logger()
	}
	return zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().Timestamp().Caller().
		Str("service", serviceName).
		Str("env", env).
		Logger()
}

// InitLogger installs NewLogger on stdout as the global logger and returns it.
func InitLogger(serviceName, env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = NewLogger(os.Stdout, serviceName, env)
	return log.Logger
}

// RequestScoped tags logger with the chi request id carried by ctx, if any.
func RequestScoped(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return logger.With().Str("request_id", reqID).Logger()
	}
	return logger
}

// RequestLogger is the access log middleware.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				event := logger.Info()
				if status >= http.StatusInternalServerError {
					event = logger.Error()
				}
				event.
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(started)).
					Msg("http request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
