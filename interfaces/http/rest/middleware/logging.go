package middleware

import (
	"net/http"
	"time"

	"orgconfig/pkg/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietRoutes are polled by load balancers and scrapers; they log at debug.
var quietRoutes = map[string]bool{"/health": true, "/metrics": true}

// Logger writes one access log line per request. The level follows the
// response status: 5xx at error, 4xx at warn, the rest at info.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			level := accessLevel(ww.Status())
			if level == zapcore.InfoLevel && quietRoutes[route] {
				level = zapcore.DebugLevel
			}
			ce := logger.Check(level, "HTTP request")
			if ce == nil {
				return
			}
			ce.Write(
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// principalField names the authenticated caller, if any.
func principalField(r *http.Request) zap.Field {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return zap.String("principal", p.ID)
	}
	return zap.Skip()
}
