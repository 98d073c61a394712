package middleware

import (
	"context"
	"net/http"
	"time"

	"tweetbloom/pkg/auth"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger logs one line per request. Server errors log at error level and
// client errors at warn; /health and /ready checks only show at debug.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Authenticate runs further down the chain and stores the user
			// on a copy of the request, so hand it a holder to fill in.
			holder := &userHolder{}
			next.ServeHTTP(ww, r.WithContext(withUserHolder(r.Context(), holder)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := levelFor(r.URL.Path, status)
			if ce := logger.Check(level, "HTTP Request"); ce != nil {
				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("requestID", middleware.GetReqID(r.Context())),
					zap.String("ip", ClientIP(r)),
				}
				if holder.user != nil {
					fields = append(fields, zap.String("userID", holder.user.UserID))
				}
				ce.Write(fields...)
			}
		})
	}
}

func levelFor(path string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case path == "/health" || path == "/ready":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

type userHolder struct {
	user *auth.UserContext
}

type holderKey struct{}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

// rememberUser records the authenticated user for the request log line
func rememberUser(ctx context.Context, user *auth.UserContext) {
	if h, ok := ctx.Value(holderKey{}).(*userHolder); ok {
		h.user = user
	}
}
