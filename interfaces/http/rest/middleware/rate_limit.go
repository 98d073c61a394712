package middleware

import (
	"net/http"

	"tweetbloom/pkg/auth"
	pkgerrors "tweetbloom/pkg/errors"

	"go.uber.org/zap"
)

// KeyFunc picks the identity a request is counted against
type KeyFunc func(r *http.Request) string

// ByUser keys on the authenticated user, falling back to the client IP
func ByUser(r *http.Request) string {
	if user, err := auth.GetUserFromContext(r.Context()); err == nil {
		return "user:" + user.UserID
	}
	return "ip:" + ClientIP(r)
}

// ByIP keys on the client IP
func ByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// RateLimit rejects requests over limit per minute for one route class.
// Limiter errors are logged and the request proceeds.
func RateLimit(class string, limit int, limiter auth.RateLimiter, key KeyFunc, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := class + ":" + key(r)
			allowed, err := limiter.Allow(r.Context(), id)
			if err != nil {
				logger.Warn("Rate limiter error", zap.String("class", class), zap.Error(err))
			}
			if !allowed {
				logger.Debug("Rate limit exceeded", zap.String("class", class), zap.String("key", id))
				errHandler.Handle(w, r, pkgerrors.NewRateLimitError(limit, "1m").
					WithDetails(map[string]interface{}{"class": class}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
