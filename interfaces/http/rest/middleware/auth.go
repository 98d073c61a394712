package middleware

import (
	"errors"
	"net/http"
	"strings"

	"tweetbloom/pkg/auth"
	pkgerrors "tweetbloom/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer token to a user and stores it in the
// request context
func Authenticate(verifier auth.TokenVerifier, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("Missing authentication token"))
				return
			}

			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("Token rejected",
					zap.Error(err),
					zap.String("ip", ClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError(unauthorizedMessage(err)))
				return
			}

			rememberUser(r.Context(), user)
			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}

// extractToken reads the Authorization header, with or without the Bearer scheme
func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// ClientIP returns the caller address. chi's RealIP middleware has already
// applied forwarding headers to RemoteAddr.
func ClientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 && !strings.HasSuffix(addr, "]") {
		return strings.Trim(addr[:idx], "[]")
	}
	return strings.Trim(addr, "[]")
}
