package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"herald/internal/auth"
	"herald/internal/httputil"
)

// MemberToken authenticates API requests with a bearer member token
// and stores the verified member ID in the request context. Requests
// without a valid token never reach the wrapped handler.
func MemberToken(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			memberID, err := verifier.VerifyToken(tokenString)
			if err != nil {
				logger.Debug("member token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid member token")
				return
			}

			next.ServeHTTP(w, httputil.WithMemberID(r, memberID))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
// The "Bearer" scheme is matched case-insensitively per RFC 6750.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
