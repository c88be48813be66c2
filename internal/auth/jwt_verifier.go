package auth

import (
	"log/slog"

	"herald/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier implements TokenVerifier for HS256 member tokens signed
// with a shared secret. The demo server and inboxctl agree on the
// secret via TOKEN_SECRET; there is no key distribution step.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier for tokens signed with secret.
func NewHMACVerifier(secret string, logger *slog.Logger) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		logger: logger,
	}
}

// VerifyToken validates a member token and returns its subject.
// Returns domain.ErrUnauthorized for every failure mode so callers
// cannot leak why a token was rejected.
func (v *HMACVerifier) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, v.keyFunc,
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	// The subject claim carries the member ID
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return "", domain.ErrUnauthorized
	}

	return claims.Subject, nil
}

func (v *HMACVerifier) keyFunc(*jwt.Token) (interface{}, error) {
	return v.secret, nil
}
