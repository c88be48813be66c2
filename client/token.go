package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer token attached to API requests.
type TokenSource interface {
	// Token returns a token expected to be valid for the next request.
	Token(ctx context.Context) (string, error)
	// Invalidate discards any cached token so the next Token call
	// produces a fresh one. Called by the client after a 401.
	Invalidate()
}

// StaticTokenSource hands out a fixed, pre-issued token. Invalidate
// is a no-op; a 401 with a static token surfaces to the caller.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource wraps a pre-issued token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("no token configured")
	}
	return s.token, nil
}

func (s *StaticTokenSource) Invalidate() {}

const (
	tokenIssuer = "herald"
	// tokenSlack is how long before expiry a cached token is
	// considered stale and re-minted.
	tokenSlack = 30 * time.Second
)

// HMACTokenSource mints HS256 member tokens from a shared secret and
// caches them until shortly before expiry. Safe for concurrent use.
type HMACTokenSource struct {
	secret   []byte
	memberID string
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewHMACTokenSource creates a source minting tokens for memberID
// with the given lifetime.
func NewHMACTokenSource(secret []byte, memberID string, ttl time.Duration) *HMACTokenSource {
	return &HMACTokenSource{
		secret:   secret,
		memberID: memberID,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *HMACTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(tokenSlack).Before(s.expiry) {
		return s.token, nil
	}

	expiry := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   s.memberID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign member token: %w", err)
	}
	s.token, s.expiry = token, expiry
	return token, nil
}

func (s *HMACTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
}
