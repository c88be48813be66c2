package client

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestStaticTokenSource(t *testing.T) {
	s := NewStaticTokenSource("abc")
	tok, err := s.Token(context.Background())
	if err != nil || tok != "abc" {
		t.Fatalf("expected abc, got %q, %v", tok, err)
	}
	s.Invalidate()
	if tok, _ := s.Token(context.Background()); tok != "abc" {
		t.Fatalf("expected static token to survive invalidation, got %q", tok)
	}

	if _, err := NewStaticTokenSource("").Token(context.Background()); err == nil {
		t.Fatal("expected empty token source to fail")
	}
}

func TestHMACTokenSource(t *testing.T) {
	secret := []byte("test-signing-secret")
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	s := NewHMACTokenSource(secret, "member-7", 15*time.Minute)
	s.now = func() time.Time { return base }

	tok, err := s.Token(context.Background())
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(tok, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return base }))
	if err != nil {
		t.Fatalf("failed to parse minted token: %v", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims.Subject != "member-7" {
		t.Fatalf("expected subject member-7, got %q", claims.Subject)
	}
	if claims.Issuer != tokenIssuer {
		t.Fatalf("expected issuer %q, got %q", tokenIssuer, claims.Issuer)
	}
	if !claims.ExpiresAt.Time.Equal(base.Add(15 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}

	// A second call inside the validity window returns the cache.
	again, err := s.Token(context.Background())
	if err != nil || again != tok {
		t.Fatalf("expected cached token, got %q, %v", again, err)
	}

	// Near expiry the token is re-minted.
	s.now = func() time.Time { return base.Add(15*time.Minute - 10*time.Second) }
	fresh, err := s.Token(context.Background())
	if err != nil {
		t.Fatalf("failed to re-mint token: %v", err)
	}
	if fresh == tok {
		t.Fatal("expected stale token to be re-minted")
	}

	// Invalidate forces a mint even when the cache would still be valid.
	s.now = func() time.Time { return base.Add(15*time.Minute - 9*time.Second) }
	s.Invalidate()
	reissued, err := s.Token(context.Background())
	if err != nil {
		t.Fatalf("failed to mint after invalidation: %v", err)
	}
	if reissued == fresh {
		t.Fatal("expected invalidation to produce a new token")
	}
}
