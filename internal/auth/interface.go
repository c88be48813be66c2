package auth

// TokenVerifier defines the interface for member token verification.
// The middleware depends on this abstraction rather than a concrete
// verifier, so tests can substitute a stub.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the member ID
	// it was minted for. Returns an error if the token is invalid,
	// expired, or carries no subject.
	VerifyToken(tokenString string) (string, error)
}
