package ports

import "context"

// TokenKind selects the expiry window and, for reset tokens, the one-time-use
// registry behaviour.
type TokenKind string

const (
	TokenAccess       TokenKind = "access"
	TokenRefresh      TokenKind = "refresh"
	TokenVerification TokenKind = "verification"
	TokenReset        TokenKind = "reset"
)

// TokenService issues and validates signed, expiring tokens. Every token
// embeds its kind, and Decode rejects a token presented as the wrong kind.
type TokenService interface {
	// Issue returns a signed token for subject. Reset tokens are additionally
	// registered in the one-time-use store with a matching TTL.
	Issue(ctx context.Context, kind TokenKind, subject string) (string, error)

	// Decode verifies the token and returns its subject. All failure modes
	// (malformed, bad signature, expired, wrong kind, consumed reset token)
	// collapse into domain.ErrInvalidToken. A successful decode of a reset
	// token consumes its registry entry.
	Decode(ctx context.Context, kind TokenKind, token string) (string, error)
}
