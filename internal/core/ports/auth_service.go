package ports

import (
	"context"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// SignupInput carries the data for a new account.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// AuthService defines the account lifecycle use cases: signup, email
// verification, login, token refresh, and the password reset protocol.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	// VerifyEmail activates the account and returns a human-readable status
	// message. Verifying an already-active account is an idempotent success.
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}
