package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/contactsbook/contacts-api/internal/api/metrics"
	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

// AuthService implements the account lifecycle: signup, email verification,
// login, token refresh, and the one-time password reset protocol. Email
// dispatch is fire-and-forget through the background mail dispatcher.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenService
	cache   ports.UserCache
	mail    ports.MailDispatcher
	baseURL string
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	cache ports.UserCache,
	mail ports.MailDispatcher,
	baseURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		cache:   cache,
		mail:    mail,
		baseURL: baseURL,
		log:     log,
	}
}

// Signup creates an inactive account with the default "user" role and queues
// a verification email. Duplicate email or username is a conflict.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     false,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, created); err != nil {
		// The account exists either way; the user can request a resend.
		s.log.Error().Err(err).Str("email", created.Email).Msg("failed to queue verification email")
	}

	metrics.SignupsTotal.Inc()
	return created, nil
}

// VerifyEmail activates the account named by the token's subject. Verifying
// an already-active account succeeds without changing state.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	email, err := s.tokens.Decode(ctx, ports.TokenVerification, token)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if user.IsActive {
		return "email already confirmed", nil
	}

	if err := s.users.Activate(ctx, user.Email); err != nil {
		return "", err
	}
	return "email verified successfully", nil
}

// ResendVerification issues a fresh verification token and queues the email,
// with no other account side effects.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if user.IsActive {
		return "email already confirmed", nil
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return "", err
	}
	return "verification email resent", nil
}

// Login authenticates an active account and returns a fresh token pair. The
// session cache is refreshed synchronously on success. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("not_confirmed").Inc()
		return nil, domain.ErrEmailNotConfirmed
	}

	if err := s.cache.Put(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// Refresh validates a refresh token and re-issues a new pair if the subject
// still resolves to an existing user. Access tokens are rejected here: the
// kind claim must say "refresh".
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	email, err := s.tokens.Decode(ctx, ports.TokenRefresh, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return s.issuePair(ctx, user.Email)
}

// RequestPasswordReset issues a one-time reset token for an existing account
// and queues the reset email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, ports.TokenReset, user.Email)
	if err != nil {
		return err
	}

	s.mail.Enqueue(ports.MailJob{
		Kind:     ports.MailPasswordReset,
		To:       user.Email,
		Username: user.Username,
		Link:     s.confirmLink("/auth/reset-password/confirm", token),
	})
	return nil
}

// ConfirmPasswordReset consumes the reset token and stores the new password
// hash. The session cache entry is dropped so the stale snapshot cannot
// outlive the password change.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	email, err := s.tokens.Decode(ctx, ports.TokenReset, token)
	if err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.Email, hash); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, user.Email); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to drop session cache entry after password reset")
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, email string) (*ports.TokenPair, error) {
	access, err := s.tokens.Issue(ctx, ports.TokenAccess, email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(ctx, ports.TokenRefresh, email)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *domain.User) error {
	token, err := s.tokens.Issue(ctx, ports.TokenVerification, user.Email)
	if err != nil {
		return err
	}

	s.mail.Enqueue(ports.MailJob{
		Kind:     ports.MailVerification,
		To:       user.Email,
		Username: user.Username,
		Link:     s.confirmLink("/auth/verify-email", token),
	})
	return nil
}

func (s *AuthService) confirmLink(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", s.baseURL, path, url.QueryEscape(token))
}
