package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contactsbook/contacts-api/internal/api/metrics"
	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

const (
	accessTokenTTL       = 30 * time.Minute
	refreshTokenTTL      = 7 * 24 * time.Hour
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
)

var tokenWindows = map[ports.TokenKind]time.Duration{
	ports.TokenAccess:       accessTokenTTL,
	ports.TokenRefresh:      refreshTokenTTL,
	ports.TokenVerification: verificationTokenTTL,
	ports.TokenReset:        resetTokenTTL,
}

// TokenService issues and validates the four token kinds as signed HS256
// claims. Each token carries a "kind" claim so an access token cannot be
// replayed as a refresh token or vice versa. Reset tokens are registered in
// an external store keyed by the token string, which makes them single-use
// and externally revocable.
type TokenService struct {
	secret []byte
	resets ports.ResetTokenStore
	now    func() time.Time
}

func NewTokenService(secret string, resets ports.ResetTokenStore) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		resets: resets,
		now:    time.Now,
	}
}

func (s *TokenService) Issue(ctx context.Context, kind ports.TokenKind, subject string) (string, error) {
	window, ok := tokenWindows[kind]
	if !ok {
		return "", domain.ErrInvalidToken
	}

	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"kind": string(kind),
		"exp":  now.Add(window).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if kind == ports.TokenReset {
		// The registry entry and the signature expiry are independent but
		// set to agree.
		if err := s.resets.Register(ctx, token, subject, window); err != nil {
			return "", err
		}
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(kind)).Inc()
	return token, nil
}

func (s *TokenService) Decode(ctx context.Context, kind ports.TokenKind, token string) (string, error) {
	if kind == ports.TokenReset {
		return s.decodeReset(ctx, token)
	}

	subject, err := s.verify(kind, token)
	if err != nil {
		metrics.TokenRejectionsTotal.WithLabelValues(string(kind)).Inc()
		return "", domain.ErrInvalidToken
	}
	return subject, nil
}

// decodeReset validates a one-time reset token. The registry is consulted
// first: an absent entry means the token was already consumed or never
// issued, and no signature check is performed. The entry is consumed only
// after the signature and expiry verify, so a forged token presented with a
// stolen key string cannot burn a legitimate pending reset.
func (s *TokenService) decodeReset(ctx context.Context, token string) (string, error) {
	stored, err := s.resets.Lookup(ctx, token)
	if err != nil {
		return "", err
	}
	if stored == "" {
		metrics.TokenRejectionsTotal.WithLabelValues(string(ports.TokenReset)).Inc()
		return "", domain.ErrInvalidToken
	}

	subject, err := s.verify(ports.TokenReset, token)
	if err != nil || subject != stored {
		metrics.TokenRejectionsTotal.WithLabelValues(string(ports.TokenReset)).Inc()
		return "", domain.ErrInvalidToken
	}

	if err := s.resets.Consume(ctx, token); err != nil {
		return "", err
	}
	return stored, nil
}

// verify checks signature, expiry, and the kind claim, returning the subject.
func (s *TokenService) verify(kind ports.TokenKind, token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}

	if tokenKind, _ := claims["kind"].(string); tokenKind != string(kind) {
		return "", domain.ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", domain.ErrInvalidToken
	}
	return subject, nil
}
