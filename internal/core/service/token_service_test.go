package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

type stubResetStore struct {
	entries map[string]string
}

func newStubResetStore() *stubResetStore {
	return &stubResetStore{entries: make(map[string]string)}
}

func (s *stubResetStore) Register(_ context.Context, token, email string, _ time.Duration) error {
	s.entries[token] = email
	return nil
}

func (s *stubResetStore) Lookup(_ context.Context, token string) (string, error) {
	return s.entries[token], nil
}

func (s *stubResetStore) Consume(_ context.Context, token string) error {
	delete(s.entries, token)
	return nil
}

func newTestTokenService(store ports.ResetTokenStore) *TokenService {
	return NewTokenService("test-secret", store)
}

func TestTokenService_IssueDecode_AllKinds(t *testing.T) {
	svc := newTestTokenService(newStubResetStore())

	kinds := []ports.TokenKind{
		ports.TokenAccess,
		ports.TokenRefresh,
		ports.TokenVerification,
		ports.TokenReset,
	}

	for _, kind := range kinds {
		token, err := svc.Issue(context.Background(), kind, "alice@example.com")
		if err != nil {
			t.Fatalf("Issue(%s) returned error: %v", kind, err)
		}

		subject, err := svc.Decode(context.Background(), kind, token)
		if err != nil {
			t.Fatalf("Decode(%s) returned error: %v", kind, err)
		}
		if subject != "alice@example.com" {
			t.Fatalf("Decode(%s) subject = %q, want alice@example.com", kind, subject)
		}
	}
}

func TestTokenService_Decode_Expired(t *testing.T) {
	svc := newTestTokenService(newStubResetStore())

	issued := time.Now().UTC()
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(context.Background(), ports.TokenAccess, "bob@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Just inside the window the token is still valid.
	svc.now = func() time.Time { return issued.Add(29 * time.Minute) }
	if _, err := svc.Decode(context.Background(), ports.TokenAccess, token); err != nil {
		t.Fatalf("Decode before expiry returned error: %v", err)
	}

	// Past the 30 minute access window it is invalid.
	svc.now = func() time.Time { return issued.Add(31 * time.Minute) }
	if _, err := svc.Decode(context.Background(), ports.TokenAccess, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenService_Decode_WrongKind(t *testing.T) {
	svc := newTestTokenService(newStubResetStore())

	access, err := svc.Issue(context.Background(), ports.TokenAccess, "carol@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// An access token must not pass refresh-token validation and vice versa.
	if _, err := svc.Decode(context.Background(), ports.TokenRefresh, access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token on refresh path, got %v", err)
	}

	refresh, err := svc.Issue(context.Background(), ports.TokenRefresh, "carol@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := svc.Decode(context.Background(), ports.TokenAccess, refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh token on access path, got %v", err)
	}
}

func TestTokenService_Decode_Malformed(t *testing.T) {
	svc := newTestTokenService(newStubResetStore())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Decode(context.Background(), ports.TokenAccess, token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestTokenService_Decode_BadSignature(t *testing.T) {
	store := newStubResetStore()
	svc := newTestTokenService(store)

	other := NewTokenService("other-secret", store)
	forged, err := other.Issue(context.Background(), ports.TokenAccess, "dave@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Decode(context.Background(), ports.TokenAccess, forged); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged signature, got %v", err)
	}
}

func TestTokenService_ResetToken_OneTimeUse(t *testing.T) {
	store := newStubResetStore()
	svc := newTestTokenService(store)

	token, err := svc.Issue(context.Background(), ports.TokenReset, "erin@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected one registry entry, got %d", len(store.entries))
	}

	subject, err := svc.Decode(context.Background(), ports.TokenReset, token)
	if err != nil {
		t.Fatalf("first Decode returned error: %v", err)
	}
	if subject != "erin@example.com" {
		t.Fatalf("unexpected subject: %q", subject)
	}

	// The token is still signature-valid but its registry entry is consumed.
	if _, err := svc.Decode(context.Background(), ports.TokenReset, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on second use, got %v", err)
	}
}

func TestTokenService_ResetToken_ForgedDoesNotConsume(t *testing.T) {
	store := newStubResetStore()
	svc := newTestTokenService(store)

	token, err := svc.Issue(context.Background(), ports.TokenReset, "frank@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Plant a registry entry under a forged token string. The signature
	// check fails, and the legitimate pending reset must survive.
	forged := token + "tampered"
	store.entries[forged] = "frank@example.com"

	if _, err := svc.Decode(context.Background(), ports.TokenReset, forged); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged token, got %v", err)
	}
	if _, ok := store.entries[forged]; !ok {
		t.Fatalf("forged decode must not consume the registry entry")
	}

	if _, err := svc.Decode(context.Background(), ports.TokenReset, token); err != nil {
		t.Fatalf("legitimate reset token no longer decodes: %v", err)
	}
}

func TestTokenService_ResetToken_SubjectMismatch(t *testing.T) {
	store := newStubResetStore()
	svc := newTestTokenService(store)

	token, err := svc.Issue(context.Background(), ports.TokenReset, "grace@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Registry and claim disagree: treat as invalid.
	store.entries[token] = "mallory@example.com"
	if _, err := svc.Decode(context.Background(), ports.TokenReset, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on subject mismatch, got %v", err)
	}
}
