package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

type stubTokenService struct {
	subjects map[string]string
}

func (s *stubTokenService) Issue(_ context.Context, _ ports.TokenKind, subject string) (string, error) {
	return subject, nil
}

func (s *stubTokenService) Decode(_ context.Context, kind ports.TokenKind, token string) (string, error) {
	if kind != ports.TokenAccess {
		return "", domain.ErrInvalidToken
	}
	subject, ok := s.subjects[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return subject, nil
}

type stubUserCache struct {
	entries map[string]*domain.User
	puts    int
}

func newStubUserCache() *stubUserCache {
	return &stubUserCache{entries: make(map[string]*domain.User)}
}

func (c *stubUserCache) Get(_ context.Context, email string) (*domain.User, error) {
	return c.entries[email], nil
}

func (c *stubUserCache) Put(_ context.Context, user *domain.User) error {
	c.entries[user.Email] = user
	c.puts++
	return nil
}

func (c *stubUserCache) Delete(_ context.Context, email string) error {
	delete(c.entries, email)
	return nil
}

type stubUserRepository struct {
	users map[string]*domain.User
	reads int
}

func (r *stubUserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (r *stubUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.reads++
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *stubUserRepository) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepository) Activate(_ context.Context, _ string) error { return nil }

func (r *stubUserRepository) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func (r *stubUserRepository) UpdateAvatar(_ context.Context, _, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, header string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, rec, handler(c)
}

func TestAuth_CacheHit(t *testing.T) {
	tokens := &stubTokenService{subjects: map[string]string{"good-token": "alice@example.com"}}
	cache := newStubUserCache()
	users := &stubUserRepository{users: map[string]*domain.User{}}

	cached := &domain.User{Email: "alice@example.com", Role: domain.RoleUser, IsActive: true}
	cache.entries["alice@example.com"] = cached

	c, rec, err := invoke(t, Auth(tokens, cache, users), "Bearer good-token")
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if users.reads != 0 {
		t.Fatalf("cache hit must not reach the repository, reads = %d", users.reads)
	}

	user, ok := c.Get(UserContextKey).(*domain.User)
	if !ok || user.Email != "alice@example.com" {
		t.Fatalf("resolved user not injected into context")
	}
}

func TestAuth_CacheMissPopulates(t *testing.T) {
	tokens := &stubTokenService{subjects: map[string]string{"good-token": "bob@example.com"}}
	cache := newStubUserCache()
	users := &stubUserRepository{users: map[string]*domain.User{
		"bob@example.com": {Email: "bob@example.com", Role: domain.RoleUser, IsActive: true},
	}}

	_, rec, err := invoke(t, Auth(tokens, cache, users), "Bearer good-token")
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if users.reads != 1 {
		t.Fatalf("expected 1 repository read, got %d", users.reads)
	}
	if cache.puts != 1 {
		t.Fatalf("cache miss must repopulate the cache, puts = %d", cache.puts)
	}
	if cache.entries["bob@example.com"] == nil {
		t.Fatalf("user not stored in the cache")
	}
}

func TestAuth_Unauthorized(t *testing.T) {
	tokens := &stubTokenService{subjects: map[string]string{"good-token": "gone@example.com"}}
	cache := newStubUserCache()
	users := &stubUserRepository{users: map[string]*domain.User{}}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good-token"},
		{"no token", "Bearer"},
		{"unknown token", "Bearer bad-token"},
		{"unknown subject", "Bearer good-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := invoke(t, Auth(tokens, cache, users), tc.header)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", httpErr.Code)
			}
		})
	}
}

func TestAuth_BearerSchemeCaseInsensitive(t *testing.T) {
	tokens := &stubTokenService{subjects: map[string]string{"good-token": "carol@example.com"}}
	cache := newStubUserCache()
	users := &stubUserRepository{users: map[string]*domain.User{
		"carol@example.com": {Email: "carol@example.com", Role: domain.RoleUser, IsActive: true},
	}}

	_, rec, err := invoke(t, Auth(tokens, cache, users), "bearer good-token")
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
