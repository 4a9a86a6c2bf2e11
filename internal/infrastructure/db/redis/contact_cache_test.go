package redis

import (
	"context"
	"testing"
	"time"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

func testContacts() []*domain.Contact {
	return []*domain.Contact{
		{
			ID:          "c1",
			FirstName:   "Ann",
			LastName:    "Tester",
			Email:       "ann@example.com",
			PhoneNumber: "+15550100",
			Birthday:    time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "c2",
			FirstName: "Ben",
			LastName:  "Tester",
			Email:     "ben@example.com",
			Birthday:  time.Date(1985, time.July, 1, 0, 0, 0, 0, time.UTC),
			Note:      "met at gophercon",
		},
	}
}

func TestContactPageCache_PutGet(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewContactPageCache(client)

	want := testContacts()
	if err := cache.Put(context.Background(), "u1", 0, 10, want); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok, err := cache.Get(context.Background(), "u1", 0, 10)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if len(got) != len(want) {
		t.Fatalf("page length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Email != want[i].Email || !got[i].Birthday.Equal(want[i].Birthday) {
			t.Fatalf("contact %d mismatch:\ngot  %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestContactPageCache_MissOnDifferentPage(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewContactPageCache(client)

	if err := cache.Put(context.Background(), "u1", 0, 10, testContacts()); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	// skip and limit are both part of the key.
	if _, ok, err := cache.Get(context.Background(), "u1", 10, 10); err != nil || ok {
		t.Fatalf("expected a miss for a different skip, ok=%v err=%v", ok, err)
	}
	if _, ok, err := cache.Get(context.Background(), "u1", 0, 20); err != nil || ok {
		t.Fatalf("expected a miss for a different limit, ok=%v err=%v", ok, err)
	}
	if _, ok, err := cache.Get(context.Background(), "u2", 0, 10); err != nil || ok {
		t.Fatalf("expected a miss for a different user, ok=%v err=%v", ok, err)
	}
}

func TestContactPageCache_InvalidateClearsUserNamespace(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewContactPageCache(client)

	pages := testContacts()
	for _, skip := range []int64{0, 10, 20} {
		if err := cache.Put(context.Background(), "u1", skip, 10, pages); err != nil {
			t.Fatalf("Put returned error: %v", err)
		}
	}
	if err := cache.Put(context.Background(), "u2", 0, 10, pages); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	if err := cache.Invalidate(context.Background(), "u1"); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}

	for _, skip := range []int64{0, 10, 20} {
		if _, ok, err := cache.Get(context.Background(), "u1", skip, 10); err != nil || ok {
			t.Fatalf("u1 page skip=%d survived invalidation, ok=%v err=%v", skip, ok, err)
		}
	}

	// Other owners' pages are untouched.
	if _, ok, err := cache.Get(context.Background(), "u2", 0, 10); err != nil || !ok {
		t.Fatalf("u2 page lost to u1's invalidation, ok=%v err=%v", ok, err)
	}
}

func TestContactPageCache_InvalidateEmptyNamespace(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewContactPageCache(client)

	if err := cache.Invalidate(context.Background(), "u1"); err != nil {
		t.Fatalf("Invalidate on empty namespace returned error: %v", err)
	}
}

func TestContactPageCache_EntryExpires(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewContactPageCache(client)

	if err := cache.Put(context.Background(), "u1", 0, 10, testContacts()); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if _, ok, err := cache.Get(context.Background(), "u1", 0, 10); err != nil || ok {
		t.Fatalf("entry survived past its TTL, ok=%v err=%v", ok, err)
	}
}
