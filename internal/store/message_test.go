package store

import (
	"testing"

	"github.com/dukerupert/pricecheck/internal/database"
)

func setupMessageTestDB(t *testing.T) (*MessageStore, *EmailListStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMessageStore(db), NewEmailListStore(db)
}

func TestMessageCreate(t *testing.T) {
	ms, _ := setupMessageTestDB(t)

	m, err := ms.Create("ref-123", "Alice", "alice@example.com", "Hello", "Just saying hi")
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if m.Reference != "ref-123" {
		t.Errorf("reference = %q, want %q", m.Reference, "ref-123")
	}
	if m.Subject != "Hello" || m.Body != "Just saying hi" {
		t.Errorf("unexpected message: %+v", m)
	}
}

func TestEmailListAddIdempotent(t *testing.T) {
	_, els := setupMessageTestDB(t)

	first, err := els.Add("Alice", "Alice@Example.com", "landing")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", first.Email)
	}

	// Re-subscribing the same address must not error or duplicate.
	second, err := els.Add("Alice again", "alice@example.com", "footer")
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-add returned id %d, want %d", second.ID, first.ID)
	}
}
