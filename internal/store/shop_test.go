package store

import (
	"testing"

	"github.com/dukerupert/pricecheck/internal/database"
	"github.com/dukerupert/pricecheck/internal/model"
)

func setupShopTestDB(t *testing.T) (*ShopStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewShopStore(db), NewUserStore(db)
}

func TestShopCreateAndGet(t *testing.T) {
	ss, us := setupShopTestDB(t)
	owner, err := us.Create("alice", "alice@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	lat := 52.37
	sh, err := ss.Create(owner.ID, &model.Shop{
		Name:     "Corner Market",
		City:     "Amsterdam",
		Latitude: &lat,
	})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	if sh.OwnerID != owner.ID {
		t.Errorf("owner id = %d, want %d", sh.OwnerID, owner.ID)
	}
	if sh.Latitude == nil || *sh.Latitude != 52.37 {
		t.Errorf("latitude = %v, want 52.37", sh.Latitude)
	}
	if !sh.Active || sh.Deleted {
		t.Error("new shop should be active and not deleted")
	}
}

func TestShopListByOwnerScoped(t *testing.T) {
	ss, us := setupShopTestDB(t)
	alice, _ := us.Create("alice", "alice@example.com", "hash", "", "")
	bob, _ := us.Create("bob", "bob@example.com", "hash", "", "")

	if _, err := ss.Create(alice.ID, &model.Shop{Name: "Alice Mart"}); err != nil {
		t.Fatalf("create shop: %v", err)
	}
	if _, err := ss.Create(bob.ID, &model.Shop{Name: "Bob Bazaar"}); err != nil {
		t.Fatalf("create shop: %v", err)
	}

	shops, err := ss.ListByOwner(alice.ID)
	if err != nil {
		t.Fatalf("list shops: %v", err)
	}
	if len(shops) != 1 {
		t.Fatalf("expected 1 shop for alice, got %d", len(shops))
	}
	if shops[0].Name != "Alice Mart" {
		t.Errorf("shop name = %q, want %q", shops[0].Name, "Alice Mart")
	}
}

func TestShopSoftDelete(t *testing.T) {
	ss, us := setupShopTestDB(t)
	owner, _ := us.Create("alice", "alice@example.com", "hash", "", "")

	sh, err := ss.Create(owner.ID, &model.Shop{Name: "Closing Down"})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	if err := ss.SoftDelete(sh.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := ss.GetByID(sh.ID)
	if err != nil {
		t.Fatalf("get shop: %v", err)
	}
	if got != nil {
		t.Error("soft-deleted shop should not be readable")
	}

	shops, err := ss.ListByOwner(owner.ID)
	if err != nil {
		t.Fatalf("list shops: %v", err)
	}
	if len(shops) != 0 {
		t.Errorf("soft-deleted shop should not appear in listing, got %d", len(shops))
	}
}
