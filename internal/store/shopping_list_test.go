package store

import (
	"testing"

	"github.com/dukerupert/pricecheck/internal/database"
	"github.com/dukerupert/pricecheck/internal/model"
)

func setupListTestDB(t *testing.T) (*ShoppingListStore, *PriceStore, *ShopStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	owner, err := NewUserStore(db).Create("alice", "alice@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return NewShoppingListStore(db), NewPriceStore(db), NewShopStore(db), owner.ID
}

func TestShoppingListCRUD(t *testing.T) {
	ls, _, _, owner := setupListTestDB(t)

	l, err := ls.Create(owner, "Weekly", "saturday run")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if l.OwnerID != owner || l.Name != "Weekly" {
		t.Errorf("unexpected list: %+v", l)
	}

	updated, err := ls.Update(l.ID, "Weekly v2", "")
	if err != nil {
		t.Fatalf("update list: %v", err)
	}
	if updated.Name != "Weekly v2" {
		t.Errorf("name = %q, want %q", updated.Name, "Weekly v2")
	}

	if err := ls.SoftDelete(l.ID); err != nil {
		t.Fatalf("soft delete list: %v", err)
	}
	got, err := ls.GetByID(l.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got != nil {
		t.Error("soft-deleted list should not be readable")
	}
}

func TestEntriesAndItems(t *testing.T) {
	ls, _, _, owner := setupListTestDB(t)

	l, err := ls.Create(owner, "Weekly", "")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	e, err := ls.CreateEntry(l.ID, owner)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if e.ListID != l.ID || e.OwnerID != owner {
		t.Errorf("unexpected entry: %+v", e)
	}

	it, err := ls.CreateItem(e.ID, &model.ListItem{Name: "Oat Milk", Unit: "l", PackagingSize: "1"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if it.EntryID != e.ID {
		t.Errorf("item entry id = %d, want %d", it.EntryID, e.ID)
	}

	items, err := ls.ListItems(e.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	if err := ls.SoftDeleteItem(it.ID); err != nil {
		t.Fatalf("soft delete item: %v", err)
	}
	items, err = ls.ListItems(e.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("soft-deleted item should not be listed, got %d", len(items))
	}

	if err := ls.SoftDeleteEntry(e.ID); err != nil {
		t.Fatalf("soft delete entry: %v", err)
	}
	entries, err := ls.ListEntries(l.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("soft-deleted entry should not be listed, got %d", len(entries))
	}
}

func TestPricesAndShopLinks(t *testing.T) {
	ls, ps, ss, owner := setupListTestDB(t)

	l, err := ls.Create(owner, "Weekly", "")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	e, err := ls.CreateEntry(l.ID, owner)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	before := 4.99
	p, err := ps.Create(e.ID, 3.99, true, &before)
	if err != nil {
		t.Fatalf("create price: %v", err)
	}
	if !p.IsDiscounted || p.PriceBeforeDiscount == nil || *p.PriceBeforeDiscount != 4.99 {
		t.Errorf("unexpected price: %+v", p)
	}

	prices, err := ps.ListByEntry(e.ID)
	if err != nil {
		t.Fatalf("list prices: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected 1 price, got %d", len(prices))
	}

	sh, err := ss.Create(owner, &model.Shop{Name: "Corner Market"})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	link, err := ps.AttachShop(p.ID, sh.ID)
	if err != nil {
		t.Fatalf("attach shop: %v", err)
	}
	if link.PriceID != p.ID || link.ShopID != sh.ID {
		t.Errorf("unexpected link: %+v", link)
	}

	links, err := ps.ListShops(p.ID)
	if err != nil {
		t.Fatalf("list price shops: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	if err := ps.SoftDelete(p.ID); err != nil {
		t.Fatalf("soft delete price: %v", err)
	}
	got, err := ps.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get price: %v", err)
	}
	if got != nil {
		t.Error("soft-deleted price should not be readable")
	}
}
