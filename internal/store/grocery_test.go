package store

import (
	"testing"
	"time"

	"github.com/dukerupert/pricecheck/internal/database"
	"github.com/dukerupert/pricecheck/internal/model"
)

func setupGroceryTestDB(t *testing.T) *GroceryStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGroceryStore(db)
}

func TestGetOrCreateByBarcode(t *testing.T) {
	gs := setupGroceryTestDB(t)

	g, created, err := gs.GetOrCreateByBarcode("0123456789012")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if !created {
		t.Error("first call should create the record")
	}
	if g.Barcode == nil || *g.Barcode != "0123456789012" {
		t.Errorf("barcode = %v, want 0123456789012", g.Barcode)
	}
	if g.ManuallyEntered {
		t.Error("shell record should not be flagged as manually entered")
	}

	again, created, err := gs.GetOrCreateByBarcode("0123456789012")
	if err != nil {
		t.Fatalf("second get or create: %v", err)
	}
	if created {
		t.Error("second call must not create another record")
	}
	if again.ID != g.ID {
		t.Errorf("second call returned id %d, want %d", again.ID, g.ID)
	}
}

func TestManualCreateSetsFlag(t *testing.T) {
	gs := setupGroceryTestDB(t)

	g, err := gs.Create(&model.Grocery{Name: "Oat Milk", Category: "Dairy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !g.ManuallyEntered {
		t.Error("manual create should set the manually entered flag")
	}
	if g.Barcode != nil {
		t.Error("manual record without barcode should have nil barcode")
	}
}

func TestUpdateMarksManuallyEntered(t *testing.T) {
	gs := setupGroceryTestDB(t)

	g, _, err := gs.GetOrCreateByBarcode("111")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	updated, err := gs.Update(g.ID, &model.Grocery{Name: "Corrected Name"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.ManuallyEntered {
		t.Error("edited record should be flagged manually entered")
	}
	if updated.Name != "Corrected Name" {
		t.Errorf("name = %q, want %q", updated.Name, "Corrected Name")
	}
}

func TestSaveLookupState(t *testing.T) {
	gs := setupGroceryTestDB(t)

	g, _, err := gs.GetOrCreateByBarcode("222")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	checked := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	price := 3.49
	g.Name = "Peanut Butter"
	g.Brand = "Acme"
	g.StoreName = "Corner Market"
	g.StorePrice = &price
	g.LookupCheckedAt = &checked
	g.LookupFailed = false

	if err := gs.SaveLookupState(g); err != nil {
		t.Fatalf("save lookup state: %v", err)
	}

	got, err := gs.GetByID(g.ID)
	if err != nil {
		t.Fatalf("get grocery: %v", err)
	}
	if got.Name != "Peanut Butter" || got.Brand != "Acme" {
		t.Errorf("product fields not persisted: %+v", got)
	}
	if got.StorePrice == nil || *got.StorePrice != 3.49 {
		t.Errorf("store price = %v, want 3.49", got.StorePrice)
	}
	if got.LookupCheckedAt == nil || !got.LookupCheckedAt.Equal(checked) {
		t.Errorf("checked at = %v, want %v", got.LookupCheckedAt, checked)
	}
	if got.ManuallyEntered {
		t.Error("lookup writes must not flag the record as manually entered")
	}
}

func TestSaveLookupStateFailedFlag(t *testing.T) {
	gs := setupGroceryTestDB(t)

	g, _, err := gs.GetOrCreateByBarcode("333")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	g.LookupCheckedAt = &now
	g.LookupFailed = true
	if err := gs.SaveLookupState(g); err != nil {
		t.Fatalf("save lookup state: %v", err)
	}

	got, err := gs.GetByID(g.ID)
	if err != nil {
		t.Fatalf("get grocery: %v", err)
	}
	if !got.LookupFailed {
		t.Error("lookup failed flag should persist")
	}
}

func TestGroceryDelete(t *testing.T) {
	gs := setupGroceryTestDB(t)

	g, err := gs.Create(&model.Grocery{Name: "Temp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := gs.Delete(g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := gs.GetByID(g.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}
