package barcode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/pricecheck/internal/database"
	"github.com/dukerupert/pricecheck/internal/model"
	"github.com/dukerupert/pricecheck/internal/store"
)

type fakeLookuper struct {
	products []Product
	err      error
	calls    int
}

func (f *fakeLookuper) Lookup(ctx context.Context, barcode string) ([]Product, error) {
	f.calls++
	return f.products, f.err
}

func setupService(t *testing.T, fake *fakeLookuper) (*Service, *store.GroceryStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gs := store.NewGroceryStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gs, fake, logger), gs
}

func TestLookupNewBarcode(t *testing.T) {
	fake := &fakeLookuper{products: []Product{{
		Title:    "Peanut Butter",
		Brand:    "Acme",
		Category: "Pantry",
		Images:   []string{"http://img/1.jpg", "http://img/2.jpg"},
		Stores: []ProductStore{
			{Name: "Corner Market", Price: "3.49", LastUpdate: "2026-01-15 08:30:00"},
			{Name: "Other Store", Price: "3.99"},
		},
	}}}
	svc, gs := setupService(t, fake)

	g, err := svc.LookupOrRefresh(context.Background(), "0123456789012")
	if err != nil {
		t.Fatalf("lookup or refresh: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("external calls = %d, want 1", fake.calls)
	}
	if g.Name != "Peanut Butter" || g.Brand != "Acme" {
		t.Errorf("unexpected record: %+v", g)
	}
	if g.ImageURL != "http://img/1.jpg" {
		t.Errorf("image url = %q, want first image", g.ImageURL)
	}
	if g.StoreName != "Corner Market" {
		t.Errorf("store name = %q, want first store", g.StoreName)
	}
	if g.StorePrice == nil || *g.StorePrice != 3.49 {
		t.Errorf("store price = %v, want 3.49", g.StorePrice)
	}
	if g.LookupCheckedAt == nil {
		t.Error("checked timestamp should be set")
	}

	// The merged state must be persisted, not just returned.
	stored, err := gs.GetByBarcode("0123456789012")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.Name != "Peanut Butter" {
		t.Errorf("stored name = %q, want merged title", stored.Name)
	}
}

func TestLookupCachedWithinWindow(t *testing.T) {
	fake := &fakeLookuper{products: []Product{{Title: "Oat Milk"}}}
	svc, _ := setupService(t, fake)

	if _, err := svc.LookupOrRefresh(context.Background(), "111"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	g, err := svc.LookupOrRefresh(context.Background(), "111")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("external calls = %d, want 1 (second hit served from cache)", fake.calls)
	}
	if g.Name != "Oat Milk" {
		t.Errorf("name = %q, want cached value", g.Name)
	}
}

func TestLookupStaleRecordRefreshes(t *testing.T) {
	fake := &fakeLookuper{products: []Product{{Title: "Fresh Title"}}}
	svc, gs := setupService(t, fake)

	g, err := svc.LookupOrRefresh(context.Background(), "222")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}

	old := time.Now().UTC().Add(-181 * 24 * time.Hour)
	g.LookupCheckedAt = &old
	if err := gs.SaveLookupState(g); err != nil {
		t.Fatalf("backdate checked at: %v", err)
	}

	if _, err := svc.LookupOrRefresh(context.Background(), "222"); err != nil {
		t.Fatalf("stale lookup: %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("external calls = %d, want 2 (stale record re-checked)", fake.calls)
	}

	recent := time.Now().UTC().Add(-179 * 24 * time.Hour)
	g.LookupCheckedAt = &recent
	if err := gs.SaveLookupState(g); err != nil {
		t.Fatalf("set recent checked at: %v", err)
	}
	if _, err := svc.LookupOrRefresh(context.Background(), "222"); err != nil {
		t.Fatalf("fresh lookup: %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("external calls = %d, want 2 (179 days is still inside the window)", fake.calls)
	}
}

func TestManualRecordNeverRefreshed(t *testing.T) {
	fake := &fakeLookuper{products: []Product{{Title: "Should Not Appear"}}}
	svc, gs := setupService(t, fake)

	barcode := "333"
	if _, err := gs.Create(&model.Grocery{Barcode: &barcode, Name: "Hand Entered"}); err != nil {
		t.Fatalf("create manual record: %v", err)
	}

	g, err := svc.LookupOrRefresh(context.Background(), "333")
	if err != nil {
		t.Fatalf("lookup or refresh: %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("external calls = %d, want 0 for manual record", fake.calls)
	}
	if g.Name != "Hand Entered" {
		t.Errorf("name = %q, manual data must win", g.Name)
	}
}

func TestLookupNoProducts(t *testing.T) {
	fake := &fakeLookuper{products: nil}
	svc, gs := setupService(t, fake)

	_, err := svc.LookupOrRefresh(context.Background(), "444")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	stored, err := gs.GetByBarcode("444")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if !stored.LookupFailed {
		t.Error("lookup failed flag should be set")
	}
	if stored.LookupCheckedAt == nil {
		t.Error("checked timestamp should advance even on a miss")
	}
}

func TestLookupUpstreamErrorPersistsTimestamp(t *testing.T) {
	fake := &fakeLookuper{err: &StatusError{Code: 503}}
	svc, gs := setupService(t, fake)

	_, err := svc.LookupOrRefresh(context.Background(), "555")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 503 {
		t.Fatalf("err = %v, want *StatusError 503", err)
	}

	stored, err := gs.GetByBarcode("555")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.LookupCheckedAt == nil {
		t.Error("checked timestamp should persist after an upstream error")
	}
	if stored.LookupFailed {
		t.Error("upstream errors are not the same as a definitive miss")
	}
}

func TestMergePriceParsing(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  *float64
	}{
		{"valid", "3.49", ptr(3.49)},
		{"empty", "", nil},
		{"malformed", "n/a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePrice(tt.price)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parsePrice(%q) = %v, want nil", tt.price, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("parsePrice(%q) = %v, want %v", tt.price, got, *tt.want)
			}
		})
	}
}

func TestMergeTitleFallback(t *testing.T) {
	g := &model.Grocery{}
	merge(g, &Product{})
	if g.Name != "Unknown Product" {
		t.Errorf("name = %q, want fallback", g.Name)
	}

	g = &model.Grocery{Name: "Existing"}
	merge(g, &Product{})
	if g.Name != "Existing" {
		t.Errorf("name = %q, existing name must be kept when API has none", g.Name)
	}
}

func ptr(f float64) *float64 { return &f }
