package barcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dukerupert/pricecheck/internal/model"
	"github.com/dukerupert/pricecheck/internal/store"
)

// staleWindow is how long a looked-up record stays fresh before the next
// request triggers a re-check.
const staleWindow = 180 * 24 * time.Hour

// storeTimeLayout is the timestamp format the lookup API uses for a store's
// last price update.
const storeTimeLayout = "2006-01-02 15:04:05"

// Lookuper fetches product data for a barcode from an external source.
type Lookuper interface {
	Lookup(ctx context.Context, barcode string) ([]Product, error)
}

// Service is the barcode cache engine. It keeps a local grocery record per
// barcode and refreshes it from the external API when the record is new,
// never checked, or older than the staleness window. Manually entered
// records are left alone.
type Service struct {
	store  *store.GroceryStore
	client Lookuper
	logger *slog.Logger
}

func NewService(st *store.GroceryStore, client Lookuper, logger *slog.Logger) *Service {
	return &Service{store: st, client: client, logger: logger}
}

// LookupOrRefresh returns the grocery record for a barcode, refreshing it
// from the external API first when the cache policy says so. Whenever a
// refresh is attempted the checked timestamp advances and the record is
// persisted exactly once, even on failure, so a flaky upstream is not
// hammered on every request.
func (s *Service) LookupOrRefresh(ctx context.Context, barcode string) (*model.Grocery, error) {
	g, created, err := s.store.GetOrCreateByBarcode(barcode)
	if err != nil {
		return nil, err
	}

	needsUpdate := created
	if !created {
		switch {
		case g.ManuallyEntered:
			needsUpdate = false
		case g.LookupCheckedAt == nil:
			needsUpdate = true
		case time.Since(*g.LookupCheckedAt) > staleWindow:
			needsUpdate = true
		}
	}

	if !needsUpdate {
		return g, nil
	}

	products, lookupErr := s.client.Lookup(ctx, barcode)

	now := time.Now().UTC()
	g.LookupCheckedAt = &now

	if lookupErr != nil {
		// Persist the last-known-good state with the advanced timestamp
		// before surfacing the failure.
		if saveErr := s.store.SaveLookupState(g); saveErr != nil {
			return nil, saveErr
		}
		var se *StatusError
		if errors.As(lookupErr, &se) {
			s.logger.Warn("barcode lookup upstream error", "barcode", barcode, "status", se.Code)
			return nil, se
		}
		s.logger.Warn("barcode lookup transport error", "barcode", barcode, "error", lookupErr)
		return nil, fmt.Errorf("barcode lookup: %w", lookupErr)
	}

	if len(products) == 0 {
		g.LookupFailed = true
		if err := s.store.SaveLookupState(g); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	merge(g, &products[0])
	g.LookupFailed = false

	if err := s.store.SaveLookupState(g); err != nil {
		return nil, err
	}
	s.logger.Info("barcode record refreshed", "barcode", barcode, "created", created)
	return g, nil
}

// merge overwrites the record's product fields from the first API match.
func merge(g *model.Grocery, p *Product) {
	if p.Title != "" {
		g.Name = p.Title
	} else if g.Name == "" {
		g.Name = "Unknown Product"
	}
	g.Description = p.Description
	g.Category = p.Category
	g.Brand = p.Brand
	g.Size = p.Size

	g.ImageURL = ""
	if len(p.Images) > 0 {
		g.ImageURL = p.Images[0]
	}

	if len(p.Stores) > 0 {
		st := p.Stores[0]
		g.StoreName = st.Name
		g.StorePrice = parsePrice(st.Price)
		g.StorePriceUpdatedAt = parseStoreTime(st.LastUpdate)
	}
}

// parsePrice returns nil for empty or malformed prices rather than failing
// the whole refresh.
func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseStoreTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(storeTimeLayout, raw)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
