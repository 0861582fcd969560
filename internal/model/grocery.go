package model

import "time"

// Grocery is a product record keyed by barcode. Records created by the
// barcode lookup path start as empty shells and are filled in by the cache
// engine; manually entered records are never touched by it.
type Grocery struct {
	ID                  int64      `json:"id"`
	Barcode             *string    `json:"barcode"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Brand               string     `json:"brand"`
	Size                string     `json:"size"`
	ImageURL            string     `json:"image_url"`
	StoreName           string     `json:"store_name"`
	StorePrice          *float64   `json:"store_price"`
	StorePriceUpdatedAt *time.Time `json:"store_price_updated_at"`
	ManuallyEntered     bool       `json:"manually_entered"`
	LookupCheckedAt     *time.Time `json:"lookup_checked_at"`
	LookupFailed        bool       `json:"lookup_failed"`
	CreatedAt           time.Time  `json:"created_at"`
}
