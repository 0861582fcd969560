package model

import "time"

type ShoppingList struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Active      bool      `json:"active"`
	Deleted     bool      `json:"deleted"`
}

// ListEntry ties a grocery slot on a shopping list to its owner. Items and
// observed prices hang off an entry.
type ListEntry struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Active    bool      `json:"active"`
	Deleted   bool      `json:"deleted"`
}

type ListItem struct {
	ID            int64     `json:"id"`
	EntryID       int64     `json:"entry_id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Barcode       string    `json:"barcode"`
	Unit          string    `json:"unit"`
	PackagingSize string    `json:"packaging_size"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Active        bool      `json:"active"`
	Deleted       bool      `json:"deleted"`
}

type Price struct {
	ID                  int64     `json:"id"`
	EntryID             int64     `json:"entry_id"`
	Price               float64   `json:"price"`
	IsDiscounted        bool      `json:"is_discounted"`
	PriceBeforeDiscount *float64  `json:"price_before_discount"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Active              bool      `json:"active"`
	Deleted             bool      `json:"deleted"`
}

type PriceShop struct {
	ID        int64     `json:"id"`
	PriceID   int64     `json:"price_id"`
	ShopID    int64     `json:"shop_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Active    bool      `json:"active"`
	Deleted   bool      `json:"deleted"`
}
