package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/pricecheck/internal/model"
)

type GroceryStore struct {
	db dbtx
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanGrocery(scanner interface{ Scan(...any) error }) (*model.Grocery, error) {
	var g model.Grocery
	var barcode sql.NullString
	var storePrice sql.NullFloat64
	var storePriceAt, checkedAt sql.NullTime
	var manual, failed int

	err := scanner.Scan(
		&g.ID, &barcode, &g.Name, &g.Description, &g.Category, &g.Brand,
		&g.Size, &g.ImageURL, &g.StoreName, &storePrice, &storePriceAt,
		&manual, &checkedAt, &failed, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if barcode.Valid {
		g.Barcode = &barcode.String
	}
	if storePrice.Valid {
		g.StorePrice = &storePrice.Float64
	}
	if storePriceAt.Valid {
		g.StorePriceUpdatedAt = &storePriceAt.Time
	}
	if checkedAt.Valid {
		g.LookupCheckedAt = &checkedAt.Time
	}
	g.ManuallyEntered = manual != 0
	g.LookupFailed = failed != 0
	return &g, nil
}

const groceryCols = `id, barcode, name, description, category, brand, size, image_url, store_name, store_price, store_price_updated_at, manually_entered, lookup_checked_at, lookup_failed, created_at`

func (s *GroceryStore) GetByID(id int64) (*model.Grocery, error) {
	row := s.db.QueryRow(`SELECT `+groceryCols+` FROM groceries WHERE id = ?`, id)
	g, err := scanGrocery(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery: %w", err)
	}
	return g, nil
}

func (s *GroceryStore) GetByBarcode(barcode string) (*model.Grocery, error) {
	row := s.db.QueryRow(`SELECT `+groceryCols+` FROM groceries WHERE barcode = ?`, barcode)
	g, err := scanGrocery(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery by barcode: %w", err)
	}
	return g, nil
}

// GetOrCreateByBarcode fetches the record for a barcode, inserting an empty
// shell if none exists. Concurrent creators race on the barcode UNIQUE
// constraint; the loser's insert is a no-op and both callers see one row.
func (s *GroceryStore) GetOrCreateByBarcode(barcode string) (*model.Grocery, bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO groceries (barcode) VALUES (?) ON CONFLICT(barcode) DO NOTHING`,
		barcode,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert grocery shell: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	g, err := s.GetByBarcode(barcode)
	if err != nil {
		return nil, false, err
	}
	if g == nil {
		return nil, false, fmt.Errorf("grocery vanished after insert: barcode %s", barcode)
	}
	return g, inserted > 0, nil
}

// Create inserts a fully populated record on the manual entry path.
func (s *GroceryStore) Create(g *model.Grocery) (*model.Grocery, error) {
	var barcode sql.NullString
	if g.Barcode != nil && *g.Barcode != "" {
		barcode = sql.NullString{String: *g.Barcode, Valid: true}
	}
	var storePrice sql.NullFloat64
	if g.StorePrice != nil {
		storePrice = sql.NullFloat64{Float64: *g.StorePrice, Valid: true}
	}
	var storePriceAt sql.NullTime
	if g.StorePriceUpdatedAt != nil {
		storePriceAt = sql.NullTime{Time: g.StorePriceUpdatedAt.UTC(), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO groceries (barcode, name, description, category, brand, size, image_url, store_name, store_price, store_price_updated_at, manually_entered)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		barcode, g.Name, g.Description, g.Category, g.Brand, g.Size,
		g.ImageURL, g.StoreName, storePrice, storePriceAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryStore) List() ([]model.Grocery, error) {
	rows, err := s.db.Query(`SELECT ` + groceryCols + ` FROM groceries ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list groceries: %w", err)
	}
	defer rows.Close()

	var groceries []model.Grocery
	for rows.Next() {
		g, err := scanGrocery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery: %w", err)
		}
		groceries = append(groceries, *g)
	}
	return groceries, rows.Err()
}

// Update applies an owner's edit and flags the record as manually entered so
// the lookup engine stops refreshing it.
func (s *GroceryStore) Update(id int64, g *model.Grocery) (*model.Grocery, error) {
	var storePrice sql.NullFloat64
	if g.StorePrice != nil {
		storePrice = sql.NullFloat64{Float64: *g.StorePrice, Valid: true}
	}
	var storePriceAt sql.NullTime
	if g.StorePriceUpdatedAt != nil {
		storePriceAt = sql.NullTime{Time: g.StorePriceUpdatedAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE groceries SET name = ?, description = ?, category = ?, brand = ?, size = ?, image_url = ?, store_name = ?, store_price = ?, store_price_updated_at = ?, manually_entered = 1 WHERE id = ?`,
		g.Name, g.Description, g.Category, g.Brand, g.Size, g.ImageURL,
		g.StoreName, storePrice, storePriceAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update grocery: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM groceries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete grocery: %w", err)
	}
	return nil
}

// SaveLookupState persists everything the lookup engine manages in a single
// write: merged product fields, the failed flag, and the checked timestamp.
func (s *GroceryStore) SaveLookupState(g *model.Grocery) error {
	var storePrice sql.NullFloat64
	if g.StorePrice != nil {
		storePrice = sql.NullFloat64{Float64: *g.StorePrice, Valid: true}
	}
	var storePriceAt sql.NullTime
	if g.StorePriceUpdatedAt != nil {
		storePriceAt = sql.NullTime{Time: g.StorePriceUpdatedAt.UTC(), Valid: true}
	}
	var checkedAt sql.NullTime
	if g.LookupCheckedAt != nil {
		checkedAt = sql.NullTime{Time: g.LookupCheckedAt.UTC(), Valid: true}
	}
	failed := 0
	if g.LookupFailed {
		failed = 1
	}

	_, err := s.db.Exec(
		`UPDATE groceries SET name = ?, description = ?, category = ?, brand = ?, size = ?, image_url = ?, store_name = ?, store_price = ?, store_price_updated_at = ?, lookup_checked_at = ?, lookup_failed = ? WHERE id = ?`,
		g.Name, g.Description, g.Category, g.Brand, g.Size, g.ImageURL,
		g.StoreName, storePrice, storePriceAt, checkedAt, failed, g.ID,
	)
	if err != nil {
		return fmt.Errorf("save lookup state: %w", err)
	}
	return nil
}
