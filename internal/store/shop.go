package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/pricecheck/internal/model"
)

type ShopStore struct {
	db dbtx
}

func NewShopStore(db *sql.DB) *ShopStore {
	return &ShopStore{db: db}
}

func scanShop(scanner interface{ Scan(...any) error }) (*model.Shop, error) {
	var sh model.Shop
	var lat, lon sql.NullFloat64
	var active, deleted int

	err := scanner.Scan(
		&sh.ID, &sh.OwnerID, &sh.Name, &sh.AddressLine1, &sh.AddressLine2,
		&sh.City, &sh.State, &sh.PostalCode, &sh.Country, &sh.PhoneNumber,
		&sh.Email, &sh.Website, &sh.Description, &lat, &lon,
		&sh.OpeningHours, &sh.CreatedAt, &sh.UpdatedAt, &active, &deleted,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		sh.Latitude = &lat.Float64
	}
	if lon.Valid {
		sh.Longitude = &lon.Float64
	}
	sh.Active = active != 0
	sh.Deleted = deleted != 0
	return &sh, nil
}

const shopCols = `id, owner_id, name, address_line1, address_line2, city, state, postal_code, country, phone_number, email, website, description, latitude, longitude, opening_hours, created_at, updated_at, active, deleted`

func (s *ShopStore) Create(ownerID int64, sh *model.Shop) (*model.Shop, error) {
	var lat, lon sql.NullFloat64
	if sh.Latitude != nil {
		lat = sql.NullFloat64{Float64: *sh.Latitude, Valid: true}
	}
	if sh.Longitude != nil {
		lon = sql.NullFloat64{Float64: *sh.Longitude, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO shops (owner_id, name, address_line1, address_line2, city, state, postal_code, country, phone_number, email, website, description, latitude, longitude, opening_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, sh.Name, sh.AddressLine1, sh.AddressLine2, sh.City, sh.State,
		sh.PostalCode, sh.Country, sh.PhoneNumber, sh.Email, sh.Website,
		sh.Description, lat, lon, sh.OpeningHours,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shop: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns the shop, or nil if it does not exist or was soft-deleted.
func (s *ShopStore) GetByID(id int64) (*model.Shop, error) {
	row := s.db.QueryRow(`SELECT `+shopCols+` FROM shops WHERE id = ? AND deleted = 0`, id)
	sh, err := scanShop(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return sh, nil
}

// ListByOwner returns the caller's own shops only; there is no unscoped
// listing.
func (s *ShopStore) ListByOwner(ownerID int64) ([]model.Shop, error) {
	rows, err := s.db.Query(
		`SELECT `+shopCols+` FROM shops WHERE owner_id = ? AND deleted = 0 ORDER BY name ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var shops []model.Shop
	for rows.Next() {
		sh, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, *sh)
	}
	return shops, rows.Err()
}

func (s *ShopStore) Update(id int64, sh *model.Shop) (*model.Shop, error) {
	var lat, lon sql.NullFloat64
	if sh.Latitude != nil {
		lat = sql.NullFloat64{Float64: *sh.Latitude, Valid: true}
	}
	if sh.Longitude != nil {
		lon = sql.NullFloat64{Float64: *sh.Longitude, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE shops SET name = ?, address_line1 = ?, address_line2 = ?, city = ?, state = ?, postal_code = ?, country = ?, phone_number = ?, email = ?, website = ?, description = ?, latitude = ?, longitude = ?, opening_hours = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		sh.Name, sh.AddressLine1, sh.AddressLine2, sh.City, sh.State,
		sh.PostalCode, sh.Country, sh.PhoneNumber, sh.Email, sh.Website,
		sh.Description, lat, lon, sh.OpeningHours, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update shop: %w", err)
	}
	return s.GetByID(id)
}

// SoftDelete flags the row rather than removing it.
func (s *ShopStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE shops SET deleted = 1, active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete shop: %w", err)
	}
	return nil
}
