package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/pricecheck/internal/model"
)

type PriceStore struct {
	db dbtx
}

func NewPriceStore(db *sql.DB) *PriceStore {
	return &PriceStore{db: db}
}

func scanPrice(scanner interface{ Scan(...any) error }) (*model.Price, error) {
	var p model.Price
	var before sql.NullFloat64
	var discounted, active, deleted int
	err := scanner.Scan(
		&p.ID, &p.EntryID, &p.Price, &discounted, &before,
		&p.CreatedAt, &p.UpdatedAt, &active, &deleted,
	)
	if err != nil {
		return nil, err
	}
	if before.Valid {
		p.PriceBeforeDiscount = &before.Float64
	}
	p.IsDiscounted = discounted != 0
	p.Active = active != 0
	p.Deleted = deleted != 0
	return &p, nil
}

const priceCols = `id, entry_id, price, is_discounted, price_before_discount, created_at, updated_at, active, deleted`

func (s *PriceStore) Create(entryID int64, price float64, isDiscounted bool, priceBeforeDiscount *float64) (*model.Price, error) {
	discounted := 0
	if isDiscounted {
		discounted = 1
	}
	var before sql.NullFloat64
	if priceBeforeDiscount != nil {
		before = sql.NullFloat64{Float64: *priceBeforeDiscount, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO prices (entry_id, price, is_discounted, price_before_discount) VALUES (?, ?, ?, ?)`,
		entryID, price, discounted, before,
	)
	if err != nil {
		return nil, fmt.Errorf("insert price: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PriceStore) GetByID(id int64) (*model.Price, error) {
	row := s.db.QueryRow(`SELECT `+priceCols+` FROM prices WHERE id = ? AND deleted = 0`, id)
	p, err := scanPrice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get price: %w", err)
	}
	return p, nil
}

func (s *PriceStore) ListByEntry(entryID int64) ([]model.Price, error) {
	rows, err := s.db.Query(
		`SELECT `+priceCols+` FROM prices WHERE entry_id = ? AND deleted = 0 ORDER BY created_at DESC, id DESC`,
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var prices []model.Price
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, *p)
	}
	return prices, rows.Err()
}

func (s *PriceStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE prices SET deleted = 1, active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete price: %w", err)
	}
	return nil
}

// --- PriceShop methods ---

func scanPriceShop(scanner interface{ Scan(...any) error }) (*model.PriceShop, error) {
	var ps model.PriceShop
	var active, deleted int
	err := scanner.Scan(&ps.ID, &ps.PriceID, &ps.ShopID, &ps.CreatedAt, &ps.UpdatedAt, &active, &deleted)
	if err != nil {
		return nil, err
	}
	ps.Active = active != 0
	ps.Deleted = deleted != 0
	return &ps, nil
}

const priceShopCols = `id, price_id, shop_id, created_at, updated_at, active, deleted`

func (s *PriceStore) AttachShop(priceID, shopID int64) (*model.PriceShop, error) {
	result, err := s.db.Exec(
		`INSERT INTO price_shops (price_id, shop_id) VALUES (?, ?)`,
		priceID, shopID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert price shop: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+priceShopCols+` FROM price_shops WHERE id = ?`, id)
	return scanPriceShop(row)
}

func (s *PriceStore) ListShops(priceID int64) ([]model.PriceShop, error) {
	rows, err := s.db.Query(
		`SELECT `+priceShopCols+` FROM price_shops WHERE price_id = ? AND deleted = 0 ORDER BY id ASC`,
		priceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list price shops: %w", err)
	}
	defer rows.Close()

	var links []model.PriceShop
	for rows.Next() {
		ps, err := scanPriceShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price shop: %w", err)
		}
		links = append(links, *ps)
	}
	return links, rows.Err()
}
