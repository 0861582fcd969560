package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/pricecheck/internal/model"
)

type ShoppingListStore struct {
	db dbtx
}

func NewShoppingListStore(db *sql.DB) *ShoppingListStore {
	return &ShoppingListStore{db: db}
}

// --- List methods ---

func scanShoppingList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var active, deleted int
	err := scanner.Scan(
		&l.ID, &l.OwnerID, &l.Name, &l.Description,
		&l.CreatedAt, &l.UpdatedAt, &active, &deleted,
	)
	if err != nil {
		return nil, err
	}
	l.Active = active != 0
	l.Deleted = deleted != 0
	return &l, nil
}

const shoppingListCols = `id, owner_id, name, description, created_at, updated_at, active, deleted`

func (s *ShoppingListStore) Create(ownerID int64, name, description string) (*model.ShoppingList, error) {
	result, err := s.db.Exec(
		`INSERT INTO shopping_lists (owner_id, name, description) VALUES (?, ?, ?)`,
		ownerID, name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ShoppingListStore) GetByID(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+shoppingListCols+` FROM shopping_lists WHERE id = ? AND deleted = 0`, id)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	return l, nil
}

func (s *ShoppingListStore) ListByOwner(ownerID int64) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingListCols+` FROM shopping_lists WHERE owner_id = ? AND deleted = 0 ORDER BY name ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ShoppingListStore) Update(id int64, name, description string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ?, description = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		name, description, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	return s.GetByID(id)
}

func (s *ShoppingListStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET deleted = 1, active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete shopping list: %w", err)
	}
	return nil
}

// --- Entry methods ---

func scanListEntry(scanner interface{ Scan(...any) error }) (*model.ListEntry, error) {
	var e model.ListEntry
	var active, deleted int
	err := scanner.Scan(&e.ID, &e.ListID, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt, &active, &deleted)
	if err != nil {
		return nil, err
	}
	e.Active = active != 0
	e.Deleted = deleted != 0
	return &e, nil
}

const listEntryCols = `id, list_id, owner_id, created_at, updated_at, active, deleted`

func (s *ShoppingListStore) CreateEntry(listID, ownerID int64) (*model.ListEntry, error) {
	result, err := s.db.Exec(
		`INSERT INTO list_entries (list_id, owner_id) VALUES (?, ?)`,
		listID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntryByID(id)
}

func (s *ShoppingListStore) GetEntryByID(id int64) (*model.ListEntry, error) {
	row := s.db.QueryRow(`SELECT `+listEntryCols+` FROM list_entries WHERE id = ? AND deleted = 0`, id)
	e, err := scanListEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list entry: %w", err)
	}
	return e, nil
}

func (s *ShoppingListStore) ListEntries(listID int64) ([]model.ListEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+listEntryCols+` FROM list_entries WHERE list_id = ? AND deleted = 0 ORDER BY id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.ListEntry
	for rows.Next() {
		e, err := scanListEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *ShoppingListStore) SoftDeleteEntry(id int64) error {
	_, err := s.db.Exec(
		`UPDATE list_entries SET deleted = 1, active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete list entry: %w", err)
	}
	return nil
}

// --- Item methods ---

func scanListItem(scanner interface{ Scan(...any) error }) (*model.ListItem, error) {
	var it model.ListItem
	var active, deleted int
	err := scanner.Scan(
		&it.ID, &it.EntryID, &it.Name, &it.Brand, &it.Category,
		&it.Description, &it.Barcode, &it.Unit, &it.PackagingSize,
		&it.ImageURL, &it.CreatedAt, &it.UpdatedAt, &active, &deleted,
	)
	if err != nil {
		return nil, err
	}
	it.Active = active != 0
	it.Deleted = deleted != 0
	return &it, nil
}

const listItemCols = `id, entry_id, name, brand, category, description, barcode, unit, packaging_size, image_url, created_at, updated_at, active, deleted`

func (s *ShoppingListStore) CreateItem(entryID int64, it *model.ListItem) (*model.ListItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO list_items (entry_id, name, brand, category, description, barcode, unit, packaging_size, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID, it.Name, it.Brand, it.Category, it.Description,
		it.Barcode, it.Unit, it.PackagingSize, it.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ShoppingListStore) GetItemByID(id int64) (*model.ListItem, error) {
	row := s.db.QueryRow(`SELECT `+listItemCols+` FROM list_items WHERE id = ? AND deleted = 0`, id)
	it, err := scanListItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list item: %w", err)
	}
	return it, nil
}

func (s *ShoppingListStore) ListItems(entryID int64) ([]model.ListItem, error) {
	rows, err := s.db.Query(
		`SELECT `+listItemCols+` FROM list_items WHERE entry_id = ? AND deleted = 0 ORDER BY name ASC, id ASC`,
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ListItem
	for rows.Next() {
		it, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *ShoppingListStore) UpdateItem(id int64, it *model.ListItem) (*model.ListItem, error) {
	_, err := s.db.Exec(
		`UPDATE list_items SET name = ?, brand = ?, category = ?, description = ?, barcode = ?, unit = ?, packaging_size = ?, image_url = ?, updated_at = ? WHERE id = ? AND deleted = 0`,
		it.Name, it.Brand, it.Category, it.Description, it.Barcode,
		it.Unit, it.PackagingSize, it.ImageURL, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update list item: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ShoppingListStore) SoftDeleteItem(id int64) error {
	_, err := s.db.Exec(
		`UPDATE list_items SET deleted = 1, active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete list item: %w", err)
	}
	return nil
}
