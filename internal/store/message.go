package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/pricecheck/internal/model"
)

type MessageStore struct {
	db dbtx
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

func scanMessage(scanner interface{ Scan(...any) error }) (*model.Message, error) {
	var m model.Message
	err := scanner.Scan(&m.ID, &m.Reference, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const messageCols = `id, reference, name, email, subject, body, created_at`

func (s *MessageStore) Create(reference, name, email, subject, body string) (*model.Message, error) {
	result, err := s.db.Exec(
		`INSERT INTO messages (reference, name, email, subject, body) VALUES (?, ?, ?, ?, ?)`,
		reference, name, email, subject, body,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+messageCols+` FROM messages WHERE id = ?`, id)
	return scanMessage(row)
}

type EmailListStore struct {
	db dbtx
}

func NewEmailListStore(db *sql.DB) *EmailListStore {
	return &EmailListStore{db: db}
}

// Add records a mailing list signup. Re-subscribing with an address already
// on the list is a no-op rather than an error.
func (s *EmailListStore) Add(name, email, origin string) (*model.EmailListEntry, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.db.Exec(
		`INSERT INTO email_list (name, email, origin) VALUES (?, ?, ?) ON CONFLICT(email) DO NOTHING`,
		name, email, origin,
	)
	if err != nil {
		return nil, fmt.Errorf("insert email list entry: %w", err)
	}

	var e model.EmailListEntry
	row := s.db.QueryRow(`SELECT id, name, email, origin, created_at FROM email_list WHERE email = ?`, email)
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Origin, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("get email list entry: %w", err)
	}
	return &e, nil
}
