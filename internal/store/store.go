package store

import "database/sql"

// dbtx is the slice of *sql.DB and *sql.Tx the stores use. Stores created
// with New*Store run against the database directly; WithTx rebinds a store
// to an open transaction so multi-step writes can roll back as one unit.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
