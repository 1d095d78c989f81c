package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// NewSQLiteConnection opens (and creates if needed) the embedded sqlite
// database used for the agent config store.
func NewSQLiteConnection(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite handles one writer at a time; avoid lock contention.
	db.SetMaxOpenConns(1)
	return db, nil
}
