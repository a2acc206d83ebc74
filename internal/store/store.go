// Package store persists the little state that outlives a catalog import:
// user categories and the download history. Novels themselves are never
// stored here; they are rebuilt from the metadata file on every import.
package store

import (
	"database/sql"
	"errors"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidName      = errors.New("category name cannot be empty")
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
