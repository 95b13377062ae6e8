// Package storage persists whole ExpenseList snapshots.
//
// A Store loads the full list once at startup and overwrites the full
// snapshot after every mutation. Absent storage yields an empty list.
// Unreadable content also yields an empty list but is reported with a
// distinct warning, and the JSON store moves the bad file aside first.
package storage

import (
	"context"
	"errors"

	"expense-tracker/internal/core"
)

// ErrMalformed marks stored content that exists but cannot be decoded into a
// valid expense list.
var ErrMalformed = errors.New("malformed expense data")

// Store is the persistence port used by the expense service.
type Store interface {
	// Load returns the persisted list, or an empty one when nothing usable
	// is stored. Errors are I/O failures only.
	Load(ctx context.Context) (*core.ExpenseList, error)

	// Save overwrites the stored snapshot with the full list.
	Save(ctx context.Context, list *core.ExpenseList) error
}
