package types

import (
	"context"
	"time"
)

// Dictionary is the backend-agnostic storage contract. Callers attach to a
// backend, obtain the tables, and detach when done. Every create and delete
// goes through the integrity checker inside the backend's transaction.
type Dictionary interface {
	// Attach connects to the backend described by config. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach, table
	// operations return ErrDictionaryDetached.
	Detach() error

	// Characters returns the character table.
	Characters() (CharacterTable, error)

	// Variants returns the variant table.
	Variants() (VariantTable, error)

	// View runs fn against a consistent read-only snapshot.
	View(ctx context.Context, fn func(Snapshot) error) error

	// Journal returns up to limit committed mutations, newest first. A
	// limit of zero or less returns all entries.
	Journal(ctx context.Context, limit int) ([]JournalEntry, error)
}

// Filter selects records in Fetch. Keys are table specific; an empty filter
// matches everything.
type Filter map[string]any

// CharacterTable stores characters.
type CharacterTable interface {
	// Get returns the character with the given key or ErrNotFound.
	Get(ctx context.Context, key CharacterKey) (Character, error)

	// Create validates c, checks it against the stored collection and
	// stores it when the returned report is empty. A non-empty report means
	// nothing was written. The error is reserved for invalid input and
	// storage failures.
	Create(ctx context.Context, c Character) (IntegrityReport, error)

	// Delete removes the character with the given key when the returned
	// report is empty.
	Delete(ctx context.Context, key CharacterKey) (IntegrityReport, error)

	// Fetch returns the characters matching filter, ordered by key.
	Fetch(ctx context.Context, filter Filter) ([]Character, error)
}

// VariantTable stores variants.
type VariantTable interface {
	Get(ctx context.Context, key VariantKey) (Variant, error)
	Create(ctx context.Context, v Variant) (IntegrityReport, error)
	Delete(ctx context.Context, key VariantKey) (IntegrityReport, error)
	Fetch(ctx context.Context, filter Filter) ([]Variant, error)
}

// Journal operation names.
const (
	JournalCreate = "create"
	JournalDelete = "delete"
)

// JournalEntry records one committed mutation. Record carries the created
// or deleted entity in the same tagged form used for conflicts.
type JournalEntry struct {
	EntryID   string         `json:"entry_id"`
	Operation string         `json:"operation"`
	Record    ConflictEntity `json:"record"`
	CreatedAt time.Time      `json:"created_at"`
}
