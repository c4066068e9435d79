// Package sqlite implements types.Dictionary on top of SQLite, with JSONL
// files in the data directory as the source of truth.
//
// Attach rebuilds dictionary.db from characters.jsonl, variants.jsonl and
// journal.jsonl. Every create and delete runs the integrity checker and the
// write inside one SQLite transaction while holding the backend write
// lock; the JSONL files are rewritten after commit (sync strategy
// "immediate") or once on Detach ("on_close").
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

const dbFile = "dictionary.db"

// Backend implements the Dictionary interface using SQLite as the query
// engine and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
	now      func() time.Time

	characters *charactersTable
	variants   *variantsTable

	syncStrategy  string
	pendingWrites []pendingWrite // on_close only, guarded by mu
}

// pendingWrite is a JSONL rewrite deferred until Detach.
type pendingWrite struct {
	file    string
	persist func(context.Context) error
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock overrides the time source used for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBackend creates a detached backend. Call Attach before use.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach creates DataDir if needed, rebuilds the SQLite file and loads
// the JSONL files into it. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	config.DataDir = dataDir

	// The database is a cache; start from an empty file every time.
	dbPath := filepath.Join(dataDir, dbFile)
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing stale database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	ctx := context.Background()
	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	stats, err := loadAllJSONL(ctx, db, dataDir, b.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.pendingWrites = nil
	b.characters = &charactersTable{backend: b}
	b.variants = &variantsTable{backend: b}
	b.attached = true

	b.logger.Info("dictionary attached",
		slog.String("data_dir", dataDir),
		slog.String("sync_strategy", b.syncStrategy),
		slog.Int("characters", stats.Characters),
		slog.Int("variants", stats.Variants),
		slog.Int("journal", stats.Journal),
		slog.Int("skipped", stats.Skipped))
	return nil
}

// Detach flushes deferred JSONL writes and closes the database. After
// Detach every operation returns ErrDictionaryDetached. Detach is
// idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushPendingWritesLocked(context.Background()); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}
	if err := b.db.Close(); err != nil {
		return err
	}

	b.db = nil
	b.attached = false
	b.characters = nil
	b.variants = nil
	b.logger.Info("dictionary detached", slog.String("data_dir", b.config.DataDir))
	return nil
}

// Characters returns the character table.
func (b *Backend) Characters() (types.CharacterTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDictionaryDetached
	}
	return b.characters, nil
}

// Variants returns the variant table.
func (b *Backend) Variants() (types.VariantTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDictionaryDetached
	}
	return b.variants, nil
}

// View runs fn against a snapshot backed by a read transaction. fn must not
// call back into the backend. A storage error hit while fn was reading is
// returned even if fn itself returned nil.
func (b *Backend) View(ctx context.Context, fn func(types.Snapshot) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDictionaryDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback()

	view := newTxView(ctx, tx)
	fnErr := fn(view)
	if err := view.Err(); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return fnErr
}

// Journal returns committed mutations, newest first.
func (b *Backend) Journal(ctx context.Context, limit int) ([]types.JournalEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDictionaryDetached
	}

	query := "SELECT " + journalColumns + " FROM journal ORDER BY created_at DESC, entry_id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []types.JournalEntry
	for rows.Next() {
		e, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// mutation describes one checked write.
type mutation struct {
	op        integrity.Operation
	candidate types.Entity
	// apply performs the write inside tx and returns the record to journal.
	apply func(ctx context.Context, tx *sql.Tx, view *txView) (types.ConflictEntity, error)
	// file is the JSONL file to rewrite after commit.
	file string
}

// mutate runs BEGIN, integrity check, write, journal append and COMMIT.
// A non-empty report rolls back and is returned with a nil error. The
// caller must hold b.mu for writing.
func (b *Backend) mutate(ctx context.Context, m mutation) (types.IntegrityReport, error) {
	if !b.attached {
		return nil, types.ErrDictionaryDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	view := newTxView(ctx, tx)
	report, err := integrity.Check(m.op, m.candidate, view)
	if err != nil {
		return nil, err
	}
	if err := view.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot for %s: %w", m.op, err)
	}
	if !report.Empty() {
		b.logger.Info("mutation rejected",
			slog.String("operation", m.op.String()),
			slog.String("record", m.candidate.String()),
			slog.Any("codes", report.Codes()))
		return report, nil
	}

	record, err := m.apply(ctx, tx, view)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", m.op, m.candidate, err)
	}

	operation := types.JournalDelete
	if m.op.IsCreate() {
		operation = types.JournalCreate
	}
	entry := types.JournalEntry{
		EntryID:   newEntryID(),
		Operation: operation,
		Record:    record,
		CreatedAt: b.now().UTC(),
	}
	if err := insertJournal(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("appending journal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s: %w", m.op, err)
	}
	b.logger.Info("mutation committed",
		slog.String("operation", m.op.String()),
		slog.String("record", m.candidate.String()),
		slog.String("entry_id", entry.EntryID))

	if err := b.persist(ctx, m.file); err != nil {
		return nil, err
	}
	if err := b.persist(ctx, journalJSONL); err != nil {
		return nil, err
	}
	return nil, nil
}

// newEntryID generates a UUID v7 so that journal IDs sort by time.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// persist rewrites file now or queues it for Detach, depending on the
// sync strategy. The caller must hold b.mu for writing.
func (b *Backend) persist(ctx context.Context, file string) error {
	fn := b.persistFunc(file)
	if b.syncStrategy == types.SyncOnClose {
		b.queueWrite(file, fn)
		return nil
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("persisting %s: %w", file, err)
	}
	return nil
}

func (b *Backend) persistFunc(file string) func(context.Context) error {
	path := filepath.Join(b.config.DataDir, file)
	switch file {
	case charactersJSONL:
		return func(ctx context.Context) error {
			all, err := queryCharacters(ctx, b.db, "SELECT "+characterColumns+" FROM characters ORDER BY "+characterOrder)
			if err != nil {
				return err
			}
			return writeRecords(path, all)
		}
	case variantsJSONL:
		return func(ctx context.Context) error {
			all, err := queryVariants(ctx, b.db, "SELECT "+variantColumns+" FROM variants ORDER BY "+variantOrder)
			if err != nil {
				return err
			}
			return writeRecords(path, all)
		}
	default:
		return func(ctx context.Context) error {
			rows, err := b.db.QueryContext(ctx, "SELECT "+journalColumns+" FROM journal ORDER BY created_at, entry_id")
			if err != nil {
				return err
			}
			defer rows.Close()
			var all []types.JournalEntry
			for rows.Next() {
				e, err := scanJournal(rows)
				if err != nil {
					return err
				}
				all = append(all, e)
			}
			if err := rows.Err(); err != nil {
				return err
			}
			return writeRecords(path, all)
		}
	}
}

func writeRecords[T any](path string, records []T) error {
	lines, err := marshalJSONL(records)
	if err != nil {
		return err
	}
	return writeJSONL(path, lines)
}

// queueWrite records a deferred rewrite. A file already queued is not
// queued twice since each rewrite dumps the whole table.
func (b *Backend) queueWrite(file string, fn func(context.Context) error) {
	for _, pw := range b.pendingWrites {
		if pw.file == file {
			return
		}
	}
	b.pendingWrites = append(b.pendingWrites, pendingWrite{file: file, persist: fn})
}

// flushPendingWritesLocked runs every queued rewrite. The caller must hold
// b.mu for writing.
func (b *Backend) flushPendingWritesLocked(ctx context.Context) error {
	for i, pw := range b.pendingWrites {
		if err := pw.persist(ctx); err != nil {
			b.pendingWrites = b.pendingWrites[i:]
			return fmt.Errorf("flush %s: %w", pw.file, err)
		}
	}
	b.pendingWrites = nil
	return nil
}

var _ types.Dictionary = (*Backend)(nil)
