package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// journalTimeLayout is fixed width so that created_at sorts as text.
const journalTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (types.Character, error) {
	var (
		c              types.Character
		radicalGlyph   sql.NullString
		radicalPinyin  sql.NullString
		radicalTone    sql.NullInt64
		radicalVariant sql.NullString
	)
	err := row.Scan(&c.Glyph, &c.Pinyin, &c.Tone, &c.IPA, &c.Strokes,
		&radicalGlyph, &radicalPinyin, &radicalTone, &radicalVariant)
	if err != nil {
		return types.Character{}, err
	}
	c.RadicalGlyph = radicalGlyph.String
	c.RadicalPinyin = radicalPinyin.String
	if radicalTone.Valid {
		tone := int(radicalTone.Int64)
		c.RadicalTone = &tone
	}
	c.RadicalVariant = radicalVariant.String
	return c, nil
}

func characterArgs(c types.Character) []any {
	args := []any{c.Glyph, c.Pinyin, c.Tone, c.IPA, c.Strokes}
	if radical, ok := c.RadicalKey(); ok {
		args = append(args, radical.Glyph, radical.Pinyin, radical.Tone)
	} else {
		args = append(args, nil, nil, nil)
	}
	if c.RadicalVariant != "" {
		args = append(args, c.RadicalVariant)
	} else {
		args = append(args, nil)
	}
	return args
}

func scanVariant(row rowScanner) (types.Variant, error) {
	var v types.Variant
	err := row.Scan(&v.Glyph, &v.OriginalGlyph, &v.OriginalPinyin, &v.OriginalTone, &v.Strokes)
	return v, err
}

func variantArgs(v types.Variant) []any {
	return []any{v.Glyph, v.OriginalGlyph, v.OriginalPinyin, v.OriginalTone, v.Strokes}
}

func insertCharacter(ctx context.Context, q queryer, c types.Character) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO characters ("+characterColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		characterArgs(c)...)
	return err
}

func insertVariant(ctx context.Context, q queryer, v types.Variant) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO variants ("+variantColumns+") VALUES (?, ?, ?, ?, ?)",
		variantArgs(v)...)
	return err
}

func queryCharacters(ctx context.Context, q queryer, query string, args ...any) ([]types.Character, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func queryVariants(ctx context.Context, q queryer, query string, args ...any) ([]types.Variant, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning variant: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func insertJournal(ctx context.Context, q queryer, e types.JournalEntry) error {
	record, err := json.Marshal(e.Record)
	if err != nil {
		return fmt.Errorf("encoding journal record: %w", err)
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO journal ("+journalColumns+") VALUES (?, ?, ?, ?, ?)",
		e.EntryID, e.Operation, string(e.Record.Kind), string(record), e.CreatedAt.UTC().Format(journalTimeLayout))
	return err
}

func scanJournal(row rowScanner) (types.JournalEntry, error) {
	var (
		e         types.JournalEntry
		kind      string
		record    string
		createdAt string
	)
	if err := row.Scan(&e.EntryID, &e.Operation, &kind, &record, &createdAt); err != nil {
		return types.JournalEntry{}, err
	}
	if err := json.Unmarshal([]byte(record), &e.Record); err != nil {
		return types.JournalEntry{}, fmt.Errorf("decoding journal record %s: %w", e.EntryID, err)
	}
	t, err := time.Parse(journalTimeLayout, createdAt)
	if err != nil {
		return types.JournalEntry{}, fmt.Errorf("parsing journal time %s: %w", e.EntryID, err)
	}
	e.CreatedAt = t
	return e, nil
}
