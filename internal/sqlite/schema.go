package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL. The SQLite file is a query cache rebuilt from JSONL on every
// Attach, so there are no migrations. References between records are
// enforced by the integrity checker, not by foreign keys.
const (
	createCharacters = `CREATE TABLE characters (
    glyph TEXT NOT NULL,
    pinyin TEXT NOT NULL,
    tone INTEGER NOT NULL,
    ipa TEXT NOT NULL,
    strokes INTEGER NOT NULL,
    radical_glyph TEXT,
    radical_pinyin TEXT,
    radical_tone INTEGER,
    radical_variant TEXT,
    PRIMARY KEY (glyph, pinyin, tone)
);`

	createVariants = `CREATE TABLE variants (
    glyph TEXT NOT NULL,
    original_glyph TEXT NOT NULL,
    original_pinyin TEXT NOT NULL,
    original_tone INTEGER NOT NULL,
    strokes INTEGER NOT NULL,
    PRIMARY KEY (glyph, original_glyph, original_pinyin, original_tone)
);`

	createJournal = `CREATE TABLE journal (
    entry_id TEXT PRIMARY KEY,
    operation TEXT NOT NULL,
    entity_kind TEXT NOT NULL,
    record TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for the dependent scans of delete checks and for history.
const (
	idxCharactersRadical = `CREATE INDEX idx_characters_radical ON characters(radical_glyph, radical_pinyin, radical_tone);`
	idxVariantsOriginal  = `CREATE INDEX idx_variants_original ON variants(original_glyph, original_pinyin, original_tone);`
	idxJournalCreated    = `CREATE INDEX idx_journal_created ON journal(created_at);`
)

var schemaDDL = []string{
	createCharacters,
	createVariants,
	createJournal,
}

var indexDDL = []string{
	idxCharactersRadical,
	idxVariantsOriginal,
	idxJournalCreated,
}

// Column lists shared by queries and scanners. Their order matches
// scanCharacter and scanVariant.
const (
	characterColumns = "glyph, pinyin, tone, ipa, strokes, radical_glyph, radical_pinyin, radical_tone, radical_variant"
	variantColumns   = "glyph, original_glyph, original_pinyin, original_tone, strokes"
	journalColumns   = "entry_id, operation, entity_kind, record, created_at"

	characterOrder = "glyph, pinyin, tone"
	variantOrder   = "glyph, original_glyph, original_pinyin, original_tone"
)

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
