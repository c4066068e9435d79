package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

var _ types.VariantTable = (*variantsTable)(nil)

// variantsTable implements types.VariantTable.
type variantsTable struct {
	backend *Backend
}

func (t *variantsTable) Get(ctx context.Context, key types.VariantKey) (types.Variant, error) {
	key = normalizeVariantKey(key)
	if err := key.Validate(); err != nil {
		return types.Variant{}, err
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Variant{}, types.ErrDictionaryDetached
	}

	row := t.backend.db.QueryRowContext(ctx,
		"SELECT "+variantColumns+" FROM variants WHERE glyph = ? AND original_glyph = ? AND original_pinyin = ? AND original_tone = ?",
		key.Glyph, key.Original.Glyph, key.Original.Pinyin, key.Original.Tone)
	v, err := scanVariant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Variant{}, types.ErrNotFound
	}
	if err != nil {
		return types.Variant{}, fmt.Errorf("getting variant %s: %w", key, err)
	}
	return v, nil
}

func (t *variantsTable) Create(ctx context.Context, v types.Variant) (types.IntegrityReport, error) {
	v, err := types.NewVariant(v)
	if err != nil {
		return nil, err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	return t.backend.mutate(ctx, mutation{
		op:        integrity.CreateVariant,
		candidate: v,
		file:      variantsJSONL,
		apply: func(ctx context.Context, tx *sql.Tx, _ *txView) (types.ConflictEntity, error) {
			if err := insertVariant(ctx, tx, v); err != nil {
				return types.ConflictEntity{}, err
			}
			return types.VariantConflict(v), nil
		},
	})
}

func (t *variantsTable) Delete(ctx context.Context, key types.VariantKey) (types.IntegrityReport, error) {
	key = normalizeVariantKey(key)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	candidate := types.Variant{
		Glyph:          key.Glyph,
		OriginalGlyph:  key.Original.Glyph,
		OriginalPinyin: key.Original.Pinyin,
		OriginalTone:   key.Original.Tone,
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	return t.backend.mutate(ctx, mutation{
		op:        integrity.DeleteVariant,
		candidate: candidate,
		file:      variantsJSONL,
		apply: func(ctx context.Context, tx *sql.Tx, view *txView) (types.ConflictEntity, error) {
			stored, ok := view.FindVariant(key)
			if err := view.Err(); err != nil {
				return types.ConflictEntity{}, err
			}
			if !ok {
				return types.ConflictEntity{}, types.ErrNotFound
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM variants WHERE glyph = ? AND original_glyph = ? AND original_pinyin = ? AND original_tone = ?",
				key.Glyph, key.Original.Glyph, key.Original.Pinyin, key.Original.Tone); err != nil {
				return types.ConflictEntity{}, err
			}
			return types.VariantConflict(stored), nil
		},
	})
}

// Fetch returns the variants matching filter, ordered by key. Supported
// keys: glyph, original_glyph, original_pinyin, original_tone, limit,
// offset.
func (t *variantsTable) Fetch(ctx context.Context, filter types.Filter) ([]types.Variant, error) {
	query, args, err := buildFetchQuery("variants", variantColumns, variantOrder, variantFilters, filter)
	if err != nil {
		return nil, err
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrDictionaryDetached
	}

	out, err := queryVariants(ctx, t.backend.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching variants: %w", err)
	}
	return out, nil
}

func normalizeVariantKey(k types.VariantKey) types.VariantKey {
	k.Glyph = types.NormalizeGlyph(k.Glyph)
	k.Original.Glyph = types.NormalizeGlyph(k.Original.Glyph)
	return k
}
