package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

var _ types.CharacterTable = (*charactersTable)(nil)

// charactersTable implements types.CharacterTable. Rows map one to one to
// types.Character; the radical columns are NULL for base characters.
type charactersTable struct {
	backend *Backend
}

// Get returns the character with key or ErrNotFound.
func (t *charactersTable) Get(ctx context.Context, key types.CharacterKey) (types.Character, error) {
	key.Glyph = types.NormalizeGlyph(key.Glyph)
	if err := key.Validate(); err != nil {
		return types.Character{}, err
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Character{}, types.ErrDictionaryDetached
	}

	row := t.backend.db.QueryRowContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE glyph = ? AND pinyin = ? AND tone = ?",
		key.Glyph, key.Pinyin, key.Tone)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Character{}, types.ErrNotFound
	}
	if err != nil {
		return types.Character{}, fmt.Errorf("getting character %s: %w", key, err)
	}
	return c, nil
}

// Create validates c and inserts it when the integrity check passes.
func (t *charactersTable) Create(ctx context.Context, c types.Character) (types.IntegrityReport, error) {
	c, err := types.NewCharacter(c)
	if err != nil {
		return nil, err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	return t.backend.mutate(ctx, mutation{
		op:        integrity.CreateCharacter,
		candidate: c,
		file:      charactersJSONL,
		apply: func(ctx context.Context, tx *sql.Tx, _ *txView) (types.ConflictEntity, error) {
			if err := insertCharacter(ctx, tx, c); err != nil {
				return types.ConflictEntity{}, err
			}
			return types.CharacterConflict(c), nil
		},
	})
}

// Delete removes the character with key when nothing depends on it.
func (t *charactersTable) Delete(ctx context.Context, key types.CharacterKey) (types.IntegrityReport, error) {
	key.Glyph = types.NormalizeGlyph(key.Glyph)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	candidate := types.Character{Glyph: key.Glyph, Pinyin: key.Pinyin, Tone: key.Tone}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	return t.backend.mutate(ctx, mutation{
		op:        integrity.DeleteCharacter,
		candidate: candidate,
		file:      charactersJSONL,
		apply: func(ctx context.Context, tx *sql.Tx, view *txView) (types.ConflictEntity, error) {
			stored, ok := view.FindCharacter(key)
			if err := view.Err(); err != nil {
				return types.ConflictEntity{}, err
			}
			if !ok {
				return types.ConflictEntity{}, types.ErrNotFound
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM characters WHERE glyph = ? AND pinyin = ? AND tone = ?",
				key.Glyph, key.Pinyin, key.Tone); err != nil {
				return types.ConflictEntity{}, err
			}
			return types.CharacterConflict(stored), nil
		},
	})
}

// Fetch returns the characters matching filter, ordered by key. Supported
// keys: glyph, pinyin, tone, base, radical_glyph, radical_pinyin,
// radical_tone, limit, offset.
func (t *charactersTable) Fetch(ctx context.Context, filter types.Filter) ([]types.Character, error) {
	query, args, err := buildFetchQuery("characters", characterColumns, characterOrder, characterFilters, filter)
	if err != nil {
		return nil, err
	}

	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrDictionaryDetached
	}

	out, err := queryCharacters(ctx, t.backend.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching characters: %w", err)
	}
	return out, nil
}
