package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// txView exposes a database transaction as a types.Snapshot. The Snapshot
// methods cannot return errors, so the first read failure is kept and
// every later call returns zero values. Callers must check Err before
// trusting anything computed from the view.
type txView struct {
	ctx context.Context
	q   queryer
	err error
}

func newTxView(ctx context.Context, q queryer) *txView {
	return &txView{ctx: ctx, q: q}
}

// Err returns the first read error, if any.
func (v *txView) Err() error {
	return v.err
}

func (v *txView) fail(err error) {
	if v.err == nil {
		v.err = err
	}
}

func (v *txView) FindCharacter(key types.CharacterKey) (types.Character, bool) {
	if v.err != nil {
		return types.Character{}, false
	}
	row := v.q.QueryRowContext(v.ctx,
		"SELECT "+characterColumns+" FROM characters WHERE glyph = ? AND pinyin = ? AND tone = ?",
		key.Glyph, key.Pinyin, key.Tone)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Character{}, false
	}
	if err != nil {
		v.fail(err)
		return types.Character{}, false
	}
	return c, true
}

func (v *txView) FindVariant(key types.VariantKey) (types.Variant, bool) {
	if v.err != nil {
		return types.Variant{}, false
	}
	row := v.q.QueryRowContext(v.ctx,
		"SELECT "+variantColumns+" FROM variants WHERE glyph = ? AND original_glyph = ? AND original_pinyin = ? AND original_tone = ?",
		key.Glyph, key.Original.Glyph, key.Original.Pinyin, key.Original.Tone)
	found, err := scanVariant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Variant{}, false
	}
	if err != nil {
		v.fail(err)
		return types.Variant{}, false
	}
	return found, true
}

func (v *txView) ContainsCharacter(c types.Character) bool {
	_, ok := v.FindCharacter(c.Key())
	return ok
}

func (v *txView) ContainsVariant(variant types.Variant) bool {
	_, ok := v.FindVariant(variant.Key())
	return ok
}

func (v *txView) AllCharacters() []types.Character {
	if v.err != nil {
		return nil
	}
	out, err := queryCharacters(v.ctx, v.q, "SELECT "+characterColumns+" FROM characters ORDER BY "+characterOrder)
	if err != nil {
		v.fail(err)
		return nil
	}
	return out
}

func (v *txView) AllVariants() []types.Variant {
	if v.err != nil {
		return nil
	}
	out, err := queryVariants(v.ctx, v.q, "SELECT "+variantColumns+" FROM variants ORDER BY "+variantOrder)
	if err != nil {
		v.fail(err)
		return nil
	}
	return out
}

var _ types.Snapshot = (*txView)(nil)
