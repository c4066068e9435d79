package types

import (
	"encoding/json"
	"fmt"
)

// Variant is an alternate glyph usable in place of a specific base
// character, its original. Variants are immutable once stored.
type Variant struct {
	Glyph          string `json:"glyph" yaml:"glyph"`
	OriginalGlyph  string `json:"original_glyph" yaml:"original_glyph"`
	OriginalPinyin string `json:"original_pinyin" yaml:"original_pinyin"`
	OriginalTone   int    `json:"original_tone" yaml:"original_tone"`
	Strokes        int    `json:"strokes" yaml:"strokes"`
}

// NewVariant normalizes the glyph fields of v and validates it.
func NewVariant(v Variant) (Variant, error) {
	v.Glyph = NormalizeGlyph(v.Glyph)
	v.OriginalGlyph = NormalizeGlyph(v.OriginalGlyph)
	if err := v.Validate(); err != nil {
		return Variant{}, err
	}
	return v, nil
}

// ParseVariant decodes a JSON variant and runs NewVariant on it.
func ParseVariant(data []byte) (Variant, error) {
	var v Variant
	if err := json.Unmarshal(data, &v); err != nil {
		return Variant{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return NewVariant(v)
}

// Key returns the identifying fields of the variant.
func (v Variant) Key() VariantKey {
	return VariantKey{Glyph: v.Glyph, Original: v.OriginalKey()}
}

// OriginalKey returns the key of the base character this variant replaces.
func (v Variant) OriginalKey() CharacterKey {
	return CharacterKey{Glyph: v.OriginalGlyph, Pinyin: v.OriginalPinyin, Tone: v.OriginalTone}
}

// SameKey reports whether v and other share all key fields.
func (v Variant) SameKey(other Variant) bool {
	return v.Key() == other.Key()
}

// Kind implements Entity.
func (v Variant) Kind() EntityKind { return KindVariant }

func (Variant) entity() {}

// String returns the key form, e.g. "⻗/雨/yu/3".
func (v Variant) String() string {
	return v.Key().String()
}

// Validate checks field formats and ranges and returns a *ValidationError
// listing every problem, or nil.
func (v Variant) Validate() error {
	val := validator{kind: KindVariant}
	val.glyph("glyph", v.Glyph)
	val.key("original_", v.OriginalKey())
	val.strokes("strokes", v.Strokes)
	if v.Glyph != "" && v.Glyph == v.OriginalGlyph {
		val.fail("glyph", "must differ from the original glyph")
	}
	return val.result()
}
