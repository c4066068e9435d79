package types

import (
	"encoding/json"
	"fmt"
)

// Character is one (glyph, pinyin, tone) reading of a Chinese character.
//
// The radical link (RadicalGlyph, RadicalPinyin, RadicalTone) is either fully
// present or fully absent. A character with a radical link is derived; one
// without is a base character and may itself serve as a radical or as the
// original of a variant. RadicalVariant optionally names the variant of the
// radical that the derived character is written with.
//
// Characters are immutable once stored; there is no update operation.
type Character struct {
	Glyph          string `json:"glyph" yaml:"glyph"`
	Pinyin         string `json:"pinyin" yaml:"pinyin"`
	Tone           int    `json:"tone" yaml:"tone"`
	IPA            string `json:"ipa" yaml:"ipa"`
	Strokes        int    `json:"strokes" yaml:"strokes"`
	RadicalGlyph   string `json:"radical_glyph,omitempty" yaml:"radical_glyph,omitempty"`
	RadicalPinyin  string `json:"radical_pinyin,omitempty" yaml:"radical_pinyin,omitempty"`
	RadicalTone    *int   `json:"radical_tone,omitempty" yaml:"radical_tone,omitempty"`
	RadicalVariant string `json:"radical_variant,omitempty" yaml:"radical_variant,omitempty"`
}

// NewCharacter normalizes the glyph fields of c and validates it. The
// returned character is safe to hand to the integrity checker.
func NewCharacter(c Character) (Character, error) {
	c.Glyph = NormalizeGlyph(c.Glyph)
	c.RadicalGlyph = NormalizeGlyph(c.RadicalGlyph)
	c.RadicalVariant = NormalizeGlyph(c.RadicalVariant)
	if c.RadicalTone != nil {
		tone := *c.RadicalTone
		c.RadicalTone = &tone
	}
	if err := c.Validate(); err != nil {
		return Character{}, err
	}
	return c, nil
}

// ParseCharacter decodes a JSON character and runs NewCharacter on it.
func ParseCharacter(data []byte) (Character, error) {
	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return Character{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return NewCharacter(c)
}

// WithRadical returns a copy of c linked to the given radical key.
func (c Character) WithRadical(radical CharacterKey) Character {
	tone := radical.Tone
	c.RadicalGlyph = radical.Glyph
	c.RadicalPinyin = radical.Pinyin
	c.RadicalTone = &tone
	return c
}

// Key returns the identifying fields of the character.
func (c Character) Key() CharacterKey {
	return CharacterKey{Glyph: c.Glyph, Pinyin: c.Pinyin, Tone: c.Tone}
}

// RadicalKey returns the radical link and whether it is present.
func (c Character) RadicalKey() (CharacterKey, bool) {
	if !c.hasRadicalLink() {
		return CharacterKey{}, false
	}
	return CharacterKey{Glyph: c.RadicalGlyph, Pinyin: c.RadicalPinyin, Tone: *c.RadicalTone}, true
}

// IsBase reports whether c carries no radical link.
func (c Character) IsBase() bool {
	return !c.hasRadicalLink()
}

// IsDerived reports whether c is built from a radical.
func (c Character) IsDerived() bool {
	return c.hasRadicalLink()
}

// SameKey reports whether c and other identify the same reading. Payload
// fields are ignored.
func (c Character) SameKey(other Character) bool {
	return c.Key() == other.Key()
}

// Kind implements Entity.
func (c Character) Kind() EntityKind { return KindCharacter }

func (Character) entity() {}

// String returns the key form, e.g. "雨/yu/3".
func (c Character) String() string {
	return c.Key().String()
}

func (c Character) hasRadicalLink() bool {
	return c.RadicalGlyph != "" && c.RadicalPinyin != "" && c.RadicalTone != nil
}

// Validate checks all entity-local rules at once: field formats and ranges,
// the all-or-nothing radical link, and that a radical variant only appears
// together with a radical link. It returns a *ValidationError or nil.
func (c Character) Validate() error {
	v := validator{kind: KindCharacter}
	v.key("", c.Key())
	if c.IPA == "" {
		v.fail("ipa", "must not be empty")
	}
	v.strokes("strokes", c.Strokes)

	present := 0
	if c.RadicalGlyph != "" {
		present++
	}
	if c.RadicalPinyin != "" {
		present++
	}
	if c.RadicalTone != nil {
		present++
	}
	switch present {
	case 0:
		if c.RadicalVariant != "" {
			v.fail("radical_variant", "requires the radical glyph, pinyin and tone")
		}
	case 3:
		radical, _ := c.RadicalKey()
		v.key("radical_", radical)
		if radical == c.Key() {
			v.fail("radical_glyph", "a character cannot be its own radical")
		}
		if c.RadicalVariant != "" {
			v.glyph("radical_variant", c.RadicalVariant)
		}
	default:
		v.fail("radical", "radical glyph, pinyin and tone must be set together")
	}
	return v.result()
}
