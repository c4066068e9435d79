package types

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// keySeparator joins key fields in the textual key form, e.g. "雨/yu/3".
const keySeparator = "/"

// CharacterKey identifies a character reading. Equality is structural, so
// keys can be compared with == and used as map keys.
type CharacterKey struct {
	Glyph  string `json:"glyph" yaml:"glyph"`
	Pinyin string `json:"pinyin" yaml:"pinyin"`
	Tone   int    `json:"tone" yaml:"tone"`
}

// String returns the textual key form "glyph/pinyin/tone".
func (k CharacterKey) String() string {
	return k.Glyph + keySeparator + k.Pinyin + keySeparator + strconv.Itoa(k.Tone)
}

// Compare orders keys by glyph bytes, then pinyin, then tone. It matches
// SQLite's default BINARY collation over the same columns.
func (k CharacterKey) Compare(other CharacterKey) int {
	if c := strings.Compare(k.Glyph, other.Glyph); c != 0 {
		return c
	}
	if c := strings.Compare(k.Pinyin, other.Pinyin); c != 0 {
		return c
	}
	return cmp.Compare(k.Tone, other.Tone)
}

// Validate checks the key fields with the same rules a Character uses.
func (k CharacterKey) Validate() error {
	v := validator{kind: KindCharacter}
	v.key("", k)
	return v.result()
}

// ParseCharacterKey parses the textual key form produced by String.
func ParseCharacterKey(s string) (CharacterKey, error) {
	parts := strings.Split(s, keySeparator)
	if len(parts) != 3 {
		return CharacterKey{}, fmt.Errorf("%w: character key %q must have the form glyph/pinyin/tone", ErrInvalidData, s)
	}
	tone, err := strconv.Atoi(parts[2])
	if err != nil {
		return CharacterKey{}, fmt.Errorf("%w: character key %q has a non-numeric tone", ErrInvalidData, s)
	}
	k := CharacterKey{Glyph: NormalizeGlyph(parts[0]), Pinyin: parts[1], Tone: tone}
	if err := k.Validate(); err != nil {
		return CharacterKey{}, err
	}
	return k, nil
}

// VariantKey identifies a variant: its own glyph plus the key of the base
// character it stands in for.
type VariantKey struct {
	Glyph    string       `json:"glyph" yaml:"glyph"`
	Original CharacterKey `json:"original" yaml:"original"`
}

// String returns "glyph/originalGlyph/originalPinyin/originalTone".
func (k VariantKey) String() string {
	return k.Glyph + keySeparator + k.Original.String()
}

// ParseVariantKey parses the textual key form produced by String.
func ParseVariantKey(s string) (VariantKey, error) {
	glyph, rest, ok := strings.Cut(s, keySeparator)
	if !ok {
		return VariantKey{}, fmt.Errorf("%w: variant key %q must have the form glyph/original-glyph/pinyin/tone", ErrInvalidData, s)
	}
	original, err := ParseCharacterKey(rest)
	if err != nil {
		return VariantKey{}, err
	}
	k := VariantKey{Glyph: NormalizeGlyph(glyph), Original: original}
	if err := k.Validate(); err != nil {
		return VariantKey{}, err
	}
	return k, nil
}

// Compare orders variant keys by glyph, then by original key.
func (k VariantKey) Compare(other VariantKey) int {
	if c := strings.Compare(k.Glyph, other.Glyph); c != 0 {
		return c
	}
	return k.Original.Compare(other.Original)
}

// Validate checks the variant glyph and the original key fields.
func (k VariantKey) Validate() error {
	v := validator{kind: KindVariant}
	v.glyph("glyph", k.Glyph)
	v.key("original_", k.Original)
	return v.result()
}
