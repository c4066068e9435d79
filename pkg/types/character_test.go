package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(n int) *int { return &n }

func rain() Character {
	return Character{Glyph: "雨", Pinyin: "yu", Tone: 3, IPA: "y", Strokes: 8}
}

func TestNewCharacter(t *testing.T) {
	tests := []struct {
		name       string
		in         Character
		wantFields []string
	}{
		{
			name: "base character",
			in:   rain(),
		},
		{
			name: "derived character with radical variant",
			in: Character{
				Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13,
				RadicalGlyph: "雨", RadicalPinyin: "yu", RadicalTone: tone(3), RadicalVariant: "⻗",
			},
		},
		{
			name: "neutral tone is valid",
			in:   Character{Glyph: "么", Pinyin: "me", Tone: 0, IPA: "mə", Strokes: 3},
		},
		{
			name:       "empty glyph",
			in:         Character{Pinyin: "yu", Tone: 3, IPA: "y", Strokes: 8},
			wantFields: []string{"glyph"},
		},
		{
			name:       "two glyphs",
			in:         Character{Glyph: "雨雨", Pinyin: "yu", Tone: 3, IPA: "y", Strokes: 8},
			wantFields: []string{"glyph"},
		},
		{
			name:       "latin glyph",
			in:         Character{Glyph: "a", Pinyin: "yu", Tone: 3, IPA: "y", Strokes: 8},
			wantFields: []string{"glyph"},
		},
		{
			name:       "uppercase pinyin",
			in:         Character{Glyph: "雨", Pinyin: "Yu", Tone: 3, IPA: "y", Strokes: 8},
			wantFields: []string{"pinyin"},
		},
		{
			name:       "pinyin too long",
			in:         Character{Glyph: "雨", Pinyin: "zhuangx", Tone: 3, IPA: "y", Strokes: 8},
			wantFields: []string{"pinyin"},
		},
		{
			name:       "tone out of range",
			in:         Character{Glyph: "雨", Pinyin: "yu", Tone: 5, IPA: "y", Strokes: 8},
			wantFields: []string{"tone"},
		},
		{
			name:       "missing ipa and strokes",
			in:         Character{Glyph: "雨", Pinyin: "yu", Tone: 3},
			wantFields: []string{"ipa", "strokes"},
		},
		{
			name:       "strokes above range",
			in:         Character{Glyph: "雨", Pinyin: "yu", Tone: 3, IPA: "y", Strokes: 100},
			wantFields: []string{"strokes"},
		},
		{
			name: "partial radical link",
			in: Character{
				Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13,
				RadicalGlyph: "雨", RadicalPinyin: "yu",
			},
			wantFields: []string{"radical"},
		},
		{
			name: "radical variant without radical",
			in: Character{
				Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13,
				RadicalVariant: "⻗",
			},
			wantFields: []string{"radical_variant"},
		},
		{
			name:       "own radical",
			in:         rain().WithRadical(CharacterKey{Glyph: "雨", Pinyin: "yu", Tone: 3}),
			wantFields: []string{"radical_glyph"},
		},
		{
			name: "invalid radical tone",
			in: Character{
				Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13,
				RadicalGlyph: "雨", RadicalPinyin: "yu", RadicalTone: tone(7),
			},
			wantFields: []string{"radical_tone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCharacter(tt.in)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.True(t, got.SameKey(tt.in))
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidData)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, KindCharacter, ve.Kind)

			var fields []string
			for _, f := range ve.Fields() {
				fields = append(fields, f.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestNewCharacterNormalizesGlyphs(t *testing.T) {
	// U+F9B2 is a compatibility ideograph that NFC maps to U+96F6 (零).
	c, err := NewCharacter(Character{Glyph: " 零 ", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13})
	require.NoError(t, err)
	assert.Equal(t, "零", c.Glyph)
}

func TestNewCharacterCopiesRadicalTone(t *testing.T) {
	rt := 3
	in := Character{
		Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13,
		RadicalGlyph: "雨", RadicalPinyin: "yu", RadicalTone: &rt,
	}
	c, err := NewCharacter(in)
	require.NoError(t, err)

	rt = 1
	radical, ok := c.RadicalKey()
	require.True(t, ok)
	assert.Equal(t, 3, radical.Tone)
}

func TestCharacterKeyEquality(t *testing.T) {
	a := rain()
	b := rain()
	b.IPA = "ʏ"
	b.Strokes = 9

	assert.True(t, a.SameKey(b), "payload fields must not affect key equality")
	assert.Equal(t, a.Key(), b.Key())

	set := map[CharacterKey]bool{a.Key(): true}
	assert.True(t, set[b.Key()])

	c := rain()
	c.Tone = 4
	assert.False(t, a.SameKey(c))
}

func TestCharacterRadicalLink(t *testing.T) {
	base := rain()
	assert.True(t, base.IsBase())
	assert.False(t, base.IsDerived())
	_, ok := base.RadicalKey()
	assert.False(t, ok)

	derived := Character{Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13}.WithRadical(base.Key())
	assert.True(t, derived.IsDerived())
	key, ok := derived.RadicalKey()
	require.True(t, ok)
	assert.Equal(t, base.Key(), key)
}

func TestParseCharacter(t *testing.T) {
	c, err := ParseCharacter([]byte(`{"glyph":"零","pinyin":"ling","tone":2,"ipa":"liŋ","strokes":13,"radical_glyph":"雨","radical_pinyin":"yu","radical_tone":3}`))
	require.NoError(t, err)
	assert.True(t, c.IsDerived())

	_, err = ParseCharacter([]byte(`{"glyph":`))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = ParseCharacter([]byte(`{"glyph":"零","pinyin":"ling","tone":2,"ipa":"liŋ","strokes":13,"radical_glyph":"雨"}`))
	assert.ErrorIs(t, err, ErrInvalidData)
}
