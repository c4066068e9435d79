package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func ling() Character {
	return Character{Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13}.
		WithRadical(CharacterKey{Glyph: "雨", Pinyin: "yu", Tone: 3})
}

func TestIntegrityReport(t *testing.T) {
	var empty IntegrityReport
	assert.True(t, empty.Empty())
	assert.NoError(t, empty.Err())
	assert.Empty(t, empty.Codes())

	report := IntegrityReport{
		NewIntegrityError(IsRadicalForOthers, CharacterConflict(ling())),
		NewIntegrityError(HasAlternatives, VariantConflict(rainVariant())),
	}
	assert.False(t, report.Empty())
	assert.Equal(t, []ViolationCode{IsRadicalForOthers, HasAlternatives}, report.Codes())
	assert.True(t, report.Has(HasAlternatives))
	assert.False(t, report.Has(CharacterUnknown))

	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrityViolation)
	assert.Len(t, multierr.Errors(err), 2)

	var ie IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, IsRadicalForOthers, ie.Code)
}

func TestIntegrityErrorMessage(t *testing.T) {
	assert.Equal(t, "RadicalUnknown", NewIntegrityError(RadicalUnknown).Error())
	assert.Equal(t,
		"RadicalNotRadical: character 零/ling/2",
		NewIntegrityError(RadicalNotRadical, CharacterConflict(ling())).Error())
}

func TestIntegrityErrorJSON(t *testing.T) {
	data, err := json.Marshal(IntegrityReport{
		NewIntegrityError(RadicalUnknown),
		NewIntegrityError(HasAlternatives, VariantConflict(rainVariant())),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"code": "RadicalUnknown", "conflicts": []},
		{"code": "HasAlternatives", "conflicts": [
			{"entity_kind": "variant", "entity": {
				"glyph": "⻗", "original_glyph": "雨", "original_pinyin": "yu",
				"original_tone": 3, "strokes": 8
			}}
		]}
	]`, string(data))

	var decoded IntegrityReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	require.Len(t, decoded[1].Conflicts, 1)
	assert.Equal(t, KindVariant, decoded[1].Conflicts[0].Kind)
	assert.Equal(t, rainVariant(), *decoded[1].Conflicts[0].Variant)
}

func TestConflictEntity(t *testing.T) {
	c := CharacterConflict(ling())
	assert.Equal(t, KindCharacter, c.Kind)
	assert.Equal(t, ling(), c.Entity())
	assert.Equal(t, "character 零/ling/2", c.String())

	_, err := json.Marshal(ConflictEntity{Kind: KindCharacter})
	assert.Error(t, err)

	var decoded ConflictEntity
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"entity_kind":"stroke","entity":{}}`), &decoded), ErrInvalidData)
}
