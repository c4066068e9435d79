package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestViolationCodeNames(t *testing.T) {
	require.Len(t, AllViolationCodes, 11)
	for _, code := range AllViolationCodes {
		assert.True(t, code.Valid())
		parsed, err := ParseViolationCode(code.String())
		require.NoError(t, err)
		assert.Equal(t, code, parsed)
	}

	assert.False(t, ViolationCode(0).Valid())
	assert.Equal(t, "ViolationCode(0)", ViolationCode(0).String())

	_, err := ParseViolationCode("radicalUnknown")
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestViolationCodeEncoding(t *testing.T) {
	data, err := json.Marshal(HasAlternatives)
	require.NoError(t, err)
	assert.JSONEq(t, `"HasAlternatives"`, string(data))

	var code ViolationCode
	require.NoError(t, json.Unmarshal([]byte(`"IsRadicalForOthers"`), &code))
	assert.Equal(t, IsRadicalForOthers, code)

	assert.Error(t, json.Unmarshal([]byte(`3`), &code))

	_, err = json.Marshal(ViolationCode(42))
	assert.Error(t, err)

	out, err := yaml.Marshal(map[string]ViolationCode{"code": OriginalUnknown})
	require.NoError(t, err)
	assert.Equal(t, "code: OriginalUnknown\n", string(out))

	var doc struct {
		Code ViolationCode `yaml:"code"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("code: AlternativeExists\n"), &doc))
	assert.Equal(t, AlternativeExists, doc.Code)
}
