package i18n

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		lang string
		want language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"en-GB", language.English},
		{"cs", language.Czech},
		{"cs-CZ", language.Czech},
		{"de,cs;q=0.8", language.Czech},
		{"ja", language.English},
		{"!!", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.lang))
		})
	}
}

func TestEveryCodeIsTranslated(t *testing.T) {
	for _, tag := range Default().Languages() {
		for _, code := range types.AllViolationCodes {
			msg := Describe(tag, code)
			assert.NotEqual(t, code.String(), msg, "%s has no message for %s", tag, code)
			assert.NotEmpty(t, msg)
		}
		for _, kind := range []types.EntityKind{types.KindCharacter, types.KindVariant} {
			assert.NotContains(t, Default().EntityName(tag, kind), ".", "%s has no name for %s", tag, kind)
		}
	}
}

func TestDescribeLanguages(t *testing.T) {
	assert.Equal(t, "The character has variants.", Describe(language.English, types.HasAlternatives))
	assert.Equal(t, "Znak má varianty.", Describe(language.Czech, types.HasAlternatives))
	assert.Equal(t, "ViolationCode(0)", Describe(language.English, types.ViolationCode(0)))
}

func TestRenderReport(t *testing.T) {
	rainKey := types.CharacterKey{Glyph: "雨", Pinyin: "yu", Tone: 3}
	ling := types.Character{Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13}.WithRadical(rainKey)
	top := types.Variant{Glyph: "⻗", OriginalGlyph: "雨", OriginalPinyin: "yu", OriginalTone: 3, Strokes: 8}
	report := types.IntegrityReport{
		types.NewIntegrityError(types.IsRadicalForOthers, types.CharacterConflict(ling)),
		types.NewIntegrityError(types.HasAlternatives, types.VariantConflict(top)),
	}

	var sb strings.Builder
	require.NoError(t, RenderReport(&sb, language.Czech, report))
	assert.Equal(t,
		"IsRadicalForOthers: Znak je radikálem jiných znaků.\n"+
			"  - znak 零/ling/2\n"+
			"HasAlternatives: Znak má varianty.\n"+
			"  - varianta ⻗/雨/yu/3\n",
		sb.String())

	sb.Reset()
	require.NoError(t, RenderReport(&sb, language.English, nil))
	assert.Equal(t, "No integrity violations.\n", sb.String())
}

func TestLoadFromFS(t *testing.T) {
	valid := "locale: en\nnamespace: violations\nmessages:\n  report.accepted: ok\n"

	tests := []struct {
		name    string
		fs      fstest.MapFS
		wantErr string
	}{
		{
			name: "valid",
			fs:   fstest.MapFS{"locales/en/violations.yaml": {Data: []byte(valid)}},
		},
		{
			name:    "empty",
			fs:      fstest.MapFS{},
			wantErr: "no catalog files",
		},
		{
			name: "locale mismatch",
			fs: fstest.MapFS{
				"locales/en/violations.yaml": {Data: []byte(valid)},
				"locales/cs/violations.yaml": {Data: []byte(valid)},
			},
			wantErr: "must match directory",
		},
		{
			name:    "missing fallback",
			fs:      fstest.MapFS{"locales/cs/violations.yaml": {Data: []byte(strings.Replace(valid, "en", "cs", 1))}},
			wantErr: "fallback locale",
		},
		{
			name:    "broken yaml",
			fs:      fstest.MapFS{"locales/en/violations.yaml": {Data: []byte("messages: [")}},
			wantErr: "parse catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadFromFS(tt.fs)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, []language.Tag{language.English}, b.Languages())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
