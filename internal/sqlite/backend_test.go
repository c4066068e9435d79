package sqlite

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

var rainKey = types.CharacterKey{Glyph: "雨", Pinyin: "yu", Tone: 3}

func rain() types.Character {
	return types.Character{Glyph: "雨", Pinyin: "yu", Tone: 3, IPA: "y", Strokes: 8}
}

func ling() types.Character {
	return types.Character{Glyph: "零", Pinyin: "ling", Tone: 2, IPA: "liŋ", Strokes: 13}.WithRadical(rainKey)
}

func rainTop() types.Variant {
	return types.Variant{Glyph: "⻗", OriginalGlyph: "雨", OriginalPinyin: "yu", OriginalTone: 3, Strokes: 8}
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func attach(t *testing.T, dir string, strategy string, opts ...Option) *Backend {
	t.Helper()
	b := NewBackend(append([]Option{WithClock(stepClock())}, opts...)...)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir, SyncStrategy: strategy}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func tables(t *testing.T, b *Backend) (types.CharacterTable, types.VariantTable) {
	t.Helper()
	chars, err := b.Characters()
	require.NoError(t, err)
	variants, err := b.Variants()
	require.NoError(t, err)
	return chars, variants
}

// seedRain stores 雨, 零 derived from it, and the variant ⻗ of 雨.
func seedRain(t *testing.T, b *Backend) {
	t.Helper()
	ctx := context.Background()
	chars, variants := tables(t, b)
	for _, c := range []types.Character{rain(), ling()} {
		report, err := chars.Create(ctx, c)
		require.NoError(t, err)
		require.Empty(t, report, c.String())
	}
	report, err := variants.Create(ctx, rainTop())
	require.NoError(t, err)
	require.Empty(t, report)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBackendAttach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	require.NoError(t, b.Attach(config))
	assert.FileExists(t, filepath.Join(dir, dbFile))
	for _, name := range jsonlFiles {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)

	chars, err := b.Characters()
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")

	_, err = b.Characters()
	assert.ErrorIs(t, err, types.ErrDictionaryDetached)
	_, err = chars.Get(context.Background(), rainKey)
	assert.ErrorIs(t, err, types.ErrDictionaryDetached, "tables obtained before detach stop working")
	_, err = chars.Create(context.Background(), rain())
	assert.ErrorIs(t, err, types.ErrDictionaryDetached)
	assert.ErrorIs(t, b.View(context.Background(), func(types.Snapshot) error { return nil }), types.ErrDictionaryDetached)
}

func TestBackendAttachInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config types.Config
		want   error
	}{
		{"empty backend", types.Config{DataDir: t.TempDir()}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "postgres", DataDir: t.TempDir()}, types.ErrBackendUnknown},
		{"unknown strategy", types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SyncStrategy: "batch"}, types.ErrSyncStrategyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, NewBackend().Attach(tt.config), tt.want)
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	seedRain(t, b)
	chars, variants := tables(t, b)
	ctx := context.Background()

	got, err := chars.Get(ctx, ling().Key())
	require.NoError(t, err)
	assert.Equal(t, ling(), got)

	got, err = chars.Get(ctx, rainKey)
	require.NoError(t, err)
	assert.True(t, got.IsBase())

	_, err = chars.Get(ctx, types.CharacterKey{Glyph: "雨", Pinyin: "yu", Tone: 4})
	assert.ErrorIs(t, err, types.ErrNotFound)

	v, err := variants.Get(ctx, rainTop().Key())
	require.NoError(t, err)
	assert.Equal(t, rainTop(), v)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	chars, variants := tables(t, b)
	ctx := context.Background()

	bad := rain()
	bad.Pinyin = "YU"
	report, err := chars.Create(ctx, bad)
	assert.ErrorIs(t, err, types.ErrInvalidData)
	assert.Nil(t, report)

	_, err = variants.Create(ctx, types.Variant{Glyph: "雨", OriginalGlyph: "雨", OriginalPinyin: "yu", OriginalTone: 3, Strokes: 8})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = chars.Delete(ctx, types.CharacterKey{Glyph: "x", Pinyin: "yu", Tone: 3})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestMutationReports(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	chars, variants := tables(t, b)
	ctx := context.Background()

	report, err := chars.Create(ctx, ling())
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.RadicalUnknown}, report.Codes())

	report, err = variants.Create(ctx, rainTop())
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.OriginalUnknown}, report.Codes())

	seedRain(t, b)

	report, err = chars.Create(ctx, rain())
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.CharacterExists}, report.Codes())

	report, err = chars.Delete(ctx, rainKey)
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.IsRadicalForOthers, types.HasAlternatives}, report.Codes())
	assert.Equal(t, ling(), *report[0].Conflicts[0].Character)
	assert.Equal(t, rainTop(), *report[1].Conflicts[0].Variant)

	report, err = variants.Delete(ctx, types.VariantKey{Glyph: "⻗", Original: ling().Key()})
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.AlternativeUnknown}, report.Codes())
}

func TestRejectedMutationLeavesStateUnchanged(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir, "")
	seedRain(t, b)
	chars, _ := tables(t, b)
	ctx := context.Background()

	before := map[string]string{}
	for _, name := range jsonlFiles {
		before[name] = readFile(t, filepath.Join(dir, name))
	}

	report, err := chars.Delete(ctx, rainKey)
	require.NoError(t, err)
	require.False(t, report.Empty())

	_, err = chars.Get(ctx, rainKey)
	assert.NoError(t, err)
	for _, name := range jsonlFiles {
		assert.Equal(t, before[name], readFile(t, filepath.Join(dir, name)), name)
	}
	entries, err := b.Journal(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "rejections are not journaled")
}

func TestDeleteInDependencyOrder(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	seedRain(t, b)
	chars, variants := tables(t, b)
	ctx := context.Background()

	report, err := chars.Delete(ctx, ling().Key())
	require.NoError(t, err)
	assert.Empty(t, report)

	report, err = variants.Delete(ctx, rainTop().Key())
	require.NoError(t, err)
	assert.Empty(t, report)

	report, err = chars.Delete(ctx, rainKey)
	require.NoError(t, err)
	assert.Empty(t, report)

	report, err = chars.Delete(ctx, rainKey)
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.CharacterUnknown}, report.Codes())
}

func TestDeleteVariantInUse(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	chars, variants := tables(t, b)
	ctx := context.Background()

	_, err := chars.Create(ctx, rain())
	require.NoError(t, err)
	_, err = variants.Create(ctx, rainTop())
	require.NoError(t, err)
	withTop := ling()
	withTop.RadicalVariant = "⻗"
	report, err := chars.Create(ctx, withTop)
	require.NoError(t, err)
	require.Empty(t, report)

	report, err = variants.Delete(ctx, rainTop().Key())
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.IsAlternativeForCharacters}, report.Codes())
}

func TestPersistImmediate(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir, types.SyncImmediate)
	seedRain(t, b)

	assert.Equal(t, `{"glyph":"雨","pinyin":"yu","tone":3,"ipa":"y","strokes":8}`+"\n"+
		`{"glyph":"零","pinyin":"ling","tone":2,"ipa":"liŋ","strokes":13,"radical_glyph":"雨","radical_pinyin":"yu","radical_tone":3}`+"\n",
		readFile(t, filepath.Join(dir, charactersJSONL)))

	require.NoError(t, b.Detach())

	reopened := attach(t, dir, "")
	chars, variants := tables(t, reopened)
	all, err := chars.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []types.Character{rain(), ling()}, all)
	vs, err := variants.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []types.Variant{rainTop()}, vs)
}

func TestPersistOnClose(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir, types.SyncOnClose)
	seedRain(t, b)

	assert.Empty(t, readFile(t, filepath.Join(dir, charactersJSONL)))
	assert.Empty(t, readFile(t, filepath.Join(dir, journalJSONL)))

	require.NoError(t, b.Detach())
	assert.NotEmpty(t, readFile(t, filepath.Join(dir, charactersJSONL)))
	assert.NotEmpty(t, readFile(t, filepath.Join(dir, variantsJSONL)))
	assert.NotEmpty(t, readFile(t, filepath.Join(dir, journalJSONL)))
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, dir, "")
	seedRain(t, b)
	chars, _ := tables(t, b)
	ctx := context.Background()

	_, err := chars.Delete(ctx, ling().Key())
	require.NoError(t, err)

	entries, err := b.Journal(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, types.JournalDelete, entries[0].Operation)
	assert.Equal(t, ling(), *entries[0].Record.Character, "delete journals the stored record")
	assert.Equal(t, types.KindVariant, entries[1].Record.Kind)
	assert.Equal(t, types.JournalCreate, entries[3].Operation)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
	for _, e := range entries {
		assert.Len(t, e.EntryID, 36)
	}

	limited, err := b.Journal(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, entries[:2], limited)

	require.NoError(t, b.Detach())
	reopened := attach(t, dir, "")
	reloaded, err := reopened.Journal(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reloaded, 4)
	assert.Equal(t, entries[0].EntryID, reloaded[0].EntryID)
}

func TestView(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	seedRain(t, b)

	var report types.IntegrityReport
	err := b.View(context.Background(), func(snap types.Snapshot) error {
		var err error
		report, err = integrity.Check(integrity.DeleteCharacter, rain(), snap)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []types.ViolationCode{types.IsRadicalForOthers, types.HasAlternatives}, report.Codes())

	// A dry run changes nothing.
	chars, _ := tables(t, b)
	_, err = chars.Get(context.Background(), rainKey)
	assert.NoError(t, err)
}

func TestViewSurfacesReadErrors(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	ctx, cancel := context.WithCancel(context.Background())

	err := b.View(ctx, func(snap types.Snapshot) error {
		cancel()
		snap.AllCharacters()
		return nil
	})
	assert.Error(t, err)
}

func TestFetchFilters(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	seedRain(t, b)
	chars, variants := tables(t, b)
	ctx := context.Background()

	snow := types.Character{Glyph: "雪", Pinyin: "xue", Tone: 3, IPA: "ɕɥɛ", Strokes: 11}.WithRadical(rainKey)
	water := types.Character{Glyph: "水", Pinyin: "shui", Tone: 3, IPA: "ʂweɪ", Strokes: 4}
	for _, c := range []types.Character{snow, water} {
		_, err := chars.Create(ctx, c)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter types.Filter
		want   []string
	}{
		{"empty filter", nil, []string{"水/shui/3", "雨/yu/3", "雪/xue/3", "零/ling/2"}},
		{"base only", types.Filter{"base": true}, []string{"水/shui/3", "雨/yu/3"}},
		{"derived only", types.Filter{"base": false}, []string{"雪/xue/3", "零/ling/2"}},
		{"by radical", types.Filter{"radical_glyph": "雨", "radical_tone": 3}, []string{"雪/xue/3", "零/ling/2"}},
		{"by tone", types.Filter{"tone": 2}, []string{"零/ling/2"}},
		{"by glyph and pinyin", types.Filter{"glyph": "雨", "pinyin": "yu"}, []string{"雨/yu/3"}},
		{"limit", types.Filter{"limit": 2}, []string{"水/shui/3", "雨/yu/3"}},
		{"offset", types.Filter{"offset": 3}, []string{"零/ling/2"}},
		{"limit and offset", types.Filter{"limit": 1, "offset": 1}, []string{"雨/yu/3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chars.Fetch(ctx, tt.filter)
			require.NoError(t, err)
			var keys []string
			for _, c := range got {
				keys = append(keys, c.String())
			}
			assert.Equal(t, tt.want, keys)
		})
	}

	vs, err := variants.Fetch(ctx, types.Filter{"original_glyph": "雨", "original_tone": 3})
	require.NoError(t, err)
	assert.Equal(t, []types.Variant{rainTop()}, vs)

	vs, err = variants.Fetch(ctx, types.Filter{"original_pinyin": "shui"})
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestFetchInvalidFilter(t *testing.T) {
	b := attach(t, t.TempDir(), "")
	chars, variants := tables(t, b)
	ctx := context.Background()

	for _, f := range []types.Filter{
		{"state": "ready"},
		{"tone": "3"},
		{"base": 1},
		{"limit": -1},
		{"radical_glyph": 5},
	} {
		_, err := chars.Fetch(ctx, f)
		assert.ErrorIs(t, err, types.ErrInvalidFilter, "%v", f)
	}
	_, err := variants.Fetch(ctx, types.Filter{"radical_glyph": "雨"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestBackendLogsMutations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	b := attach(t, t.TempDir(), "", WithLogger(logger))
	chars, _ := tables(t, b)

	_, err := chars.Create(context.Background(), ling())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"dictionary attached"`)
	assert.Contains(t, out, `"msg":"mutation rejected"`)
	assert.Contains(t, out, `"codes":["RadicalUnknown"]`)
}
