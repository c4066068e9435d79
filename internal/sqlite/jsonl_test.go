package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")

	records := []json.RawMessage{
		json.RawMessage(`{"glyph":"雨"}`),
		json.RawMessage(`{"glyph":"零"}`),
	}
	require.NoError(t, writeJSONL(path, records))
	assert.Equal(t, "{\"glyph\":\"雨\"}\n{\"glyph\":\"零\"}\n", readFile(t, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	lines, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[1].number)
	assert.JSONEq(t, `{"glyph":"零"}`, string(lines[1].data))
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := "{\"glyph\":\"雨\"}\n\n{\"glyph\":\n{\"glyph\":\"零\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, skipped)
	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[1].number)
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, _, err := readJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInitJSONLFilesKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, charactersJSONL)
	require.NoError(t, os.WriteFile(existing, []byte("{}\n"), 0o644))

	require.NoError(t, initJSONLFiles(dir))
	assert.Equal(t, "{}\n", readFile(t, existing))
	for _, name := range jsonlFiles {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}
