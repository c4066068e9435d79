package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONL files in the data directory. They are the source of truth; the
// SQLite file is rebuilt from them on Attach.
const (
	charactersJSONL = "characters.jsonl"
	variantsJSONL   = "variants.jsonl"
	journalJSONL    = "journal.jsonl"
)

var jsonlFiles = []string{charactersJSONL, variantsJSONL, journalJSONL}

// jsonlLine is one non-empty line of a JSONL file together with its
// 1-based line number, for diagnostics.
type jsonlLine struct {
	number int
	data   json.RawMessage
}

// readJSONL returns every non-empty line of path. Lines that are not valid
// JSON are returned in skipped rather than failing the whole file.
func readJSONL(path string) (lines []jsonlLine, skipped []int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			skipped = append(skipped, n)
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		lines = append(lines, jsonlLine{number: n, data: cp})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return lines, skipped, nil
}

// writeJSONL atomically replaces path with records, one per line, using
// the temp-file, fsync, rename sequence.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// marshalJSONL encodes each record as one JSON line.
func marshalJSONL[T any](records []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// initJSONLFiles creates any missing JSONL file as an empty file.
func initJSONLFiles(dataDir string) error {
	for _, name := range jsonlFiles {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil
}
