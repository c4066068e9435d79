package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/internal/memory"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

// loadStats counts what loadAllJSONL stored and what it dropped.
type loadStats struct {
	Characters int
	Variants   int
	Journal    int
	Skipped    int
}

// loadAllJSONL reads the JSONL files in dataDir and inserts them into db
// in one transaction.
//
// Records are replayed through the integrity checker in dependency order
// (base characters, variants, derived characters), so a hand-edited file
// cannot smuggle in a dangling reference. Lines that are malformed, fail
// validation, or are rejected by the checker are skipped with a warning.
func loadAllJSONL(ctx context.Context, db *sql.DB, dataDir string, logger *slog.Logger) (loadStats, error) {
	var stats loadStats

	characters, err := readRecords(dataDir, charactersJSONL, logger, &stats, types.ParseCharacter)
	if err != nil {
		return stats, err
	}
	variants, err := readRecords(dataDir, variantsJSONL, logger, &stats, types.ParseVariant)
	if err != nil {
		return stats, err
	}
	entries, err := readRecords(dataDir, journalJSONL, logger, &stats, parseJournalEntry)
	if err != nil {
		return stats, err
	}

	snap := memory.New(nil, nil)
	reject := func(file string, e types.Entity, report types.IntegrityReport) {
		stats.Skipped++
		logger.Warn("skipping record that breaks integrity",
			slog.String("file", file),
			slog.String("record", e.String()),
			slog.Any("codes", report.Codes()))
	}
	for _, c := range characters {
		if c.IsDerived() {
			continue
		}
		if report := integrity.CheckCreateCharacter(c, snap); !report.Empty() {
			reject(charactersJSONL, c, report)
			continue
		}
		snap.AddCharacter(c)
	}
	for _, v := range variants {
		if report := integrity.CheckCreateVariant(v, snap); !report.Empty() {
			reject(variantsJSONL, v, report)
			continue
		}
		snap.AddVariant(v)
	}
	for _, c := range characters {
		if c.IsBase() {
			continue
		}
		if report := integrity.CheckCreateCharacter(c, snap); !report.Empty() {
			reject(charactersJSONL, c, report)
			continue
		}
		snap.AddCharacter(c)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range snap.AllCharacters() {
		if err := insertCharacter(ctx, tx, c); err != nil {
			return stats, fmt.Errorf("loading character %s: %w", c, err)
		}
		stats.Characters++
	}
	for _, v := range snap.AllVariants() {
		if err := insertVariant(ctx, tx, v); err != nil {
			return stats, fmt.Errorf("loading variant %s: %w", v, err)
		}
		stats.Variants++
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.EntryID] {
			stats.Skipped++
			logger.Warn("skipping duplicate journal entry", slog.String("entry_id", e.EntryID))
			continue
		}
		seen[e.EntryID] = true
		if err := insertJournal(ctx, tx, e); err != nil {
			return stats, fmt.Errorf("loading journal entry %s: %w", e.EntryID, err)
		}
		stats.Journal++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing load transaction: %w", err)
	}
	return stats, nil
}

// readRecords parses every line of one JSONL file with parse, logging and
// counting the lines it has to drop.
func readRecords[T any](dataDir, file string, logger *slog.Logger, stats *loadStats, parse func([]byte) (T, error)) ([]T, error) {
	lines, malformed, err := readJSONL(filepath.Join(dataDir, file))
	if err != nil {
		return nil, err
	}
	for _, n := range malformed {
		stats.Skipped++
		logger.Warn("skipping malformed JSONL line", slog.String("file", file), slog.Int("line", n))
	}

	out := make([]T, 0, len(lines))
	for _, line := range lines {
		rec, err := parse(line.data)
		if err != nil {
			stats.Skipped++
			logger.Warn("skipping invalid JSONL record",
				slog.String("file", file),
				slog.Int("line", line.number),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseJournalEntry(data []byte) (types.JournalEntry, error) {
	var e types.JournalEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return types.JournalEntry{}, err
	}
	if e.EntryID == "" {
		return types.JournalEntry{}, fmt.Errorf("%w: journal entry without entry_id", types.ErrInvalidData)
	}
	switch e.Operation {
	case types.JournalCreate, types.JournalDelete:
	default:
		return types.JournalEntry{}, fmt.Errorf("%w: unknown journal operation %q", types.ErrInvalidData, e.Operation)
	}
	return e, nil
}
