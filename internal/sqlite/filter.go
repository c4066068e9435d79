package sqlite

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// filterKind is the Go type a filter key accepts.
type filterKind int

const (
	filterString filterKind = iota
	filterInt
	filterBool
)

// filterSpec maps one filter key to the SQL condition it produces.
type filterSpec struct {
	kind filterKind
	// cond is the WHERE fragment for the value; bool filters choose
	// between whenTrue and whenFalse instead.
	cond      string
	whenTrue  string
	whenFalse string
}

var characterFilters = map[string]filterSpec{
	"glyph":          {kind: filterString, cond: "glyph = ?"},
	"pinyin":         {kind: filterString, cond: "pinyin = ?"},
	"tone":           {kind: filterInt, cond: "tone = ?"},
	"base":           {kind: filterBool, whenTrue: "radical_glyph IS NULL", whenFalse: "radical_glyph IS NOT NULL"},
	"radical_glyph":  {kind: filterString, cond: "radical_glyph = ?"},
	"radical_pinyin": {kind: filterString, cond: "radical_pinyin = ?"},
	"radical_tone":   {kind: filterInt, cond: "radical_tone = ?"},
}

var variantFilters = map[string]filterSpec{
	"glyph":           {kind: filterString, cond: "glyph = ?"},
	"original_glyph":  {kind: filterString, cond: "original_glyph = ?"},
	"original_pinyin": {kind: filterString, cond: "original_pinyin = ?"},
	"original_tone":   {kind: filterInt, cond: "original_tone = ?"},
}

// buildFetchQuery turns a filter into a SELECT over table ordered by order.
// Unknown keys and values of the wrong type yield ErrInvalidFilter.
func buildFetchQuery(table, columns, order string, specs map[string]filterSpec, filter types.Filter) (string, []any, error) {
	var (
		conditions []string
		args       []any
		limit      int
		offset     int
	)

	// Sorted keys give a stable statement text.
	for _, key := range slices.Sorted(maps.Keys(filter)) {
		value := filter[key]
		switch key {
		case "limit", "offset":
			n, ok := value.(int)
			if !ok || n < 0 {
				return "", nil, fmt.Errorf("%w: %s must be a non-negative int", types.ErrInvalidFilter, key)
			}
			if key == "limit" {
				limit = n
			} else {
				offset = n
			}
			continue
		}

		spec, ok := specs[key]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown key %q", types.ErrInvalidFilter, key)
		}
		switch spec.kind {
		case filterString:
			s, ok := value.(string)
			if !ok {
				return "", nil, fmt.Errorf("%w: %s must be a string", types.ErrInvalidFilter, key)
			}
			if strings.HasSuffix(key, "glyph") {
				s = types.NormalizeGlyph(s)
			}
			conditions = append(conditions, spec.cond)
			args = append(args, s)
		case filterInt:
			n, ok := value.(int)
			if !ok {
				return "", nil, fmt.Errorf("%w: %s must be an int", types.ErrInvalidFilter, key)
			}
			conditions = append(conditions, spec.cond)
			args = append(args, n)
		case filterBool:
			b, ok := value.(bool)
			if !ok {
				return "", nil, fmt.Errorf("%w: %s must be a bool", types.ErrInvalidFilter, key)
			}
			if b {
				conditions = append(conditions, spec.whenTrue)
			} else {
				conditions = append(conditions, spec.whenFalse)
			}
		}
	}

	query := "SELECT " + columns + " FROM " + table
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + order
	switch {
	case limit > 0:
		query += " LIMIT ?"
		args = append(args, limit)
	case offset > 0:
		// SQLite needs a LIMIT before OFFSET; -1 means no limit.
		query += " LIMIT -1"
	}
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}
	return query, args, nil
}
