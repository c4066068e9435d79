package types

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/multierr"
	"golang.org/x/text/unicode/norm"
)

// Field ranges shared by characters and variants.
const (
	MinTone    = 0
	MaxTone    = 4
	MinStrokes = 1
	MaxStrokes = 99
)

var pinyinPattern = regexp.MustCompile(`^[a-z]{1,6}$`)

// FieldError describes one entity field that failed validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationError is returned by Character.Validate and Variant.Validate.
// It lists every offending field, not just the first, and matches
// ErrInvalidData with errors.Is.
type ValidationError struct {
	Kind EntityKind
	Err  error // FieldError values combined with multierr
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Kind, e.Err)
}

// Unwrap exposes both ErrInvalidData and the individual field errors.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidData, e.Err}
}

// Fields returns the field errors in the order they were found.
func (e *ValidationError) Fields() []FieldError {
	var out []FieldError
	for _, err := range multierr.Errors(e.Err) {
		if fe, ok := err.(FieldError); ok {
			out = append(out, fe)
		}
	}
	return out
}

// validator accumulates field errors for one entity.
type validator struct {
	kind EntityKind
	err  error
}

func (v *validator) fail(field, reason string) {
	v.err = multierr.Append(v.err, FieldError{Field: field, Reason: reason})
}

func (v *validator) result() error {
	if v.err == nil {
		return nil
	}
	return &ValidationError{Kind: v.kind, Err: v.err}
}

func (v *validator) glyph(field, glyph string) {
	if glyph == "" {
		v.fail(field, "must not be empty")
		return
	}
	if utf8.RuneCountInString(glyph) != 1 {
		v.fail(field, "must be a single character")
		return
	}
	r, _ := utf8.DecodeRuneInString(glyph)
	if r == utf8.RuneError || !unicode.Is(unicode.Han, r) {
		v.fail(field, "must be a Chinese character")
	}
}

func (v *validator) pinyin(field, pinyin string) {
	if !pinyinPattern.MatchString(pinyin) {
		v.fail(field, "must be 1 to 6 lowercase ASCII letters")
	}
}

func (v *validator) tone(field string, tone int) {
	if tone < MinTone || tone > MaxTone {
		v.fail(field, fmt.Sprintf("must be between %d and %d", MinTone, MaxTone))
	}
}

func (v *validator) strokes(field string, strokes int) {
	if strokes < MinStrokes || strokes > MaxStrokes {
		v.fail(field, fmt.Sprintf("must be between %d and %d", MinStrokes, MaxStrokes))
	}
}

func (v *validator) key(prefix string, k CharacterKey) {
	v.glyph(prefix+"glyph", k.Glyph)
	v.pinyin(prefix+"pinyin", k.Pinyin)
	v.tone(prefix+"tone", k.Tone)
}

// NormalizeGlyph trims surrounding whitespace and applies Unicode NFC so
// that equal glyphs compare equal byte for byte.
func NormalizeGlyph(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
