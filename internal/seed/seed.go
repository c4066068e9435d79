// Package seed imports characters and variants from YAML documents.
//
// A document lists records in any order. Plan and Apply reorder them so
// that prerequisites come first: base characters, then variants, then
// derived characters. Every record still goes through the integrity
// checker; nothing is forced in.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/pmachovec/asciipinyin/internal/integrity"
	"github.com/pmachovec/asciipinyin/internal/memory"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

//go:embed sample.yaml
var sampleYAML []byte

// Document is the YAML seed format.
type Document struct {
	Characters []types.Character `yaml:"characters"`
	Variants   []types.Variant   `yaml:"variants"`
}

// Load decodes and validates a document. Unknown keys are rejected. Every
// invalid entry is reported, not just the first; the combined error
// matches types.ErrInvalidData.
func Load(r io.Reader) (Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("%w: decoding seed: %v", types.ErrInvalidData, err)
	}

	var errs error
	for i, c := range doc.Characters {
		normalized, err := types.NewCharacter(c)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("characters[%d]: %w", i, err))
			continue
		}
		doc.Characters[i] = normalized
	}
	for i, v := range doc.Variants {
		normalized, err := types.NewVariant(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("variants[%d]: %w", i, err))
			continue
		}
		doc.Variants[i] = normalized
	}
	if errs != nil {
		return Document{}, errs
	}
	return doc, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Load(f)
}

// Sample returns the embedded sample document.
func Sample() (Document, error) {
	return Load(bytes.NewReader(sampleYAML))
}

// Len returns the number of records in the document.
func (d Document) Len() int {
	return len(d.Characters) + len(d.Variants)
}

// Step is one create in a plan together with the report it produced.
type Step struct {
	Op     integrity.Operation   `json:"operation"`
	Record types.ConflictEntity  `json:"record"`
	Report types.IntegrityReport `json:"report"`
}

// Accepted reports whether the step passed the integrity check.
func (s Step) Accepted() bool {
	return s.Report.Empty()
}

// ordered returns the creates of doc in dependency order.
func ordered(doc Document) []Step {
	steps := make([]Step, 0, doc.Len())
	for _, c := range doc.Characters {
		if c.IsBase() {
			steps = append(steps, Step{Op: integrity.CreateCharacter, Record: types.CharacterConflict(c)})
		}
	}
	for _, v := range doc.Variants {
		steps = append(steps, Step{Op: integrity.CreateVariant, Record: types.VariantConflict(v)})
	}
	for _, c := range doc.Characters {
		if c.IsDerived() {
			steps = append(steps, Step{Op: integrity.CreateCharacter, Record: types.CharacterConflict(c)})
		}
	}
	return steps
}

// Plan dry-runs doc on top of base, which may be nil for an empty
// dictionary. base is copied and never modified. Each step carries its
// report; accepted steps are visible to the steps after them.
func Plan(doc Document, base types.Snapshot) []Step {
	var sim *memory.Snapshot
	if base == nil {
		sim = memory.New(nil, nil)
	} else {
		sim = memory.From(base)
	}

	steps := ordered(doc)
	for i, s := range steps {
		switch s.Op {
		case integrity.CreateCharacter:
			c := *s.Record.Character
			steps[i].Report = integrity.CheckCreateCharacter(c, sim)
			if steps[i].Accepted() {
				sim.AddCharacter(c)
			}
		case integrity.CreateVariant:
			v := *s.Record.Variant
			steps[i].Report = integrity.CheckCreateVariant(v, sim)
			if steps[i].Accepted() {
				sim.AddVariant(v)
			}
		}
	}
	return steps
}

// Summary is the outcome of Apply.
type Summary struct {
	Created  int    `json:"created"`
	Rejected []Step `json:"rejected"`
}

// Apply creates the records of doc through dict in dependency order. A
// rejected record does not stop the import; its step is listed in the
// summary. A storage error stops the import and is returned together with
// the summary so far.
func Apply(ctx context.Context, dict types.Dictionary, doc Document) (Summary, error) {
	var summary Summary

	chars, err := dict.Characters()
	if err != nil {
		return summary, err
	}
	variants, err := dict.Variants()
	if err != nil {
		return summary, err
	}

	for _, s := range ordered(doc) {
		var report types.IntegrityReport
		switch s.Op {
		case integrity.CreateCharacter:
			report, err = chars.Create(ctx, *s.Record.Character)
		case integrity.CreateVariant:
			report, err = variants.Create(ctx, *s.Record.Variant)
		}
		if err != nil {
			return summary, fmt.Errorf("seeding %s: %w", s.Record, err)
		}
		if !report.Empty() {
			s.Report = report
			summary.Rejected = append(summary.Rejected, s)
			continue
		}
		summary.Created++
	}
	return summary, nil
}
