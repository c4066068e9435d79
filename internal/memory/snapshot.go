// Package memory provides a map-backed types.Snapshot. It serves dry runs
// and seed planning, where mutations are simulated without touching storage.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// Snapshot holds characters and variants keyed by their composite keys.
// It is safe for concurrent use; reads never observe a half-applied Add.
type Snapshot struct {
	mu         sync.RWMutex
	characters map[types.CharacterKey]types.Character
	variants   map[types.VariantKey]types.Variant
}

// New returns a snapshot holding copies of the given records. Later
// duplicates replace earlier ones.
func New(characters []types.Character, variants []types.Variant) *Snapshot {
	s := &Snapshot{
		characters: make(map[types.CharacterKey]types.Character, len(characters)),
		variants:   make(map[types.VariantKey]types.Variant, len(variants)),
	}
	for _, c := range characters {
		s.characters[c.Key()] = c
	}
	for _, v := range variants {
		s.variants[v.Key()] = v
	}
	return s
}

// From copies every record visible through snap.
func From(snap types.Snapshot) *Snapshot {
	return New(snap.AllCharacters(), snap.AllVariants())
}

// Clone returns an independent copy of s.
func (s *Snapshot) Clone() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{
		characters: maps.Clone(s.characters),
		variants:   maps.Clone(s.variants),
	}
}

// AddCharacter stores c, replacing any record with the same key. It does
// not run integrity checks.
func (s *Snapshot) AddCharacter(c types.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[c.Key()] = c
}

// AddVariant stores v, replacing any record with the same key.
func (s *Snapshot) AddVariant(v types.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants[v.Key()] = v
}

// RemoveCharacter deletes the character with key and reports whether it
// was present.
func (s *Snapshot) RemoveCharacter(key types.CharacterKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.characters[key]
	delete(s.characters, key)
	return ok
}

// RemoveVariant deletes the variant with key and reports whether it was
// present.
func (s *Snapshot) RemoveVariant(key types.VariantKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.variants[key]
	delete(s.variants, key)
	return ok
}

// Len returns the number of characters and variants.
func (s *Snapshot) Len() (characters, variants int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.characters), len(s.variants)
}

func (s *Snapshot) FindCharacter(key types.CharacterKey) (types.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.characters[key]
	return c, ok
}

func (s *Snapshot) FindVariant(key types.VariantKey) (types.Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variants[key]
	return v, ok
}

func (s *Snapshot) ContainsCharacter(c types.Character) bool {
	_, ok := s.FindCharacter(c.Key())
	return ok
}

func (s *Snapshot) ContainsVariant(v types.Variant) bool {
	_, ok := s.FindVariant(v.Key())
	return ok
}

// AllCharacters returns the characters ordered by key.
func (s *Snapshot) AllCharacters() []types.Character {
	s.mu.RLock()
	out := slices.Collect(maps.Values(s.characters))
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b types.Character) int { return a.Key().Compare(b.Key()) })
	return out
}

// AllVariants returns the variants ordered by key.
func (s *Snapshot) AllVariants() []types.Variant {
	s.mu.RLock()
	out := slices.Collect(maps.Values(s.variants))
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b types.Variant) int { return a.Key().Compare(b.Key()) })
	return out
}

var _ types.Snapshot = (*Snapshot)(nil)
