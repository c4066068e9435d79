package types

import (
	"encoding/json"
	"fmt"
)

// EntityKind tags the two record kinds of the dictionary.
type EntityKind string

const (
	KindCharacter EntityKind = "character"
	KindVariant   EntityKind = "variant"
)

// Valid reports whether k is one of the known kinds.
func (k EntityKind) Valid() bool {
	return k == KindCharacter || k == KindVariant
}

// Entity is implemented by Character and Variant only.
type Entity interface {
	Kind() EntityKind
	String() string
	entity()
}

// ConflictEntity is an existing record that blocks a mutation. Exactly one of
// Character and Variant is set, as indicated by Kind.
type ConflictEntity struct {
	Kind      EntityKind
	Character *Character
	Variant   *Variant
}

// CharacterConflict wraps a character as a conflict.
func CharacterConflict(c Character) ConflictEntity {
	return ConflictEntity{Kind: KindCharacter, Character: &c}
}

// VariantConflict wraps a variant as a conflict.
func VariantConflict(v Variant) ConflictEntity {
	return ConflictEntity{Kind: KindVariant, Variant: &v}
}

// Entity returns the wrapped record, or nil for a zero ConflictEntity.
func (c ConflictEntity) Entity() Entity {
	switch {
	case c.Kind == KindCharacter && c.Character != nil:
		return *c.Character
	case c.Kind == KindVariant && c.Variant != nil:
		return *c.Variant
	}
	return nil
}

// String returns "kind key", e.g. "character 零/ling/2".
func (c ConflictEntity) String() string {
	e := c.Entity()
	if e == nil {
		return string(c.Kind)
	}
	return string(c.Kind) + " " + e.String()
}

type conflictJSON struct {
	Kind   EntityKind      `json:"entity_kind"`
	Entity json.RawMessage `json:"entity"`
}

// MarshalJSON encodes the conflict as {"entity_kind": ..., "entity": {...}}.
func (c ConflictEntity) MarshalJSON() ([]byte, error) {
	e := c.Entity()
	if e == nil {
		return nil, fmt.Errorf("%w: conflict entity of kind %q has no record", ErrInvalidData, c.Kind)
	}
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conflictJSON{Kind: c.Kind, Entity: body})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (c *ConflictEntity) UnmarshalJSON(data []byte) error {
	var raw conflictJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case KindCharacter:
		var ch Character
		if err := json.Unmarshal(raw.Entity, &ch); err != nil {
			return err
		}
		*c = CharacterConflict(ch)
	case KindVariant:
		var v Variant
		if err := json.Unmarshal(raw.Entity, &v); err != nil {
			return err
		}
		*c = VariantConflict(v)
	default:
		return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidData, raw.Kind)
	}
	return nil
}
