package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ViolationCode is the closed set of integrity violations. The zero value is
// not a valid code.
type ViolationCode int

const (
	// RadicalUnknown: the radical link of a new character resolves to nothing.
	RadicalUnknown ViolationCode = iota + 1

	// RadicalNotRadical: the radical of a new character is itself derived.
	RadicalNotRadical

	// AlternativeUnknown: a referenced variant does not exist. Raised when a
	// new character names an unknown radical variant and when deleting an
	// unknown variant.
	AlternativeUnknown

	// CharacterExists: a character with the same key is already stored.
	CharacterExists

	// OriginalUnknown: the original of a new variant does not exist.
	OriginalUnknown

	// OriginalNotRadical: the original of a new variant is a derived character.
	OriginalNotRadical

	// AlternativeExists: a variant with the same key is already stored.
	AlternativeExists

	// CharacterUnknown: the character to delete is not stored.
	CharacterUnknown

	// IsRadicalForOthers: the character to delete is the radical of others.
	IsRadicalForOthers

	// HasAlternatives: the character to delete is the original of variants.
	HasAlternatives

	// IsAlternativeForCharacters: the variant to delete is used by characters.
	IsAlternativeForCharacters
)

var violationNames = map[ViolationCode]string{
	RadicalUnknown:             "RadicalUnknown",
	RadicalNotRadical:          "RadicalNotRadical",
	AlternativeUnknown:         "AlternativeUnknown",
	CharacterExists:            "CharacterExists",
	OriginalUnknown:            "OriginalUnknown",
	OriginalNotRadical:         "OriginalNotRadical",
	AlternativeExists:          "AlternativeExists",
	CharacterUnknown:           "CharacterUnknown",
	IsRadicalForOthers:         "IsRadicalForOthers",
	HasAlternatives:            "HasAlternatives",
	IsAlternativeForCharacters: "IsAlternativeForCharacters",
}

// AllViolationCodes lists every code in declaration order.
var AllViolationCodes = []ViolationCode{
	RadicalUnknown,
	RadicalNotRadical,
	AlternativeUnknown,
	CharacterExists,
	OriginalUnknown,
	OriginalNotRadical,
	AlternativeExists,
	CharacterUnknown,
	IsRadicalForOthers,
	HasAlternatives,
	IsAlternativeForCharacters,
}

// ParseViolationCode maps a code name such as "HasAlternatives" to its value.
func ParseViolationCode(s string) (ViolationCode, error) {
	for code, name := range violationNames {
		if name == s {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown violation code %q", ErrInvalidData, s)
}

// String returns the code name, or "ViolationCode(n)" for invalid values.
func (c ViolationCode) String() string {
	if name, ok := violationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ViolationCode(%d)", int(c))
}

// Valid reports whether c is one of the declared codes.
func (c ViolationCode) Valid() bool {
	_, ok := violationNames[c]
	return ok
}

// MarshalText encodes the code by name. Invalid codes are rejected so they
// never leak into a serialized report.
func (c ViolationCode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: cannot marshal %s", ErrInvalidData, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a code name.
func (c *ViolationCode) UnmarshalText(text []byte) error {
	parsed, err := ParseViolationCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON encodes the code as a JSON string.
func (c ViolationCode) MarshalJSON() ([]byte, error) {
	text, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON decodes a JSON string code name.
func (c *ViolationCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: violation code must be a string", ErrInvalidData)
	}
	return c.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (c ViolationCode) MarshalYAML() (any, error) {
	text, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ViolationCode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("%w: violation code must be a string", ErrInvalidData)
	}
	return c.UnmarshalText([]byte(s))
}
