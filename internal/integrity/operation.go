package integrity

import (
	"encoding/json"
	"fmt"
)

// Operation names the mutation being checked.
type Operation int

const (
	CreateCharacter Operation = iota + 1
	CreateVariant
	DeleteCharacter
	DeleteVariant
)

var operationNames = map[Operation]string{
	CreateCharacter: "create-character",
	CreateVariant:   "create-variant",
	DeleteCharacter: "delete-character",
	DeleteVariant:   "delete-variant",
}

// Operations lists every operation in declaration order.
var Operations = []Operation{CreateCharacter, CreateVariant, DeleteCharacter, DeleteVariant}

// ParseOperation maps a name such as "delete-variant" to its Operation.
func ParseOperation(s string) (Operation, error) {
	for op, name := range operationNames {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Valid reports whether o is a declared operation.
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

// IsCreate reports whether o adds a record.
func (o Operation) IsCreate() bool {
	return o == CreateCharacter || o == CreateVariant
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, o)
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(text []byte) error {
	parsed, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalJSON encodes the operation as its name.
func (o Operation) MarshalJSON() ([]byte, error) {
	text, err := o.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON decodes an operation name.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: operation must be a string", ErrUnknownOperation)
	}
	return o.UnmarshalText([]byte(s))
}
