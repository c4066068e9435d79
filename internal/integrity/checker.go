package integrity

import (
	"errors"
	"fmt"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// Contract errors returned by Check. They signal caller bugs, never
// integrity violations.
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrKindMismatch     = errors.New("candidate kind does not match operation")
	ErrNilCandidate     = errors.New("candidate is nil")
	ErrNilSnapshot      = errors.New("snapshot is nil")
)

// Check runs the rule group for op against snap. An empty report permits
// the mutation.
//
// Create candidates must pass their entity's Validate; delete candidates
// only need valid key fields, since the stored record is looked up through
// the snapshot. A validation failure is returned as the error, wrapped
// around the *types.ValidationError.
func Check(op Operation, candidate types.Entity, snap types.Snapshot) (types.IntegrityReport, error) {
	if candidate == nil {
		return nil, ErrNilCandidate
	}
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	switch op {
	case CreateCharacter, DeleteCharacter:
		c, ok := candidate.(types.Character)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %s", ErrKindMismatch, op, candidate.Kind())
		}
		if op == CreateCharacter {
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("check %s: %w", op, err)
			}
			return CheckCreateCharacter(c, snap), nil
		}
		if err := c.Key().Validate(); err != nil {
			return nil, fmt.Errorf("check %s: %w", op, err)
		}
		return CheckDeleteCharacter(c, snap), nil

	case CreateVariant, DeleteVariant:
		v, ok := candidate.(types.Variant)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %s", ErrKindMismatch, op, candidate.Kind())
		}
		if op == CreateVariant {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("check %s: %w", op, err)
			}
			return CheckCreateVariant(v, snap), nil
		}
		if err := v.Key().Validate(); err != nil {
			return nil, fmt.Errorf("check %s: %w", op, err)
		}
		return CheckDeleteVariant(v, snap), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
}

// CheckCreateCharacter reports why c cannot be added to snap.
func CheckCreateCharacter(c types.Character, snap types.Snapshot) types.IntegrityReport {
	return createCharacterRules(c, snap)
}

// CheckCreateVariant reports why v cannot be added to snap.
func CheckCreateVariant(v types.Variant, snap types.Snapshot) types.IntegrityReport {
	return createVariantRules(v, snap)
}

// CheckDeleteCharacter reports which records still depend on c. Only the
// key of c is used.
func CheckDeleteCharacter(c types.Character, snap types.Snapshot) types.IntegrityReport {
	return deleteCharacterRules(c, snap)
}

// CheckDeleteVariant reports which characters are still written with v.
func CheckDeleteVariant(v types.Variant, snap types.Snapshot) types.IntegrityReport {
	return deleteVariantRules(v, snap)
}
