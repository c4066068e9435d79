package types

import (
	"strings"

	"go.uber.org/multierr"
)

// IntegrityError is one violated rule and the existing records that caused
// it. Conflicts is empty for violations about a missing record.
type IntegrityError struct {
	Code      ViolationCode    `json:"code" yaml:"code"`
	Conflicts []ConflictEntity `json:"conflicts" yaml:"-"`
}

// NewIntegrityError builds an IntegrityError with a non-nil conflict list.
func NewIntegrityError(code ViolationCode, conflicts ...ConflictEntity) IntegrityError {
	if conflicts == nil {
		conflicts = []ConflictEntity{}
	}
	return IntegrityError{Code: code, Conflicts: conflicts}
}

func (e IntegrityError) Error() string {
	if len(e.Conflicts) == 0 {
		return e.Code.String()
	}
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return e.Code.String() + ": " + strings.Join(parts, ", ")
}

// Unwrap lets callers match any integrity error with ErrIntegrityViolation.
func (e IntegrityError) Unwrap() error {
	return ErrIntegrityViolation
}

// IntegrityReport is the ordered outcome of an integrity check. An empty
// report means the mutation is permitted.
type IntegrityReport []IntegrityError

// Empty reports whether the mutation is permitted.
func (r IntegrityReport) Empty() bool {
	return len(r) == 0
}

// Codes returns the violation codes in report order.
func (r IntegrityReport) Codes() []ViolationCode {
	codes := make([]ViolationCode, len(r))
	for i, e := range r {
		codes[i] = e.Code
	}
	return codes
}

// Has reports whether the report contains the given code.
func (r IntegrityReport) Has(code ViolationCode) bool {
	for _, e := range r {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err folds the report into a single error, nil when the report is empty.
// The individual IntegrityError values are recoverable with
// multierr.Errors.
func (r IntegrityReport) Err() error {
	var err error
	for _, e := range r {
		err = multierr.Append(err, e)
	}
	return err
}
