package types

import "errors"

// Dictionary lifecycle errors.
var (
	ErrDictionaryDetached = errors.New("dictionary is detached")
	ErrAlreadyAttached    = errors.New("dictionary is already attached")
)

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter")
)

// ErrIntegrityViolation matches every IntegrityError.
var ErrIntegrityViolation = errors.New("integrity violation")
