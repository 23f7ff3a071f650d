// errors.go defines sentinel errors for validation failures.
//
// Use errors.Is() to check the category; detailed messages are added by
// wrapping these with fmt.Errorf in the validation functions.

package validate

import "errors"

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrPathTooLong   = errors.New("path too long")
	ErrInvalidID     = errors.New("invalid id")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrEmptyBatch    = errors.New("empty batch")
)
