package validate

import "fmt"

// Batch checks the number of rows submitted for ingestion. A limit of 0
// disables the upper bound.
func Batch(n, limit int) error {
	if n == 0 {
		return ErrEmptyBatch
	}
	if limit > 0 && n > limit {
		return fmt.Errorf("%w: %d rows exceeds limit of %d", ErrBatchTooLarge, n, limit)
	}
	return nil
}
