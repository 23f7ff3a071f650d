package validate

import (
	"fmt"
	"strings"
)

// Path checks a raw data path before it is handed to path.Check.
//
// Validation rules:
//   - Blank paths rejected (the HTTP boundary answers 400 for these)
//   - Null bytes rejected
//   - Max length enforced if maxLen > 0
func Path(p string, maxLen int) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("%w: null byte in path", ErrInvalidPath)
	}
	if maxLen > 0 && len(p) > maxLen {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPathTooLong, len(p), maxLen)
	}
	return nil
}
