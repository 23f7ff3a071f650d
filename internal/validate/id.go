package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// ID parses a positive integer identifier such as a run, beamline,
// station or technique id.
func ID(name, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidID, name)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidID, name, s)
	}
	return n, nil
}

// OptionalID is ID for filters that may be omitted. An empty string
// yields (0, nil).
func OptionalID(name, s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return ID(name, s)
}
