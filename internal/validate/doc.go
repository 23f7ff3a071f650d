// Package validate provides input validation at the boundary between user
// input (CLI flags, HTTP query strings, MCP arguments) and the store.
//
// Each function returns nil on success or an error wrapping one of the
// sentinels in errors.go:
//
//	if errors.Is(err, validate.ErrInvalidID) {
//	    // respond 400
//	}
//
// Data path content rules (prohibited characters, drive letters) live in
// internal/path; this package only enforces size limits around them.
package validate
