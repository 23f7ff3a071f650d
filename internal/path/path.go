// Package path validates and normalises experiment data paths.
//
// Data paths are entered by facility staff and end up on disk (or on a
// remote share), so they pass through here before being queued or shown
// back to the user.
//
// Validation rules:
//   - Empty paths are rejected
//   - The characters < > " | ? * are rejected anywhere
//   - A colon is only allowed as a drive letter separator ("C:") or as the
//     end of a remote scheme ("https://")
//
// Normalisation rules:
//   - Surrounding whitespace is trimmed
//   - Backslashes become forward slashes
//   - Runs of slashes collapse to one (the "//" of a scheme is kept)
package path

import (
	"os"
	"strings"
)

// Messages reported in a Result.
const (
	MsgEmpty        = "Invalid or empty path"
	MsgInvalidChars = "Path contains invalid characters"
	MsgExists       = "Path exists"
	MsgValid        = "Path is valid"
)

// prohibited lists characters that are never valid in a data path.
const prohibited = `<>"|?*`

// Schemes are the remote prefixes for which no local existence check is made.
var Schemes = []string{"http://", "https://", "ftp://", "sftp://"}

// Result is the outcome of Check. It is returned to HTTP and MCP callers
// as-is, so the JSON names are part of the API.
type Result struct {
	Valid      bool   `json:"valid"`
	Exists     bool   `json:"exists"`
	Normalized string `json:"normalized"`
	Message    string `json:"message"`
}

// Scheme returns the remote scheme prefix of p, or "" if p is local.
func Scheme(p string) string {
	for _, s := range Schemes {
		if strings.HasPrefix(p, s) {
			return s
		}
	}
	return ""
}

// Remote reports whether p starts with a recognised remote scheme.
func Remote(p string) bool {
	return Scheme(p) != ""
}

// Validate reports whether p is free of prohibited characters.
//
// For local paths a single colon directly after a leading ASCII letter is
// accepted as a drive letter. Any other colon, including a second colon
// after a drive letter, makes the path invalid.
func Validate(p string) bool {
	if p == "" {
		return false
	}

	scheme := Scheme(p)
	rest := p[len(scheme):]
	if strings.ContainsAny(rest, prohibited) {
		return false
	}

	i := strings.IndexByte(rest, ':')
	if i < 0 {
		return true
	}
	if scheme != "" {
		return false
	}
	return i == 1 && isLetter(rest[0]) && strings.Count(rest, ":") == 1
}

// Normalise trims p, converts backslashes to forward slashes and collapses
// repeated slashes. It never touches the filesystem and is idempotent.
func Normalise(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")

	scheme := Scheme(p)
	rest := p[len(scheme):]

	var b strings.Builder
	b.Grow(len(p))
	b.WriteString(scheme)
	prev := byte(0)
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == '/' && prev == '/' {
			continue
		}
		b.WriteByte(c)
		prev = c
	}
	return b.String()
}

// Exists reports whether a normalised local path exists. Any error from
// the filesystem (permission denied, malformed name) reads as false.
func Exists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(localPath(p))
	return err == nil
}

// Check validates p, normalises it, and probes the local filesystem when p
// is not remote. It never returns an error: every failure is expressed in
// the Result.
func Check(p string) Result {
	if p == "" {
		return Result{Message: MsgEmpty}
	}
	if !Validate(p) {
		return Result{Message: MsgInvalidChars}
	}

	norm := Normalise(p)
	exists := false
	if !Remote(norm) {
		exists = Exists(norm)
	}

	msg := MsgValid
	if exists {
		msg = MsgExists
	}
	return Result{Valid: true, Exists: exists, Normalized: norm, Message: msg}
}

// CheckValue is Check for decoded JSON input. Anything other than a string
// (including nil) is treated as an empty path.
func CheckValue(v any) Result {
	s, ok := v.(string)
	if !ok {
		return Result{Message: MsgEmpty}
	}
	return Check(s)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
