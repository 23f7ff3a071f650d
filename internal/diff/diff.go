// Package diff renders the changes beamtime makes to user input: the
// normalisation of a data path (check-path --diff) and the sanitisation
// of queue rows (queue add --dry-run --diff).
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown around a change.
// Longer equal runs are collapsed to "...".
const contextLines = 3

const (
	red   = "\033[31m"
	green = "\033[32m"
	reset = "\033[0m"
)

// Result holds a line diff.
type Result struct {
	Old  string // old label
	New  string // new label
	Diff string // plain diff text
}

// Compute returns a line diff between old and new content.
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	d := dmp.DiffMain(a, b, false)
	d = dmp.DiffCharsToLines(d, lines)

	return Result{Old: oldLabel, New: newLabel, Diff: format(d)}
}

// Empty reports whether old and new were identical.
func (r Result) Empty() bool {
	for _, l := range strings.Split(r.Diff, "\n") {
		if strings.HasPrefix(l, "- ") || strings.HasPrefix(l, "+ ") {
			return false
		}
	}
	return true
}

func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to line diff output.
func Colourise(d string) string {
	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the diff with a header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}

// Inline returns a character diff of a single-line value in word-diff
// style: removed text as [-x-], added text as {+y+}. With colour the
// markers are replaced by red and green text.
func Inline(oldValue, newValue string, colour bool) string {
	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(oldValue, newValue, false)
	d = dmp.DiffCleanupSemantic(d)

	var b strings.Builder
	for _, x := range d {
		switch x.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(x.Text)
		case diffmatchpatch.DiffDelete:
			if colour {
				b.WriteString(red + x.Text + reset)
			} else {
				b.WriteString("[-" + x.Text + "-]")
			}
		case diffmatchpatch.DiffInsert:
			if colour {
				b.WriteString(green + x.Text + reset)
			} else {
				b.WriteString("{+" + x.Text + "+}")
			}
		}
	}
	return b.String()
}
