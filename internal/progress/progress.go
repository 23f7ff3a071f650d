// Package progress reports progress of multi-file operations such as
// queue import. Output goes to stderr to keep stdout clean for piping;
// on a terminal the line is redrawn in place, otherwise one line is
// printed per step.
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
const minItems = 2

// Progress tracks and displays operation progress.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
}

// New creates a progress reporter that writes to stderr.
func New(label string, total int) *Progress {
	return &Progress{
		w:     os.Stderr,
		label: label,
		total: total,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// NewWriter creates a reporter writing to w without terminal redraws.
func NewWriter(w io.Writer, label string, total int) *Progress {
	return &Progress{w: w, label: label, total: total}
}

// Step advances the counter and reports what was just done.
func (p *Progress) Step(item string) {
	p.current++
	if p.total < minItems {
		return
	}
	if p.isTTY {
		fmt.Fprintf(p.w, "\r\033[K%s %d/%d %s", p.label, p.current, p.total, item)
		return
	}
	fmt.Fprintf(p.w, "%s %d/%d %s\n", p.label, p.current, p.total, item)
}

// Done clears the progress line on a terminal.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprint(p.w, "\r\033[K")
}
