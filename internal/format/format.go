// Package format renders catalog data for the terminal. Commands hand it
// records and it takes care of column alignment and placeholders.
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/path"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
)

// Empty is printed for NULL cells.
const Empty = "-"

// HumanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func HumanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// Table writes rows under upper-cased headers, padding every column but
// the last to its widest cell.
func Table(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, c := range cells {
			if i == len(cells)-1 {
				b.WriteString(c)
				break
			}
			fmt.Fprintf(&b, "%-*s  ", widths[i], c)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}
	line(upper)
	for _, r := range rows {
		line(r)
	}
}

// Cell renders a record value.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return Empty
	case string:
		if x == "" {
			return Empty
		}
		return x
	case time.Time:
		return store.FormatTime(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Records prints records of a kind with one column per table column.
func Records(w io.Writer, kind store.Kind, rows []store.Record) error {
	cols, err := store.Columns(kind)
	if err != nil {
		return err
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = Cell(r[c])
		}
		out[i] = cells
	}
	Table(w, cols, out)
	return nil
}

var experimentHeaders = []string{"id", "title", "proposal", "status", "user folder"}

func experimentRows(exps []service.Experiment) [][]string {
	rows := make([][]string, len(exps))
	for i, e := range exps {
		rows[i] = []string{strconv.FormatInt(e.ID, 10), e.Title, e.Proposal, e.ProcessStatus, e.UserFolder}
	}
	return rows
}

// Experiments prints experiments as an aligned table.
func Experiments(w io.Writer, exps []service.Experiment) {
	Table(w, experimentHeaders, experimentRows(exps))
}

// ExperimentsMarkdown returns experiments as a markdown table for
// terminal rendering.
func ExperimentsMarkdown(exps []service.Experiment) string {
	var b strings.Builder
	b.WriteString("| ID | Title | Proposal | Status | User folder |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range experimentRows(exps) {
		for i := range r {
			r[i] = strings.ReplaceAll(r[i], "|", `\|`)
		}
		b.WriteString("| " + strings.Join(r, " | ") + " |\n")
	}
	return b.String()
}

// Queue prints queued rows.
func Queue(w io.Writer, rows []store.Queue) {
	out := make([][]string, len(rows))
	for i, q := range rows {
		out[i] = []string{
			strconv.FormatInt(q.ID, 10),
			ptr(q.ExperimentNumber),
			ptr(q.Title),
			ptr(q.DataPath),
			ptr(q.PVLogPath),
			ptr(q.DOI),
			ptr(q.ProposalNumber),
			ptr(q.Acknowledgments),
		}
	}
	Table(w, []string{"id", "experiment", "title", "data path", "pvlog path", "doi", "proposal", "acknowledgments"}, out)
}

// PathResult prints a path check.
func PathResult(w io.Writer, input string, r path.Result) {
	fmt.Fprintf(w, "path:       %s\n", input)
	fmt.Fprintf(w, "valid:      %t\n", r.Valid)
	fmt.Fprintf(w, "exists:     %t\n", r.Exists)
	fmt.Fprintf(w, "normalized: %s\n", Cell(r.Normalized))
	fmt.Fprintf(w, "message:    %s\n", r.Message)
}

// DBs prints the databases of a project.
func DBs(w io.Writer, dbs []repo.DBInfo) {
	rows := make([][]string, len(dbs))
	for i, d := range dbs {
		name := d.Name
		if name == "" {
			name = "(default)"
		}
		rows[i] = []string{name, d.File, HumanSize(d.Size)}
	}
	Table(w, []string{"name", "file", "size"}, rows)
}

// LogEntries prints audit log entries, newest first as given.
func LogEntries(w io.Writer, entries []log.Entry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		status := "ok"
		if !e.Success {
			status = "error: " + e.Error
		}
		subject := e.Path
		if subject == "" && e.Count > 0 {
			subject = strconv.Itoa(e.Count) + " rows"
		}
		rows[i] = []string{
			time.Unix(e.Start, 0).Format("2006-01-02 15:04:05"),
			e.Source,
			Cell(e.Author),
			Cell(subject),
			status,
		}
	}
	Table(w, []string{"time", "source", "author", "subject", "status"}, rows)
}

func ptr[T any](p *T) string {
	if p == nil {
		return Empty
	}
	return Cell(any(*p))
}
