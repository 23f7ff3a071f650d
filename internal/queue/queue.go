// Package queue turns client-submitted metadata rows into queue table
// records.
//
// A batch passes through three steps: rows without meaningful data are
// dropped and the rest projected onto the queue columns, placeholder
// values are cleared and acknowledgment lists flattened, then the whole
// batch is written in one atomic insert. The outcome is reported as counts;
// storage errors are logged, never returned.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/store"
)

// Queue columns a row is projected onto.
const (
	FieldExperimentNumber = "experiment_number"
	FieldTitle            = "title"
	FieldDataPath         = "data_path"
	FieldPVLogPath        = "pvlog_path"
	FieldDOI              = "doi"
	FieldProposalNumber   = "proposal_number"
	FieldAcknowledgments  = "acknowledgments"
)

// Fields lists the queue columns in display order.
var Fields = []string{
	FieldExperimentNumber,
	FieldTitle,
	FieldDataPath,
	FieldPVLogPath,
	FieldDOI,
	FieldProposalNumber,
	FieldAcknowledgments,
}

// NotAvailable is the placeholder clients send for an empty cell.
const NotAvailable = "N/A"

// Row is one submitted row, keyed by field name. Values are whatever the
// JSON or YAML decoder produced.
type Row map[string]any

// Result reports how many rows of a batch were stored.
type Result struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Ingestor writes batches of rows to the queue table.
type Ingestor struct {
	w      store.Writer
	logger *slog.Logger
	source string
	author string
}

// New returns an Ingestor writing through w. A nil logger uses
// slog.Default().
func New(w store.Writer, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{w: w, logger: logger, source: "queue:ingest"}
}

// As returns a copy that records audit entries with the given source and
// author, e.g. As("web:create_update_queue", remoteAddr).
func (in *Ingestor) As(source, author string) *Ingestor {
	c := *in
	c.source = source
	c.author = author
	return &c
}

// Ingest filters, sanitizes and stores rows as one batch. It never
// returns an error: a failed insert counts every row as failed.
func (in *Ingestor) Ingest(ctx context.Context, rows []Row) Result {
	kept := Sanitize(Filter(rows))
	if len(kept) == 0 {
		return Result{}
	}

	batch := uuid.NewString()
	records := make([]store.Record, len(kept))
	for i, r := range kept {
		records[i] = store.Record(r)
	}

	err := in.w.InsertMany(ctx, store.KindQueue, records)
	res := Result{Success: len(kept)}
	if err != nil {
		res = Result{Failure: len(kept)}
		in.logger.Error("queue insert failed",
			"batch", batch, "rows", len(kept), "error", err)
	} else {
		in.logger.Info("queue insert", "batch", batch, "rows", len(kept))
	}

	log.Event(in.source, "ingest").
		Author(in.author).
		Batch(batch).
		Count(res.Success).
		Detail("submitted", len(rows)).
		Detail("failure", res.Failure).
		Write(err)
	return res
}

// Filter keeps rows where some field other than doi carries a value and
// projects each onto Fields. Empty values become nil, except
// acknowledgments which becomes an empty list.
func Filter(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if !meaningful(r) {
			continue
		}
		p := make(Row, len(Fields))
		for _, f := range Fields {
			v := r[f]
			switch {
			case f == FieldAcknowledgments && empty(v):
				p[f] = []any{}
			case empty(v):
				p[f] = nil
			default:
				p[f] = v
			}
		}
		out = append(out, p)
	}
	return out
}

// Sanitize replaces "N/A" with nil and joins acknowledgment lists with
// commas. Rows are modified in place and returned.
func Sanitize(rows []Row) []Row {
	for _, r := range rows {
		for k, v := range r {
			if s, ok := v.(string); ok && s == NotAvailable {
				r[k] = nil
				continue
			}
			if k == FieldAcknowledgments {
				if list, ok := asList(v); ok {
					r[k] = join(list)
				}
			}
		}
	}
	return rows
}

// meaningful reports whether any key other than doi holds a
// non-placeholder value. Keys outside Fields count too.
func meaningful(r Row) bool {
	for k, v := range r {
		if k == FieldDOI {
			continue
		}
		if !placeholder(v) {
			return true
		}
	}
	return false
}

// placeholder reports whether v means "no value": nil, "N/A", false, "",
// numeric zero or an empty list.
func placeholder(v any) bool {
	if s, ok := v.(string); ok && s == NotAvailable {
		return true
	}
	return empty(v)
}

// empty reports whether v is a zero-like value. "N/A" is not empty; it is
// cleared later by Sanitize.
func empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case map[string]any:
		return len(x) == 0
	}
	if list, ok := asList(v); ok {
		return len(list) == 0
	}
	return false
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func join(list []any) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
