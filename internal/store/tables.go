// tables.go describes the column layout of every kind and converts values
// between Go and the database.
//
// Separated so the generic read and write paths (SelectAll, InsertMany)
// stay free of per-table knowledge. Adding a table means adding a schema
// file and an entry here.

package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type colType int

const (
	colInt colType = iota
	colText
	colBool
	colTime
)

type column struct {
	name string
	typ  colType
	auto bool // assigned by the database, skipped on insert when absent
}

type table struct {
	kind    Kind
	columns []column
	order   string
}

var tables = map[Kind]table{
	KindInfo: {KindInfo, []column{
		{name: "key", typ: colText},
		{name: "value", typ: colText},
		{name: "notes", typ: colText},
		{name: "modify_time", typ: colTime},
		{name: "create_time", typ: colTime},
		{name: "display_order", typ: colInt},
	}, "display_order"},
	KindRun:            namedTable(KindRun),
	KindBeamline:       namedTable(KindBeamline),
	KindTechnique:      namedTable(KindTechnique),
	KindStation:        namedTable(KindStation),
	KindProcessStatus:  namedTable(KindProcessStatus),
	KindAcknowledgment: {KindAcknowledgment, []column{
		{name: "id", typ: colInt},
		{name: "title", typ: colText},
		{name: "text", typ: colText},
	}, "id"},
	KindPerson: {KindPerson, []column{
		{name: "id", typ: colInt},
		{name: "badge", typ: colInt},
		{name: "first_name", typ: colText},
		{name: "last_name", typ: colText},
		{name: "email", typ: colText},
		{name: "orcid", typ: colText},
		{name: "affiliation_id", typ: colInt},
		{name: "user_level_id", typ: colInt},
	}, "id"},
	KindExperiment: {KindExperiment, []column{
		{name: "id", typ: colInt},
		{name: "time_request", typ: colInt},
		{name: "run_id", typ: colInt},
		{name: "esaf_type_id", typ: colInt},
		{name: "esaf_status_id", typ: colInt},
		{name: "beamline_id", typ: colInt},
		{name: "proposal_id", typ: colInt},
		{name: "spokesperson_id", typ: colInt},
		{name: "beamline_contact_id", typ: colInt},
		{name: "title", typ: colText},
		{name: "description", typ: colText},
		{name: "start_date", typ: colTime},
		{name: "end_date", typ: colTime},
		{name: "user_folder", typ: colText},
		{name: "data_doi", typ: colText},
		{name: "esaf_pdf_file", typ: colText},
		{name: "proposal_pdf_file", typ: colText},
		{name: "folder_status_id", typ: colInt},
		{name: "process_status_id", typ: colInt},
	}, "id"},
	KindQueue: {KindQueue, []column{
		{name: "id", typ: colInt, auto: true},
		{name: "experiment_number", typ: colInt},
		{name: "title", typ: colText},
		{name: "data_path", typ: colText},
		{name: "pvlog_path", typ: colText},
		{name: "doi", typ: colBool},
		{name: "proposal_number", typ: colInt},
		{name: "acknowledgments", typ: colText},
	}, "id"},
	KindDataPath: {KindDataPath, []column{
		{name: "id", typ: colInt},
		{name: "path_template", typ: colText},
		{name: "station_id", typ: colInt},
		{name: "technique_id", typ: colInt},
	}, "id"},
}

func namedTable(k Kind) table {
	return table{k, []column{
		{name: "id", typ: colInt},
		{name: "name", typ: colText},
	}, "id"}
}

func lookup(k Kind) (table, error) {
	t, ok := tables[k]
	if !ok {
		return table{}, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return t, nil
}

// ParseKind resolves a user-supplied kind name. Hyphens are accepted in
// place of underscores ("data-path").
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, err := lookup(k); err != nil {
		return "", err
	}
	return k, nil
}

// Columns returns the column names of a kind in table order.
func Columns(k Kind) ([]string, error) {
	t, err := lookup(k)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names, nil
}

func (t table) column(name string) (column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

func (t table) selectList() string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = quote(c.name)
	}
	return strings.Join(names, ", ")
}

func quote(ident string) string {
	return `"` + ident + `"`
}

// coerce converts a value decoded from JSON or YAML into the Go type the
// driver expects for the column.
func (c column) coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.typ {
	case colInt:
		return toInt(v)
	case colText:
		return toText(v)
	case colBool:
		return toBool(v)
	case colTime:
		return toTime(v)
	}
	return nil, fmt.Errorf("%w: column %s has no type", ErrInvalidValue, c.name)
}

func toInt(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, n)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, n)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, n)
		}
		return i, nil
	}
	return nil, fmt.Errorf("%w: %T is not an integer", ErrInvalidValue, v)
}

func toText(v any) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case int, int32, int64, bool:
		return fmt.Sprint(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case json.Number:
		return s.String(), nil
	}
	return nil, fmt.Errorf("%w: %T is not text", ErrInvalidValue, v)
}

func toBool(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case int:
		return b != 0, nil
	case float64:
		return b != 0, nil
	case string:
		p, err := strconv.ParseBool(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, b)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %T is not a boolean", ErrInvalidValue, v)
}

// timeLayouts are accepted when a timestamp arrives as text, either from
// input files or from SQLite columns stored as strings.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	TimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func toTime(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, l := range timeLayouts {
			if p, err := time.Parse(l, strings.TrimSpace(t)); err == nil {
				return p, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidValue, t)
	}
	return nil, fmt.Errorf("%w: %T is not a timestamp", ErrInvalidValue, v)
}

// fromDB converts a scanned driver value to the Record representation.
// Conversion failures keep the raw value rather than failing the read.
func (c column) fromDB(v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil
	}
	switch c.typ {
	case colBool:
		if b, err := toBool(v); err == nil {
			return b
		}
	case colTime:
		if t, err := toTime(v); err == nil {
			return t
		}
	case colInt:
		if n, ok := v.(int32); ok {
			return int64(n)
		}
	}
	return v
}
