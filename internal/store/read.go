// read.go implements the Reader interface.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SelectAll returns every record of a kind.
func (s *SQLStore) SelectAll(ctx context.Context, kind Kind) ([]Record, error) {
	return s.SelectFiltered(ctx, kind, nil)
}

// SelectFiltered returns records of a kind matching every column in f.
// A nil value in f matches NULL.
func (s *SQLStore) SelectFiltered(ctx context.Context, kind Kind, f Filter) ([]Record, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	q := "SELECT " + t.selectList() + " FROM " + quote(string(t.kind))
	var args []any
	if len(f) > 0 {
		where, a, err := t.where(f)
		if err != nil {
			return nil, err
		}
		q += " WHERE " + where
		args = a
	}
	q += " ORDER BY " + quote(t.order)

	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	defer rows.Close()
	return scanRecords(rows, t)
}

// where builds a deterministic AND clause for f. Columns are sorted so the
// generated SQL is stable across calls.
func (t table) where(f Filter) (string, []any, error) {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	clauses := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		c, ok := t.column(name)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.kind, name)
		}
		v, err := c.coerce(f[name])
		if err != nil {
			return "", nil, fmt.Errorf("filter %s.%s: %w", t.kind, name, err)
		}
		if v == nil {
			clauses = append(clauses, quote(name)+" IS NULL")
			continue
		}
		clauses = append(clauses, quote(name)+" = ?")
		args = append(args, v)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// scanRecords reads all rows into Records using the table's column order.
func scanRecords(rows *sql.Rows, t table) ([]Record, error) {
	var out []Record
	for rows.Next() {
		vals := make([]any, len(t.columns))
		ptrs := make([]any, len(t.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.kind, err)
		}
		r := make(Record, len(t.columns))
		for i, c := range t.columns {
			r[c.name] = c.fromDB(vals[i])
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Experiments returns experiments outer-joined with their process status.
// Filters are applied in SQL; zero values are ignored.
func (s *SQLStore) Experiments(ctx context.Context, f ExperimentFilter) ([]ExperimentSummary, error) {
	q := `
		SELECT e.id, e.title, e.run_id, e.beamline_id, e.proposal_id, e.user_folder, ps.name
		FROM experiment e
		LEFT OUTER JOIN process_status ps ON e.process_status_id = ps.id`

	var (
		clauses []string
		args    []any
	)
	if f.Run != 0 {
		clauses = append(clauses, "e.run_id = ?")
		args = append(args, f.Run)
	}
	if f.Beamline != 0 {
		clauses = append(clauses, "e.beamline_id = ?")
		args = append(args, f.Beamline)
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY e.id"

	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("select experiments: %w", err)
	}
	defer rows.Close()

	var out []ExperimentSummary
	for rows.Next() {
		var (
			e                       ExperimentSummary
			title, folder, status   sql.NullString
			run, beamline, proposal sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &title, &run, &beamline, &proposal, &folder, &status); err != nil {
			return nil, fmt.Errorf("scan experiment: %w", err)
		}
		e.Title = nullString(title)
		e.UserFolder = nullString(folder)
		e.RunID = nullInt(run)
		e.BeamlineID = nullInt(beamline)
		e.ProposalID = nullInt(proposal)
		e.ProcessStatus = UnknownStatus
		if status.Valid && status.String != "" {
			e.ProcessStatus = status.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DataPathTemplate returns the first template configured for a station
// and technique, or "" if there is none.
func (s *SQLStore) DataPathTemplate(ctx context.Context, stationID, techniqueID int64) (string, error) {
	var tmpl sql.NullString
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT path_template FROM data_path
		WHERE station_id = ? AND technique_id = ?
		ORDER BY id LIMIT 1`), stationID, techniqueID).Scan(&tmpl)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select data path: %w", err)
	}
	return tmpl.String, nil
}

func nullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
