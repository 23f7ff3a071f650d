// write.go implements the Writer interface.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// InsertMany inserts rows into the kind's table in a single transaction.
// Every row is converted and inserted before commit; any failure rolls the
// whole batch back. An empty batch is a no-op.
func (s *SQLStore) InsertMany(ctx context.Context, kind Kind, rows []Record) error {
	t, err := lookup(kind)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		for i, row := range rows {
			q, args, err := s.insertStmt(t, row)
			if err != nil {
				return fmt.Errorf("insert %s row %d: %w", kind, i, err)
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", kind, i, err)
			}
		}
		return nil
	})
}

// insertStmt builds the INSERT for one row. Columns come from the row
// itself so database defaults apply to absent ones; auto columns are
// only written when present.
func (s *SQLStore) insertStmt(t table, row Record) (string, []any, error) {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	marks := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		c, ok := t.column(name)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.kind, name)
		}
		v, err := c.coerce(row[name])
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, err)
		}
		if c.auto && v == nil {
			continue
		}
		cols = append(cols, quote(name))
		marks = append(marks, "?")
		args = append(args, v)
	}

	if len(cols) == 0 {
		return s.rebind("INSERT INTO " + quote(string(t.kind)) + " DEFAULT VALUES"), nil, nil
	}
	q := "INSERT INTO " + quote(string(t.kind)) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return s.rebind(q), args, nil
}
