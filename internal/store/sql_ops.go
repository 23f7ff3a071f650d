// sql_ops.go provides connection management and low-level operations for
// both supported backends.
//
// Separated to isolate driver concerns (pragmas, pooling, placeholder
// syntax) from the record operations. This is the only file that imports
// the database drivers.
//
// Design: SQLite is the default for a single beamline workstation; a
// facility-wide deployment points database.driver at PostgreSQL. Queries
// are written once with "?" placeholders and rebound for PostgreSQL.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	// Register the pgx database/sql driver as "pgx"
	_ "github.com/jackc/pgx/v5/stdlib"
	// Register the sqlite driver as "sqlite"
	_ "modernc.org/sqlite"
)

// PoolOptions bounds the connection pool. Zero values keep the
// database/sql defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Compile-time interface compliance check.
var _ Store = (*SQLStore)(nil)

// Open connects to the database. For SQLite, dsn is a file path; for
// PostgreSQL it is a connection URL or keyword/value string understood
// by pgx. The caller should call Close on the returned store.
func Open(driver, dsn string, opts PoolOptions) (*SQLStore, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s database: %w", driver, err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// sqliteDSN appends connection pragmas so every pooled connection gets
// them, not just the first.
//
//   - journal_mode=WAL: readers do not block the writer; the web page keeps
//     reading while a queue batch commits.
//   - busy_timeout=5000: wait up to 5s for the write lock instead of
//     failing with "database is locked".
//   - synchronous=NORMAL: safe with WAL; only the last transaction can be
//     lost on OS crash.
//   - _time_format=sqlite: timestamps are written in SQLite's own layout
//     so they sort and compare as text.
func sqliteDSN(p string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_time_format", "sqlite")
	sep := "?"
	if strings.Contains(p, "?") {
		sep = "&"
	}
	return "file:" + p + sep + q.Encode()
}

// Init creates tables and indexes if they don't exist. Safe to call
// multiple times.
func (s *SQLStore) Init() error {
	return execSchema(s.db, s.driver)
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool for extensions that need custom tables.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Driver returns DriverSQLite or DriverPostgres.
func (s *SQLStore) Driver() string {
	return s.driver
}

// rebind rewrites "?" placeholders as "$1", "$2"... for PostgreSQL.
func (s *SQLStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	return Rebind(q)
}

// Rebind rewrites "?" placeholders in q to PostgreSQL's numbered form.
// Queries here never contain literal question marks.
func Rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// Tx executes fn within a database transaction, handling Begin, Commit and
// Rollback. Rollback is deferred so it also runs on panic and early
// return; after a successful Commit it is a no-op.
//
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, `INSERT ...`); err != nil {
//	        return err // triggers rollback
//	    }
//	    return nil // triggers commit
//	})
func (s *SQLStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
