// interfaces.go defines the storage abstraction for beamtime records.
//
// Separated from the SQL implementation to enable testing and alternative
// backends. The interfaces are granular so consumers only depend on the
// capabilities they need: the queue ingestor only needs Writer, the web
// page only needs Reader.

package store

import (
	"context"
	"database/sql"
)

// Reader defines read-only operations.
type Reader interface {
	// SelectAll returns every record of a kind in table order.
	SelectAll(ctx context.Context, kind Kind) ([]Record, error)

	// SelectFiltered returns records whose columns equal every entry in f.
	// Unknown column names return ErrUnknownColumn.
	SelectFiltered(ctx context.Context, kind Kind, f Filter) ([]Record, error)

	// Experiments returns experiments joined with their process status.
	Experiments(ctx context.Context, f ExperimentFilter) ([]ExperimentSummary, error)

	// DataPathTemplate returns the template for a station and technique,
	// or "" when none is configured.
	DataPathTemplate(ctx context.Context, stationID, techniqueID int64) (string, error)
}

// Writer defines operations that add records.
type Writer interface {
	// InsertMany inserts rows atomically: either every row is committed or
	// none is. Values are converted to column types inside the transaction,
	// so a bad value fails the whole call.
	InsertMany(ctx context.Context, kind Kind, rows []Record) error
}

// Maintainer defines operations for connection lifecycle.
type Maintainer interface {
	// Close releases the connection pool.
	Close() error

	// DB exposes the underlying pool for extensions needing custom tables.
	DB() *sql.DB

	// Driver reports which backend is in use.
	Driver() string

	// Checkpoint flushes the SQLite WAL. It is a no-op for PostgreSQL.
	Checkpoint(ctx context.Context) error

	// Init applies the embedded schema. Safe to run more than once.
	Init() error

	// Tx runs fn in a transaction, committing if it returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Store combines all storage capabilities.
type Store interface {
	Reader
	Writer
	Maintainer
}
