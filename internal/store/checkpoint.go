// checkpoint.go implements WAL checkpoint operations for SQLite.
//
// Separated because checkpointing is a maintenance operation called on
// graceful shutdown, not during normal reads and writes. TRUNCATE mode
// flushes the WAL fully and removes the -wal/-shm files.

package store

import (
	"context"
	"fmt"
)

// Checkpoint writes all WAL data back to the main database file and
// truncates the WAL. PostgreSQL manages its own WAL, so this is a no-op
// there.
func (s *SQLStore) Checkpoint(ctx context.Context) error {
	if s.driver != DriverSQLite {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}
