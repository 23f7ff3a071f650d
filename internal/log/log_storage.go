// log_storage.go implements SQLite-based persistent audit logging.
//
// The fluent API lives in log.go; this file handles persistence. The
// project column holds a hash of the project directory so entries from
// several projects can share one database.
//
// Errors while logging are reported on stderr and otherwise ignored: an
// ingest should succeed even if it cannot be recorded.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, project, source, author, action, path,
		                 resolved_path, batch, count, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.project, e.Source, nilIfEmpty(e.Author), e.Action,
		nilIfEmpty(e.Path), nilIfEmpty(e.ResolvedPath), nilIfEmpty(e.Batch),
		nilIfZero(e.Count), success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "beamtime: audit log write failed: %v\n", err)
	}
}

func (l *Logger) recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(`
		SELECT start, end, source, author, action, path, resolved_path,
		       batch, count, success, error, detail
		FROM log WHERE project = ?
		ORDER BY id DESC LIMIT ?`, l.project, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                                       Entry
			author, path, resolved, batch, msg, det sql.NullString
			count                                   sql.NullInt64
			success                                 int
		)
		if err := rows.Scan(&e.Start, &e.End, &e.Source, &author, &e.Action, &path,
			&resolved, &batch, &count, &success, &msg, &det); err != nil {
			return nil, err
		}
		e.Author = author.String
		e.Path = path.String
		e.ResolvedPath = resolved.String
		e.Batch = batch.String
		e.Count = int(count.Int64)
		e.Success = success == 1
		e.Error = msg.String
		if det.Valid {
			_ = json.Unmarshal([]byte(det.String), &e.Detail)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// dbPathFunc returns the database path. Tests override it.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".beamtime", "log", "beamtime-log.db")
	}
	return filepath.Join(home, ".beamtime", "log", "beamtime-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash creates a 64-bit project identifier from the directory path.
func hash(s string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			start         INTEGER NOT NULL,
			end           INTEGER NOT NULL,
			project       TEXT NOT NULL,
			source        TEXT NOT NULL,
			author        TEXT,
			action        TEXT NOT NULL,
			path          TEXT,
			resolved_path TEXT,
			batch         TEXT,
			count         INTEGER,
			success       INTEGER NOT NULL,
			error         TEXT,
			detail        TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_batch ON log(batch);
	`)
	return err
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
