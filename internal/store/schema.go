// schema.go defines the database schema and provides schema execution
// helpers.
//
// Schema files are embedded from sql/<driver>/ and executed in
// alphabetical order (hence the numeric prefixes like 001_, 002_). Each
// file is split into statements and run one at a time so the same loader
// serves both drivers.
//
// Extensions can create their own embedded schemas:
//
//	//go:embed sql/*.sql
//	var extensionSchemas embed.FS
//
//	func (e *Extension) Init(ctx extension.Context) error {
//	    return store.ExecEmbedded(ctx.DB(), extensionSchemas, "sql")
//	}

package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var schemas embed.FS

// ExecEmbedded executes all .sql files from an embedded filesystem in
// alphabetical order. Statements are separated by ";" and should use
// IF NOT EXISTS so the files can be re-run.
func ExecEmbedded(db *sql.DB, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read schema directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		p := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("exec %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// splitStatements splits a schema file on ";" and drops blank and
// comment-only fragments.
func splitStatements(src string) []string {
	var out []string
	for _, part := range strings.Split(src, ";") {
		var lines []string
		for _, l := range strings.Split(part, "\n") {
			if t := strings.TrimSpace(l); t != "" && !strings.HasPrefix(t, "--") {
				lines = append(lines, l)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return out
}

// execSchema executes the embedded core schema for the driver.
func execSchema(db *sql.DB, driver string) error {
	return ExecEmbedded(db, schemas, "sql/"+driver)
}
