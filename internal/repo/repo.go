// Package repo provides project initialisation and discovery for beamtime.
//
// A beamtime project is a .beamtime directory holding one or more SQLite
// catalog databases and an optional local config.yaml. This package handles:
//   - Initialising new projects (creating .beamtime/ and the database)
//   - Discovering existing projects by walking up the directory tree
//   - Listing named databases (beamtime.db, beamtime-13bm.db, etc.)
//
// Discovery mirrors git: starting from the current directory, walk up until
// a .beamtime directory containing the target database is found, or the
// filesystem root is reached.
//
// Projects configured for PostgreSQL still use .beamtime/ for config; the
// database itself lives on the server and Init only applies the schema.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/beamtime/internal/store"
)

const (
	// Dir is the directory name for a beamtime project.
	Dir = ".beamtime"
	// DBFile is the default database filename.
	DBFile = "beamtime.db"
)

// DBFileName returns the database filename for a given name.
// Empty name returns the default "beamtime.db".
// A name like "13bm" returns "beamtime-13bm.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "beamtime-" + name + ".db"
}

// ErrNotInitialised is returned when no beamtime project is found.
var ErrNotInitialised = errors.New("beamtime not initialised (run 'beamtime init')")

// Options selects what Init creates.
type Options struct {
	Force bool   // reinitialise an existing SQLite database
	DB    string // database name, empty for the default
	Dir   string // target directory, empty for the current directory

	// Driver and DSN select a PostgreSQL backend. When Driver is
	// "postgres" no file is created and the schema is applied to DSN.
	Driver string
	DSN    string
}

// Init initialises a new beamtime project and applies the schema.
// Config is not written; "beamtime config" manages settings.
func Init(opts Options) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	projectDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	dsn := opts.DSN
	if opts.Driver != store.DriverPostgres {
		dsn = filepath.Join(projectDir, DBFileName(opts.DB))
		if _, err := os.Stat(dsn); err == nil {
			if !opts.Force {
				return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(opts.DB))
			}
			if err := removeDB(dsn); err != nil {
				return err
			}
		}
	}

	s, err := store.Open(opts.Driver, dsn, store.PoolOptions{})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	gitignore := filepath.Join(projectDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		s := `# beamtime - local config and SQLite sidecar files
config.yaml
*.db-wal
*.db-shm
`
		if err := os.WriteFile(gitignore, []byte(s), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}
	return nil
}

// removeDB deletes a database and its WAL sidecars.
func removeDB(p string) error {
	for _, f := range []string{p, p + "-wal", p + "-shm"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove database: %w", err)
		}
	}
	return nil
}

// Discover walks up the directory tree looking for a .beamtime database.
// The db parameter specifies which database to find (empty for default).
// Returns the full path to the database if found.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		dbPath := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DiscoverDir finds the .beamtime directory, walking up the tree.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		projectDir := filepath.Join(dir, Dir)
		if info, err := os.Stat(projectDir); err == nil && info.IsDir() {
			return projectDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBInfo holds database metadata.
type DBInfo struct {
	Name string `json:"name"` // short name, empty for the default
	File string `json:"file"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ListDBs returns all databases in the .beamtime directory. If dir is
// empty, the directory is discovered from the working directory.
func ListDBs(dir string) ([]DBInfo, error) {
	if dir == "" {
		var err error
		dir, err = DiscoverDir()
		if err != nil {
			return nil, fmt.Errorf("discover .beamtime directory: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read .beamtime directory: %w", err)
	}

	var dbs []DBInfo
	for _, e := range entries {
		n := e.Name()
		if !strings.HasSuffix(n, ".db") {
			continue
		}

		var name string
		switch {
		case n == DBFile:
		case strings.HasPrefix(n, "beamtime-"):
			name = strings.TrimSuffix(strings.TrimPrefix(n, "beamtime-"), ".db")
		default:
			continue
		}

		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		dbs = append(dbs, DBInfo{
			Name: name,
			File: n,
			Path: filepath.Join(dir, n),
			Size: size,
		})
	}
	return dbs, nil
}
