// Package log provides centralised audit logging for beamtime operations.
// Logs are stored in ~/.beamtime/log/beamtime-log.db and track CLI
// commands, HTTP requests that change state and MCP tool invocations
// across projects.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("datapath:check", "validate").
//		Author(cmd.Author()).
//		Path(p).
//		Resolved(res.Normalized).
//		Write(err)
//
//	log.Event("queue:add", "ingest").
//		Author(cmd.Author()).
//		Batch(id).
//		Count(res.Success).
//		Write(err)
//
// The source parameter follows the format "{extension}:{command}" for CLI
// commands, "web:{route}" for HTTP handlers or "mcp:{tool}" for MCP tools.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string `json:"source"` // e.g. "queue:add", "web:validate_data_path"
	Author string `json:"author"` // who performed the action
	Action string `json:"action"` // verb: validate, ingest, list, seed, etc.
	Path   string `json:"path"`   // input: data path checked, file imported

	// Output fields
	ResolvedPath string `json:"resolved_path,omitempty"` // normalised path, when different from input
	Batch        string `json:"batch,omitempty"`         // ingest batch identifier
	Count        int    `json:"count,omitempty"`         // rows written or returned

	Start int64 `json:"start"` // unix timestamp when Event() called
	End   int64 `json:"end"`   // unix timestamp when Write() called

	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Builder constructs a log entry. Create with [Event], chain setters, then
// call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{extension}:{command}" (e.g. "queue:import")
//   - HTTP handlers: "web:{route}" (e.g. "web:create_update_queue")
//   - MCP tools: "mcp:{tool}" (e.g. "mcp:beamtime_check_path")
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author sets who performed the operation. MCP tools use "mcp" and HTTP
// handlers use the remote address.
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Path sets the path the operation received.
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Resolved sets the normalised form of Path. Ignored when equal to Path.
func (b *Builder) Resolved(path string) *Builder {
	if path != b.entry.Path {
		b.entry.ResolvedPath = path
	}
	return b
}

// Batch sets the ingest batch identifier.
func (b *Builder) Batch(id string) *Builder {
	b.entry.Batch = id
	return b
}

// Count sets the number of rows the operation affected.
func (b *Builder) Count(n int) *Builder {
	b.entry.Count = n
	return b
}

// Detail adds a key-value pair to the entry's detail map.
//
//	log.Event("catalog:experiments", "list").
//		Detail("run", run).
//		Detail("beamline", beamline)
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the entry, deriving success from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent entries.
// The dir should be the absolute path to the .beamtime directory, or the
// DSN for a PostgreSQL-backed project.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. A no-op when the logger is not open.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Recent returns the newest entries for the current project, newest first.
func Recent(limit int) ([]Entry, error) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return nil, nil
	}
	return l.recent(limit)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
