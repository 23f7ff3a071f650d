// Package beamtime implements service.Service on top of a store.Store.
// It adds the pieces the store does not know about: configuration limits,
// display formatting, audit logging and extension events.
package beamtime

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
)

// Service provides beamtime operations backed by a Store.
type Service struct {
	store   store.Store
	cfg     atomic.Pointer[config.Config]
	ingest  *queue.Ingestor
	logger  *slog.Logger
	project string
	extCtx  extension.Context // for firing events to extensions

	now func() time.Time
}

var _ service.Service = (*Service)(nil)

// New loads configuration and opens the project's database. For SQLite the
// database is discovered by walking up from the working directory, or
// taken from dir/.beamtime when dir is set. The db parameter picks a named
// database (empty for the default). Returns repo.ErrNotInitialised if no
// database is found.
func New(db, dir string) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err // config.Load provides detailed, actionable error messages
	}
	return Open(cfg, db, dir)
}

// Open is New with an explicit configuration.
func Open(cfg *config.Config, db, dir string) (*Service, error) {
	driver, dsn := cfg.Driver(), cfg.DSN()
	project := dsn

	if driver != store.DriverPostgres && dsn == "" {
		p, err := Locate(db, dir)
		if err != nil {
			return nil, err
		}
		dsn = p
		project = filepath.Dir(p)
	}

	s, err := store.Open(driver, dsn, store.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns(),
		MaxIdleConns:    cfg.MaxIdleConns(),
		ConnMaxIdleTime: cfg.ConnMaxIdle(),
	})
	if err != nil {
		return nil, err
	}
	return NewWithStore(s, cfg, project), nil
}

// Locate resolves the SQLite database path for db and dir.
func Locate(db, dir string) (string, error) {
	if dir == "" {
		return repo.Discover(db)
	}
	p := filepath.Join(dir, repo.Dir, repo.DBFileName(db))
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %s", repo.ErrNotInitialised, p)
	}
	return p, nil
}

// NewWithStore wraps an open store. The project string identifies the
// project in the audit log (the .beamtime directory or the DSN).
func NewWithStore(s store.Store, cfg *config.Config, project string) *Service {
	if cfg == nil {
		cfg = &config.Config{}
	}
	logger := slog.Default().With("component", "beamtime")
	svc := &Service{
		store:   s,
		ingest:  queue.New(s, logger),
		logger:  logger,
		project: project,
		now:     time.Now,
	}
	svc.cfg.Store(cfg)
	return svc
}

// Init initialises a new beamtime project. Config is not written; it is
// managed separately with "beamtime config".
func Init(opts repo.Options) error {
	return repo.Init(opts)
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// Project returns the audit log project identifier.
func (s *Service) Project() string {
	return s.project
}

// SetExtensionContext sets the extension context for firing events.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// Config returns the current configuration.
func (s *Service) Config() *config.Config {
	return s.cfg.Load()
}

// SetConfig swaps the configuration. Pool limits are applied immediately;
// driver and DSN changes need a restart.
func (s *Service) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.cfg.Store(cfg)
	db := s.store.DB()
	if db == nil {
		return
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns())
	db.SetMaxIdleConns(cfg.MaxIdleConns())
	db.SetConnMaxIdleTime(cfg.ConnMaxIdle())
}

// ReloadConfig reloads configuration from disk.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.SetConfig(cfg)
	return nil
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// Tx runs a function within a database transaction. Extensions use it for
// multi-step writes to their own tables.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.store.Tx(ctx, fn); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	return nil
}

// Checkpoint flushes the WAL to the main database file.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}

// fireEvent notifies all registered extension event handlers. Handler
// errors are logged, not propagated: events are notifications.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}
