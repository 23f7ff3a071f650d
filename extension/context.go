// context.go defines the Context interface for extension access to
// beamtime internals.
//
// Extensions receive Context during Init() and in MCP handlers rather than
// at construction: they register in init() before any service exists.

package extension

import (
	"database/sql"

	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/service"
)

// Context provides extensions controlled access to beamtime internals.
type Context interface {
	// Service returns the catalog service.
	Service() service.Service

	// DB exposes the database for extensions needing custom tables.
	// Extensions should create their own tables, not modify core tables.
	DB() *sql.DB

	// Config returns the loaded configuration.
	Config() *config.Config
}

type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return &extContext{svc: svc, db: db, cfg: cfg}
}

func (c *extContext) Service() service.Service { return c.svc }
func (c *extContext) DB() *sql.DB              { return c.db }
func (c *extContext) Config() *config.Config   { return c.cfg }
