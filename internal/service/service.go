// Package service defines the shared interface for beamtime operations.
// Commands, extensions, the HTTP server and the MCP server depend on this
// interface rather than the concrete implementation, enabling testing
// with fakes.
package service

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/path"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/store"
)

// Service defines all beamtime operations.
//
// Obtain one with beamtime.New() and always call Close() when done:
//
//	svc, err := beamtime.New("", "")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	exps, err := svc.Experiments(ctx, store.ExperimentFilter{Run: 3})
type Service interface {
	// Close checkpoints and releases database resources.
	Close() error

	// List returns every record of a kind.
	List(ctx context.Context, kind store.Kind) ([]store.Record, error)

	// Filtered returns records of a kind whose columns equal f.
	Filtered(ctx context.Context, kind store.Kind, f store.Filter) ([]store.Record, error)

	// Experiments returns experiments prepared for display: missing text
	// reads "N/A" and a missing process status reads "Unknown".
	Experiments(ctx context.Context, f store.ExperimentFilter) ([]Experiment, error)

	// DataPath returns the raw path template for a station and technique,
	// or "" when none is configured.
	DataPath(ctx context.Context, stationID, techniqueID int64) (string, error)

	// LastModified returns the newest info modify_time formatted as
	// "2006-01-02 15:04:05", or "" when the info table is empty.
	LastModified(ctx context.Context) (string, error)

	// Beamline returns the configured beamline name.
	Beamline() string

	// DefaultPath returns the beamline's default data path with {YEAR}
	// and {MONTH} expanded for today.
	DefaultPath() string

	// CheckPath validates, normalises and probes a data path. Only size
	// limits produce an error; an invalid path is a Result with Valid false.
	CheckPath(ctx context.Context, p string, origin Origin) (path.Result, error)

	// Ingest stores a batch of queue rows. Batches over limits.max_batch
	// are rejected with validate.ErrBatchTooLarge before any filtering;
	// storage failures are reported in the Result, not as an error.
	Ingest(ctx context.Context, rows []queue.Row, origin Origin) (queue.Result, error)

	// QueueRows returns the queued rows, oldest first.
	QueueRows(ctx context.Context) ([]store.Queue, error)

	// Seed loads reference data. Each kind is inserted atomically; kinds
	// are applied in dependency order and the first failure stops the load.
	Seed(ctx context.Context, ref *Reference) (map[store.Kind]int, error)

	// Config returns the configuration the service is running with.
	Config() *config.Config

	// SetConfig swaps in a new configuration (used by config reload).
	SetConfig(cfg *config.Config)

	// DB returns the underlying connection pool. Do not close it directly.
	DB() *sql.DB

	// Tx runs fn in a transaction, committing if it returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Checkpoint flushes the SQLite WAL. A no-op for PostgreSQL.
	Checkpoint(ctx context.Context) error
}

// Origin identifies who triggered an operation, for the audit log.
type Origin struct {
	Source string // "queue:add", "web:validate_data_path", "mcp:beamtime_queue_add"
	Author string
}

// NotAvailable is shown in place of missing experiment text.
const NotAvailable = "N/A"

// Experiment is an experiment row shaped for display.
type Experiment struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	RunID         *int64 `json:"run_id"`
	BeamlineID    *int64 `json:"beamline_id"`
	Proposal      string `json:"proposal"`
	ProcessStatus string `json:"process_status"`
	UserFolder    string `json:"user_folder"`
}

// FormatExperiments shapes store summaries for display.
func FormatExperiments(in []store.ExperimentSummary) []Experiment {
	out := make([]Experiment, len(in))
	for i, e := range in {
		x := Experiment{
			ID:            e.ID,
			Title:         NotAvailable,
			RunID:         e.RunID,
			BeamlineID:    e.BeamlineID,
			Proposal:      NotAvailable,
			ProcessStatus: e.ProcessStatus,
			UserFolder:    NotAvailable,
		}
		if e.Title != nil && *e.Title != "" {
			x.Title = *e.Title
		}
		if e.UserFolder != nil && *e.UserFolder != "" {
			x.UserFolder = *e.UserFolder
		}
		if e.ProposalID != nil {
			x.Proposal = strconv.FormatInt(*e.ProposalID, 10)
		}
		if x.ProcessStatus == "" {
			x.ProcessStatus = store.UnknownStatus
		}
		out[i] = x
	}
	return out
}

// Reference is a reference data file as loaded by the seed command.
type Reference struct {
	Info            []store.Info           `yaml:"info" json:"info"`
	Runs            []store.Named          `yaml:"runs" json:"runs"`
	Beamlines       []store.Named          `yaml:"beamlines" json:"beamlines"`
	Techniques      []store.Named          `yaml:"techniques" json:"techniques"`
	Stations        []store.Named          `yaml:"stations" json:"stations"`
	ProcessStatuses []store.Named          `yaml:"process_statuses" json:"process_statuses"`
	Acknowledgments []store.Acknowledgment `yaml:"acknowledgments" json:"acknowledgments"`
	People          []store.Person         `yaml:"people" json:"people"`
	Experiments     []store.Experiment     `yaml:"experiments" json:"experiments"`
	DataPaths       []store.DataPath       `yaml:"data_paths" json:"data_paths"`
}

// Batches returns the reference data as insert batches in dependency
// order. Empty kinds are omitted.
func (r *Reference) Batches() []Batch {
	all := []Batch{
		{store.KindInfo, store.Records(r.Info)},
		{store.KindRun, store.Records(store.WithKind(store.KindRun, r.Runs))},
		{store.KindBeamline, store.Records(store.WithKind(store.KindBeamline, r.Beamlines))},
		{store.KindTechnique, store.Records(store.WithKind(store.KindTechnique, r.Techniques))},
		{store.KindStation, store.Records(store.WithKind(store.KindStation, r.Stations))},
		{store.KindProcessStatus, store.Records(store.WithKind(store.KindProcessStatus, r.ProcessStatuses))},
		{store.KindAcknowledgment, store.Records(r.Acknowledgments)},
		{store.KindPerson, store.Records(r.People)},
		{store.KindExperiment, store.Records(r.Experiments)},
		{store.KindDataPath, store.Records(r.DataPaths)},
	}
	out := all[:0]
	for _, b := range all {
		if len(b.Rows) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Batch is one kind's rows within a seed.
type Batch struct {
	Kind store.Kind
	Rows []store.Record
}
