// Package store defines beamtime persistence types and the Store interface.
// Implementations handle the actual database operations while consumers
// depend only on the interfaces, enabling testing and alternative backends.
//
// Records are addressed by Kind (one per table) and exchanged as Record
// maps keyed by column name, so callers never build SQL themselves.
package store

import (
	"errors"
	"time"
)

// Kind names a persisted entity type. The value is the table name.
type Kind string

const (
	KindInfo           Kind = "info"
	KindRun            Kind = "run"
	KindBeamline       Kind = "beamline"
	KindTechnique      Kind = "technique"
	KindStation        Kind = "station"
	KindProcessStatus  Kind = "process_status"
	KindAcknowledgment Kind = "acknowledgment"
	KindPerson         Kind = "person"
	KindExperiment     Kind = "experiment"
	KindQueue          Kind = "queue"
	KindDataPath       Kind = "data_path"
)

// Kinds returns every known kind in schema order.
func Kinds() []Kind {
	return []Kind{
		KindInfo, KindRun, KindBeamline, KindTechnique, KindStation,
		KindProcessStatus, KindAcknowledgment, KindPerson, KindExperiment,
		KindQueue, KindDataPath,
	}
}

// Record is one row keyed by column name. Values are nil, int64, string,
// bool or time.Time after a read.
type Record map[string]any

// Filter is an equality predicate over columns: every entry must match.
type Filter map[string]any

// ExperimentFilter narrows Experiments. Zero fields match everything.
type ExperimentFilter struct {
	Run      int64
	Beamline int64
}

// ExperimentSummary is an experiment joined with its process status name.
// Nullable columns are pointers; ProcessStatus is "Unknown" when the
// experiment has no status or the status row is missing.
type ExperimentSummary struct {
	ID            int64
	Title         *string
	RunID         *int64
	BeamlineID    *int64
	ProposalID    *int64
	UserFolder    *string
	ProcessStatus string
}

// UnknownStatus is reported for experiments without a process status.
const UnknownStatus = "Unknown"

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrUnknownKind is returned for a Kind with no table.
	ErrUnknownKind = errors.New("unknown record kind")
	// ErrUnknownColumn is returned when a Record or Filter names a column
	// the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidValue is returned when a value cannot be converted to its
	// column type. Conversion happens inside the write transaction.
	ErrInvalidValue = errors.New("invalid column value")
	// ErrUnknownDriver is returned by Open for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// TimeLayout is the display format for timestamps such as the info table's
// last modification time.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
