// catalog.go implements the read side: reference listings, experiments,
// data path templates and the info table's last update.

package beamtime

import (
	"context"
	"time"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
)

// List returns every record of a kind.
func (s *Service) List(ctx context.Context, kind store.Kind) ([]store.Record, error) {
	return s.store.SelectAll(ctx, kind)
}

// Filtered returns records of a kind whose columns equal f.
func (s *Service) Filtered(ctx context.Context, kind store.Kind, f store.Filter) ([]store.Record, error) {
	return s.store.SelectFiltered(ctx, kind, f)
}

// Experiments returns experiments shaped for display.
func (s *Service) Experiments(ctx context.Context, f store.ExperimentFilter) ([]service.Experiment, error) {
	rows, err := s.store.Experiments(ctx, f)
	if err != nil {
		return nil, err
	}
	return service.FormatExperiments(rows), nil
}

// DataPath returns the raw template for a station and technique.
func (s *Service) DataPath(ctx context.Context, stationID, techniqueID int64) (string, error) {
	return s.store.DataPathTemplate(ctx, stationID, techniqueID)
}

// LastModified returns the newest info modify_time, or "" if none.
func (s *Service) LastModified(ctx context.Context) (string, error) {
	rows, err := s.store.SelectAll(ctx, store.KindInfo)
	if err != nil {
		return "", err
	}
	var newest time.Time
	for _, r := range rows {
		if t, ok := r["modify_time"].(time.Time); ok && t.After(newest) {
			newest = t
		}
	}
	if newest.IsZero() {
		return "", nil
	}
	return store.FormatTime(newest), nil
}

// Beamline returns the configured beamline name.
func (s *Service) Beamline() string {
	return s.Config().BeamlineName()
}

// DefaultPath returns the beamline default path expanded for today.
func (s *Service) DefaultPath() string {
	return s.Config().DefaultPath(s.now())
}

// QueueRows returns the queued rows, oldest first.
func (s *Service) QueueRows(ctx context.Context) ([]store.Queue, error) {
	rows, err := s.store.SelectAll(ctx, store.KindQueue)
	if err != nil {
		return nil, err
	}
	out := make([]store.Queue, len(rows))
	for i, r := range rows {
		out[i] = store.QueueFromRecord(r)
	}
	return out, nil
}

// Seed loads reference data kind by kind. Each kind is one atomic insert;
// the first failing kind stops the load and earlier kinds stay committed.
func (s *Service) Seed(ctx context.Context, ref *service.Reference) (map[store.Kind]int, error) {
	counts := make(map[store.Kind]int)
	if ref == nil {
		return counts, nil
	}
	for _, b := range ref.Batches() {
		err := s.store.InsertMany(ctx, b.Kind, b.Rows)
		log.Event("catalog:seed", "seed").
			Detail("kind", string(b.Kind)).
			Count(len(b.Rows)).
			Write(err)
		if err != nil {
			return counts, err
		}
		counts[b.Kind] = len(b.Rows)
	}

	named := make(map[string]int, len(counts))
	for k, n := range counts {
		named[string(k)] = n
	}
	s.fireEvent(extension.SeedEvent{Source: "catalog:seed", Counts: named})
	return counts, nil
}
