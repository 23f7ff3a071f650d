// ingest.go connects the path checker and the queue ingestor to the
// configured limits, the audit log and extension events.

package beamtime

import (
	"context"
	"strings"

	"github.com/jpl-au/beamtime/extension"
	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/path"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/validate"
)

// CheckPath validates, normalises and probes a data path. Blank input is
// passed through to path.Check; only oversized or NUL-containing paths
// return an error.
func (s *Service) CheckPath(_ context.Context, p string, origin service.Origin) (path.Result, error) {
	if strings.TrimSpace(p) != "" {
		if err := validate.Path(p, s.Config().MaxPath()); err != nil {
			log.Event(origin.Source, "validate").Author(origin.Author).Write(err)
			return path.Result{}, err
		}
	}

	res := path.Check(p)
	log.Event(origin.Source, "validate").
		Author(origin.Author).
		Path(p).
		Resolved(res.Normalized).
		Detail("valid", res.Valid).
		Detail("exists", res.Exists).
		Write(nil)

	s.fireEvent(extension.PathCheckEvent{
		Source:     origin.Source,
		Path:       p,
		Normalized: res.Normalized,
		Valid:      res.Valid,
		Exists:     res.Exists,
	})
	return res, nil
}

// Ingest stores a batch of queue rows. Oversized batches are refused
// before filtering; everything else yields a Result.
func (s *Service) Ingest(ctx context.Context, rows []queue.Row, origin service.Origin) (queue.Result, error) {
	if len(rows) > 0 {
		if err := validate.Batch(len(rows), s.Config().MaxBatch()); err != nil {
			log.Event(origin.Source, "ingest").Author(origin.Author).Detail("submitted", len(rows)).Write(err)
			return queue.Result{}, err
		}
	}

	res := s.ingest.As(origin.Source, origin.Author).Ingest(ctx, rows)
	if res.Success+res.Failure > 0 {
		s.fireEvent(extension.QueueIngestEvent{
			Source:    origin.Source,
			Author:    origin.Author,
			Submitted: len(rows),
			Success:   res.Success,
			Failure:   res.Failure,
		})
	}
	return res, nil
}
