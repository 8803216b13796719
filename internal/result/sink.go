// Package result implements the result sink from spec §4.5: it writes a
// completed solver assignment to the entity store as Placement records in
// one batch, verifies invariants 1-7 afterwards, and rolls the whole batch
// back if anything fails post-write, surfacing an InternalAssertion (the
// solver producing an invariant-violating assignment is treated as a
// solver bug, never a data problem).
package result

import (
	"go.uber.org/zap"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/applog"
	"school-timetable/internal/domain"
	"school-timetable/internal/store"
)

// Sink writes solver output to a store.
type Sink struct {
	log *applog.Logger
}

// New returns a Sink. A nil log is replaced with a no-op.
func New(log *applog.Logger) *Sink {
	if log == nil {
		log = applog.Nop()
	}
	return &Sink{log: log}
}

// Write inserts every placement into s in one batch and validates
// invariants 1-7 afterwards. On any validation failure the batch is rolled
// back (every placement this call added is removed) and an
// InternalAssertion error is returned; the store is left exactly as it
// was before the call.
func (sk *Sink) Write(s *store.Store, year domain.YearID, placements []domain.Placement) error {
	written := make([]domain.Placement, 0, len(placements))
	for _, pl := range placements {
		if err := s.AddPlacement(pl); err != nil {
			sk.rollback(s, written)
			return apperrors.Wrap(err, apperrors.InternalAssertion, "solver produced an invariant-violating assignment")
		}
		written = append(written, pl)
	}

	if err := Validate(s, year); err != nil {
		sk.rollback(s, written)
		return err
	}

	sk.log.Debug("wrote placements", zap.Int("year", int(year)), zap.Int("count", len(written)))
	return nil
}

func (sk *Sink) rollback(s *store.Store, written []domain.Placement) {
	for _, pl := range written {
		s.RemovePlacement(pl.ClassID, pl.PeriodID)
	}
}
