// Package curriculum implements the curriculum builder (spec §4.2): it
// decomposes a Year's cohort into subject Blocks, Sets and Classes sized to
// teacher supply and room capacity, and materializes them in the entity
// store. Grounded on the staged-builder pattern of the teacher's
// internal/loader/domain_builder.go, adapted from a one-shot legacy-model
// migration into a repeatable, idempotent per-year build.
package curriculum

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/applog"
	"school-timetable/internal/domain"
	"school-timetable/internal/metrics"
	"school-timetable/internal/store"
)

// Builder materializes Block/Set/Class records for a year. It holds no
// state across calls to Build; every run operates on the store handle it
// is given.
type Builder struct {
	log *applog.Logger
}

// New returns a Builder that logs through log. A nil log is replaced with
// a no-op logger.
func New(log *applog.Logger) *Builder {
	if log == nil {
		log = applog.Nop()
	}
	return &Builder{log: log}
}

// Result summarizes one Build call.
type Result struct {
	YearID          domain.YearID
	ClassesBuilt    int
	SkippedSubjects []domain.SubjectID // subjects skipped for NoTeachers
}

// subjectPlan is one subject's curriculum-builder working state: the
// offering and its teacher count. The running per-subject class counter
// used to name classes "{year}/{code}{NN}" is kept by Build itself.
type subjectPlan struct {
	offering    domain.SubjectOffering
	numTeachers int
}

// Build runs the algorithm described in §4.2 for one year:
//  1. ideal_class_size = round(mean(classroom capacities))
//  2. num_classes = ceil(students_in(year) / ideal_class_size)
//  3. subjects sorted by teacher count, most teachers first (each
//     becomes its own block)
//  4. per subject: num_sets = ceil(num_classes / num_teachers), classes
//     split as evenly as possible across sets.
//
// Build first deletes any existing Block/Set/Class structure for the year
// (cascade), so re-running is idempotent.
func (b *Builder) Build(s *store.Store, year domain.YearID) (Result, error) {
	res := Result{YearID: year}

	yearEntity, ok := s.Year(year)
	if !ok {
		return res, apperrors.Newf(apperrors.ConfigurationError, "unknown year %d", year)
	}

	capStats := s.ClassroomCapacities()
	if capStats.Count == 0 {
		return res, apperrors.New(apperrors.ConfigurationError, "no classrooms defined; cannot compute ideal class size")
	}
	idealClassSize := idealSize(yearEntity, capStats)

	students := s.StudentsIn(year)
	if len(students) == 0 {
		b.log.Debug("year has no students, nothing to build", zap.Int("year", int(year)))
		return res, nil
	}
	numClasses := ceilDiv(len(students), idealClassSize)

	if err := s.DeleteCurriculumForYear(year); err != nil {
		return res, err
	}

	plans := b.scarcitySortedSubjects(s, year)

	nameCounter := make(map[domain.SubjectID]int)

	for blockOrdinal, plan := range plans {
		ordinal := blockOrdinal + 1
		if plan.numTeachers == 0 {
			res.SkippedSubjects = append(res.SkippedSubjects, plan.offering.SubjectID)
			metrics.CurriculumSubjectsSkipped.Inc()
			b.log.Info("subject skipped: no teachers",
				zap.Int("subject", int(plan.offering.SubjectID)), zap.Int("year", int(year)))
			continue
		}

		block, err := s.AddBlock(domain.Block{
			YearID:  year,
			Name:    blockName(ordinal),
			Ordinal: ordinal,
		})
		if err != nil {
			return res, err
		}

		setType := domain.SetTypeCore
		if plan.offering.IsOption {
			setType = domain.SetTypeOption
		}

		numSets := ceilDiv(numClasses, plan.numTeachers)
		perSet := splitEvenly(numClasses, numSets)

		subject, _ := s.Subject(plan.offering.SubjectID)

		for setNum := 1; setNum <= numSets; setNum++ {
			set, err := s.AddSet(domain.Set{
				BlockID:   block,
				SubjectID: plan.offering.SubjectID,
				YearID:    year,
				Number:    setNum,
				Type:      setType,
			})
			if err != nil {
				return res, err
			}

			classCount := perSet[setNum-1]
			for i := 0; i < classCount; i++ {
				nameCounter[plan.offering.SubjectID]++
				className := fmt.Sprintf("%s/%s%02d", yearEntity.Name, subject.Code, nameCounter[plan.offering.SubjectID])

				_, err := s.AddClass(domain.Class{
					SetID:           set,
					Name:            className,
					Number:          nameCounter[plan.offering.SubjectID],
					YearID:          year,
					SubjectID:       plan.offering.SubjectID,
					Type:            setType,
					RequiredPeriods: plan.offering.RequiredPeriodsPerCycle,
				})
				if err != nil {
					return res, err
				}
				res.ClassesBuilt++
				metrics.CurriculumClassesBuilt.Inc()
			}
		}
	}

	b.log.Info("built curriculum",
		zap.Int("year", int(year)),
		zap.Int("classes_built", res.ClassesBuilt),
		zap.Int("blocks", len(plans)-len(res.SkippedSubjects)),
		zap.Int("subjects_skipped", len(res.SkippedSubjects)),
	)

	return res, nil
}

// scarcitySortedSubjects returns the year's required subject offerings
// sorted by teacher count descending (most-staffed subject first, so it
// becomes Block A), matching the original builder's ORDER BY Num_Teachers
// DESC. Ties keep SubjectID order for determinism.
func (b *Builder) scarcitySortedSubjects(s *store.Store, year domain.YearID) []subjectPlan {
	offerings := s.SubjectOfferings(year)
	plans := make([]subjectPlan, 0, len(offerings))
	for _, off := range offerings {
		if off.RequiredPeriodsPerCycle <= 0 {
			continue
		}
		plans = append(plans, subjectPlan{
			offering:    off,
			numTeachers: len(s.TeachersOf(off.SubjectID)),
		})
	}
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].numTeachers != plans[j].numTeachers {
			return plans[i].numTeachers > plans[j].numTeachers
		}
		return plans[i].offering.SubjectID < plans[j].offering.SubjectID
	})
	return plans
}

// idealSize honors the year's own IdealClassSize override when set,
// otherwise rounds the mean classroom capacity to the nearest integer, at
// least 1 to avoid a zero-division in ceilDiv.
func idealSize(year domain.Year, stats store.ClassroomCapacityStats) int {
	if year.IdealClassSize > 0 {
		return year.IdealClassSize
	}
	size := int(math.Round(stats.Mean()))
	if size < 1 {
		size = 1
	}
	return size
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// splitEvenly divides total across n buckets as evenly as possible: the
// first (total mod n) buckets get one extra.
func splitEvenly(total, n int) []int {
	if n <= 0 {
		return nil
	}
	q, r := total/n, total%n
	out := make([]int, n)
	for i := range out {
		out[i] = q
		if i < r {
			out[i]++
		}
	}
	return out
}

// blockName returns the 1-indexed ordinal's letter name: 1 -> "A", 2 ->
// "B", etc.
func blockName(ordinal int) string {
	return string(rune('A' + ordinal - 1))
}
