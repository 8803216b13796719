package result

import (
	"sort"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/domain"
	"school-timetable/internal/store"
)

// Validate checks invariants 1-7 (spec §3/§8) for every class in a year
// against the placements currently in s. It is the single place both the
// sink (post-write) and tests check these properties.
func Validate(s *store.Store, year domain.YearID) error {
	classes := s.ClassesOfYear(year)
	if len(classes) == 0 {
		return nil
	}

	if err := checkNoDoubleBooking(s, classes); err != nil {
		return err
	}
	if err := checkTeacherAndRoomCompetency(s, classes); err != nil {
		return err
	}
	if err := checkRequiredPeriodsCount(s, classes); err != nil {
		return err
	}
	if err := checkSameSetConcurrency(s, classes); err != nil {
		return err
	}
	if err := checkBandDisjointness(s, classes); err != nil {
		return err
	}
	return nil
}

// checkNoDoubleBooking re-verifies invariants 1 and 2: no (period, teacher)
// or (period, room) collision. Invariant 3 ((period, class) unique) is not
// checked here; the store keys placements by (class, period), so it holds
// by construction. The store's AddPlacement already enforces 1 and 2 as
// well; this is the defense-in-depth re-check the result sink performs
// before accepting a batch.
func checkNoDoubleBooking(s *store.Store, classes []domain.Class) error {
	seenTeacher := make(map[domain.PeriodID]map[domain.TeacherID]domain.ClassID)
	seenRoom := make(map[domain.PeriodID]map[domain.ClassroomID]domain.ClassID)

	for _, c := range classes {
		for _, pl := range s.PlacementsForClass(c.ID) {
			if seenTeacher[pl.PeriodID] == nil {
				seenTeacher[pl.PeriodID] = make(map[domain.TeacherID]domain.ClassID)
			}
			if other, ok := seenTeacher[pl.PeriodID][pl.TeacherID]; ok && other != pl.ClassID {
				return apperrors.Newf(apperrors.InternalAssertion, "teacher %d double-booked in period %d (classes %d and %d)", pl.TeacherID, pl.PeriodID, other, pl.ClassID)
			}
			seenTeacher[pl.PeriodID][pl.TeacherID] = pl.ClassID

			if seenRoom[pl.PeriodID] == nil {
				seenRoom[pl.PeriodID] = make(map[domain.ClassroomID]domain.ClassID)
			}
			if other, ok := seenRoom[pl.PeriodID][pl.ClassroomID]; ok && other != pl.ClassID {
				return apperrors.Newf(apperrors.InternalAssertion, "room %d double-booked in period %d (classes %d and %d)", pl.ClassroomID, pl.PeriodID, other, pl.ClassID)
			}
			seenRoom[pl.PeriodID][pl.ClassroomID] = pl.ClassID
		}
	}
	return nil
}

// checkTeacherAndRoomCompetency verifies every placement's teacher
// teaches the class's subject and its room supports it.
func checkTeacherAndRoomCompetency(s *store.Store, classes []domain.Class) error {
	for _, c := range classes {
		teachers := toSet(s.TeachersOf(c.SubjectID))
		rooms := toRoomSet(s.RoomsOf(c.SubjectID))
		for _, pl := range s.PlacementsForClass(c.ID) {
			if !teachers[pl.TeacherID] {
				return apperrors.Newf(apperrors.InternalAssertion, "class %d placed with teacher %d who does not teach subject %d", c.ID, pl.TeacherID, c.SubjectID)
			}
			if !rooms[pl.ClassroomID] {
				return apperrors.Newf(apperrors.InternalAssertion, "class %d placed in room %d which does not support subject %d", c.ID, pl.ClassroomID, c.SubjectID)
			}
		}
	}
	return nil
}

// checkRequiredPeriodsCount verifies every class has exactly
// RequiredPeriods placements.
func checkRequiredPeriodsCount(s *store.Store, classes []domain.Class) error {
	for _, c := range classes {
		got := len(s.PlacementsForClass(c.ID))
		if got != c.RequiredPeriods {
			return apperrors.Newf(apperrors.InternalAssertion, "class %d has %d placements, want %d", c.ID, got, c.RequiredPeriods)
		}
	}
	return nil
}

// checkSameSetConcurrency verifies that every class within a Set occupies
// the identical set of periods as its siblings.
func checkSameSetConcurrency(s *store.Store, classes []domain.Class) error {
	bySet := make(map[domain.SetID][]domain.Class)
	for _, c := range classes {
		bySet[c.SetID] = append(bySet[c.SetID], c)
	}
	for setID, members := range bySet {
		var reference []domain.PeriodID
		for i, c := range members {
			periods := periodsOf(s, c.ID)
			if i == 0 {
				reference = periods
				continue
			}
			if !samePeriodSet(reference, periods) {
				return apperrors.Newf(apperrors.InternalAssertion, "set %d's classes do not share the same periods", setID)
			}
		}
	}
	return nil
}

// checkBandDisjointness verifies that classes sharing (year, class_number)
// across different blocks occupy disjoint periods.
func checkBandDisjointness(s *store.Store, classes []domain.Class) error {
	bySetID := make(map[domain.SetID]domain.Set)
	for _, c := range classes {
		if _, ok := bySetID[c.SetID]; !ok {
			if set, ok := s.Set(c.SetID); ok {
				bySetID[c.SetID] = set
			}
		}
	}

	type bandKey struct {
		block  domain.BlockID
		number int
	}
	periodsByBand := make(map[bandKey][]domain.PeriodID)
	for _, c := range classes {
		set := bySetID[c.SetID]
		key := bandKey{block: set.BlockID, number: c.Number}
		periodsByBand[key] = append(periodsByBand[key], periodsOf(s, c.ID)...)
	}

	byNumber := make(map[int][]bandKey)
	for k := range periodsByBand {
		byNumber[k.number] = append(byNumber[k.number], k)
	}

	for _, keys := range byNumber {
		sort.Slice(keys, func(i, j int) bool { return keys[i].block < keys[j].block })
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				if intersects(periodsByBand[keys[i]], periodsByBand[keys[j]]) {
					return apperrors.Newf(apperrors.InternalAssertion, "band %d overlaps between blocks %d and %d", keys[i].number, keys[i].block, keys[j].block)
				}
			}
		}
	}
	return nil
}

func periodsOf(s *store.Store, class domain.ClassID) []domain.PeriodID {
	placements := s.PlacementsForClass(class)
	out := make([]domain.PeriodID, len(placements))
	for i, pl := range placements {
		out[i] = pl.PeriodID
	}
	return out
}

func samePeriodSet(a, b []domain.PeriodID) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := toPeriodSet(a), toPeriodSet(b)
	for p := range as {
		if !bs[p] {
			return false
		}
	}
	return true
}

func intersects(a, b []domain.PeriodID) bool {
	as := toPeriodSet(a)
	for _, p := range b {
		if as[p] {
			return true
		}
	}
	return false
}

func toPeriodSet(periods []domain.PeriodID) map[domain.PeriodID]bool {
	out := make(map[domain.PeriodID]bool, len(periods))
	for _, p := range periods {
		out[p] = true
	}
	return out
}

func toSet(ids []domain.TeacherID) map[domain.TeacherID]bool {
	out := make(map[domain.TeacherID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func toRoomSet(ids []domain.ClassroomID) map[domain.ClassroomID]bool {
	out := make(map[domain.ClassroomID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
