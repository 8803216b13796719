package store

import (
	"sort"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/domain"
)

// indexPlacement records pl in the teacher/room busy reverse indices. It
// does not check for conflicts; callers must validate first.
func (s *Store) indexPlacement(classID domain.ClassID, periodID domain.PeriodID, pl domain.Placement) {
	byTeacher, ok := s.teacherBusy[periodID]
	if !ok {
		byTeacher = make(map[domain.TeacherID]domain.ClassID)
		s.teacherBusy[periodID] = byTeacher
	}
	byTeacher[pl.TeacherID] = classID

	byRoom, ok := s.roomBusy[periodID]
	if !ok {
		byRoom = make(map[domain.ClassroomID]domain.ClassID)
		s.roomBusy[periodID] = byRoom
	}
	byRoom[pl.ClassroomID] = classID
}

func (s *Store) unindexPlacement(periodID domain.PeriodID, pl domain.Placement) {
	if byTeacher, ok := s.teacherBusy[periodID]; ok {
		delete(byTeacher, pl.TeacherID)
	}
	if byRoom, ok := s.roomBusy[periodID]; ok {
		delete(byRoom, pl.ClassroomID)
	}
}

// AddPlacement inserts pl, enforcing invariants 1 (no teacher double-
// booked), 2 (no room double-booked) and 3 ((period, class) unique) by
// construction. A violation returns an IntegrityError and leaves the store
// unchanged.
func (s *Store) AddPlacement(pl domain.Placement) error {
	if _, ok := s.classes[pl.ClassID]; !ok {
		return apperrors.Newf(apperrors.IntegrityError, "placement references unknown class %d", pl.ClassID)
	}
	if _, ok := s.periods[pl.PeriodID]; !ok {
		return apperrors.Newf(apperrors.IntegrityError, "placement references unknown period %d", pl.PeriodID)
	}
	if _, ok := s.teachers[pl.TeacherID]; !ok {
		return apperrors.Newf(apperrors.IntegrityError, "placement references unknown teacher %d", pl.TeacherID)
	}
	if _, ok := s.classrooms[pl.ClassroomID]; !ok {
		return apperrors.Newf(apperrors.IntegrityError, "placement references unknown classroom %d", pl.ClassroomID)
	}

	byPeriod := s.placements[pl.ClassID]
	if _, exists := byPeriod[pl.PeriodID]; exists {
		return apperrors.Newf(apperrors.IntegrityError, "class %d already has a placement in period %d", pl.ClassID, pl.PeriodID)
	}
	if occupant, busy := s.teacherBusy[pl.PeriodID][pl.TeacherID]; busy {
		return apperrors.Newf(apperrors.IntegrityError, "teacher %d already teaches class %d in period %d", pl.TeacherID, occupant, pl.PeriodID)
	}
	if occupant, busy := s.roomBusy[pl.PeriodID][pl.ClassroomID]; busy {
		return apperrors.Newf(apperrors.IntegrityError, "classroom %d already hosts class %d in period %d", pl.ClassroomID, occupant, pl.PeriodID)
	}

	byPeriod[pl.PeriodID] = pl
	s.indexPlacement(pl.ClassID, pl.PeriodID, pl)
	return nil
}

// RemovePlacement deletes the placement for (class, period), if any. Used
// by the result sink on rollback.
func (s *Store) RemovePlacement(class domain.ClassID, period domain.PeriodID) {
	byPeriod, ok := s.placements[class]
	if !ok {
		return
	}
	pl, ok := byPeriod[period]
	if !ok {
		return
	}
	delete(byPeriod, period)
	s.unindexPlacement(period, pl)
}

// PlacementsForClass returns every placement of a class, ordered by
// PeriodID.
func (s *Store) PlacementsForClass(class domain.ClassID) []domain.Placement {
	byPeriod := s.placements[class]
	out := make([]domain.Placement, 0, len(byPeriod))
	for _, pl := range byPeriod {
		out = append(out, pl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodID < out[j].PeriodID })
	return out
}

// AllPlacements returns every placement in the store, ordered by
// (PeriodID, ClassID) for deterministic iteration.
func (s *Store) AllPlacements() []domain.Placement {
	var out []domain.Placement
	for _, byPeriod := range s.placements {
		for _, pl := range byPeriod {
			out = append(out, pl)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodID != out[j].PeriodID {
			return out[i].PeriodID < out[j].PeriodID
		}
		return out[i].ClassID < out[j].ClassID
	})
	return out
}

// TeacherBusyAt reports whether a teacher already has a placement in a
// period, and which class it belongs to.
func (s *Store) TeacherBusyAt(period domain.PeriodID, teacher domain.TeacherID) (domain.ClassID, bool) {
	classID, busy := s.teacherBusy[period][teacher]
	return classID, busy
}

// RoomBusyAt reports whether a classroom already has a placement in a
// period, and which class it belongs to.
func (s *Store) RoomBusyAt(period domain.PeriodID, room domain.ClassroomID) (domain.ClassID, bool) {
	classID, busy := s.roomBusy[period][room]
	return classID, busy
}

// PlacementView is a denormalized placement row for reporting and
// student/teacher/room timetable queries.
type PlacementView struct {
	PeriodID    domain.PeriodID
	SubjectCode string
	TeacherCode string
	RoomName    string
	ClassName   string
}

func (s *Store) view(pl domain.Placement) PlacementView {
	v := PlacementView{PeriodID: pl.PeriodID}
	if c, ok := s.classes[pl.ClassID]; ok {
		v.ClassName = c.Name
		if sub, ok := s.subjects[c.SubjectID]; ok {
			v.SubjectCode = sub.Code
		}
	}
	if t, ok := s.teachers[pl.TeacherID]; ok {
		v.TeacherCode = t.Code
	}
	if r, ok := s.classrooms[pl.ClassroomID]; ok {
		v.RoomName = r.Name
	}
	return v
}

// PlacementsForTeacher returns a teacher's full timetable, ordered by
// PeriodID.
func (s *Store) PlacementsForTeacher(teacher domain.TeacherID) []PlacementView {
	var out []PlacementView
	for _, pl := range s.AllPlacements() {
		if pl.TeacherID == teacher {
			out = append(out, s.view(pl))
		}
	}
	return out
}

// PlacementsForRoom returns a classroom's full timetable, ordered by
// PeriodID.
func (s *Store) PlacementsForRoom(room domain.ClassroomID) []PlacementView {
	var out []PlacementView
	for _, pl := range s.AllPlacements() {
		if pl.ClassroomID == room {
			out = append(out, s.view(pl))
		}
	}
	return out
}

// PlacementsForStudent returns the timetable of every class a student is
// enrolled in: every core class of their year, plus the option classes
// matching their ChosenOptionSubjects.
func (s *Store) PlacementsForStudent(student domain.StudentID) []PlacementView {
	st, ok := s.students[student]
	if !ok {
		return nil
	}
	chosen := make(map[domain.SubjectID]bool, len(st.ChosenOptionSubjects))
	for _, subj := range st.ChosenOptionSubjects {
		chosen[subj] = true
	}

	var out []PlacementView
	for _, c := range s.ClassesOfYear(st.YearID) {
		if c.Type == domain.SetTypeOption && !chosen[c.SubjectID] {
			continue
		}
		for _, pl := range s.PlacementsForClass(c.ID) {
			out = append(out, s.view(pl))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodID < out[j].PeriodID })
	return out
}
