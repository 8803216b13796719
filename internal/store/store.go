// Package store is the in-memory relational catalog described in spec.md
// §4.1: a single source of truth for years, subjects, teachers, classrooms,
// students, periods, and their many-to-many affinities, plus the Block/Set/
// Class/Placement records the curriculum builder and solver produce.
//
// Entities are plain domain.* value types; relationships are adjacency
// maps owned by the Store (design note: "pass the entity-store handle
// explicitly to every component, no process-wide state" — there is no
// package-level Store anywhere in this module).
package store

import (
	"sort"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/domain"
)

// Store is the entity catalog. The zero value is not usable; call New.
type Store struct {
	years      map[domain.YearID]domain.Year
	subjects   map[domain.SubjectID]domain.Subject
	teachers   map[domain.TeacherID]domain.Teacher
	classrooms map[domain.ClassroomID]domain.Classroom
	students   map[domain.StudentID]domain.Student
	periods    map[domain.PeriodID]domain.Period
	blocks     map[domain.BlockID]domain.Block
	sets       map[domain.SetID]domain.Set
	classes    map[domain.ClassID]domain.Class

	// placements is keyed by ClassID -> PeriodID -> Placement so invariant
	// 3 ((period,class) unique) is enforced by construction.
	placements map[domain.ClassID]map[domain.PeriodID]domain.Placement

	// many-to-many affinities
	yearSubjects    map[domain.YearID]map[domain.SubjectID]domain.SubjectOffering
	teacherSubjects map[domain.TeacherID]map[domain.SubjectID]int // value = preference weight, >0 means competent
	roomSubjects    map[domain.ClassroomID]map[domain.SubjectID]bool

	// reverse indices for (period, teacher) / (period, classroom) uniqueness,
	// invariants 1 and 2.
	teacherBusy map[domain.PeriodID]map[domain.TeacherID]domain.ClassID
	roomBusy    map[domain.PeriodID]map[domain.ClassroomID]domain.ClassID

	nextBlockID BlockIDCounter
	nextSetID   SetIDCounter
	nextClassID ClassIDCounter
}

// BlockIDCounter, SetIDCounter and ClassIDCounter are distinct named ints so
// the next-id counters can't be mixed up by accident at call sites.
type BlockIDCounter int
type SetIDCounter int
type ClassIDCounter int

// New returns an empty Store.
func New() *Store {
	return &Store{
		years:           make(map[domain.YearID]domain.Year),
		subjects:        make(map[domain.SubjectID]domain.Subject),
		teachers:        make(map[domain.TeacherID]domain.Teacher),
		classrooms:      make(map[domain.ClassroomID]domain.Classroom),
		students:        make(map[domain.StudentID]domain.Student),
		periods:         make(map[domain.PeriodID]domain.Period),
		blocks:          make(map[domain.BlockID]domain.Block),
		sets:            make(map[domain.SetID]domain.Set),
		classes:         make(map[domain.ClassID]domain.Class),
		placements:      make(map[domain.ClassID]map[domain.PeriodID]domain.Placement),
		yearSubjects:    make(map[domain.YearID]map[domain.SubjectID]domain.SubjectOffering),
		teacherSubjects: make(map[domain.TeacherID]map[domain.SubjectID]int),
		roomSubjects:    make(map[domain.ClassroomID]map[domain.SubjectID]bool),
		teacherBusy:     make(map[domain.PeriodID]map[domain.TeacherID]domain.ClassID),
		roomBusy:        make(map[domain.PeriodID]map[domain.ClassroomID]domain.ClassID),
	}
}

// --- Years ---

func (s *Store) AddYear(y domain.Year) (domain.YearID, error) {
	if _, exists := s.years[y.ID]; exists {
		return 0, apperrors.Newf(apperrors.IntegrityError, "year %d already exists", y.ID)
	}
	if y.ID == 0 {
		return 0, apperrors.New(apperrors.IntegrityError, "year id must be non-zero")
	}
	s.years[y.ID] = y
	return y.ID, nil
}

func (s *Store) Year(id domain.YearID) (domain.Year, bool) {
	y, ok := s.years[id]
	return y, ok
}

func (s *Store) Years() []domain.Year {
	out := make([]domain.Year, 0, len(s.years))
	for _, y := range s.years {
		out = append(out, y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) DeleteYear(id domain.YearID) error {
	if _, ok := s.years[id]; !ok {
		return apperrors.Newf(apperrors.IntegrityError, "year %d does not exist", id)
	}
	if err := s.DeleteCurriculumForYear(id); err != nil {
		return err
	}
	delete(s.yearSubjects, id)
	delete(s.years, id)
	return nil
}

// --- Subjects ---

func (s *Store) AddSubject(sub domain.Subject) (domain.SubjectID, error) {
	if sub.ID == 0 {
		return 0, apperrors.New(apperrors.IntegrityError, "subject id must be non-zero")
	}
	if _, exists := s.subjects[sub.ID]; exists {
		return 0, apperrors.Newf(apperrors.IntegrityError, "subject %d already exists", sub.ID)
	}
	for _, other := range s.subjects {
		if other.Code == sub.Code {
			return 0, apperrors.Newf(apperrors.IntegrityError, "subject code %q already in use", sub.Code)
		}
		if other.Name == sub.Name {
			return 0, apperrors.Newf(apperrors.IntegrityError, "subject name %q already in use", sub.Name)
		}
	}
	s.subjects[sub.ID] = sub
	return sub.ID, nil
}

func (s *Store) Subject(id domain.SubjectID) (domain.Subject, bool) {
	sub, ok := s.subjects[id]
	return sub, ok
}

func (s *Store) Subjects() []domain.Subject {
	out := make([]domain.Subject, 0, len(s.subjects))
	for _, sub := range s.subjects {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Teachers ---

func (s *Store) AddTeacher(t domain.Teacher) (domain.TeacherID, error) {
	if t.ID == 0 {
		return 0, apperrors.New(apperrors.IntegrityError, "teacher id must be non-zero")
	}
	if _, exists := s.teachers[t.ID]; exists {
		return 0, apperrors.Newf(apperrors.IntegrityError, "teacher %d already exists", t.ID)
	}
	s.teachers[t.ID] = t
	return t.ID, nil
}

func (s *Store) Teacher(id domain.TeacherID) (domain.Teacher, bool) {
	t, ok := s.teachers[id]
	return t, ok
}

func (s *Store) Teachers() []domain.Teacher {
	out := make([]domain.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Classrooms ---

func (s *Store) AddClassroom(c domain.Classroom) (domain.ClassroomID, error) {
	if c.ID == 0 {
		return 0, apperrors.New(apperrors.IntegrityError, "classroom id must be non-zero")
	}
	if _, exists := s.classrooms[c.ID]; exists {
		return 0, apperrors.Newf(apperrors.IntegrityError, "classroom %d already exists", c.ID)
	}
	s.classrooms[c.ID] = c
	return c.ID, nil
}

func (s *Store) Classroom(id domain.ClassroomID) (domain.Classroom, bool) {
	c, ok := s.classrooms[id]
	return c, ok
}

func (s *Store) Classrooms() []domain.Classroom {
	out := make([]domain.Classroom, 0, len(s.classrooms))
	for _, c := range s.classrooms {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Students ---

func (s *Store) AddStudent(st domain.Student) (domain.StudentID, error) {
	if st.ID == 0 {
		return 0, apperrors.New(apperrors.IntegrityError, "student id must be non-zero")
	}
	if _, exists := s.students[st.ID]; exists {
		return 0, apperrors.Newf(apperrors.IntegrityError, "student %d already exists", st.ID)
	}
	if _, ok := s.years[st.YearID]; !ok {
		return 0, apperrors.Newf(apperrors.IntegrityError, "student %d references unknown year %d", st.ID, st.YearID)
	}
	s.students[st.ID] = st
	return st.ID, nil
}

func (s *Store) Student(id domain.StudentID) (domain.Student, bool) {
	st, ok := s.students[id]
	return st, ok
}

// --- Periods ---

func (s *Store) AddPeriod(p domain.Period) (domain.PeriodID, error) {
	if p.ID == 0 {
		return 0, apperrors.New(apperrors.IntegrityError, "period id must be non-zero")
	}
	if _, exists := s.periods[p.ID]; exists {
		return 0, apperrors.Newf(apperrors.IntegrityError, "period %d already exists", p.ID)
	}
	s.periods[p.ID] = p
	return p.ID, nil
}

func (s *Store) Period(id domain.PeriodID) (domain.Period, bool) {
	p, ok := s.periods[id]
	return p, ok
}

func (s *Store) Periods() []domain.Period {
	out := make([]domain.Period, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
