package loader

import (
	"fmt"

	"school-timetable/internal/domain"
	"school-timetable/internal/store"
)

// Populate builds a fresh Store from in, in dependency order: entities
// first, then the affinity/offering tables that reference them. Following
// the teacher's staged domain builder, each stage is wrapped with its own
// error context so a failure names which stage produced it.
func Populate(in *Input) (*store.Store, error) {
	s := store.New()

	for _, y := range in.Years {
		if _, err := s.AddYear(y); err != nil {
			return nil, fmt.Errorf("loading years: %w", err)
		}
	}
	for _, sub := range in.Subjects {
		if _, err := s.AddSubject(sub); err != nil {
			return nil, fmt.Errorf("loading subjects: %w", err)
		}
	}
	for _, t := range in.Teachers {
		if _, err := s.AddTeacher(t); err != nil {
			return nil, fmt.Errorf("loading teachers: %w", err)
		}
	}
	for _, c := range in.Classrooms {
		if _, err := s.AddClassroom(c); err != nil {
			return nil, fmt.Errorf("loading classrooms: %w", err)
		}
	}
	for _, p := range in.Periods {
		if _, err := s.AddPeriod(p); err != nil {
			return nil, fmt.Errorf("loading periods: %w", err)
		}
	}
	for _, st := range in.Students {
		if _, err := s.AddStudent(st); err != nil {
			return nil, fmt.Errorf("loading students: %w", err)
		}
	}

	for _, o := range in.Offerings {
		off := domain.SubjectOffering{
			SubjectID:               o.SubjectID,
			RequiredPeriodsPerCycle: o.RequiredPeriodsPerCycle,
			IsOption:                o.IsOption,
		}
		if err := s.SetYearSubjectOffering(o.YearID, off); err != nil {
			return nil, fmt.Errorf("loading offerings: %w", err)
		}
	}
	for _, tc := range in.TeacherCompetency {
		if err := s.SetTeacherCompetency(tc.TeacherID, tc.SubjectID, tc.Weight); err != nil {
			return nil, fmt.Errorf("loading teacher competency: %w", err)
		}
	}
	for _, rc := range in.RoomCompetency {
		if err := s.SetRoomCompetency(rc.ClassroomID, rc.SubjectID, rc.Supports); err != nil {
			return nil, fmt.Errorf("loading room competency: %w", err)
		}
	}

	return s, nil
}

func idSetYears(ys []domain.Year) map[domain.YearID]bool {
	out := make(map[domain.YearID]bool, len(ys))
	for _, y := range ys {
		out[y.ID] = true
	}
	return out
}

func yearsByID(ys []domain.Year) map[domain.YearID]domain.Year {
	out := make(map[domain.YearID]domain.Year, len(ys))
	for _, y := range ys {
		out[y.ID] = y
	}
	return out
}

func idSetSubjects(ss []domain.Subject) map[domain.SubjectID]bool {
	out := make(map[domain.SubjectID]bool, len(ss))
	for _, sub := range ss {
		out[sub.ID] = true
	}
	return out
}

func idSetTeachers(ts []domain.Teacher) map[domain.TeacherID]bool {
	out := make(map[domain.TeacherID]bool, len(ts))
	for _, t := range ts {
		out[t.ID] = true
	}
	return out
}

func idSetRooms(cs []domain.Classroom) map[domain.ClassroomID]bool {
	out := make(map[domain.ClassroomID]bool, len(cs))
	for _, c := range cs {
		out[c.ID] = true
	}
	return out
}
