package store

import "school-timetable/internal/domain"

// Clone returns a deep copy of the store: later changes to the copy never
// show in the original, and the reverse. The solver does not call it;
// timetable.Solve only reads the store it is given.
func (s *Store) Clone() *Store {
	out := New()

	for id, y := range s.years {
		out.years[id] = y
	}
	for id, sub := range s.subjects {
		out.subjects[id] = sub
	}
	for id, t := range s.teachers {
		out.teachers[id] = t
	}
	for id, c := range s.classrooms {
		out.classrooms[id] = c
	}
	for id, st := range s.students {
		cp := st
		cp.ChosenOptionSubjects = append([]domain.SubjectID(nil), st.ChosenOptionSubjects...)
		out.students[id] = cp
	}
	for id, p := range s.periods {
		out.periods[id] = p
	}
	for id, b := range s.blocks {
		out.blocks[id] = b
	}
	for id, set := range s.sets {
		out.sets[id] = set
	}
	for id, c := range s.classes {
		out.classes[id] = c
	}

	for year, bySubject := range s.yearSubjects {
		cp := make(map[domain.SubjectID]domain.SubjectOffering, len(bySubject))
		for k, v := range bySubject {
			cp[k] = v
		}
		out.yearSubjects[year] = cp
	}
	for teacher, bySubject := range s.teacherSubjects {
		cp := make(map[domain.SubjectID]int, len(bySubject))
		for k, v := range bySubject {
			cp[k] = v
		}
		out.teacherSubjects[teacher] = cp
	}
	for room, bySubject := range s.roomSubjects {
		cp := make(map[domain.SubjectID]bool, len(bySubject))
		for k, v := range bySubject {
			cp[k] = v
		}
		out.roomSubjects[room] = cp
	}

	for classID, byPeriod := range s.placements {
		cp := make(map[domain.PeriodID]domain.Placement, len(byPeriod))
		for k, v := range byPeriod {
			cp[k] = v
		}
		out.placements[classID] = cp
	}
	for period, byTeacher := range s.teacherBusy {
		cp := make(map[domain.TeacherID]domain.ClassID, len(byTeacher))
		for k, v := range byTeacher {
			cp[k] = v
		}
		out.teacherBusy[period] = cp
	}
	for period, byRoom := range s.roomBusy {
		cp := make(map[domain.ClassroomID]domain.ClassID, len(byRoom))
		for k, v := range byRoom {
			cp[k] = v
		}
		out.roomBusy[period] = cp
	}

	out.nextBlockID = s.nextBlockID
	out.nextSetID = s.nextSetID
	out.nextClassID = s.nextClassID

	return out
}
