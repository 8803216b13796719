package loader

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every problem found in one Input so a caller
// can fix everything at once instead of re-running per error, following
// the teacher's ValidateState pattern.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%d validation errors:\n- %s", len(v.Errors), strings.Join(v.Errors, "\n- "))
}

// Validate checks an Input for the basic existence and reference
// conditions the store's mutation methods don't themselves catch ahead of
// time (those return one IntegrityError per call; Validate front-loads all
// of them into a single report before any store call is made).
func Validate(in *Input) error {
	var errs []string

	if len(in.Years) == 0 {
		errs = append(errs, "no years defined")
	}
	if len(in.Classrooms) == 0 {
		errs = append(errs, "no classrooms defined")
	}
	if len(in.Teachers) == 0 {
		errs = append(errs, "no teachers defined")
	}

	years := idSetYears(in.Years)
	yearByID := yearsByID(in.Years)
	subjects := idSetSubjects(in.Subjects)
	teachers := idSetTeachers(in.Teachers)
	rooms := idSetRooms(in.Classrooms)

	for _, o := range in.Offerings {
		if !years[o.YearID] {
			errs = append(errs, fmt.Sprintf("offering references unknown year %d", o.YearID))
		}
		if !subjects[o.SubjectID] {
			errs = append(errs, fmt.Sprintf("offering references unknown subject %d", o.SubjectID))
		}
		if o.RequiredPeriodsPerCycle <= 0 {
			errs = append(errs, fmt.Sprintf("offering (year %d, subject %d) has non-positive required periods", o.YearID, o.SubjectID))
		}
	}

	for _, tc := range in.TeacherCompetency {
		if !teachers[tc.TeacherID] {
			errs = append(errs, fmt.Sprintf("teacher competency references unknown teacher %d", tc.TeacherID))
		}
		if !subjects[tc.SubjectID] {
			errs = append(errs, fmt.Sprintf("teacher competency references unknown subject %d", tc.SubjectID))
		}
	}

	for _, rc := range in.RoomCompetency {
		if !rooms[rc.ClassroomID] {
			errs = append(errs, fmt.Sprintf("room competency references unknown classroom %d", rc.ClassroomID))
		}
		if !subjects[rc.SubjectID] {
			errs = append(errs, fmt.Sprintf("room competency references unknown subject %d", rc.SubjectID))
		}
	}

	for _, st := range in.Students {
		if !years[st.YearID] {
			errs = append(errs, fmt.Sprintf("student %d references unknown year %d", st.ID, st.YearID))
			continue
		}
		if len(st.ChosenOptionSubjects) > 0 && !yearByID[st.YearID].HasOptions {
			errs = append(errs, fmt.Sprintf("student %d chose option subjects but year %d has no options", st.ID, st.YearID))
		}
		for _, subID := range st.ChosenOptionSubjects {
			if !subjects[subID] {
				errs = append(errs, fmt.Sprintf("student %d chose unknown option subject %d", st.ID, subID))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
