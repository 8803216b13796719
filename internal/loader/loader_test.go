package loader_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"school-timetable/internal/domain"
	"school-timetable/internal/loader"
)

func sampleInput() *loader.Input {
	return &loader.Input{
		Years:      []domain.Year{{ID: 1, Name: "Year 9", Value: 9}},
		Subjects:   []domain.Subject{{ID: 1, Code: "MAT", Name: "Maths"}},
		Teachers:   []domain.Teacher{{ID: 1, Code: "T1", Name: "A"}},
		Classrooms: []domain.Classroom{{ID: 1, Name: "R1", Capacity: 30}},
		Periods:    []domain.Period{{ID: 1, Number: 1, Day: 1, Week: 1}},
		Offerings: []loader.OfferingRecord{
			{YearID: 1, SubjectID: 1, RequiredPeriodsPerCycle: 4},
		},
		TeacherCompetency: []loader.TeacherCompetencyRecord{
			{TeacherID: 1, SubjectID: 1, Weight: 1},
		},
		RoomCompetency: []loader.RoomCompetencyRecord{
			{ClassroomID: 1, SubjectID: 1, Supports: true},
		},
	}
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	require.NoError(t, loader.Validate(sampleInput()))
}

func TestValidateRejectsUnknownReferences(t *testing.T) {
	in := sampleInput()
	in.Offerings[0].YearID = 99
	err := loader.Validate(in)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown year 99")
}

func TestValidateRejectsOptionChoiceForYearWithoutOptions(t *testing.T) {
	in := sampleInput()
	in.Students = []domain.Student{{ID: 1, YearID: 1, ChosenOptionSubjects: []domain.SubjectID{1}}}
	err := loader.Validate(in)
	require.Error(t, err)
	require.Contains(t, err.Error(), "chose option subjects but year 1 has no options")
}

func TestValidateAcceptsOptionChoiceForYearWithOptions(t *testing.T) {
	in := sampleInput()
	in.Years[0].HasOptions = true
	in.Students = []domain.Student{{ID: 1, YearID: 1, ChosenOptionSubjects: []domain.SubjectID{1}}}
	require.NoError(t, loader.Validate(in))
}

func TestValidateRejectsUnknownOptionSubject(t *testing.T) {
	in := sampleInput()
	in.Years[0].HasOptions = true
	in.Students = []domain.Student{{ID: 1, YearID: 1, ChosenOptionSubjects: []domain.SubjectID{99}}}
	err := loader.Validate(in)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown option subject 99")
}

func TestPopulateBuildsUsableStore(t *testing.T) {
	in := sampleInput()
	require.NoError(t, loader.Validate(in))

	s, err := loader.Populate(in)
	require.NoError(t, err)

	required, ok := s.RequiredPeriods(1, 1)
	require.True(t, ok)
	require.Equal(t, 4, required)
	require.Equal(t, []domain.TeacherID{1}, s.TeachersOf(1))
}
