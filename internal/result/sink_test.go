package result_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"school-timetable/internal/domain"
	"school-timetable/internal/result"
	"school-timetable/internal/store"
)

func fixtureWithOneClass(t *testing.T) (*store.Store, domain.ClassID) {
	t.Helper()
	s := store.New()
	_, err := s.AddYear(domain.Year{ID: 1, Name: "Year 9", Value: 9})
	require.NoError(t, err)
	_, err = s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	_, err = s.AddClassroom(domain.Classroom{ID: 1, Name: "R1", Capacity: 30})
	require.NoError(t, err)
	_, err = s.AddPeriod(domain.Period{ID: 1, Number: 1, Day: 1, Week: 1})
	require.NoError(t, err)
	require.NoError(t, s.SetTeacherCompetency(1, 1, 1))
	require.NoError(t, s.SetRoomCompetency(1, 1, true))

	block, err := s.AddBlock(domain.Block{YearID: 1, Name: "A", Ordinal: 1})
	require.NoError(t, err)
	set, err := s.AddSet(domain.Set{BlockID: block, SubjectID: 1, YearID: 1, Number: 1, Type: domain.SetTypeCore})
	require.NoError(t, err)
	classID, err := s.AddClass(domain.Class{SetID: set, Name: "9/MAT01", Number: 1, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 1})
	require.NoError(t, err)

	return s, classID
}

func TestSinkWritesValidBatch(t *testing.T) {
	s, classID := fixtureWithOneClass(t)
	sink := result.New(nil)

	err := sink.Write(s, 1, []domain.Placement{{PeriodID: 1, ClassID: classID, TeacherID: 1, ClassroomID: 1}})
	require.NoError(t, err)
	require.Len(t, s.PlacementsForClass(classID), 1)
}

func TestSinkRollsBackOnIncompletePlacements(t *testing.T) {
	s, _ := fixtureWithOneClass(t)
	sink := result.New(nil)

	// No placements at all for a class that requires one: invariant 5
	// (exactly RequiredPeriods placements) is violated.
	err := sink.Write(s, 1, nil)
	require.Error(t, err)
	require.Empty(t, s.AllPlacements())
}

func TestValidatePassesOnEmptyYear(t *testing.T) {
	s := store.New()
	_, err := s.AddYear(domain.Year{ID: 1, Name: "Year 9", Value: 9})
	require.NoError(t, err)
	require.NoError(t, result.Validate(s, 1))
}
