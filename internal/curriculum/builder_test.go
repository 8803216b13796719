package curriculum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"school-timetable/internal/curriculum"
	"school-timetable/internal/domain"
	"school-timetable/internal/store"
)

func baseStore(t *testing.T, numStudents, roomCapacity int) *store.Store {
	t.Helper()
	s := store.New()
	_, err := s.AddYear(domain.Year{ID: 1, Name: "Year 9", Value: 9})
	require.NoError(t, err)
	_, err = s.AddClassroom(domain.Classroom{ID: 1, Name: "R1", Capacity: roomCapacity})
	require.NoError(t, err)
	for i := 1; i <= numStudents; i++ {
		_, err := s.AddStudent(domain.Student{ID: domain.StudentID(i), YearID: 1})
		require.NoError(t, err)
	}
	return s
}

// Scenario 3 from spec.md §8: 1 subject, 4 classes needed, 2 teachers ->
// expect 2 sets of 2 classes each.
func TestBuildSplitsIntoSetsByTeacherScarcity(t *testing.T) {
	s := baseStore(t, 4, 1)
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 2, Code: "T2", Name: "B"})
	require.NoError(t, err)
	require.NoError(t, s.SetTeacherCompetency(1, 1, 1))
	require.NoError(t, s.SetTeacherCompetency(2, 1, 1))
	require.NoError(t, s.SetYearSubjectOffering(1, domain.SubjectOffering{SubjectID: 1, RequiredPeriodsPerCycle: 3}))

	b := curriculum.New(nil)
	res, err := b.Build(s, 1)
	require.NoError(t, err)
	require.Equal(t, 4, res.ClassesBuilt)

	blocks := s.BlocksOfYear(1)
	require.Len(t, blocks, 1)
	sets := s.SetsOfBlock(blocks[0].ID)
	require.Len(t, sets, 2)
	for _, set := range sets {
		require.Len(t, s.ClassesOfSet(set.ID), 2)
	}
}

func TestBuildSkipsSubjectWithNoTeachers(t *testing.T) {
	s := baseStore(t, 4, 1)
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	require.NoError(t, s.SetYearSubjectOffering(1, domain.SubjectOffering{SubjectID: 1, RequiredPeriodsPerCycle: 3}))

	b := curriculum.New(nil)
	res, err := b.Build(s, 1)
	require.NoError(t, err)
	require.Equal(t, 0, res.ClassesBuilt)
	require.Equal(t, []domain.SubjectID{1}, res.SkippedSubjects)
}

func TestBuildIsIdempotent(t *testing.T) {
	s := baseStore(t, 4, 1)
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	require.NoError(t, s.SetTeacherCompetency(1, 1, 1))
	require.NoError(t, s.SetYearSubjectOffering(1, domain.SubjectOffering{SubjectID: 1, RequiredPeriodsPerCycle: 3}))

	b := curriculum.New(nil)
	first, err := b.Build(s, 1)
	require.NoError(t, err)
	second, err := b.Build(s, 1)
	require.NoError(t, err)

	require.Equal(t, first.ClassesBuilt, second.ClassesBuilt)
	firstClasses := s.ClassesOfYear(1)
	require.Len(t, firstClasses, second.ClassesBuilt)
}

func TestBuildRejectsYearWithNoRooms(t *testing.T) {
	s := store.New()
	_, err := s.AddYear(domain.Year{ID: 1, Name: "Year 9", Value: 9})
	require.NoError(t, err)

	b := curriculum.New(nil)
	_, err = b.Build(s, 1)
	require.Error(t, err)
}
