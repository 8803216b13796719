package timetable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/config"
	"school-timetable/internal/domain"
	"school-timetable/internal/store"
	"school-timetable/internal/timetable"
)

func newYearWithPeriods(t *testing.T, s *store.Store, numPeriods int) {
	t.Helper()
	_, err := s.AddYear(domain.Year{ID: 1, Name: "Year 9", Value: 9})
	require.NoError(t, err)
	for i := 1; i <= numPeriods; i++ {
		_, err := s.AddPeriod(domain.Period{ID: domain.PeriodID(i), Number: i, Day: 1, Week: 1})
		require.NoError(t, err)
	}
}

// Scenario 1 from spec.md §8: one trivial class must land at the single
// available period with the single teacher and room.
func TestSolveTinyTrivial(t *testing.T) {
	s := store.New()
	newYearWithPeriods(t, s, 1)
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	_, err = s.AddClassroom(domain.Classroom{ID: 1, Name: "R1", Capacity: 30})
	require.NoError(t, err)
	require.NoError(t, s.SetTeacherCompetency(1, 1, 1))
	require.NoError(t, s.SetRoomCompetency(1, 1, true))

	block, err := s.AddBlock(domain.Block{YearID: 1, Name: "A", Ordinal: 1})
	require.NoError(t, err)
	set, err := s.AddSet(domain.Set{BlockID: block, SubjectID: 1, YearID: 1, Number: 1, Type: domain.SetTypeCore})
	require.NoError(t, err)
	_, err = s.AddClass(domain.Class{SetID: set, Name: "9/MAT01", Number: 1, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 1})
	require.NoError(t, err)

	solver := timetable.New(nil, nil)
	report, err := solver.Solve(context.Background(), s, 1, config.SolveConfig{EnableMCV: true, EnableFC: true, Seed: 1})
	require.NoError(t, err)
	require.Equal(t, timetable.StatusSolved, report.Status)
	require.Len(t, report.Placements, 1)
	require.Equal(t, domain.TeacherID(1), report.Placements[0].TeacherID)
	require.Equal(t, domain.ClassroomID(1), report.Placements[0].ClassroomID)
}

// Scenario 4: two classes of the same subject, one teacher, one period ->
// Unsolvable.
func TestSolveUnsolvable(t *testing.T) {
	s := store.New()
	newYearWithPeriods(t, s, 1)
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	_, err = s.AddClassroom(domain.Classroom{ID: 1, Name: "R1", Capacity: 30})
	require.NoError(t, err)
	require.NoError(t, s.SetTeacherCompetency(1, 1, 1))
	require.NoError(t, s.SetRoomCompetency(1, 1, true))

	block, err := s.AddBlock(domain.Block{YearID: 1, Name: "A", Ordinal: 1})
	require.NoError(t, err)
	set, err := s.AddSet(domain.Set{BlockID: block, SubjectID: 1, YearID: 1, Number: 1, Type: domain.SetTypeCore})
	require.NoError(t, err)
	_, err = s.AddClass(domain.Class{SetID: set, Name: "9/MAT01", Number: 1, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 1})
	require.NoError(t, err)
	_, err = s.AddClass(domain.Class{SetID: set, Name: "9/MAT02", Number: 2, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 1})
	require.NoError(t, err)

	solver := timetable.New(nil, nil)
	_, err = solver.Solve(context.Background(), s, 1, config.SolveConfig{EnableMCV: true, EnableFC: true, Seed: 1})
	require.Error(t, err)
}

// AC-3's pre-search check (spec.md §4.3: "emptying any domain pre-search
// returns Unsolvable immediately"): a class needing 2 distinct periods
// when the cycle only has 1 can never be satisfied, so EnableFC must
// reject it before the search even starts.
func TestSolveAC3RejectsImpossiblePeriodCount(t *testing.T) {
	s := store.New()
	newYearWithPeriods(t, s, 1)
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	_, err = s.AddClassroom(domain.Classroom{ID: 1, Name: "R1", Capacity: 30})
	require.NoError(t, err)
	require.NoError(t, s.SetTeacherCompetency(1, 1, 1))
	require.NoError(t, s.SetRoomCompetency(1, 1, true))

	block, err := s.AddBlock(domain.Block{YearID: 1, Name: "A", Ordinal: 1})
	require.NoError(t, err)
	set, err := s.AddSet(domain.Set{BlockID: block, SubjectID: 1, YearID: 1, Number: 1, Type: domain.SetTypeCore})
	require.NoError(t, err)
	_, err = s.AddClass(domain.Class{SetID: set, Name: "9/MAT01", Number: 1, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 2})
	require.NoError(t, err)

	solver := timetable.New(nil, nil)
	report, err := solver.Solve(context.Background(), s, 1, config.SolveConfig{EnableMCV: true, EnableFC: true, Seed: 1})
	require.Error(t, err)
	require.Equal(t, apperrors.Unsolvable, apperrors.KindOf(err))
	require.Equal(t, timetable.StatusUnsolvable, report.Status)
	require.Zero(t, report.Backtracks)
}

// Scenario 6: running the same instance twice with the same seed yields
// byte-identical placements.
func TestSolveDeterministic(t *testing.T) {
	build := func() *store.Store {
		s := store.New()
		newYearWithPeriods(t, s, 4)
		for _, code := range []string{"MAT", "ENG"} {
			subjID := domain.SubjectID(1)
			if code == "ENG" {
				subjID = 2
			}
			_, err := s.AddSubject(domain.Subject{ID: subjID, Code: code, Name: code})
			require.NoError(t, err)
		}
		for i := 1; i <= 2; i++ {
			_, err := s.AddTeacher(domain.Teacher{ID: domain.TeacherID(i), Code: "TM" + string(rune('0'+i)), Name: "M"})
			require.NoError(t, err)
			require.NoError(t, s.SetTeacherCompetency(domain.TeacherID(i), 1, 1))
		}
		for i := 3; i <= 4; i++ {
			_, err := s.AddTeacher(domain.Teacher{ID: domain.TeacherID(i), Code: "TE" + string(rune('0'+i)), Name: "E"})
			require.NoError(t, err)
			require.NoError(t, s.SetTeacherCompetency(domain.TeacherID(i), 2, 1))
		}
		for i := 1; i <= 2; i++ {
			_, err := s.AddClassroom(domain.Classroom{ID: domain.ClassroomID(i), Name: "R", Capacity: 30})
			require.NoError(t, err)
			require.NoError(t, s.SetRoomCompetency(domain.ClassroomID(i), 1, true))
			require.NoError(t, s.SetRoomCompetency(domain.ClassroomID(i), 2, true))
		}

		blockA, err := s.AddBlock(domain.Block{YearID: 1, Name: "A", Ordinal: 1})
		require.NoError(t, err)
		setA, err := s.AddSet(domain.Set{BlockID: blockA, SubjectID: 1, YearID: 1, Number: 1, Type: domain.SetTypeCore})
		require.NoError(t, err)
		for n := 1; n <= 2; n++ {
			_, err := s.AddClass(domain.Class{SetID: setA, Name: "A", Number: n, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 1})
			require.NoError(t, err)
		}

		blockB, err := s.AddBlock(domain.Block{YearID: 1, Name: "B", Ordinal: 2})
		require.NoError(t, err)
		setB, err := s.AddSet(domain.Set{BlockID: blockB, SubjectID: 2, YearID: 1, Number: 1, Type: domain.SetTypeCore})
		require.NoError(t, err)
		for n := 1; n <= 2; n++ {
			_, err := s.AddClass(domain.Class{SetID: setB, Name: "B", Number: n, YearID: 1, SubjectID: 2, Type: domain.SetTypeCore, RequiredPeriods: 1})
			require.NoError(t, err)
		}
		return s
	}

	solver := timetable.New(nil, nil)
	cfg := config.SolveConfig{EnableMCV: true, EnableFC: true, Seed: 42}

	first, err := solver.Solve(context.Background(), build(), 1, cfg)
	require.NoError(t, err)
	second, err := solver.Solve(context.Background(), build(), 1, cfg)
	require.NoError(t, err)

	require.Equal(t, first.Placements, second.Placements)

	// Band disjointness (spec.md §8 scenario 2): class number 1 in block A
	// and class number 1 in block B must occupy disjoint periods, and
	// likewise for class number 2.
	fixture := build()
	type key struct {
		subject domain.SubjectID
		number  int
	}
	periodsByBand := make(map[key]map[domain.PeriodID]bool)
	classMeta := make(map[domain.ClassID]key)
	for _, c := range fixture.ClassesOfYear(1) {
		classMeta[c.ID] = key{subject: c.SubjectID, number: c.Number}
	}
	for _, pl := range first.Placements {
		k := classMeta[pl.ClassID]
		if periodsByBand[k] == nil {
			periodsByBand[k] = make(map[domain.PeriodID]bool)
		}
		periodsByBand[k][pl.PeriodID] = true
	}
	for n := 1; n <= 2; n++ {
		matA := periodsByBand[key{subject: 1, number: n}]
		matB := periodsByBand[key{subject: 2, number: n}]
		for p := range matA {
			require.False(t, matB[p], "band %d must not share a period across blocks", n)
		}
	}
}
