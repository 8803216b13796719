package exporter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"school-timetable/internal/domain"
	"school-timetable/internal/exporter"
	"school-timetable/internal/store"
	"school-timetable/internal/timetable"
)

func TestBuildReportResolvesHumanReadableNames(t *testing.T) {
	s := store.New()
	_, err := s.AddSubject(domain.Subject{ID: 1, Code: "MAT", Name: "Maths"})
	require.NoError(t, err)
	_, err = s.AddTeacher(domain.Teacher{ID: 1, Code: "T1", Name: "A"})
	require.NoError(t, err)
	_, err = s.AddClassroom(domain.Classroom{ID: 1, Name: "R1", Capacity: 30})
	require.NoError(t, err)
	_, err = s.AddPeriod(domain.Period{ID: 1, Number: 1, Day: 1, Week: 1})
	require.NoError(t, err)
	_, err = s.AddYear(domain.Year{ID: 1, Name: "Year 9"})
	require.NoError(t, err)
	block, err := s.AddBlock(domain.Block{YearID: 1, Name: "A", Ordinal: 1})
	require.NoError(t, err)
	set, err := s.AddSet(domain.Set{BlockID: block, SubjectID: 1, YearID: 1, Number: 1, Type: domain.SetTypeCore})
	require.NoError(t, err)
	classID, err := s.AddClass(domain.Class{SetID: set, Name: "9/MAT01", Number: 1, YearID: 1, SubjectID: 1, Type: domain.SetTypeCore, RequiredPeriods: 1})
	require.NoError(t, err)

	tr := &timetable.Report{
		Status:     timetable.StatusSolved,
		Backtracks: 2,
		Assigns:    3,
		Elapsed:    5 * time.Millisecond,
		Placements: []domain.Placement{{PeriodID: 1, ClassID: classID, TeacherID: 1, ClassroomID: 1}},
	}

	report := exporter.BuildReport(s, tr, nil)
	require.Equal(t, "Solved", report.Status)
	require.Len(t, report.Placements, 1)
	require.Equal(t, "MAT", report.Placements[0].SubjectCode)
	require.Equal(t, "T1", report.Placements[0].TeacherCode)
	require.Equal(t, "R1", report.Placements[0].RoomName)
}
