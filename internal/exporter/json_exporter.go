// Package exporter writes a solve's output to JSON, adapted from the
// teacher's per-activity schedule export into a per-placement report
// matching spec §4.5/§6's solver report shape.
package exporter

import (
	"encoding/json"
	"os"
	"sort"

	"school-timetable/internal/domain"
	"school-timetable/internal/store"
	"school-timetable/internal/timetable"
)

// Report is the JSON document written for one solve.
type Report struct {
	RunID      string           `json:"run_id,omitempty"`
	Status     string           `json:"status"`
	Backtracks int              `json:"backtracks"`
	Assigns    int              `json:"assigns"`
	ElapsedMS  int64            `json:"elapsed_ms"`
	Placements []PlacementEntry `json:"placements"`
	ErrorLog   []string         `json:"error_log,omitempty"`
}

// PlacementEntry is one denormalized placement row: the store entity
// codes/names rather than raw ids, matching the teacher's preference for
// human-readable exports over bare foreign keys.
type PlacementEntry struct {
	Period      int    `json:"period"`
	Day         int    `json:"day"`
	Week        int    `json:"week"`
	ClassName   string `json:"class"`
	SubjectCode string `json:"subject_code"`
	TeacherCode string `json:"teacher_code"`
	RoomName    string `json:"room_name"`
}

// BuildReport assembles a Report from a solver Report and the store used
// to resolve human-readable names.
func BuildReport(s *store.Store, tr *timetable.Report, errorLog []string) Report {
	out := Report{
		Status:     string(tr.Status),
		Backtracks: tr.Backtracks,
		Assigns:    tr.Assigns,
		ElapsedMS:  tr.Elapsed.Milliseconds(),
		ErrorLog:   errorLog,
	}

	entries := make([]PlacementEntry, 0, len(tr.Placements))
	for _, pl := range tr.Placements {
		entries = append(entries, placementEntry(s, pl))
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Week != entries[j].Week {
			return entries[i].Week < entries[j].Week
		}
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return entries[i].Period < entries[j].Period
	})
	out.Placements = entries
	return out
}

func placementEntry(s *store.Store, pl domain.Placement) PlacementEntry {
	entry := PlacementEntry{}
	if p, ok := s.Period(pl.PeriodID); ok {
		entry.Period, entry.Day, entry.Week = p.Number, p.Day, p.Week
	}
	if c, ok := s.Class(pl.ClassID); ok {
		entry.ClassName = c.Name
		if sub, ok := s.Subject(c.SubjectID); ok {
			entry.SubjectCode = sub.Code
		}
	}
	if t, ok := s.Teacher(pl.TeacherID); ok {
		entry.TeacherCode = t.Code
	}
	if r, ok := s.Classroom(pl.ClassroomID); ok {
		entry.RoomName = r.Name
	}
	return entry
}

// WriteJSON marshals report and writes it to filename.
func WriteJSON(report Report, filename string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
