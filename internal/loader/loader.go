// Package loader reads a school's entity records from a single JSON input
// file and populates an internal/store.Store from them. It replaces the
// teacher's multi-file CSV/JSON university loader: the new core wants one
// flat record set (years, subjects, teachers, classrooms, students,
// periods, plus the affinity and offering tables), not a directory of
// per-entity files joined by filename convention.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"school-timetable/internal/domain"
)

// Input is the JSON document LoadFile reads: one record slice per entity
// kind, plus the relationship tables the store keeps as adjacency maps.
type Input struct {
	Years      []domain.Year      `json:"years"`
	Subjects   []domain.Subject   `json:"subjects"`
	Teachers   []domain.Teacher   `json:"teachers"`
	Classrooms []domain.Classroom `json:"classrooms"`
	Students   []domain.Student   `json:"students"`
	Periods    []domain.Period    `json:"periods"`

	Offerings         []OfferingRecord          `json:"offerings"`
	TeacherCompetency []TeacherCompetencyRecord `json:"teacher_competency"`
	RoomCompetency    []RoomCompetencyRecord    `json:"room_competency"`
}

// OfferingRecord is one (year, subject) row of domain.SubjectOffering.
type OfferingRecord struct {
	YearID                  domain.YearID    `json:"year_id"`
	SubjectID               domain.SubjectID `json:"subject_id"`
	RequiredPeriodsPerCycle int              `json:"required_periods_per_cycle"`
	IsOption                bool             `json:"is_option"`
}

// TeacherCompetencyRecord is one (teacher, subject) weight row.
type TeacherCompetencyRecord struct {
	TeacherID domain.TeacherID `json:"teacher_id"`
	SubjectID domain.SubjectID `json:"subject_id"`
	Weight    int              `json:"weight"`
}

// RoomCompetencyRecord is one (room, subject) support row.
type RoomCompetencyRecord struct {
	ClassroomID domain.ClassroomID `json:"classroom_id"`
	SubjectID   domain.SubjectID   `json:"subject_id"`
	Supports    bool               `json:"supports"`
}

// LoadFile reads and decodes path into an Input. It performs no validation
// beyond well-formed JSON; call Validate before Populate.
func LoadFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file %s: %w", path, err)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing input file %s: %w", path, err)
	}
	return &in, nil
}
