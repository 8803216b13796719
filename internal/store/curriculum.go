package store

import (
	"sort"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/domain"
)

// AddBlock allocates the next BlockID and stores b under it. Callers never
// choose BlockIDs themselves; AddBlock discards any ID set on the argument.
func (s *Store) AddBlock(b domain.Block) (domain.BlockID, error) {
	if _, ok := s.years[b.YearID]; !ok {
		return 0, apperrors.Newf(apperrors.IntegrityError, "block references unknown year %d", b.YearID)
	}
	s.nextBlockID++
	b.ID = domain.BlockID(s.nextBlockID)
	s.blocks[b.ID] = b
	return b.ID, nil
}

func (s *Store) Block(id domain.BlockID) (domain.Block, bool) {
	b, ok := s.blocks[id]
	return b, ok
}

// BlocksOfYear returns a year's blocks ordered by Ordinal.
func (s *Store) BlocksOfYear(year domain.YearID) []domain.Block {
	var out []domain.Block
	for _, b := range s.blocks {
		if b.YearID == year {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

// AddSet allocates the next SetID and stores the Set under it.
func (s *Store) AddSet(set domain.Set) (domain.SetID, error) {
	if _, ok := s.blocks[set.BlockID]; !ok {
		return 0, apperrors.Newf(apperrors.IntegrityError, "set references unknown block %d", set.BlockID)
	}
	if _, ok := s.subjects[set.SubjectID]; !ok {
		return 0, apperrors.Newf(apperrors.IntegrityError, "set references unknown subject %d", set.SubjectID)
	}
	s.nextSetID++
	set.ID = domain.SetID(s.nextSetID)
	s.sets[set.ID] = set
	return set.ID, nil
}

func (s *Store) Set(id domain.SetID) (domain.Set, bool) {
	set, ok := s.sets[id]
	return set, ok
}

// SetsOfBlock returns a block's sets ordered by Number.
func (s *Store) SetsOfBlock(block domain.BlockID) []domain.Set {
	var out []domain.Set
	for _, set := range s.sets {
		if set.BlockID == block {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// AddClass allocates the next ClassID and stores the Class under it.
func (s *Store) AddClass(c domain.Class) (domain.ClassID, error) {
	if _, ok := s.sets[c.SetID]; !ok {
		return 0, apperrors.Newf(apperrors.IntegrityError, "class references unknown set %d", c.SetID)
	}
	if c.RequiredPeriods <= 0 {
		return 0, apperrors.Newf(apperrors.IntegrityError, "class %q requires a positive RequiredPeriods", c.Name)
	}
	s.nextClassID++
	c.ID = domain.ClassID(s.nextClassID)
	s.classes[c.ID] = c
	s.placements[c.ID] = make(map[domain.PeriodID]domain.Placement)
	return c.ID, nil
}

func (s *Store) Class(id domain.ClassID) (domain.Class, bool) {
	c, ok := s.classes[id]
	return c, ok
}

// ClassesOfSet returns a set's classes ordered by Number.
func (s *Store) ClassesOfSet(set domain.SetID) []domain.Class {
	var out []domain.Class
	for _, c := range s.classes {
		if c.SetID == set {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ClassesOfYear returns every class belonging to a year, ordered by ID.
func (s *Store) ClassesOfYear(year domain.YearID) []domain.Class {
	var out []domain.Class
	for _, c := range s.classes {
		if c.YearID == year {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteCurriculumForYear cascades: every Placement, Class, Set and Block
// belonging to the year is removed. The curriculum builder calls this
// before re-running for a year (§4.2's "cascade delete on re-run").
func (s *Store) DeleteCurriculumForYear(year domain.YearID) error {
	for _, c := range s.ClassesOfYear(year) {
		delete(s.placements, c.ID)
		delete(s.classes, c.ID)
	}
	for _, b := range s.BlocksOfYear(year) {
		for _, set := range s.SetsOfBlock(b.ID) {
			delete(s.sets, set.ID)
		}
		delete(s.blocks, b.ID)
	}
	// Any placement whose teacher/room busy-index entry pointed at a
	// now-deleted class is stale; rebuild the reverse indices rather than
	// hunting for the exact keys touched.
	s.rebuildBusyIndices()
	return nil
}

func (s *Store) rebuildBusyIndices() {
	s.teacherBusy = make(map[domain.PeriodID]map[domain.TeacherID]domain.ClassID)
	s.roomBusy = make(map[domain.PeriodID]map[domain.ClassroomID]domain.ClassID)
	for classID, byPeriod := range s.placements {
		for periodID, pl := range byPeriod {
			s.indexPlacement(classID, periodID, pl)
		}
	}
}
