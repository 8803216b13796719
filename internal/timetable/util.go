package timetable

import (
	"sort"

	"school-timetable/internal/domain"
)

func sortPlacements(placements []domain.Placement) {
	sort.Slice(placements, func(i, j int) bool {
		if placements[i].PeriodID != placements[j].PeriodID {
			return placements[i].PeriodID < placements[j].PeriodID
		}
		return placements[i].ClassID < placements[j].ClassID
	})
}
