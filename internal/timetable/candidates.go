package timetable

import "school-timetable/internal/domain"

// candidatesFor enumerates the legal choices for a task given the current
// search state. For a period task this is every period not yet used by
// the set and not claimed by band-disjointness; for a meeting task it is
// every (teacher, room) pair the subject supports that is free in the
// already-fixed period and under the teacher's load cap.
func (sv *solver) candidatesFor(ti int) []choice {
	t := sv.tasks[ti]
	sp := sv.sets[t.setIdx]

	if t.kind == taskPeriod {
		var out []choice
		for _, p := range sv.periods {
			if sv.periodAllowedForSet(sp, p) {
				out = append(out, choice{period: p})
			}
		}
		return out
	}

	period := sv.setPeriods[sp.set.ID][t.ordinal-1]
	var out []choice
	for _, teacher := range sv.s.TeachersOf(sp.set.SubjectID) {
		if sv.teacherBusy[period][teacher] {
			continue
		}
		if sv.teacherAtCap(teacher) {
			continue
		}
		for _, room := range sv.s.RoomsOf(sp.set.SubjectID) {
			if sv.roomBusy[period][room] {
				continue
			}
			out = append(out, choice{period: period, teacher: teacher, room: room})
		}
	}
	return out
}

// teacherAtCap reports whether teacher has reached the TeacherCap limit
// for this solve: the more restrictive of the global cfg.TeacherMaxLoad
// and the teacher's own domain.Teacher.MaxContactPeriods, either of which
// 0 means unlimited.
func (sv *solver) teacherAtCap(teacher domain.TeacherID) bool {
	limit := sv.cfg.TeacherMaxLoad
	if t, ok := sv.s.Teacher(teacher); ok && t.MaxContactPeriods > 0 {
		if limit == 0 || t.MaxContactPeriods < limit {
			limit = t.MaxContactPeriods
		}
	}
	return limit > 0 && sv.teacherLoad[teacher] >= limit
}

// periodAllowedForSet reports whether p is free to be this set's next
// meeting: not already used by the set itself (RequiredPeriods
// distinctness) and not claimed by band-disjointness (BandDisjoint) for
// any band number the set's classes carry.
func (sv *solver) periodAllowedForSet(sp setPlan, p domain.PeriodID) bool {
	for _, used := range sv.setPeriods[sp.set.ID] {
		if used == p {
			return false
		}
	}
	for _, c := range sp.classes {
		if sv.bandUsed[c.Number][p] {
			return false
		}
	}
	return true
}

// apply commits choice c to task ti and returns an undo closure. The bool
// result is always true for taskPeriod (candidatesFor already filtered
// out illegal periods) and for taskMeeting (same reasoning); it mirrors
// the csp package's apply-or-skip shape for symmetry.
func (sv *solver) apply(ti int, c choice) (func(), bool) {
	t := sv.tasks[ti]
	sp := sv.sets[t.setIdx]

	if t.kind == taskPeriod {
		sv.setPeriods[sp.set.ID] = append(sv.setPeriods[sp.set.ID], c.period)
		sv.claimBands(sp, c.period)

		return func() {
			sv.releaseBands(sp, c.period)
			periods := sv.setPeriods[sp.set.ID]
			sv.setPeriods[sp.set.ID] = periods[:len(periods)-1]
		}, true
	}

	class := sp.classes[t.classIdx]
	sv.markTeacherRoomBusy(c.period, c.teacher, c.room, true)
	sv.teacherLoad[c.teacher]++
	if _, ok := sv.placements[class.ID]; !ok {
		sv.placements[class.ID] = make(map[int]domain.Placement)
	}
	sv.placements[class.ID][t.ordinal] = domain.Placement{
		PeriodID:    c.period,
		ClassID:     class.ID,
		TeacherID:   c.teacher,
		ClassroomID: c.room,
	}

	return func() {
		delete(sv.placements[class.ID], t.ordinal)
		sv.teacherLoad[c.teacher]--
		sv.markTeacherRoomBusy(c.period, c.teacher, c.room, false)
	}, true
}

func (sv *solver) markTeacherRoomBusy(p domain.PeriodID, t domain.TeacherID, r domain.ClassroomID, busy bool) {
	if sv.teacherBusy[p] == nil {
		sv.teacherBusy[p] = make(map[domain.TeacherID]bool)
	}
	if sv.roomBusy[p] == nil {
		sv.roomBusy[p] = make(map[domain.ClassroomID]bool)
	}
	if busy {
		sv.teacherBusy[p][t] = true
		sv.roomBusy[p][r] = true
	} else {
		delete(sv.teacherBusy[p], t)
		delete(sv.roomBusy[p], r)
	}
}

// claimBands records period p as taken for every band number the set's
// classes carry. Called as soon as each of the set's period tasks is
// fixed, so no other set sharing a band can pick p meanwhile.
func (sv *solver) claimBands(sp setPlan, p domain.PeriodID) {
	for _, c := range sp.classes {
		if sv.bandUsed[c.Number] == nil {
			sv.bandUsed[c.Number] = make(map[domain.PeriodID]bool)
		}
		sv.bandUsed[c.Number][p] = true
	}
}

func (sv *solver) releaseBands(sp setPlan, p domain.PeriodID) {
	for _, c := range sp.classes {
		delete(sv.bandUsed[c.Number], p)
	}
}

// forwardCheckOK reports whether, after committing the choice at task
// justAssigned, every other task that is now ready (its dependency, if
// any, is already assigned) still has at least one legal candidate. A
// task whose dependency isn't assigned yet is skipped: its candidates
// aren't even well-defined until then, so it carries no information one
// step ahead. This is the one-ply domain-wipeout check forward checking
// adds over plain backtracking: a dead end immediately behind ti is
// caught here instead of only once the search walks into it.
func (sv *solver) forwardCheckOK(justAssigned int) bool {
	for i, t := range sv.tasks {
		if i == justAssigned || sv.assignedMask[i] {
			continue
		}
		if t.dependsOn != -1 && !sv.assignedMask[t.dependsOn] {
			continue
		}
		if len(sv.candidatesFor(i)) == 0 {
			return false
		}
	}
	return true
}

// collectPlacements flattens sv.placements into a slice, sorted by
// (period, class) for determinism.
func (sv *solver) collectPlacements() []domain.Placement {
	var out []domain.Placement
	for _, byOrdinal := range sv.placements {
		for _, pl := range byOrdinal {
			out = append(out, pl)
		}
	}
	sortPlacements(out)
	return out
}
