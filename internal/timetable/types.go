// Package timetable implements the domain-specific CSP specialization from
// spec §4.4: one period task per (set, meeting ordinal) plus one
// teacher/room task per class meeting, searched in three nested stages
// (period, then teacher, then room) instead of a single flat
// domain of (period, teacher, room) triples, which would be
// |P|*|T|*|R| per variable. internal/csp's generic Problem/Search shape
// does not fit this staged decomposition directly — a meeting task's
// domain depends on its set's period task being fixed first, which the
// generic engine has no notion of — so MCV, forward checking and the
// AC-3 pre-check are reimplemented here against the task list directly:
// selectNext (MCV), forwardCheckOK and ac3PreCheck (candidates.go,
// solver.go).
package timetable

import (
	"time"

	"school-timetable/internal/domain"
)

// Status mirrors the terminal solver statuses from spec §6.
type Status string

const (
	StatusSolved     Status = "Solved"
	StatusUnsolvable Status = "Unsolvable"
	StatusTimeout    Status = "Timeout"
	StatusCancelled  Status = "Cancelled"
)

// Report is the solver report described in §4.5/§6: final or best-effort
// partial placements plus search counters.
type Report struct {
	Status     Status
	Backtracks int
	Assigns    int
	Elapsed    time.Duration
	Placements []domain.Placement
}

// SolverObserver receives progress notifications during a solve, replacing
// the source's print-in-recursion pattern (design notes §9).
type SolverObserver interface {
	OnProgress(assignedTasks, totalTasks, backtracks int)
	OnDecision(set domain.SetID, accepted bool)
}

// NopObserver discards every notification.
type NopObserver struct{}

func (NopObserver) OnProgress(assignedTasks, totalTasks, backtracks int) {}
func (NopObserver) OnDecision(set domain.SetID, accepted bool)           {}
