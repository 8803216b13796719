package timetable

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/applog"
	"school-timetable/internal/config"
	"school-timetable/internal/domain"
	"school-timetable/internal/metrics"
	"school-timetable/internal/store"
)

// Solver runs the staged timetable CSP search of spec §4.4 against a
// read-only store snapshot.
type Solver struct {
	log      *applog.Logger
	observer SolverObserver
}

// New returns a Solver. A nil log or observer is replaced with a no-op.
func New(log *applog.Logger, observer SolverObserver) *Solver {
	if log == nil {
		log = applog.Nop()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Solver{log: log, observer: observer}
}

// setPlan is one Set's solve-time working data: its classes in band
// order and how many periods each meeting needs.
type setPlan struct {
	set             domain.Set
	classes         []domain.Class
	requiredPeriods int
}

// taskKind distinguishes the two stages of §4.4's nested search.
type taskKind int

const (
	taskPeriod taskKind = iota
	taskMeeting
)

// task is one search variable: either "pick the period for this set's
// k-th meeting" (shared by every class in the set, enforcing SameSet) or
// "pick the teacher and room for this class's k-th meeting" (the period
// for that meeting was already fixed by the set's period task).
type task struct {
	kind      taskKind
	setIdx    int // index into solver.sets
	ordinal   int // 1-based
	classIdx  int // index into sets[setIdx].classes, meaningful for taskMeeting
	dependsOn int // index of the task that must be assigned first, or -1
}

// choice is a candidate value for a task: a period for taskPeriod, or a
// (teacher, room) pair for taskMeeting.
type choice struct {
	period  domain.PeriodID
	teacher domain.TeacherID
	room    domain.ClassroomID
}

type solver struct {
	s        *store.Store
	cfg      config.SolveConfig
	sets     []setPlan
	tasks    []task
	periods  []domain.PeriodID
	rng      *rand.Rand
	observer SolverObserver

	setPeriods  map[domain.SetID][]domain.PeriodID
	teacherBusy map[domain.PeriodID]map[domain.TeacherID]bool
	roomBusy    map[domain.PeriodID]map[domain.ClassroomID]bool
	teacherLoad map[domain.TeacherID]int
	bandUsed    map[int]map[domain.PeriodID]bool
	placements  map[domain.ClassID]map[int]domain.Placement // classID -> ordinal -> placement

	assignedMask []bool
	backtracks   int
	assigns      int
}

// Solve runs a solve for one year. The store is read only; placements are
// returned for internal/result to write in a single batch.
func (solv *Solver) Solve(ctx context.Context, s *store.Store, year domain.YearID, cfg config.SolveConfig) (*Report, error) {
	start := time.Now()

	sets, err := buildSetPlans(s, year)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return &Report{Status: StatusSolved}, nil
	}

	sv := &solver{
		s:           s,
		cfg:         cfg,
		sets:        sets,
		periods:     periodIDs(s),
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		observer:    solv.observer,
		setPeriods:  make(map[domain.SetID][]domain.PeriodID),
		teacherBusy: make(map[domain.PeriodID]map[domain.TeacherID]bool),
		roomBusy:    make(map[domain.PeriodID]map[domain.ClassroomID]bool),
		teacherLoad: make(map[domain.TeacherID]int),
		bandUsed:    make(map[int]map[domain.PeriodID]bool),
		placements:  make(map[domain.ClassID]map[int]domain.Placement),
	}
	sv.tasks = buildTasks(sets)
	sv.assignedMask = make([]bool, len(sv.tasks))

	if len(sv.periods) == 0 {
		return nil, apperrors.New(apperrors.ConfigurationError, "no periods defined for this cycle")
	}

	if cfg.EnableFC && !sv.ac3PreCheck() {
		report := &Report{Status: StatusUnsolvable, Elapsed: time.Since(start)}
		metrics.SolverRuns.WithLabelValues("unsolvable").Inc()
		return report, apperrors.New(apperrors.Unsolvable, "arc consistency check found an empty domain before search began")
	}

	ok, status := sv.run(ctx)
	report := &Report{
		Backtracks: sv.backtracks,
		Assigns:    sv.assigns,
		Elapsed:    time.Since(start),
		Placements: sv.collectPlacements(),
	}
	metrics.SolverDuration.Observe(report.Elapsed.Seconds())
	metrics.SolverBacktracks.Add(float64(sv.backtracks))
	metrics.SolverAssignments.Add(float64(sv.assigns))

	switch {
	case status == StatusTimeout:
		report.Status = StatusTimeout
		metrics.SolverRuns.WithLabelValues("timeout").Inc()
		return report, apperrors.New(apperrors.Timeout, "solve deadline exceeded")
	case status == StatusCancelled:
		report.Status = StatusCancelled
		metrics.SolverRuns.WithLabelValues("cancelled").Inc()
		return report, apperrors.New(apperrors.Cancelled, "solve was cancelled")
	case ok:
		report.Status = StatusSolved
		metrics.SolverRuns.WithLabelValues("solved").Inc()
		return report, nil
	default:
		report.Status = StatusUnsolvable
		metrics.SolverRuns.WithLabelValues("unsolvable").Inc()
		return report, apperrors.New(apperrors.Unsolvable, "search exhausted without a complete assignment")
	}
}

func periodIDs(s *store.Store) []domain.PeriodID {
	periods := s.Periods()
	out := make([]domain.PeriodID, len(periods))
	for i, p := range periods {
		out[i] = p.ID
	}
	return out
}

// buildSetPlans gathers every Set in the year, ordered by (block ordinal,
// set number) for a deterministic base ordering, and validates that
// teachers/rooms exist for every subject in play (the pre-search
// ConfigurationError check from §4.4's failure semantics).
func buildSetPlans(s *store.Store, year domain.YearID) ([]setPlan, error) {
	var plans []setPlan
	for _, block := range s.BlocksOfYear(year) {
		for _, set := range s.SetsOfBlock(block.ID) {
			classes := s.ClassesOfSet(set.ID)
			if len(classes) == 0 {
				continue
			}
			sort.Slice(classes, func(i, j int) bool { return classes[i].Number < classes[j].Number })

			if len(s.TeachersOf(set.SubjectID)) == 0 {
				return nil, apperrors.Newf(apperrors.ConfigurationError, "subject %d has no teachers", set.SubjectID)
			}
			if len(s.RoomsOf(set.SubjectID)) == 0 {
				return nil, apperrors.Newf(apperrors.ConfigurationError, "subject %d has no rooms", set.SubjectID)
			}

			plans = append(plans, setPlan{
				set:             set,
				classes:         classes,
				requiredPeriods: classes[0].RequiredPeriods,
			})
		}
	}
	return plans, nil
}

// buildTasks flattens every set's period and meeting decisions into one
// ordered task list. Dependencies encode the staged structure: a meeting
// task cannot run before its set's period for that ordinal is fixed, and
// ordinal k's period task cannot run before ordinal k-1's.
func buildTasks(sets []setPlan) []task {
	var tasks []task
	periodTaskIndex := make(map[[2]int]int) // (setIdx, ordinal) -> task index

	for si, sp := range sets {
		prev := -1
		for ord := 1; ord <= sp.requiredPeriods; ord++ {
			idx := len(tasks)
			tasks = append(tasks, task{kind: taskPeriod, setIdx: si, ordinal: ord, dependsOn: prev})
			periodTaskIndex[[2]int{si, ord}] = idx
			prev = idx
		}
	}
	for si, sp := range sets {
		for ci := range sp.classes {
			for ord := 1; ord <= sp.requiredPeriods; ord++ {
				dep := periodTaskIndex[[2]int{si, ord}]
				tasks = append(tasks, task{kind: taskMeeting, setIdx: si, ordinal: ord, classIdx: ci, dependsOn: dep})
			}
		}
	}
	return tasks
}

// ac3PreCheck runs before search starts, per §4.3/§4.4: it rejects any
// band or set whose period domain is already too small to satisfy
// RequiredPeriods/BandDisjoint no matter what the search does, so those
// cases return Unsolvable immediately instead of being discovered many
// backtracks deep. Teacher/room domain emptiness (no competent teacher or
// no supporting room at all) is caught earlier, in buildSetPlans, as a
// ConfigurationError rather than a search-time Unsolvable.
func (sv *solver) ac3PreCheck() bool {
	for _, sp := range sv.sets {
		if sp.requiredPeriods > len(sv.periods) {
			return false
		}
	}

	periodsByBand := make(map[int]int)
	for _, sp := range sv.sets {
		bands := make(map[int]bool)
		for _, c := range sp.classes {
			bands[c.Number] = true
		}
		for number := range bands {
			periodsByBand[number] += sp.requiredPeriods
		}
	}
	for _, needed := range periodsByBand {
		if needed > len(sv.periods) {
			return false
		}
	}
	return true
}

// run drives the backtracking search to completion, timeout or
// cancellation.
func (sv *solver) run(ctx context.Context) (bool, Status) {
	return sv.assign(ctx)
}

func (sv *solver) assign(ctx context.Context) (bool, Status) {
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return false, StatusTimeout
		}
		return false, StatusCancelled
	default:
	}

	ti, done := sv.selectNext()
	if done {
		return true, ""
	}

	sv.observer.OnProgress(sv.assigns, len(sv.tasks), sv.backtracks)

	for _, c := range sv.candidatesFor(ti) {
		undo, ok := sv.apply(ti, c)
		if !ok {
			continue
		}
		sv.assignedMask[ti] = true
		sv.assigns++
		sv.observer.OnDecision(sv.sets[sv.tasks[ti].setIdx].set.ID, true)

		if sv.cfg.EnableFC && !sv.forwardCheckOK(ti) {
			sv.assignedMask[ti] = false
			sv.assigns--
			sv.observer.OnDecision(sv.sets[sv.tasks[ti].setIdx].set.ID, false)
			undo()
			sv.backtracks++
			continue
		}

		ok, status := sv.assign(ctx)
		if status != "" {
			return false, status
		}
		if ok {
			return true, ""
		}

		sv.assignedMask[ti] = false
		sv.assigns--
		sv.backtracks++
		sv.observer.OnDecision(sv.sets[sv.tasks[ti].setIdx].set.ID, false)
		undo()
	}
	return false, ""
}

// selectNext picks the next task to assign: among ready, unassigned
// tasks, MCV picks the one with the smallest current candidate count
// (ties broken by the RNG); otherwise the first ready task in task-list
// order.
func (sv *solver) selectNext() (int, bool) {
	var ready []int
	for i, t := range sv.tasks {
		if sv.assignedMask[i] {
			continue
		}
		if t.dependsOn != -1 && !sv.assignedMask[t.dependsOn] {
			continue
		}
		ready = append(ready, i)
	}
	if len(ready) == 0 {
		return 0, true
	}
	if !sv.cfg.EnableMCV {
		return ready[0], false
	}

	best := ready[0]
	bestSize := len(sv.candidatesFor(best))
	var ties []int
	for _, i := range ready {
		size := len(sv.candidatesFor(i))
		if size < bestSize {
			best, bestSize = i, size
			ties = []int{i}
		} else if size == bestSize {
			ties = append(ties, i)
		}
	}
	if len(ties) > 1 {
		return ties[sv.rng.Intn(len(ties))], false
	}
	return best, false
}
