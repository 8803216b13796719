// Package csp implements the generic backtracking-search framework from
// spec §4.3: a set of variables with per-variable domains and a list of
// constraints, solved by recursive backtracking with optional
// Most-Constrained-Variable ordering, forward checking and AC-3
// preprocessing.
//
// Per the design notes, there is exactly one Constraint shape — an n-ary
// predicate closure over the current partial assignment — rather than the
// source's separate unary/binary/n-ary constraint classes. internal/timetable
// does not call into this package: its staged period/teacher/room search
// keeps its own task list and reimplements MCV, forward checking and the
// AC-3 pre-check against it (see internal/timetable/types.go).
package csp

import (
	"context"
	"math/rand"
	"time"

	"school-timetable/internal/apperrors"
)

// Assignment maps variable id to its assigned value. Only variables
// decided so far appear as keys.
type Assignment[V comparable] map[int]V

// Constraint is satisfied over whatever subset of its Variables currently
// appears in the assignment passed to Check. A Constraint that cannot yet
// judge (too few of its Variables assigned) must return true — this is how
// unary, binary and n-ary constraints are unified into one shape.
type Constraint[V comparable] struct {
	Name      string
	Variables []int
	Check     func(assignment Assignment[V]) bool
}

// Observer receives progress notifications during a search. Replaces the
// print-in-recursion pattern with an injected callback, per the design
// notes.
type Observer interface {
	OnProgress(assigned, total, backtracks int)
	OnDecision(variable int, value any, accepted bool)
}

// NopObserver discards every notification.
type NopObserver struct{}

func (NopObserver) OnProgress(assigned, total, backtracks int) {}
func (NopObserver) OnDecision(variable int, value any, accepted bool) {}

// Status is the terminal state of a search.
type Status string

const (
	StatusSolved     Status = "Solved"
	StatusUnsolvable Status = "Unsolvable"
	StatusTimeout    Status = "Timeout"
	StatusCancelled  Status = "Cancelled"
)

// Options controls the search.
type Options struct {
	MCV      bool
	FC       bool
	Seed     int64
	Observer Observer
}

// Result is what a search returns: final or best-effort partial
// assignment, terminal status and counters for the solver report (§4.5,
// §6).
type Result[V comparable] struct {
	Status     Status
	Assignment Assignment[V]
	Backtracks int
	Assigns    int
	Elapsed    time.Duration
}

// Problem is one CSP instance: variables, their domains, and the
// constraints over them.
type Problem[V comparable] struct {
	order            []int // insertion order, used when mcv is off
	domains          map[int][]V
	constraintsByVar map[int][]*Constraint[V]
	constraints      []*Constraint[V]
}

// NewProblem returns an empty Problem.
func NewProblem[V comparable]() *Problem[V] {
	return &Problem[V]{
		domains:          make(map[int][]V),
		constraintsByVar: make(map[int][]*Constraint[V]),
	}
}

// AddVariable registers v with its initial domain. Domains are copied; the
// caller's slice may be reused afterwards.
func (p *Problem[V]) AddVariable(v int, domain []V) {
	if _, exists := p.domains[v]; !exists {
		p.order = append(p.order, v)
	}
	cp := make([]V, len(domain))
	copy(cp, domain)
	p.domains[v] = cp
}

// AddConstraint registers c under each of its variables. Referencing a
// variable not added via AddVariable is a wiring bug in the caller, not a
// data problem, so it surfaces as InternalAssertion.
func (p *Problem[V]) AddConstraint(c Constraint[V]) error {
	for _, v := range c.Variables {
		if _, ok := p.domains[v]; !ok {
			return apperrors.Newf(apperrors.InternalAssertion, "constraint %q references unknown variable %d", c.Name, v)
		}
	}
	cp := c
	p.constraints = append(p.constraints, &cp)
	for _, v := range c.Variables {
		p.constraintsByVar[v] = append(p.constraintsByVar[v], &cp)
	}
	return nil
}

// Variables returns the variable ids in insertion order.
func (p *Problem[V]) Variables() []int {
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}

// Domain returns a copy of v's initial domain.
func (p *Problem[V]) Domain(v int) []V {
	d := p.domains[v]
	out := make([]V, len(d))
	copy(out, d)
	return out
}

// search holds the mutable state of one in-progress backtracking run:
// working domains (pruned copies, restored on backtrack), a snapshot stack
// for forward checking, and the run counters. It owns all mutable search
// state exclusively, per §5's no-aliasing requirement.
type search[V comparable] struct {
	p          *Problem[V]
	opts       Options
	rng        *rand.Rand
	domains    map[int][]V
	backtracks int
	assigns    int
	observer   Observer
}

// Search runs backtracking search to completion, cancellation, timeout or
// exhaustion. ctx fuses both cancellation and an optional deadline: a
// context.Canceled cause yields Cancelled, a context.DeadlineExceeded
// cause yields Timeout.
func (p *Problem[V]) Search(ctx context.Context, opts Options) Result[V] {
	start := time.Now()
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	s := &search[V]{
		p:        p,
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		domains:  cloneDomains(p.domains),
		observer: observer,
	}

	if opts.FC {
		if !s.ac3(initialArcs(p)) {
			return Result[V]{Status: StatusUnsolvable, Elapsed: time.Since(start)}
		}
	}

	assignment := make(Assignment[V], len(p.order))
	result, status := s.recursiveBacktrack(ctx, assignment)

	final := Result[V]{
		Assignment: result,
		Backtracks: s.backtracks,
		Assigns:    s.assigns,
		Elapsed:    time.Since(start),
	}
	switch {
	case status == StatusCancelled, status == StatusTimeout:
		final.Status = status
	case result != nil:
		final.Status = StatusSolved
	default:
		final.Status = StatusUnsolvable
	}
	return final
}

func cloneDomains[V comparable](domains map[int][]V) map[int][]V {
	out := make(map[int][]V, len(domains))
	for v, d := range domains {
		cp := make([]V, len(d))
		copy(cp, d)
		out[v] = cp
	}
	return out
}

// recursiveBacktrack implements §4.3's _recursive_backtrack. It returns
// the completed assignment (or nil) and a status that is only meaningful
// when non-empty (Cancelled/Timeout short-circuit every caller up the
// stack).
func (s *search[V]) recursiveBacktrack(ctx context.Context, assignment Assignment[V]) (Assignment[V], Status) {
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, StatusTimeout
		}
		return nil, StatusCancelled
	default:
	}

	if len(assignment) == len(s.p.order) {
		return assignment, ""
	}

	v := s.selectUnassigned(assignment)
	s.observer.OnProgress(len(assignment), len(s.p.order), s.backtracks)

	for _, d := range s.orderDomain(v) {
		if s.numConflicts(v, d, assignment) > 0 {
			continue
		}

		assignment[v] = d
		s.assigns++
		s.observer.OnDecision(v, d, true)

		var snapshot map[int][]V
		if s.opts.FC {
			snapshot = cloneDomains(s.domains)
			s.forwardCheck(v, d, assignment)
		}

		result, status := s.recursiveBacktrack(ctx, assignment)
		if status != "" {
			return nil, status
		}
		if result != nil {
			return result, ""
		}

		delete(assignment, v)
		s.assigns--
		s.observer.OnDecision(v, d, false)
		if s.opts.FC {
			s.domains = snapshot
		}
		s.backtracks++
	}

	return nil, ""
}

// selectUnassigned picks the next variable: MCV (fewest legal remaining
// values, ties broken by the RNG) when enabled, otherwise source order.
func (s *search[V]) selectUnassigned(assignment Assignment[V]) int {
	var candidates []int
	for _, v := range s.p.order {
		if _, done := assignment[v]; !done {
			candidates = append(candidates, v)
		}
	}
	if !s.opts.MCV {
		return candidates[0]
	}

	best := candidates[0]
	bestSize := len(s.domains[best])
	var ties []int
	for _, v := range candidates {
		size := len(s.domains[v])
		if size < bestSize {
			best, bestSize = v, size
			ties = []int{v}
		} else if size == bestSize {
			ties = append(ties, v)
		}
	}
	if len(ties) > 1 {
		return ties[s.rng.Intn(len(ties))]
	}
	return best
}

// orderDomain returns v's current working domain in source order (no LCV
// heuristic, per §4.3).
func (s *search[V]) orderDomain(v int) []V {
	return s.domains[v]
}

// numConflicts sums, over v's constraints, the number that the candidate
// assignment v=d would violate given the variables already assigned.
func (s *search[V]) numConflicts(v int, d V, assignment Assignment[V]) int {
	candidate := make(Assignment[V], len(assignment)+1)
	for k, val := range assignment {
		candidate[k] = val
	}
	candidate[v] = d

	conflicts := 0
	for _, c := range s.p.constraintsByVar[v] {
		if !c.Check(candidate) {
			conflicts++
		}
	}
	return conflicts
}

// forwardCheck prunes, for every unassigned neighbour u of v, any value e
// that would be inconsistent with v=d given the rest of assignment.
func (s *search[V]) forwardCheck(v int, d V, assignment Assignment[V]) {
	neighbours := s.neighboursOf(v)
	for _, u := range neighbours {
		if _, assigned := assignment[u]; assigned {
			continue
		}
		kept := s.domains[u][:0:0]
		for _, e := range s.domains[u] {
			candidate := make(Assignment[V], len(assignment)+2)
			for k, val := range assignment {
				candidate[k] = val
			}
			candidate[v] = d
			candidate[u] = e
			if s.satisfiesAllShared(v, u, candidate) {
				kept = append(kept, e)
			}
		}
		s.domains[u] = kept
	}
}

// satisfiesAllShared reports whether every constraint naming both v and u
// holds under candidate.
func (s *search[V]) satisfiesAllShared(v, u int, candidate Assignment[V]) bool {
	for _, c := range s.p.constraintsByVar[v] {
		if !containsVar(c.Variables, u) {
			continue
		}
		if !c.Check(candidate) {
			return false
		}
	}
	return true
}

func (s *search[V]) neighboursOf(v int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range s.p.constraintsByVar[v] {
		for _, u := range c.Variables {
			if u == v || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

func containsVar(vars []int, v int) bool {
	for _, x := range vars {
		if x == v {
			return true
		}
	}
	return false
}

// arc is a directed (xi, xj) pair queued for AC-3.
type arc struct {
	xi, xj int
}

func initialArcs[V comparable](p *Problem[V]) []arc {
	var arcs []arc
	for _, c := range p.constraints {
		if len(c.Variables) != 2 {
			continue
		}
		a, b := c.Variables[0], c.Variables[1]
		arcs = append(arcs, arc{a, b}, arc{b, a})
	}
	return arcs
}

// ac3 runs arc consistency over the working domains, returning false if
// any domain is emptied (spec: "emptying any domain pre-search returns
// Unsolvable immediately").
func (s *search[V]) ac3(queue []arc) bool {
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		if s.removeInconsistentValues(a.xi, a.xj) {
			if len(s.domains[a.xi]) == 0 {
				return false
			}
			for _, xk := range s.neighboursOf(a.xi) {
				if xk != a.xj {
					queue = append(queue, arc{xk, a.xi})
				}
			}
		}
	}
	return true
}

// removeInconsistentValues prunes dom[xi] to values with at least one
// supporting value in dom[xj], reporting whether anything was removed.
func (s *search[V]) removeInconsistentValues(xi, xj int) bool {
	removed := false
	kept := s.domains[xi][:0:0]
	for _, x := range s.domains[xi] {
		supported := false
		for _, y := range s.domains[xj] {
			candidate := Assignment[V]{xi: x, xj: y}
			if s.satisfiesAllShared(xi, xj, candidate) {
				supported = true
				break
			}
		}
		if supported {
			kept = append(kept, x)
		} else {
			removed = true
		}
	}
	s.domains[xi] = kept
	return removed
}
