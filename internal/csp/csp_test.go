package csp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"school-timetable/internal/csp"
)

// notEqual builds a binary != constraint between two variables, the
// classic map-coloring building block.
func notEqual(a, b int) csp.Constraint[string] {
	return csp.Constraint[string]{
		Name:      "notEqual",
		Variables: []int{a, b},
		Check: func(assignment csp.Assignment[string]) bool {
			va, aok := assignment[a]
			vb, bok := assignment[b]
			if !aok || !bok {
				return true
			}
			return va != vb
		},
	}
}

func triangleProblem(t *testing.T, colors []string) *csp.Problem[string] {
	t.Helper()
	p := csp.NewProblem[string]()
	p.AddVariable(1, colors)
	p.AddVariable(2, colors)
	p.AddVariable(3, colors)
	require.NoError(t, p.AddConstraint(notEqual(1, 2)))
	require.NoError(t, p.AddConstraint(notEqual(2, 3)))
	require.NoError(t, p.AddConstraint(notEqual(1, 3)))
	return p
}

func TestBacktrackingSolvesTriangleWithThreeColors(t *testing.T) {
	p := triangleProblem(t, []string{"red", "green", "blue"})
	result := p.Search(context.Background(), csp.Options{MCV: true, FC: true, Seed: 1})

	require.Equal(t, csp.StatusSolved, result.Status)
	require.NotEqual(t, result.Assignment[1], result.Assignment[2])
	require.NotEqual(t, result.Assignment[2], result.Assignment[3])
	require.NotEqual(t, result.Assignment[1], result.Assignment[3])
}

func TestBacktrackingReportsUnsolvableWithTwoColors(t *testing.T) {
	p := triangleProblem(t, []string{"red", "green"})
	result := p.Search(context.Background(), csp.Options{MCV: true, FC: true, Seed: 1})
	require.Equal(t, csp.StatusUnsolvable, result.Status)
}

func TestMCVDoesNotChangeSolvability(t *testing.T) {
	colors := []string{"red", "green", "blue"}
	withMCV := triangleProblem(t, colors).Search(context.Background(), csp.Options{MCV: true, Seed: 7})
	withoutMCV := triangleProblem(t, colors).Search(context.Background(), csp.Options{MCV: false, Seed: 7})
	require.Equal(t, withMCV.Status, withoutMCV.Status)
}

func TestSameSeedProducesIdenticalAssignment(t *testing.T) {
	colors := []string{"red", "green", "blue"}
	first := triangleProblem(t, colors).Search(context.Background(), csp.Options{MCV: true, FC: true, Seed: 42})
	second := triangleProblem(t, colors).Search(context.Background(), csp.Options{MCV: true, FC: true, Seed: 42})
	require.Equal(t, first.Assignment, second.Assignment)
}

func TestCancelledContextStopsSearch(t *testing.T) {
	p := triangleProblem(t, []string{"red", "green", "blue"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := p.Search(ctx, csp.Options{MCV: true, FC: true, Seed: 1})
	require.Equal(t, csp.StatusCancelled, result.Status)
}

func TestExpiredDeadlineYieldsTimeout(t *testing.T) {
	p := triangleProblem(t, []string{"red", "green", "blue"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	result := p.Search(ctx, csp.Options{MCV: true, FC: true, Seed: 1})
	require.Equal(t, csp.StatusTimeout, result.Status)
}

func TestRejectsConstraintOnUnknownVariable(t *testing.T) {
	p := csp.NewProblem[string]()
	p.AddVariable(1, []string{"a"})
	err := p.AddConstraint(notEqual(1, 99))
	require.Error(t, err)
}
