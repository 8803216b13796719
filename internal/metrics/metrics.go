// Package metrics exposes Prometheus instrumentation for curriculum builds
// and timetable solves, following the promauto package-var convention used
// across the retrieved corpus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CurriculumClassesBuilt counts Class records materialized across all
	// curriculum builder runs.
	CurriculumClassesBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curriculum_classes_built_total",
			Help: "Total number of Class records materialized by the curriculum builder",
		},
	)

	// CurriculumSubjectsSkipped counts subjects skipped for lack of
	// teachers (NoTeachers).
	CurriculumSubjectsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curriculum_subjects_skipped_total",
			Help: "Total number of subjects skipped by the curriculum builder due to NoTeachers",
		},
	)

	// SolverBacktracks counts backtracking steps across all CSP solves.
	SolverBacktracks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solver_backtracks_total",
			Help: "Total number of backtracks performed by the CSP engine",
		},
	)

	// SolverAssignments counts successful variable assignments across all
	// CSP solves.
	SolverAssignments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solver_assignments_total",
			Help: "Total number of variable assignments made by the CSP engine",
		},
	)

	// SolverRuns counts completed solves by terminal status.
	SolverRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solver_runs_total",
			Help: "Total number of timetable solver runs by terminal status",
		},
		[]string{"status"},
	)

	// SolverDuration observes wall-clock solve time in seconds.
	SolverDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solver_duration_seconds",
			Help:    "Wall-clock duration of a timetable solve",
			Buckets: prometheus.DefBuckets,
		},
	)
)
