// Command solve-timetable is the thin harness around internal/timetable:
// it loads an entity snapshot (curriculum already built), runs the staged
// CSP solver for one year, writes the resulting placements back through
// internal/result, and reports the outcome. Exit codes follow spec §6
// exactly: 0 Solved, 2 Unsolvable, 3 ConfigurationError, 4 Timeout, 5
// Cancelled.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"school-timetable/internal/apperrors"
	"school-timetable/internal/applog"
	"school-timetable/internal/config"
	"school-timetable/internal/domain"
	"school-timetable/internal/exporter"
	"school-timetable/internal/loader"
	"school-timetable/internal/result"
	"school-timetable/internal/timetable"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		year       = pflag.Int("year", 0, "year id to solve")
		input      = pflag.String("input", "", "path to the entity snapshot JSON file")
		cfgPath    = pflag.String("config", "", "path to an optional config file")
		logLevel   = pflag.String("log-level", "info", "log level: debug, info, warn, error")
		mcv        = pflag.Bool("mcv", true, "enable the most-constrained-variable heuristic")
		fc         = pflag.Bool("fc", true, "enable forward checking")
		seed       = pflag.Int64("seed", 0, "rng seed (0 keeps the configured default)")
		timeoutMS  = pflag.Int("timeout-ms", 0, "solve deadline in milliseconds (0 keeps the configured default)")
		reportJSON = pflag.String("report-json", "", "write the solver report to this JSON file")
	)
	pflag.Parse()

	log, err := applog.New(applog.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "solve-timetable: starting logger: %v\n", err)
		return 3
	}
	defer log.Sync() //nolint:errcheck

	runID := uuid.New().String()
	log = &applog.Logger{Logger: log.With(zap.String("run_id", runID))}

	if *year == 0 || *input == "" {
		log.Error("solve-timetable requires --year and --input")
		return 3
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("loading config", zap.Error(err))
		return 3
	}
	applyFlagOverrides(cfg, mcv, fc, seed, timeoutMS)

	fmt.Println("loading entity snapshot...")
	in, err := loader.LoadFile(*input)
	if err != nil {
		log.Error("loading input", zap.Error(err))
		return 3
	}
	if err := loader.Validate(in); err != nil {
		log.Error("validating input", zap.Error(err))
		return 3
	}
	s, err := loader.Populate(in)
	if err != nil {
		log.Error("populating store", zap.Error(err))
		return 3
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if d := cfg.Solve.SolveTimeout(); d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	fmt.Println("solving timetable...")
	solver := timetable.New(log, nil)
	report, solveErr := solver.Solve(ctx, s, domain.YearID(*year), cfg.Solve)
	if report == nil {
		log.Error("solve failed before a report could be produced", zap.Error(solveErr))
		return code(solveErr)
	}

	var errorLog []string
	status := code(solveErr)
	if solveErr == nil {
		sink := result.New(log)
		if err := sink.Write(s, domain.YearID(*year), report.Placements); err != nil {
			log.Error("writing placements", zap.Error(err))
			errorLog = append(errorLog, err.Error())
			status = 3
		}
	} else {
		errorLog = append(errorLog, solveErr.Error())
	}

	printSummary(report)
	if *reportJSON != "" {
		doc := exporter.BuildReport(s, report, errorLog)
		doc.RunID = runID
		if err := exporter.WriteJSON(doc, *reportJSON); err != nil {
			log.Error("writing report json", zap.Error(err))
			return 3
		}
	}

	return status
}

func applyFlagOverrides(cfg *config.Config, mcv, fc *bool, seed *int64, timeoutMS *int) {
	if pflag.CommandLine.Changed("mcv") {
		cfg.Solve.EnableMCV = *mcv
	}
	if pflag.CommandLine.Changed("fc") {
		cfg.Solve.EnableFC = *fc
	}
	if *seed != 0 {
		cfg.Solve.Seed = *seed
	}
	if *timeoutMS != 0 {
		cfg.Solve.TimeoutMS = *timeoutMS
	}
}

// code maps a solve error's apperrors.Kind to the process exit code spec §6
// requires. A nil error (Solved) maps to 0.
func code(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.Unsolvable:
		return 2
	case apperrors.ConfigurationError:
		return 3
	case apperrors.Timeout:
		return 4
	case apperrors.Cancelled:
		return 5
	case "":
		if err != nil {
			return 3
		}
		return 0
	default:
		return 3
	}
}

func printSummary(r *timetable.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "metric\tvalue")
	fmt.Fprintln(w, "------\t-----")
	fmt.Fprintf(w, "status\t%s\n", r.Status)
	fmt.Fprintf(w, "backtracks\t%d\n", r.Backtracks)
	fmt.Fprintf(w, "assigns\t%d\n", r.Assigns)
	fmt.Fprintf(w, "elapsed\t%s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "placements\t%d\n", len(r.Placements))
	w.Flush() //nolint:errcheck
}
