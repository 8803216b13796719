// Command build-curriculum is the thin harness around internal/curriculum:
// it loads an entity snapshot, runs the curriculum builder for one year,
// and reports what it built. Following spec §6, the core itself never
// touches a file or socket; this binary is the collaborator that bridges
// to one.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/spf13/pflag"

	"school-timetable/internal/applog"
	"school-timetable/internal/config"
	"school-timetable/internal/curriculum"
	"school-timetable/internal/domain"
	"school-timetable/internal/loader"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		year     = pflag.Int("year", 0, "year id to build curriculum for")
		input    = pflag.String("input", "", "path to the entity snapshot JSON file")
		cfgPath  = pflag.String("config", "", "path to an optional config file")
		logLevel = pflag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	pflag.Parse()

	log, err := applog.New(applog.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build-curriculum: starting logger: %v\n", err)
		return 3
	}
	defer log.Sync() //nolint:errcheck

	if *year == 0 || *input == "" {
		log.Error("build-curriculum requires --year and --input")
		return 3
	}

	if _, err := config.Load(*cfgPath); err != nil {
		log.Error("loading config", zap.Error(err))
		return 3
	}

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

	fmt.Println("building curriculum...")
	builder := curriculum.New(log)
	result, err := builder.Build(s, domain.YearID(*year))
	if err != nil {
		log.Error("curriculum build failed", zap.Error(err))
		return 3
	}

	printSummary(result)
	return 0
}

func printSummary(r curriculum.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "metric\tvalue")
	fmt.Fprintln(w, "------\t-----")
	fmt.Fprintf(w, "year\t%d\n", r.YearID)
	fmt.Fprintf(w, "classes built\t%d\n", r.ClassesBuilt)
	fmt.Fprintf(w, "subjects skipped\t%d\n", len(r.SkippedSubjects))
	w.Flush() //nolint:errcheck

	for _, sub := range r.SkippedSubjects {
		fmt.Printf("  skipped subject %d: no competent teachers\n", sub)
	}
}
