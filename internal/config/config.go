// Package config loads solver run configuration using Viper, following the
// env-first pattern used throughout the corpus: defaults, then an optional
// config file, then environment variables, in that order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything a solve or curriculum-build run needs beyond the
// entity store snapshot itself.
type Config struct {
	Log   LogConfig
	Cycle CycleConfig
	Solve SolveConfig
}

// LogConfig controls applog verbosity and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// CycleConfig describes the timetable's repeating period grid (§3 GLOSSARY:
// Cycle = P periods x D days x W weeks).
type CycleConfig struct {
	PeriodsPerDay int
	DaysPerCycle  int
	Weeks         int
}

// TotalPeriods returns P*D*W, the size of the cycle.
func (c CycleConfig) TotalPeriods() int {
	return c.PeriodsPerDay * c.DaysPerCycle * c.Weeks
}

// SolveConfig controls CSP heuristics and run bounds.
type SolveConfig struct {
	EnableMCV             bool
	EnableFC              bool
	Seed                  int64
	TimeoutMS             int
	TeacherMaxLoad        int  // 0 = unlimited, spec.md's stated default
	EnableStudentNoClash  bool // off by default; no constraint in internal/timetable reads it
}

// Load reads configuration from an optional file at path (if non-empty)
// and from environment variables, with built-in defaults for anything
// unset. Environment variables use the form TIMETABLE_CYCLE_PERIODSPERDAY,
// TIMETABLE_SOLVE_SEED, etc.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TIMETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Cycle: CycleConfig{
			PeriodsPerDay: v.GetInt("cycle.periodsperday"),
			DaysPerCycle:  v.GetInt("cycle.dayspercycle"),
			Weeks:         v.GetInt("cycle.weeks"),
		},
		Solve: SolveConfig{
			EnableMCV:            v.GetBool("solve.enablemcv"),
			EnableFC:             v.GetBool("solve.enablefc"),
			Seed:                 v.GetInt64("solve.seed"),
			TimeoutMS:            v.GetInt("solve.timeoutms"),
			TeacherMaxLoad:       v.GetInt("solve.teachermaxload"),
			EnableStudentNoClash: v.GetBool("solve.enablestudentnoclash"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Default cycle: 5 periods x 5 days x 2 weeks = 50, per spec.md GLOSSARY.
	v.SetDefault("cycle.periodsperday", 5)
	v.SetDefault("cycle.dayspercycle", 5)
	v.SetDefault("cycle.weeks", 2)

	v.SetDefault("solve.enablemcv", true)
	v.SetDefault("solve.enablefc", true)
	v.SetDefault("solve.seed", int64(1))
	v.SetDefault("solve.timeoutms", 0) // 0 = no deadline
	v.SetDefault("solve.teachermaxload", 0)
	v.SetDefault("solve.enablestudentnoclash", false)
}

// Default returns the configuration Load would produce with no file and no
// environment overrides — the shape most unit tests want.
func Default() *Config {
	cfg, _ := Load("")
	return cfg
}

// SolveTimeout returns the configured timeout as a time.Duration, or 0 if
// unset (meaning "no deadline").
func (c SolveConfig) SolveTimeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
