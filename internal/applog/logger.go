// Package applog provides structured logging for the solver core using Zap.
// Unlike the teacher's stdout banners, every component here takes a
// *Logger explicitly instead of reaching for a package-level global.
package applog

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger so call sites can import one package for both
// construction and use.
type Logger struct {
	*zap.Logger
}

// Config controls verbosity and output shape.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// New builds a Logger from Config. An empty Config yields an info-level
// console logger, suitable for CLI entrypoints.
func New(cfg Config) (*Logger, error) {
	level := parseLevel(cfg.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(newStdout())), level)
	return &Logger{zap.New(core)}, nil
}

// Nop returns a Logger that discards everything, handy for tests.
func Nop() *Logger {
	return &Logger{zap.NewNop()}
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
