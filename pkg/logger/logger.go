// Package logger provides the engine's structured logging setup, built on
// zerolog, plus EngineLogger, a component-scoped logger for the builder and
// tabu-search engine.
package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level aliases zerolog.Level so callers never import zerolog directly.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config controls the global logger setup.
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig returns sensible console-logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init sets up the process-wide zerolog logger. Safe to call more than
// once; only the first call takes effect.
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: cfg.TimeFormat}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the process-wide logger, initializing it with defaults on
// first use if Init was never called.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// WithContext returns a logger enriched with a request/run correlation id
// found on ctx, if any.
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Get().With().Logger()
	if runID, ok := ctx.Value(runIDKey{}).(string); ok {
		l = l.With().Str("run_id", runID).Logger()
	}
	return &l
}

type runIDKey struct{}

// WithRunID returns a context carrying runID for WithContext to pick up.
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID.String())
}

func Debug() *zerolog.Event              { return Get().Debug() }
func Info() *zerolog.Event               { return Get().Info() }
func Warn() *zerolog.Event               { return Get().Warn() }
func Error() *zerolog.Event              { return Get().Error() }
func Fatal() *zerolog.Event              { return Get().Fatal() }
func WithError(err error) *zerolog.Event { return Get().Error().Err(err) }

func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

func WithFields(fields map[string]interface{}) *zerolog.Logger {
	ctx := Get().With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	l := ctx.Logger()
	return &l
}

// EngineLogger is the component-scoped logger for pkg/builder and pkg/tabu.
// Its methods correspond to the engine's on_log categories (spec §4.5):
// the textual content is non-contractual, the category/key=value structure
// is not.
type EngineLogger struct {
	base *zerolog.Logger
}

// NewEngineLogger returns a logger tagged component=engine.
func NewEngineLogger() *EngineLogger {
	l := Get().With().Str("component", "engine").Logger()
	return &EngineLogger{base: &l}
}

// BuildComplete logs the outcome of pkg/builder.Build.
func (l *EngineLogger) BuildComplete(events, fallbacks int) {
	l.base.Info().
		Str("category", "build_complete").
		Int("events", events).
		Int("fallback_placements", fallbacks).
		Msg("initial solution built")
}

// SolveStart logs the INITIALIZED -> RUNNING transition.
func (l *EngineLogger) SolveStart(events, maxIter, tabuSize int) {
	l.base.Info().
		Str("category", "solve_start").
		Int("events", events).
		Int("max_iter", maxIter).
		Int("tabu_size", tabuSize).
		Msg("tabu search started")
}

// MoveAccepted logs one accepted iteration.
func (l *EngineLogger) MoveAccepted(iter int, hard int, soft float64, improved bool) {
	l.base.Debug().
		Str("category", "move_accepted").
		Int("iter", iter).
		Int("hard", hard).
		Float64("soft", soft).
		Bool("improved", improved).
		Msg("move accepted")
}

// Stagnation logs the stagnation stopping rule firing.
func (l *EngineLogger) Stagnation(iter, sinceImprovement int) {
	l.base.Warn().
		Str("category", "stagnation").
		Int("iter", iter).
		Int("since_improvement", sinceImprovement).
		Msg("no improvement, stopping")
}

// Cancelled logs a caller cancellation.
func (l *EngineLogger) Cancelled(iter int) {
	l.base.Warn().
		Str("category", "cancelled").
		Int("iter", iter).
		Str("status", "cancelled").
		Msg("optimize cancelled")
}

// SolveComplete logs the final state transition and summary.
func (l *EngineLogger) SolveComplete(state string, iter int, hard int, soft, quality float64, elapsed time.Duration) {
	l.base.Info().
		Str("category", "solve_complete").
		Str("state", state).
		Int("iter", iter).
		Int("hard", hard).
		Float64("soft", soft).
		Float64("quality", quality).
		Dur("elapsed", elapsed).
		Msg("tabu search finished")
}
