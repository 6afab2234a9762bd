package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
}

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	Output string // stderr, stdout, or a file path
}

// New builds a logger. Unknown levels fall back to info.
func New(cfg Config) (*Logger, error) {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log output: %w", err)
		}
		output = f
	}
	return NewWithWriter(cfg, output), nil
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: os.Getenv("NO_COLOR") != ""}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	return &Logger{logger: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *Logger) Debugf(format string, args ...any) { l.logger.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logger.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logger.Warn().Msgf(format, args...) }

// Logf adapts the logger to the printf-style hooks used by pipeline and
// usecase.
func (l *Logger) Logf() func(format string, args ...any) {
	return l.Infof
}
