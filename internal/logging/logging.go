// Package logging builds the zerolog loggers used across the application
// and adapts them to the interfaces third-party clients expect.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures New
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// New returns a logger writing to opts.Writer (stderr when nil). Unknown
// levels fall back to info.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(opts.Format, FormatJSON) {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// RestyLogger satisfies resty.Logger on top of zerolog
type RestyLogger struct {
	log zerolog.Logger
}

// Resty wraps l for use with resty.Client.SetLogger
func Resty(l zerolog.Logger) *RestyLogger {
	return &RestyLogger{log: l.With().Str("component", "http").Logger()}
}

func (r *RestyLogger) Errorf(format string, v ...interface{}) {
	r.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r *RestyLogger) Warnf(format string, v ...interface{}) {
	r.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (r *RestyLogger) Debugf(format string, v ...interface{}) {
	r.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
