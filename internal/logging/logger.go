// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDKey is the log field carrying the request ID.
const RequestIDKey = "request_id"

var base = New(os.Stdout, time.UTC, "info", false)

// Setup replaces the default logger. Timestamps are rendered in loc.
func Setup(loc *time.Location, level string, pretty bool) {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	base = New(w, loc, level, pretty)
	zerolog.DefaultContextLogger = &base
}

// TimestampField is the log field carrying the event time.
const TimestampField = "ts"

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = TimestampField
}

// zoneHook stamps each event with the current time in loc.
type zoneHook struct {
	loc *time.Location
}

func (h zoneHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(TimestampField, time.Now().In(h.loc).Format(time.RFC3339Nano))
}

// New builds a JSON logger writing to w with RFC3339Nano timestamps in loc.
// The zone is bound to the returned logger only.
func New(w io.Writer, loc *time.Location, level string, pretty bool) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}

	l := zerolog.New(w).Level(ParseLevel(level)).Hook(zoneHook{loc: loc})
	if pretty {
		l = l.With().Caller().Logger()
	}
	return l
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// L returns the default logger.
func L() *zerolog.Logger {
	return &base
}

// FromCtx returns the default logger tagged with the request ID stored by the
// RequestID middleware and, when the request is traced, its trace ID.
func FromCtx(c *fiber.Ctx) *zerolog.Logger {
	lc := base.With()
	if rid, ok := c.Locals(RequestIDKey).(string); ok && rid != "" {
		lc = lc.Str(RequestIDKey, rid)
	}
	if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
		lc = lc.Str("trace_id", sc.TraceID().String())
	}
	l := lc.Logger()
	return &l
}
