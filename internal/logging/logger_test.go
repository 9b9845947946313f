package logging

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("UTC-5", -5*60*60)
	l := New(&buf, loc, "warn", false)

	l.Info().Msg("dropped")
	l.Warn().Str("component", "test").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "test", entry["component"])

	ts, err := time.Parse(time.RFC3339Nano, entry["ts"].(string))
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, -5*60*60, offset)
}

func TestNew_ZonePerLogger(t *testing.T) {
	var west, east bytes.Buffer
	lw := New(&west, time.FixedZone("W", -3*60*60), "info", false)
	le := New(&east, time.FixedZone("E", 2*60*60), "info", false)

	// Building a second logger must not move the first one's zone
	lw.Info().Msg("west")
	le.Info().Msg("east")

	offsetOf := func(buf *bytes.Buffer) int {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		ts, err := time.Parse(time.RFC3339Nano, entry[TimestampField].(string))
		require.NoError(t, err)
		_, offset := ts.Zone()
		return offset
	}
	assert.Equal(t, -3*60*60, offsetOf(&west))
	assert.Equal(t, 2*60*60, offsetOf(&east))
}

func TestFromCtx(t *testing.T) {
	var buf bytes.Buffer
	orig := base
	base = New(&buf, time.UTC, "info", false)
	defer func() { base = orig }()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(RequestIDKey, "rid-1")
		FromCtx(c).Info().Msg("hello")
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rid-1", entry[RequestIDKey])
}

func TestFromCtx_TraceID(t *testing.T) {
	var buf bytes.Buffer
	orig := base
	base = New(&buf, time.UTC, "info", false)
	defer func() { base = orig }()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03},
	})

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.SetUserContext(trace.ContextWithSpanContext(c.UserContext(), sc))
		FromCtx(c).Info().Msg("traced")
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, sc.TraceID().String(), entry["trace_id"])
	assert.NotContains(t, entry, RequestIDKey)
}
