package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("epoch", "info", false, &buf)

	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Info().Int("accepted", 2).Msg("epoch handled")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "epoch", line["service"])
	assert.Equal(t, "epoch handled", line["message"])
	assert.Equal(t, 2.0, line["accepted"])
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New("epoch", "debug", true, &buf)

	l.Debug().Str("reason", "ErrMissingUtxo").Msg("rejected")
	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "| epoch | rejected")
	assert.Contains(t, out, "reason:")
	assert.NotContains(t, out, "service:")
}
