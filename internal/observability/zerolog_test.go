package observability

import (
	"bytes"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZerologLogger(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	logger.Warn("pool: double release",
		F("pool", "list[int]"),
		F("free", 3),
		F("err", errors.New("boom")),
	)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "pool: double release", line["message"])
	require.Equal(t, "list[int]", line["pool"])
	require.EqualValues(t, 3, line["free"])
	require.Equal(t, "boom", line["err"])
}

func TestZerologLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZerologLogger(&buf, "warn", FormatJSON)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Debug("hidden")
	require.Zero(t, buf.Len())

	logger.Error("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNewZerologLoggerRejectsBadInput(t *testing.T) {
	_, err := NewZerologLogger(nil, "loud", FormatJSON)
	require.Error(t, err)

	_, err = NewZerologLogger(nil, "info", "xml")
	require.Error(t, err)
}

func TestSetLoggerNilRestoresNoop(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	logger, err := NewZerologLogger(&buf, "info", FormatJSON)
	require.NoError(t, err)

	SetLogger(logger)
	Log().Info("hello")
	require.Contains(t, buf.String(), "hello")

	SetLogger(nil)
	buf.Reset()
	Log().Info("dropped")
	require.Zero(t, buf.Len())
}
