package observability_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coachpo/framepool/internal/observability"
	"github.com/coachpo/framepool/internal/testutil"
)

func TestAggregateErrorsSkipsNil(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	require.NoError(t, observability.AggregateErrors(logger, "shutdown", []error{nil, nil}))
	require.Empty(t, logger.Entries)
}

func TestAggregateErrorsJoinsAndLogsOnce(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	first := errors.New("first")
	second := errors.New("second")

	err := observability.AggregateErrors(logger, "shutdown", []error{first, nil, second},
		observability.F("world", 2),
	)
	require.ErrorIs(t, err, first)
	require.ErrorIs(t, err, second)
	require.Contains(t, err.Error(), "shutdown failed")

	require.Len(t, logger.Entries, 1)
	entry := logger.Entries[0]
	require.Equal(t, "error", entry.Level)
	require.Equal(t, 2, entry.Fields["error_count"])
	require.Equal(t, 2, entry.Fields["world"])
	require.Equal(t, []string{"first", "second"}, entry.Fields["errors"])
}
