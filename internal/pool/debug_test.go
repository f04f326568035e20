//go:build debug

package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coachpo/framepool/internal/testutil"
)

func TestShutdownLogsAcquireStacks(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	r := NewRegistry(WithLogger(logger))

	Lists[int](r).Acquire()
	Lists[int](r).Acquire().Release()

	require.ErrorIs(t, r.Shutdown(context.Background()), ErrOutstanding)

	candidates := logger.Warnings("leak candidate")
	require.Len(t, candidates, 1)
	require.Contains(t, candidates[0].Fields["stack"], "TestShutdownLogsAcquireStacks")
}
