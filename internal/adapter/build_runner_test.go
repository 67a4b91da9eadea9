package adapter

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// The runner is exercised with small shell utilities instead of a real build
// tool; it only cares about exit status, streaming and deadlines.
func TestLocalBuildRunner(t *testing.T) {
	t.Run("zero exit is success", func(t *testing.T) {
		runner := NewLocalBuildRunner("true")

		status, err := runner.Run(context.Background(), nil, t.TempDir(), 0, io.Discard)
		require.NoError(t, err)
		require.Equal(t, m.StatusSuccess, status)
	})

	t.Run("non-zero exit is failure, not an error", func(t *testing.T) {
		runner := NewLocalBuildRunner("false")

		status, err := runner.Run(context.Background(), nil, t.TempDir(), 0, io.Discard)
		require.NoError(t, err)
		require.Equal(t, m.StatusFailure, status)
	})

	t.Run("output streams into the log", func(t *testing.T) {
		runner := NewLocalBuildRunner("sh")

		var log bytes.Buffer

		status, err := runner.Run(context.Background(), []string{"-c", "echo out; echo err >&2"}, t.TempDir(), 0, &log)
		require.NoError(t, err)
		require.Equal(t, m.StatusSuccess, status)
		require.Contains(t, log.String(), "out")
		require.Contains(t, log.String(), "err")
	})

	t.Run("deadline maps to timeout status", func(t *testing.T) {
		runner := NewLocalBuildRunner("sleep")

		start := time.Now()
		status, err := runner.Run(context.Background(), []string{"10"}, t.TempDir(), 100*time.Millisecond, io.Discard)
		require.NoError(t, err)
		require.Equal(t, m.StatusTimeout, status)
		require.Less(t, time.Since(start), 5*time.Second, "subprocess was killed at the deadline")
	})

	t.Run("cancelled parent context is an interruption error", func(t *testing.T) {
		runner := NewLocalBuildRunner("sleep")

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err := runner.Run(ctx, []string{"10"}, t.TempDir(), time.Minute, io.Discard)
		require.Error(t, err)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing tool is an environment error", func(t *testing.T) {
		runner := NewLocalBuildRunner("mutlab-no-such-tool")

		_, err := runner.Run(context.Background(), nil, t.TempDir(), 0, io.Discard)
		require.Error(t, err)
	})

	t.Run("empty tool defaults to go", func(t *testing.T) {
		runner := NewLocalBuildRunner("")
		require.Equal(t, "go", runner.tool)
	})
}
