package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kderr/jobctl/internal/job"
)

func waitForUpdate(t *testing.T, s *Shell, j *job.Job, want job.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, s.Update(context.Background(), j))
		if j.State == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job never reached state %s, got %s", want, j.State)
}

func TestShellSubmitRunsCommandToCompletion(t *testing.T) {
	t.Parallel()

	s := NewShell()
	j := job.NewJob("demo", "ok")
	j.Interpreter = "/bin/sh"
	j.Command = "true"

	id, err := s.Submit(context.Background(), j)
	require.NoError(t, err)
	j.ClusterID = id

	waitForUpdate(t, s, j, job.StateDone)
}

func TestShellUpdateReportsFailure(t *testing.T) {
	t.Parallel()

	s := NewShell()
	j := job.NewJob("demo", "bad")
	j.Interpreter = "/bin/sh"
	j.Command = "exit 1"

	id, err := s.Submit(context.Background(), j)
	require.NoError(t, err)
	j.ClusterID = id

	waitForUpdate(t, s, j, job.StateFailed)
}

func TestShellCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewShell()
	j := job.NewJob("demo", "sleeper")
	j.Interpreter = "/bin/sh"
	j.Command = "sleep 5"

	id, err := s.Submit(context.Background(), j)
	require.NoError(t, err)
	j.ClusterID = id

	require.NoError(t, s.Cancel(context.Background(), j))
	require.NoError(t, s.Cancel(context.Background(), j))
}
