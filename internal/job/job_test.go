package job

import (
	"testing"

	"github.com/stretchr/testify/require"

	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

func TestNewJobStartsOnHold(t *testing.T) {
	t.Parallel()

	j := NewJob("demo", "align")
	require.Equal(t, StateHold, j.State)
	require.Equal(t, "demo", j.Pipeline)
}

func TestTransitionFollowsAllowedTable(t *testing.T) {
	t.Parallel()

	j := NewJob("demo", "align")
	require.NoError(t, j.Transition(StateQueued))
	require.NoError(t, j.Transition(StateRunning))
	require.NoError(t, j.Transition(StateDone))
	require.Equal(t, StateDone, j.State)
}

func TestTransitionRejectsIllegalHop(t *testing.T) {
	t.Parallel()

	j := NewJob("demo", "align")
	j.ID = 7

	err := j.Transition(StateRunning)
	require.Error(t, err)

	var conflict *jobctlerrors.StateConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, int64(7), conflict.JobID)
	require.Equal(t, string(StateHold), conflict.From)
	require.Equal(t, string(StateRunning), conflict.To)

	require.Equal(t, StateHold, j.State, "state must not change on a rejected transition")
}

func TestRestartRequiresTerminalState(t *testing.T) {
	t.Parallel()

	j := NewJob("demo", "align")
	require.NoError(t, j.Transition(StateQueued))

	err := j.Restart()
	require.Error(t, err)
	require.Equal(t, StateQueued, j.State)
}

func TestRestartResetsFromTerminalStateToQueued(t *testing.T) {
	t.Parallel()

	j := NewJob("demo", "align")
	j.ClusterID = "cluster-123"
	require.NoError(t, j.Transition(StateQueued))
	require.NoError(t, j.Transition(StateRunning))
	require.NoError(t, j.Transition(StateFailed))

	require.NoError(t, j.Restart())
	require.Equal(t, StateQueued, j.State)
	require.Empty(t, j.ClusterID)
}

func TestGroupHelpers(t *testing.T) {
	t.Parallel()

	j := NewJob("demo", "align")
	require.False(t, j.HasGroupFrom())
	require.False(t, j.HasGroupTo())

	j.GroupFrom = 3
	j.GroupTo = 4
	require.True(t, j.HasGroupFrom())
	require.True(t, j.HasGroupTo())
}
