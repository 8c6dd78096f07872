package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kderr/jobctl/internal/job"
)

func TestLocalSubmitAssignsClusterID(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	j := job.NewJob("demo", "align")

	id, err := l.Submit(context.Background(), j)
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestLocalSubmitHonorsFailNext(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	l.FailNext = "align"
	j := job.NewJob("demo", "align")

	_, err := l.Submit(context.Background(), j)
	require.Error(t, err)

	// Subsequent submissions are unaffected.
	_, err = l.Submit(context.Background(), j)
	require.NoError(t, err)
}

func TestLocalCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	j := job.NewJob("demo", "align")
	id, err := l.Submit(context.Background(), j)
	require.NoError(t, err)
	j.ClusterID = id

	require.NoError(t, l.Cancel(context.Background(), j))
	require.NoError(t, l.Cancel(context.Background(), j))
}

func TestLocalUpdateReflectsSubmittedState(t *testing.T) {
	t.Parallel()

	l := NewLocal()
	j := job.NewJob("demo", "align")
	id, err := l.Submit(context.Background(), j)
	require.NoError(t, err)
	j.ClusterID = id

	require.NoError(t, l.Update(context.Background(), j))
	require.Equal(t, job.StateQueued, j.State)
}
