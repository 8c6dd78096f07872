package cluster

import (
	"testing"

	"github.com/stretchr/testify/require"

	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

func TestResolveReturnsRegisteredBackend(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	local := NewLocal()
	r.Register("local", local)

	backend, err := r.Resolve("local")
	require.NoError(t, err)
	require.Equal(t, local, backend)
}

func TestResolveUnknownBackendRaisesClusterUnavailable(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Resolve("slurm")
	require.Error(t, err)

	var clusterErr *jobctlerrors.ClusterUnavailableError
	require.ErrorAs(t, err, &clusterErr)
	require.Equal(t, "slurm", clusterErr.Backend)
}
