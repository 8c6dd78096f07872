package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("pipeline.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "pipeline.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "pipeline.yaml")
}

func TestValidationErrorAggregatesFields(t *testing.T) {
	t.Parallel()

	err := NewValidationError("nodes[1].depends_on", "references unknown node", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "nodes[1].depends_on", validationErr.Field)
	require.Contains(t, validationErr.Message, "references unknown node")
}

func TestToolNotFoundErrorIncludesSearchPaths(t *testing.T) {
	t.Parallel()

	err := NewToolNotFoundError("bwa", []string{"/opt/tools", "/usr/local/tools"})
	require.Contains(t, err.Error(), "bwa")
	require.Contains(t, err.Error(), "/opt/tools")
}

func TestClusterUnavailableErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("no such backend")
	err := NewClusterUnavailableError("slurm", underlying)

	var clusterErr *ClusterUnavailableError
	require.ErrorAs(t, err, &clusterErr)
	require.Equal(t, "slurm", clusterErr.Backend)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestSubmissionErrorIncludesJobID(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("queue rejected job")
	err := NewSubmissionError(42, underlying)

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, int64(42), submissionErr.JobID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestStateConflictErrorDescribesTransition(t *testing.T) {
	t.Parallel()

	err := NewStateConflictError(7, "done", "running")
	require.Contains(t, err.Error(), "7")
	require.Contains(t, err.Error(), "done")
	require.Contains(t, err.Error(), "running")
}
