package cluster

import (
	"context"

	"github.com/kderr/jobctl/internal/job"
)

// Backend is the Cluster Contract (§4.F): a polymorphic submit/cancel/update
// surface every cluster engine (and the local fake) satisfies. submit
// returning success means "accepted by the scheduler", not "done" — the
// contract never assumes synchronous execution.
type Backend interface {
	// Submit is synchronous; on rejection it returns a SubmissionError.
	Submit(ctx context.Context, j *job.Job) (job.ClusterID, error)
	// Cancel is idempotent: safe to call on an already-terminal job.
	Cancel(ctx context.Context, j *job.Job) error
	// Update refreshes j's state from the backend's view of the job.
	Update(ctx context.Context, j *job.Job) error
}
