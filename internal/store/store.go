package store

import (
	"context"

	"github.com/kderr/jobctl/internal/job"
)

// Store is the Job Entity & Store contract (§4.A). Query semantics: if both
// id lists are empty, ByIDs returns an empty result set — never silently the
// whole table. The contract has no query that returns every job.
type Store interface {
	// Batch runs fn against a single transaction, used by the Submission
	// Engine to persist a whole built graph atomically (§4.G step 3).
	Batch(ctx context.Context, fn func(Batch) error) error

	Update(ctx context.Context, j *job.Job) error
	Delete(ctx context.Context, ids []job.ID) error

	// ByIDs honors id-range expansion done by the caller via ResolveIDRange;
	// a nil archived means "exclude archived", matching invariant 5.
	ByIDs(ctx context.Context, ids []job.ID, clusterIDs []job.ClusterID, archived *bool) ([]*job.Job, error)

	// ActiveWithOutputs returns every job in {Queued, Running, Hold} for the
	// Reconciler's output-collision check.
	ActiveWithOutputs(ctx context.Context) ([]*job.Job, error)

	Close() error
}

// Batch is the transactional insert surface handed to graph.FinalizeIDs so a
// DB-backed store and an in-memory local run can share the same id-assignment
// helper (see internal/graph.FinalizeIDs).
type Batch interface {
	Insert(j *job.Job) (job.ID, error)
}
