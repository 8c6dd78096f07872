package submit

import (
	"context"
	"fmt"

	"github.com/kderr/jobctl/internal/cluster"
	"github.com/kderr/jobctl/internal/graph"
	"github.com/kderr/jobctl/internal/group"
	"github.com/kderr/jobctl/internal/job"
	"github.com/kderr/jobctl/internal/logger"
	"github.com/kderr/jobctl/internal/reconcile"
	"github.com/kderr/jobctl/internal/store"
	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

// Options are the flags the Submission Engine accepts (§4.G): force bypasses
// the Reconciler's skip logic, hold persists without submitting, keep
// retains a failed job's outputs.
type Options struct {
	Backend string
	Force   bool
	Hold    bool
	Keep    bool
}

// Engine is the Submission Engine (§4.G): it persists a built graph, submits
// it to a cluster backend group by group in topological order, and rolls
// back the whole batch if any submission fails.
type Engine struct {
	Store      store.Store
	Clusters   *cluster.Registry
	Reconciler *reconcile.Reconciler
	Logger     *logger.Logger
}

// New returns an Engine wired to the given store and cluster registry.
func New(s store.Store, clusters *cluster.Registry, log *logger.Logger) *Engine {
	return &Engine{
		Store:      s,
		Clusters:   clusters,
		Reconciler: reconcile.New(s),
		Logger:     log,
	}
}

// Submit runs the full procedure in §4.G against g.
func (e *Engine) Submit(ctx context.Context, g *graph.Graph, opts Options) error {
	backend, err := e.Clusters.Resolve(opts.Backend)
	if err != nil {
		return err
	}

	result, err := e.Reconciler.Reconcile(ctx, g, opts.Force)
	if err != nil {
		return err
	}
	if len(result.Jobs) == 0 {
		e.log().Info("Skipping all jobs, all finished!")
		return nil
	}

	var persistedIDs []job.ID
	err = e.Store.Batch(ctx, func(b store.Batch) error {
		return graph.FinalizeIDs(result.Jobs, func(j *job.Job) (job.ID, error) {
			id, err := b.Insert(j)
			if err != nil {
				return 0, err
			}
			persistedIDs = append(persistedIDs, id)
			return id, nil
		})
	})
	if err != nil {
		return fmt.Errorf("persist job batch: %w", err)
	}

	if opts.Hold {
		return nil
	}

	groups := group.CreateGroups(result.Jobs)

	var submittedHeads []*job.Job
	for _, grp := range groups {
		head := grp.Head()

		if head.Job.State == job.StateDone && !opts.Force {
			continue
		}

		if err := head.Job.Transition(job.StateQueued); err != nil {
			e.rollback(ctx, persistedIDs, submittedHeads, backend)
			return err
		}

		clusterID, err := backend.Submit(ctx, head.Job)
		if err != nil {
			e.rollback(ctx, persistedIDs, submittedHeads, backend)
			return jobctlerrors.NewSubmissionError(int64(head.Job.ID), err)
		}

		head.Job.ClusterID = clusterID
		for _, member := range grp.Members {
			member.Job.ClusterID = clusterID
		}
		submittedHeads = append(submittedHeads, head.Job)

		for _, member := range grp.Members {
			if err := e.Store.Update(ctx, member.Job); err != nil {
				e.rollback(ctx, persistedIDs, submittedHeads, backend)
				return fmt.Errorf("commit group submission: %w", err)
			}
		}
	}

	return nil
}

// rollback deletes every job persisted during this invocation and issues a
// best-effort cancel against any group already submitted to the backend, so
// no partially-submitted graph remains (§4.G step 6). submittedHeads carries
// each head job's assigned ClusterID, since backends cancel by ClusterID, not
// local job.ID. Cancel failures are swallowed: they do not change the outcome
// of an already-failed submission.
func (e *Engine) rollback(ctx context.Context, persistedIDs []job.ID, submittedHeads []*job.Job, backend cluster.Backend) {
	for _, head := range submittedHeads {
		_ = backend.Cancel(ctx, head)
	}
	if err := e.Store.Delete(ctx, persistedIDs); err != nil {
		e.log().Error(err, "rollback: failed to delete persisted jobs")
	}
}

func (e *Engine) log() *logger.Logger {
	if e.Logger == nil {
		return logger.Noop()
	}
	return e.Logger
}
