package cluster

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/kderr/jobctl/internal/job"
	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

var errBackendRejected = errors.New("local backend: simulated rejection")

// Local is an in-memory fake cluster backend: it accepts every submission
// and assigns a uuid-derived cluster id, without ever actually running
// anything. It exists so the Submission Engine can be exercised (including
// its rollback path) without a real scheduler.
type Local struct {
	mu       sync.Mutex
	accepted map[job.ClusterID]job.State
	// FailNext, when non-empty, makes the next Submit call for a job whose
	// Name matches it return a SubmissionError — used to simulate a
	// mid-batch submission failure (§8 scenario 6).
	FailNext string
}

var _ Backend = (*Local)(nil)

// NewLocal returns an empty Local backend.
func NewLocal() *Local {
	return &Local{accepted: make(map[job.ClusterID]job.State)}
}

// Submit accepts the job unconditionally (unless it matches FailNext) and
// assigns it a new cluster id.
func (l *Local) Submit(ctx context.Context, j *job.Job) (job.ClusterID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailNext != "" && j.Name == l.FailNext {
		l.FailNext = ""
		return "", jobctlerrors.NewSubmissionError(int64(j.ID), errBackendRejected)
	}

	id := job.ClusterID(uuid.NewString())
	l.accepted[id] = job.StateQueued
	return id, nil
}

// Cancel marks the cluster id's tracked state Canceled; idempotent on
// already-terminal or unknown ids.
func (l *Local) Cancel(ctx context.Context, j *job.Job) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accepted[j.ClusterID] = job.StateCanceled
	return nil
}

// Update reports the fake's tracked state for j's cluster id, leaving j's
// state unchanged if the backend has never seen it.
func (l *Local) Update(ctx context.Context, j *job.Job) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok := l.accepted[j.ClusterID]; ok {
		j.State = state
	}
	return nil
}
