package cluster

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/kderr/jobctl/internal/job"
	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

// shellProc tracks one subprocess submitted through Shell: the running
// *exec.Cmd plus the outcome Wait eventually reports, guarded by Shell's
// mutex so Update never reads exec.Cmd state concurrently with the
// goroutine that calls Wait.
type shellProc struct {
	cmd    *exec.Cmd
	done   bool
	failed bool
}

// Shell is the backend registered as "shell": it submits by
// starting the job's command as an OS subprocess immediately, with no
// queueing, then tracks it by a uuid-derived cluster id so Update can report
// whether the process is still running.
type Shell struct {
	mu      sync.Mutex
	running map[job.ClusterID]*shellProc
}

var _ Backend = (*Shell)(nil)

// NewShell returns an empty Shell backend.
func NewShell() *Shell {
	return &Shell{running: make(map[job.ClusterID]*shellProc)}
}

// Submit starts j's command under j.Interpreter immediately and returns a
// new cluster id tracking the subprocess.
func (s *Shell) Submit(ctx context.Context, j *job.Job) (job.ClusterID, error) {
	cmd := exec.CommandContext(ctx, j.Interpreter, "-c", j.Command)
	cmd.Dir = j.WorkingDirectory

	if err := cmd.Start(); err != nil {
		return "", jobctlerrors.NewSubmissionError(int64(j.ID), fmt.Errorf("start subprocess: %w", err))
	}

	id := job.ClusterID(uuid.NewString())
	proc := &shellProc{cmd: cmd}
	s.mu.Lock()
	s.running[id] = proc
	s.mu.Unlock()

	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		proc.done = true
		proc.failed = err != nil
		s.mu.Unlock()
	}()

	return id, nil
}

// Cancel kills the tracked subprocess; idempotent if it already exited or
// the cluster id is unknown.
func (s *Shell) Cancel(ctx context.Context, j *job.Job) error {
	s.mu.Lock()
	proc, ok := s.running[j.ClusterID]
	s.mu.Unlock()
	if !ok || proc.cmd.Process == nil {
		return nil
	}
	_ = proc.cmd.Process.Kill()
	return nil
}

// Update reports Done if the tracked process has exited cleanly, Failed if
// it exited non-zero, or leaves j's state untouched while still running.
func (s *Shell) Update(ctx context.Context, j *job.Job) error {
	s.mu.Lock()
	proc, ok := s.running[j.ClusterID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	done, failed := proc.done, proc.failed
	s.mu.Unlock()

	if !done {
		return nil
	}
	if failed {
		j.State = job.StateFailed
	} else {
		j.State = job.StateDone
	}
	return nil
}
