package localexec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kderr/jobctl/internal/graph"
	"github.com/kderr/jobctl/internal/group"
	"github.com/kderr/jobctl/internal/job"
	"github.com/kderr/jobctl/internal/logger"
)

// Options are the flags the Local Execution Engine accepts (§4.H).
type Options struct {
	Force  bool
	Keep   bool
	LogDir string
}

// Engine is the Local Execution Engine (§4.H): it assigns sequential local
// ids, runs jobs group by group in dependency order, and drives each job's
// state machine directly (no cluster backend involved).
type Engine struct {
	Logger *logger.Logger
}

// New returns an Engine.
func New(log *logger.Logger) *Engine {
	return &Engine{Logger: log}
}

// Run executes every group in g in topological order, aborting on the first
// group failure. It returns the first error encountered, or nil if every
// group completed (or was skipped because it was already Done).
func (e *Engine) Run(ctx context.Context, g *graph.Graph, opts Options) error {
	order, err := graph.TopologicalOrder(g.Nodes)
	if err != nil {
		return err
	}

	counter := job.ID(0)
	if err := graph.FinalizeIDs(order, func(j *job.Job) (job.ID, error) {
		counter++
		return counter, nil
	}); err != nil {
		return err
	}

	if err := checkOutputCollisions(order); err != nil {
		return err
	}

	groups := group.CreateGroups(order)

	for _, grp := range groups {
		head := grp.Head()

		if head.Job.State == job.StateDone && !opts.Force {
			continue
		}

		if err := e.runGroup(ctx, grp, opts); err != nil {
			return err
		}
	}

	return nil
}

// runGroup starts every member's subprocess, wiring member[i]'s stdout into
// member[i+1]'s stdin so the group's processes pipe together the way a
// shell `a | b | c` does, then waits for all of them and drives state
// transitions from the result.
func (e *Engine) runGroup(ctx context.Context, grp *group.Group, opts Options) error {
	cmds := make([]*exec.Cmd, len(grp.Members))
	logFiles := make([]*os.File, len(grp.Members))

	for i, member := range grp.Members {
		cmd := exec.CommandContext(ctx, member.Job.Interpreter, "-c", member.Job.Command)
		cmd.Dir = member.Job.WorkingDirectory

		logFile, err := e.openLogFile(member.Job, opts.LogDir)
		if err != nil {
			return err
		}
		logFiles[i] = logFile
		cmd.Stderr = logFile

		cmds[i] = cmd
	}

	// Only the tail member's stdout goes to its log file; every other member's
	// stdout is left unset here so StdoutPipe can wire it into the next
	// member's stdin below.
	cmds[len(cmds)-1].Stdout = logFiles[len(cmds)-1]

	for i := 0; i < len(cmds)-1; i++ {
		pipe, err := cmds[i].StdoutPipe()
		if err != nil {
			return fmt.Errorf("wire group pipe: %w", err)
		}
		cmds[i+1].Stdin = pipe
	}

	defer func() {
		for _, f := range logFiles {
			if f != nil {
				_ = f.Close()
			}
		}
	}()

	for _, member := range grp.Members {
		if err := member.Job.Transition(job.StateQueued); err != nil {
			return err
		}
		if err := member.Job.Transition(job.StateRunning); err != nil {
			return err
		}
	}

	for _, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			return e.fail(grp, opts, fmt.Errorf("start job: %w", err))
		}
	}

	var runErr error
	for _, cmd := range cmds {
		if err := cmd.Wait(); err != nil && runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		e.log().Warn(fmt.Sprintf("group %s failed", grp.Head().PipelineNodeID))
		return e.fail(grp, opts, runErr)
	}

	for _, member := range grp.Members {
		if err := member.Job.Transition(job.StateDone); err != nil {
			return err
		}
	}
	e.log().Debug(fmt.Sprintf("group %s done", grp.Head().PipelineNodeID))
	return nil
}

func (e *Engine) log() *logger.Logger {
	if e.Logger == nil {
		return logger.Noop()
	}
	return e.Logger
}

// fail transitions every member of grp to Failed, removes declared outputs
// unless opts.Keep, and returns runErr so the caller aborts the whole run.
func (e *Engine) fail(grp *group.Group, opts Options, runErr error) error {
	for _, member := range grp.Members {
		_ = member.Job.Transition(job.StateFailed)

		if !opts.Keep {
			for _, out := range member.Job.OutputFiles {
				path := out
				if !filepath.IsAbs(path) {
					path = filepath.Join(member.Job.WorkingDirectory, path)
				}
				_ = os.Remove(path)
			}
		}
	}
	return fmt.Errorf("group %s failed: %w", grp.Head().PipelineNodeID, runErr)
}

func (e *Engine) openLogFile(j *job.Job, logDir string) (*os.File, error) {
	dir := logDir
	if dir == "" {
		dir = j.WorkingDirectory
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf(".%s.log", j.Name))
	return os.Create(path)
}

func checkOutputCollisions(nodes []*graph.Node) error {
	seen := map[string]string{}
	for _, n := range nodes {
		for _, out := range n.Job.OutputFiles {
			path := out
			if !filepath.IsAbs(path) {
				path = filepath.Join(n.Job.WorkingDirectory, path)
			}
			if owner, ok := seen[path]; ok && owner != n.PipelineNodeID {
				return fmt.Errorf("output path %s already produced by job %s", path, owner)
			}
			seen[path] = n.PipelineNodeID
		}
	}
	return nil
}
