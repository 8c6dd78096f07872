package job

import (
	"time"

	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

// ID is a job's local, monotonic identifier. It is assigned on persistence
// or, for local runs, sequentially starting at 1.
type ID int64

// ClusterID is the opaque identifier a cluster backend assigns on submit.
// It is empty until the job (or its group head) has been submitted.
type ClusterID string

// Job is the central persisted entity: one unit of work produced by the
// Graph Builder, tracked through the state machine by the Submission Engine
// or the Local Execution Engine.
type Job struct {
	ID        ID
	ClusterID ClusterID

	Pipeline string
	Name     string
	State    State
	Archived bool

	Interpreter string
	Command     string

	WorkingDirectory string

	Queue     string
	Priority  int
	Threads   int
	MaxTime   time.Duration
	MaxMemory int64
	Account   string

	// Dependencies lists upstream jobs that must reach StateDone before this
	// job may run. It reflects externally visible dependencies only; group
	// chaining (GroupFrom/GroupTo) is tracked separately and never folded in
	// here.
	Dependencies []ID

	// GroupFrom/GroupTo mark this job as a continuation of a streamed/piped
	// group (§4.C). A job with GroupFrom set reads its predecessor's stdout.
	GroupFrom ID
	GroupTo   ID

	InputFiles  []string
	OutputFiles []string

	AdditionalOptions map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob constructs a Job in its initial Hold state.
func NewJob(pipeline, name string) *Job {
	return &Job{
		Pipeline: pipeline,
		Name:     name,
		State:    StateHold,
	}
}

// HasGroupFrom reports whether this job continues a group chain.
func (j *Job) HasGroupFrom() bool {
	return j.GroupFrom != 0
}

// HasGroupTo reports whether this job has a group successor.
func (j *Job) HasGroupTo() bool {
	return j.GroupTo != 0
}

// Transition moves the job to next, rejecting any hop not present in the
// allowed-transition table.
func (j *Job) Transition(next State) error {
	if !j.State.CanTransition(next) {
		return jobctlerrors.NewStateConflictError(int64(j.ID), string(j.State), string(next))
	}
	j.State = next
	return nil
}

// Restart resets a job in a terminal state back to Queued, the one state
// change the transition table deliberately does not encode: it is always an
// explicit, caller-initiated action, never an implicit side effect of a
// normal run.
func (j *Job) Restart() error {
	if !j.State.IsTerminal() {
		return jobctlerrors.NewStateConflictError(int64(j.ID), string(j.State), string(StateQueued))
	}
	j.State = StateQueued
	j.ClusterID = ""
	return nil
}
