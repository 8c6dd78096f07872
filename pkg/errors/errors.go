// Package errors collects the small set of typed errors shared by jobctl's
// core packages. ParseError, ValidationError, ClusterUnavailableError and
// SubmissionError wrap an optional underlying cause so callers can still use
// errors.Is/errors.As against it; ToolNotFoundError and StateConflictError
// carry no cause and have no Unwrap method.
package errors

import (
	"fmt"
)

// ParseError represents a pipeline or profile-spec YAML parsing failure with
// optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures pipeline, job, or profile validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ToolNotFoundError indicates a named tool could not be located on the
// configured search paths.
type ToolNotFoundError struct {
	Name        string
	SearchPaths []string
}

// NewToolNotFoundError constructs a ToolNotFoundError.
func NewToolNotFoundError(name string, searchPaths []string) error {
	return &ToolNotFoundError{Name: name, SearchPaths: searchPaths}
}

func (e *ToolNotFoundError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.SearchPaths) == 0 {
		return fmt.Sprintf("tool not found: %s", e.Name)
	}
	return fmt.Sprintf("tool not found: %s (searched %v)", e.Name, e.SearchPaths)
}

// ClusterUnavailableError indicates the cluster backend named in
// configuration could not be resolved or initialized.
type ClusterUnavailableError struct {
	Backend string
	Err     error
}

// NewClusterUnavailableError constructs a ClusterUnavailableError.
func NewClusterUnavailableError(backend string, err error) error {
	return &ClusterUnavailableError{Backend: backend, Err: err}
}

func (e *ClusterUnavailableError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("cluster backend %q unavailable: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("cluster backend %q unavailable", e.Backend)
}

// Unwrap exposes the underlying error.
func (e *ClusterUnavailableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SubmissionError indicates a cluster backend rejected a job submission.
type SubmissionError struct {
	JobID int64
	Err   error
}

// NewSubmissionError constructs a SubmissionError.
func NewSubmissionError(jobID int64, err error) error {
	return &SubmissionError{JobID: jobID, Err: err}
}

func (e *SubmissionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("submission error for job %d: %v", e.JobID, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SubmissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StateConflictError indicates an illegal job state transition was attempted.
type StateConflictError struct {
	JobID int64
	From  string
	To    string
}

// NewStateConflictError constructs a StateConflictError.
func NewStateConflictError(jobID int64, from, to string) error {
	return &StateConflictError{JobID: jobID, From: from, To: to}
}

func (e *StateConflictError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("job %d cannot transition from %s to %s", e.JobID, e.From, e.To)
}
