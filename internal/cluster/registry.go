package cluster

import (
	"sync"

	jobctlerrors "github.com/kderr/jobctl/pkg/errors"
)

// Registry is the name-keyed backend factory named in §6 ("plus a registry
// keyed by configuration string"). Resolve raises ClusterUnavailableError
// for unknown or misconfigured names (§4.F).
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register associates name with a concrete Backend.
func (r *Registry) Register(name string, backend Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = backend
}

// Resolve returns the backend registered under name, or a
// ClusterUnavailableError if none was registered.
func (r *Registry) Resolve(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, ok := r.backends[name]
	if !ok {
		return nil, jobctlerrors.NewClusterUnavailableError(name, nil)
	}
	return backend, nil
}
