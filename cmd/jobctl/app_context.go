package main

import (
	"github.com/kderr/jobctl/internal/cluster"
	"github.com/kderr/jobctl/internal/logger"
	"github.com/kderr/jobctl/internal/store"
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Logger   *logger.Logger
	Clusters *cluster.Registry
}

// OpenStore opens the SQLite store at path, falling back to the default
// location under the user's working directory when path is empty.
func (a *AppContext) OpenStore(path string) (*store.SQLiteStore, error) {
	if path == "" {
		path = "jobctl.db"
	}
	return store.Open(path)
}

// LoggerFor derives a child logger scoped to the given component.
func (a *AppContext) LoggerFor(component string) *logger.Logger {
	if a == nil || a.Logger == nil {
		return logger.Noop()
	}
	return a.Logger.WithFields(map[string]any{"component": component})
}
