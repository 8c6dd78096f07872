package main

import (
	"fmt"
	"os"

	"github.com/kderr/jobctl/internal/cluster"
	"github.com/kderr/jobctl/internal/logger"
)

func main() {
	appLogger, err := logger.New(logger.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "cmd",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	registry := cluster.NewRegistry()
	registry.Register("local", cluster.NewLocal())
	registry.Register("shell", cluster.NewShell())

	app := &AppContext{
		Logger:   appLogger,
		Clusters: registry,
	}

	rootCmd := newRootCmd(app)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
