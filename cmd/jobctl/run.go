package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kderr/jobctl/internal/graph"
	"github.com/kderr/jobctl/internal/localexec"
	"github.com/kderr/jobctl/internal/pipeline"
)

type runOptions struct {
	profilePath string
	force       bool
	keep        bool
	logDir      string
}

func newRunCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <pipeline.yaml>",
		Short: "Expand a pipeline and execute it directly on this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd, app, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "Path to a tool profile spec")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Re-run groups even if already done")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "Keep partial outputs of failed jobs")
	cmd.Flags().StringVar(&opts.logDir, "log-dir", "", "Directory for per-job log files")

	return cmd
}

func runLocal(cmd *cobra.Command, app *AppContext, opts *runOptions, pipelinePath string) error {
	log := app.LoggerFor("run")

	p, err := pipeline.Parse(pipelinePath)
	if err != nil {
		return err
	}

	var spec pipeline.ProfileSpec
	if opts.profilePath != "" {
		spec, err = pipeline.ParseProfileSpec(opts.profilePath)
		if err != nil {
			return err
		}
	}

	g, err := graph.Build(p, spec, nil)
	if err != nil {
		return err
	}

	engine := localexec.New(log)
	if err := engine.Run(context.Background(), g, localexec.Options{
		Force:  opts.force,
		Keep:   opts.keep,
		LogDir: opts.logDir,
	}); err != nil {
		return err
	}

	for _, n := range g.Nodes {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", n.Job.ID, n.Job.Name, n.Job.State)
	}
	return nil
}
