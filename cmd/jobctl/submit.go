package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kderr/jobctl/internal/graph"
	"github.com/kderr/jobctl/internal/pipeline"
	"github.com/kderr/jobctl/internal/submit"
)

type submitOptions struct {
	profilePath string
	backend     string
	force       bool
	hold        bool
	keep        bool
}

func newSubmitCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit <pipeline.yaml>",
		Short: "Expand a pipeline into jobs, persist them, and submit to a cluster backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, app, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "Path to a tool profile spec")
	cmd.Flags().StringVar(&opts.backend, "cluster", "local", "Cluster backend to submit to")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Resubmit even if matching output jobs are already done")
	cmd.Flags().BoolVar(&opts.hold, "hold", false, "Persist the jobs without submitting them")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "Keep partial outputs of failed jobs")

	return cmd
}

func runSubmit(cmd *cobra.Command, app *AppContext, root *rootFlags, opts *submitOptions, pipelinePath string) error {
	log := app.LoggerFor("submit")

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

	st, err := app.OpenStore(root.dbPath)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer st.Close()

	engine := submit.New(st, app.Clusters, log)
	ctx := context.Background()

	if err := engine.Submit(ctx, g, submit.Options{
		Backend: opts.backend,
		Force:   opts.force,
		Hold:    opts.hold,
		Keep:    opts.keep,
	}); err != nil {
		return err
	}

	for _, n := range g.Nodes {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", n.Job.ID, n.Job.Name, n.Job.State)
	}
	return nil
}
