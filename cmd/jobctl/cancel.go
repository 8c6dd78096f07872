package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kderr/jobctl/internal/job"
)

type cancelOptions struct {
	jobIDs  []string
	backend string
}

func newCancelCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &cancelOptions{}

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel jobs on their cluster backend and mark them Canceled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancel(cmd, app, root, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.jobIDs, "job", nil, "Job id or id range (e.g. 3-7), repeatable")
	cmd.Flags().StringVar(&opts.backend, "cluster", "local", "Cluster backend the jobs were submitted to")

	return cmd
}

func runCancel(cmd *cobra.Command, app *AppContext, root *rootFlags, opts *cancelOptions) error {
	ids, err := expandIDFlags(opts.jobIDs, readIDsFromPipe())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("cancel: no job ids given, pass --job or pipe ids in")
	}

	backend, err := app.Clusters.Resolve(opts.backend)
	if err != nil {
		return err
	}

	st, err := app.OpenStore(root.dbPath)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	jobs, err := st.ByIDs(ctx, ids, nil, nil)
	if err != nil {
		return err
	}

	for _, j := range jobs {
		if j.State.IsTerminal() {
			continue
		}
		if err := backend.Cancel(ctx, j); err != nil {
			return fmt.Errorf("cancel job %d: %w", j.ID, err)
		}
		if err := j.Transition(job.StateCanceled); err != nil {
			return err
		}
		if err := st.Update(ctx, j); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\tcanceled\n", j.ID)
	}
	return nil
}
