package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kderr/jobctl/internal/job"
	"github.com/kderr/jobctl/internal/store"
)

type listOptions struct {
	jobIDs     []string
	clusterIDs []string
	archived   bool
	jsonOutput bool
}

func newListCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs tracked in the job store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, root, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.jobIDs, "job", nil, "Job id or id range (e.g. 3-7), repeatable")
	cmd.Flags().StringSliceVar(&opts.clusterIDs, "cluster-job", nil, "Cluster id, repeatable")
	cmd.Flags().BoolVar(&opts.archived, "archived", false, "Include archived jobs")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runList(cmd *cobra.Command, app *AppContext, root *rootFlags, opts *listOptions) error {
	ids, err := expandIDFlags(opts.jobIDs, readIDsFromPipe())
	if err != nil {
		return err
	}

	clusterIDs := make([]job.ClusterID, 0, len(opts.clusterIDs))
	for _, c := range opts.clusterIDs {
		clusterIDs = append(clusterIDs, job.ClusterID(c))
	}

	st, err := app.OpenStore(root.dbPath)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer st.Close()

	var jobs []*job.Job
	if len(ids) == 0 && len(clusterIDs) == 0 {
		jobs, err = queryAllActive(st)
	} else {
		jobs, err = st.ByIDs(context.Background(), ids, clusterIDs, boolPtr(false))
		if err == nil && opts.archived {
			var archivedJobs []*job.Job
			archivedJobs, err = st.ByIDs(context.Background(), ids, clusterIDs, boolPtr(true))
			jobs = append(jobs, archivedJobs...)
		}
	}
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(jobs)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tSTATE\tCLUSTER ID\tPIPELINE")
	for _, j := range jobs {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n", j.ID, j.Name, j.State, j.ClusterID, j.Pipeline)
	}
	return writer.Flush()
}

// queryAllActive is the bare `jobctl list` fallback: show active jobs rather
// than the whole table, matching the Store's never-return-everything guard.
func queryAllActive(st *store.SQLiteStore) ([]*job.Job, error) {
	return st.ActiveWithOutputs(context.Background())
}

func expandIDFlags(flags []string, piped []int64) ([]job.ID, error) {
	var ids []job.ID
	for _, f := range flags {
		resolved, err := store.ResolveIDRange(f)
		if err != nil {
			return nil, err
		}
		for _, id := range resolved {
			ids = append(ids, job.ID(id))
		}
	}
	for _, id := range piped {
		ids = append(ids, job.ID(id))
	}
	return ids, nil
}

func boolPtr(b bool) *bool { return &b }
