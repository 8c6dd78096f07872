package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kderr/jobctl/internal/graph"
	"github.com/kderr/jobctl/internal/job"
	"github.com/kderr/jobctl/internal/pipeline"
	"github.com/kderr/jobctl/internal/store"
)

func scriptNode(id, output string) pipeline.Node {
	return pipeline.Node{
		ID: id,
		Tool: &pipeline.ScriptTool{
			ToolName:        id,
			ToolInterpreter: "bash",
			ToolCommand:     "cmd-" + id,
			Outputs:         []string{output},
		},
	}
}

func openStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReconcileSkipsWhenDoneSubgraph(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	p := &pipeline.Pipeline{
		Name: "demo",
		Nodes: []pipeline.Node{
			scriptNode("a", "a.out"),
			scriptNode("b", "b.out"),
		},
		Edges: []pipeline.Edge{{From: "a", To: "b"}},
	}
	g, err := graph.Build(p, nil, nil)
	require.NoError(t, err)

	for _, n := range g.Nodes {
		n.Job.State = job.StateDone
	}

	r := New(s)
	result, err := r.Reconcile(ctx, g, false)
	require.NoError(t, err)
	require.Empty(t, result.Jobs, "reconciler must return empty when the whole subgraph is Done")
}

func TestReconcileSkipsParentCollidingWithActiveJob(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	var runningID job.ID
	err := s.Batch(ctx, func(b store.Batch) error {
		running := job.NewJob("other-pipeline", "upstream")
		running.State = job.StateRunning
		running.WorkingDirectory = "/w"
		running.OutputFiles = []string{"out.bam"}
		id, err := b.Insert(running)
		runningID = id
		return err
	})
	require.NoError(t, err)

	p := &pipeline.Pipeline{
		Name: "demo",
		Nodes: []pipeline.Node{
			{
				ID: "colliding",
				Tool: &pipeline.ScriptTool{
					ToolName: "colliding", ToolInterpreter: "bash", ToolCommand: "cmd",
					Outputs: []string{"/w/out.bam"},
				},
			},
			scriptNode("independent", "independent.out"),
		},
	}
	g, err := graph.Build(p, nil, nil)
	require.NoError(t, err)

	r := New(s)
	result, err := r.Reconcile(ctx, g, false)
	require.NoError(t, err)

	var ids []string
	for _, n := range result.Jobs {
		ids = append(ids, n.PipelineNodeID)
	}
	require.NotContains(t, ids, "colliding")
	require.Contains(t, ids, "independent")

	require.Len(t, result.Conflicts, 1)
	require.Equal(t, runningID, result.Conflicts[0].ConflictingJobID)
	require.Equal(t, "colliding", result.Conflicts[0].ParentPipelineNodeID)
}

func TestReconcileForceBypassesSkipping(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	p := &pipeline.Pipeline{
		Name:  "demo",
		Nodes: []pipeline.Node{scriptNode("a", "a.out")},
	}
	g, err := graph.Build(p, nil, nil)
	require.NoError(t, err)
	g.Nodes[0].Job.State = job.StateDone

	r := New(s)
	result, err := r.Reconcile(ctx, g, true)
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
}
