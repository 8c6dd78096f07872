package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kderr/jobctl/internal/pipeline"
)

func scriptNode(id, cmd, output string) pipeline.Node {
	return pipeline.Node{
		ID: id,
		Tool: &pipeline.ScriptTool{
			ToolName:        id,
			ToolInterpreter: "bash",
			ToolCommand:     cmd,
			Outputs:         []string{output},
		},
	}
}

func TestBuildSingleJob(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Name:  "demo",
		Nodes: []pipeline.Node{scriptNode("a", "(testme)> test.out", "test.out")},
	}

	g, err := Build(p, nil, nil)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	require.Equal(t, "(testme)> test.out", g.Nodes[0].Job.Command)
}

func TestBuildWiresDependenciesFromEdges(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Name: "demo",
		Nodes: []pipeline.Node{
			scriptNode("a", "cmd-a", "a.out"),
			scriptNode("b", "cmd-b", "b.out"),
		},
		Edges: []pipeline.Edge{{From: "a", To: "b"}},
	}

	g, err := Build(p, nil, nil)
	require.NoError(t, err)

	b, ok := g.ByPipelineNodeID("b")
	require.True(t, ok)
	require.Len(t, b.DependsOn, 1)
	require.Equal(t, "a", b.DependsOn[0].PipelineNodeID)
}

func TestBuildRejectsOutputCollision(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Name: "demo",
		Nodes: []pipeline.Node{
			scriptNode("a", "cmd-a", "same.out"),
			scriptNode("b", "cmd-b", "same.out"),
		},
	}

	_, err := Build(p, nil, nil)
	require.Error(t, err)
}

func TestBuildRejectsCycle(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Name: "demo",
		Nodes: []pipeline.Node{
			scriptNode("a", "cmd-a", "a.out"),
			scriptNode("b", "cmd-b", "b.out"),
		},
		Edges: []pipeline.Edge{
			{From: "a", To: "b"},
			{From: "b", To: "a"},
		},
	}

	_, err := Build(p, nil, nil)
	require.Error(t, err)
}

func TestBuildAppliesProfileSpec(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Name:     "demo",
		Settings: pipeline.Settings{Threads: 1, Queue: "default"},
		Nodes:    []pipeline.Node{scriptNode("bwa", "cmd", "out.bam")},
	}
	spec := pipeline.ProfileSpec{"bwa": pipeline.Profile{Threads: 8, Queue: "fast", MaxTime: 90, MaxMemory: 4096}}

	g, err := Build(p, spec, nil)
	require.NoError(t, err)
	require.Equal(t, 8, g.Nodes[0].Job.Threads)
	require.Equal(t, "fast", g.Nodes[0].Job.Queue)
	require.Equal(t, 90*time.Minute, g.Nodes[0].Job.MaxTime)
	require.Equal(t, int64(4096), g.Nodes[0].Job.MaxMemory)
}

func TestBuildGroupChainDoesNotPolluteDependencies(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		Name: "demo",
		Nodes: []pipeline.Node{
			scriptNode("a", "echo hi", ""),
			{ID: "b", GroupFrom: "a", Tool: &pipeline.ScriptTool{ToolName: "b", ToolInterpreter: "bash", ToolCommand: "cat", Outputs: []string{"r.txt"}}},
		},
	}

	g, err := Build(p, nil, nil)
	require.NoError(t, err)

	b, ok := g.ByPipelineNodeID("b")
	require.True(t, ok)
	require.Empty(t, b.DependsOn, "group chaining must not be folded into Dependencies")
	require.NotNil(t, b.GroupPred)
	require.Equal(t, "a", b.GroupPred.PipelineNodeID)
}
