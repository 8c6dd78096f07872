package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseValidPipeline(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "pipeline.yaml", `
name: demo
nodes:
  - id: a
  - id: b
edges:
  - from: a
    to: b
`)

	p, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "demo", p.Name)
	require.Len(t, p.Nodes, 2)
	require.Len(t, p.Edges, 1)
}

func TestParseRejectsMissingName(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "pipeline.yaml", `
nodes:
  - id: a
`)

	_, err := Parse(path)
	require.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "pipeline.yaml", "name: [unterminated")

	_, err := Parse(path)
	require.Error(t, err)
}

func TestParseProfileSpecKeyedByToolName(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "profile.yaml", `
bwa:
  threads: 8
  queue: fast
samtools:
  threads: 2
`)

	spec, err := ParseProfileSpec(path)
	require.NoError(t, err)
	require.Equal(t, 8, spec["bwa"].Threads)
	require.Equal(t, "fast", spec["bwa"].Queue)
	require.Equal(t, 2, spec["samtools"].Threads)
}

func TestParseMissingFileReturnsParseError(t *testing.T) {
	t.Parallel()

	_, err := Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
