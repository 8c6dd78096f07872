package pipeline

// Node is one instantiated tool within a pipeline, already carrying resolved
// options (the tool/script parser that fills in `Tool` is an external
// collaborator; §1).
type Node struct {
	ID   string `yaml:"id" validate:"required,job_id"`
	Name string `yaml:"name,omitempty"`

	Tool Tool `yaml:"-"`

	// GroupFrom names the node this one continues as a piped/streamed group
	// member (§4.C); empty for a group head or a standalone node.
	GroupFrom string `yaml:"group_from,omitempty" validate:"omitempty,job_id"`

	AdditionalOptions map[string]string `yaml:"options,omitempty"`
}

// Edge records a producer → consumer data dependency between two nodes.
type Edge struct {
	From string `yaml:"from" validate:"required,job_id"`
	To   string `yaml:"to" validate:"required,job_id"`
}

// Settings carries pipeline-wide scheduler defaults applied before any
// per-tool profile override.
type Settings struct {
	WorkingDirectory string `yaml:"working_directory,omitempty"`
	Queue            string `yaml:"queue,omitempty"`
	Priority         int    `yaml:"priority,omitempty"`
	Threads          int    `yaml:"threads,omitempty" validate:"omitempty,min=1"`
	MaxTime          int    `yaml:"max_time,omitempty" validate:"omitempty,min=0"`
	MaxMemory        int64  `yaml:"max_memory,omitempty" validate:"omitempty,min=0"`
	Account          string `yaml:"account,omitempty"`
}

// Pipeline is the external input to the Graph Builder (§4.B): a set of
// tool-instance nodes and the data-dependency edges between them, plus the
// scheduler defaults every job inherits absent a more specific profile entry.
type Pipeline struct {
	Name     string   `yaml:"name" validate:"required,tool_name"`
	Nodes    []Node   `yaml:"nodes" validate:"required,min=1,dive"`
	Edges    []Edge   `yaml:"edges,omitempty" validate:"omitempty,dive"`
	Settings Settings `yaml:"settings,omitempty"`
}

// NodeByID returns the node with the given id, or false if none exists.
func (p *Pipeline) NodeByID(id string) (Node, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
