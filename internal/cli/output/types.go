package output

// BuildOutput is the structured result of the build command.
type BuildOutput struct {
	BuildID    string   `json:"build_id" yaml:"build_id"`
	Entry      string   `json:"entry" yaml:"entry"`
	Out        string   `json:"out,omitempty" yaml:"out,omitempty"`
	Modules    int      `json:"modules" yaml:"modules"`
	Files      int      `json:"files" yaml:"files"`
	Bytes      int      `json:"bytes" yaml:"bytes"`
	DurationMS int64    `json:"duration_ms" yaml:"duration_ms"`
	Cycle      []string `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// GraphOutput is the structured result of the graph command.
type GraphOutput struct {
	Entry   string        `json:"entry" yaml:"entry"`
	Modules []GraphModule `json:"modules" yaml:"modules"`
	Files   int           `json:"files" yaml:"files"`
	Edges   int           `json:"edges" yaml:"edges"`
	Leaves  []int         `json:"leaves" yaml:"leaves"`
	Cycle   []string      `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// GraphModule describes one module in GraphOutput.
type GraphModule struct {
	ID         int            `json:"id" yaml:"id"`
	Path       string         `json:"path" yaml:"path"`
	Specifiers []string       `json:"specifiers" yaml:"specifiers"`
	Mapping    map[string]int `json:"mapping" yaml:"mapping"`
	ImportedBy []int          `json:"imported_by" yaml:"imported_by"`
}
