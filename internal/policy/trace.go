package policy

const (
	TerminatedLeaf          = "leaf"
	TerminatedNoEdgeMatched = "no_edge_matched"
	TerminatedMissingVars   = "error_missing_vars"
	TerminatedEvalError     = "error_eval"
	TerminatedUnknownNode   = "error_unknown_node"
	TerminatedMaxSteps      = "error_max_steps"
)

type ExecutionTrace struct {
	StartNode   string      `json:"start_node"`
	VisitedPath []string    `json:"visited_path"`
	Steps       []TraceStep `json:"steps"`
	EndNode     string      `json:"end_node"`
	Terminated  string      `json:"terminated"`
}

type TraceStep struct {
	NodeID         string         `json:"node_id"`
	DurationMicros int64          `json:"duration_micros"`
	Assigned       map[string]any `json:"assigned,omitempty"`
	ChosenNext     string         `json:"chosen_next,omitempty"`
	Edges          []EdgeTrace    `json:"edges,omitempty"`
}

type EdgeTrace struct {
	To      string `json:"to"`
	Cond    string `json:"cond"`
	Matched bool   `json:"matched"`
	Error   string `json:"error,omitempty"`
}
