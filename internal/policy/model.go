package policy

import "github.com/awmpietro/under5-screening/internal/policy/eval"

// Policy is a compiled decision graph. A walk starts at Start and, at every
// node, follows the first outgoing edge whose condition holds.
type Policy struct {
	Start string
	Nodes map[string]*Node
}

type Node struct {
	ID       string
	Result   []Assignment
	Outgoing []Edge
}

type Edge struct {
	To           string
	Cond         string
	CompiledCond *eval.Compiled
}

type Assignment struct {
	Key   string
	Value any
}
