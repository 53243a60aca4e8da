package policy

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/awmpietro/under5-screening/internal/policy/eval"
)

// Node and edge payloads live in the standard Graphviz label attribute, so a
// policy file still renders with dot(1).
const payloadAttr = "label"

type Compiler struct{}

func NewCompiler() *Compiler { return &Compiler{} }

func (c *Compiler) Compile(dot string) (*Policy, error) {
	ast, err := gographviz.ParseString(dot)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOT: %w", err)
	}

	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		return nil, fmt.Errorf("failed to analyze DOT: %w", err)
	}
	if !g.Directed {
		return nil, fmt.Errorf("policy must be a digraph")
	}

	p := &Policy{
		Start: "start",
		Nodes: make(map[string]*Node, len(g.Nodes.Nodes)),
	}

	for _, n := range g.Nodes.Nodes {
		assignments, err := ParseResult(getAttr(n.Attrs, payloadAttr))
		if err != nil {
			return nil, fmt.Errorf("invalid result in node %q: %w", n.Name, err)
		}
		p.Nodes[n.Name] = &Node{ID: n.Name, Result: assignments}
	}

	if _, ok := p.Nodes[p.Start]; !ok {
		return nil, fmt.Errorf("missing %q node", p.Start)
	}

	// gographviz does not keep statement order, and first-match semantics
	// depend on it.
	edges, err := extractEdgesInTextOrder(dot)
	if err != nil {
		return nil, fmt.Errorf("failed to extract edge order from DOT: %w", err)
	}

	for _, e := range edges {
		from, ok := p.Nodes[e.From]
		if !ok {
			return nil, fmt.Errorf("edge references unknown source node %q", e.From)
		}
		if _, ok := p.Nodes[e.To]; !ok {
			return nil, fmt.Errorf("edge references unknown destination node %q", e.To)
		}

		compiled, err := eval.Compile(e.Cond)
		if err != nil {
			return nil, fmt.Errorf("invalid cond on edge %s->%s: %w", e.From, e.To, err)
		}

		from.Outgoing = append(from.Outgoing, Edge{
			To:           e.To,
			Cond:         compiled.Source,
			CompiledCond: compiled,
		})
	}

	return p, nil
}

// MustCompile is Compile for policies embedded in the binary.
func (c *Compiler) MustCompile(dot string) *Policy {
	p, err := c.Compile(dot)
	if err != nil {
		panic(err)
	}
	return p
}

func getAttr(attrs gographviz.Attrs, key string) string {
	val, ok := attrs[gographviz.Attr(key)]
	if !ok {
		return ""
	}
	return unquote(strings.TrimSpace(val))
}

func unquote(val string) string {
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	return strings.ReplaceAll(val, `\"`, `"`)
}
