package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

var allowedBinary = map[string]struct{}{
	"&&": {}, "||": {}, "and": {}, "or": {},
	"==": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

var allowedUnary = map[string]struct{}{
	"!": {}, "not": {},
}

// Validate rejects anything beyond comparisons and boolean logic over plain
// identifiers and literals.
func Validate(cond string) error {
	_, err := inspect(cond)
	return err
}

// inspect parses cond, checks every node against the allowed subset and
// returns the identifiers it references, sorted and de-duplicated.
func inspect(cond string) ([]string, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil, nil
	}

	tree, err := parser.Parse(cond)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", cond, err)
	}

	v := &guard{idents: map[string]struct{}{}}
	ast.Walk(&tree.Node, v)
	if v.err != nil {
		return nil, v.err
	}

	names := make([]string, 0, len(v.idents))
	for name := range v.idents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type guard struct {
	idents map[string]struct{}
	err    error
}

func (g *guard) Visit(node *ast.Node) {
	if g.err != nil {
		return
	}

	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		g.idents[n.Value] = struct{}{}
	case *ast.BoolNode, *ast.IntegerNode, *ast.FloatNode, *ast.StringNode, *ast.NilNode:
	case *ast.BinaryNode:
		if _, ok := allowedBinary[n.Operator]; !ok {
			g.err = fmt.Errorf("operator %q is not allowed", n.Operator)
		}
	case *ast.UnaryNode:
		if _, ok := allowedUnary[n.Operator]; !ok {
			g.err = fmt.Errorf("unary operator %q is not allowed", n.Operator)
		}
	case *ast.CallNode, *ast.BuiltinNode:
		g.err = fmt.Errorf("function calls are not allowed")
	case *ast.MemberNode:
		g.err = fmt.Errorf("member access is not allowed")
	default:
		g.err = fmt.Errorf("unsupported expression %T", n)
	}
}
