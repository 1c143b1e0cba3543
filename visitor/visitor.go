// Package visitor provides AST traversal used by the validator to collect
// every column reference appearing in a WHERE clause without re-deriving
// the per-statement shape.
package visitor

import "github.com/relsim/sqlcore/ast"

// Visitor is the interface for AST traversal. Visit returns the Visitor to
// continue descending with, or nil to stop at this node.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses node and its operand children in depth-first order.
func Walk(v Visitor, node ast.Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	switch n := node.(type) {
	case *ast.Comparison:
		if n.Left != nil {
			Walk(v, n.Left)
		}
		if n.Right != nil {
			Walk(v, n.Right)
		}
	case *ast.AggExpr:
		if n.Arg != nil {
			Walk(v, n.Arg)
		}
	}
}

// WalkFunc calls fn for every node reachable from node; fn returning false
// stops descent into that node's children.
func WalkFunc(node ast.Node, fn func(ast.Node) bool) {
	Walk(&funcVisitor{fn: fn}, node)
}

type funcVisitor struct {
	fn func(ast.Node) bool
}

func (v *funcVisitor) Visit(node ast.Node) Visitor {
	if v.fn(node) {
		return v
	}
	return nil
}

// ColumnRefs collects every *ast.ColumnRef reachable from node (e.g. a
// predicate's list of *ast.Comparison, or a single select_list expression).
func ColumnRefs(node ast.Node) []*ast.ColumnRef {
	var out []*ast.ColumnRef
	WalkFunc(node, func(n ast.Node) bool {
		if c, ok := n.(*ast.ColumnRef); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ColumnRefsIn collects the column refs across a whole AND-list predicate.
func ColumnRefsIn(comparisons []*ast.Comparison) []*ast.ColumnRef {
	var out []*ast.ColumnRef
	for _, c := range comparisons {
		out = append(out, ColumnRefs(c)...)
	}
	return out
}
