// Package format renders AST fragments back to canonical text: the default
// output-column names projection uses when a select_list item has no alias
// (spec §4.6 step 4 — "F(arg)" for aggregates, "t.c"/"c" for column refs).
package format

import (
	"strconv"
	"strings"

	"github.com/relsim/sqlcore/ast"
)

// ColumnRef renders a column reference in its written form: "t.c" when
// qualified, otherwise bare "c".
func ColumnRef(c *ast.ColumnRef) string {
	if c.Qualified() {
		return c.Table + "." + c.Column
	}
	return c.Column
}

// SelectExpr renders the canonical default name for a select_list expression:
// a column ref in its written form, "*" for Star, or "FUNC(arg)" for an
// aggregate.
func SelectExpr(e ast.SelectExpr) string {
	switch n := e.(type) {
	case *ast.ColumnRef:
		return ColumnRef(n)
	case *ast.Star:
		return "*"
	case *ast.AggExpr:
		return n.Func + "(" + SelectExpr(n.Arg) + ")"
	default:
		return ""
	}
}

// Literal renders a literal value the way it would appear back in SQL text;
// executor.typeCheck uses it to name the offending value in a TypeMismatch
// error message.
func Literal(l *ast.Literal) string {
	switch l.Kind {
	case ast.LiteralNull:
		return "NULL"
	case ast.LiteralBool:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ast.LiteralString:
		return "'" + strings.ReplaceAll(l.Str, "'", "''") + "'"
	default:
		return strconv.FormatFloat(l.Num, 'g', -1, 64)
	}
}
