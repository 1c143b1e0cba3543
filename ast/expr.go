package ast

import "github.com/relsim/sqlcore/token"

// ColumnRef is a column reference, optionally qualified by a table name
// (col_ref := ident ['.' ident]). Table is the literal qualifier as written;
// ResolvedTable is filled in by the validator (spec §4.5) once the reference
// has been attributed to exactly one in-scope table.
type ColumnRef struct {
	StartPos      token.Pos
	Table         string // qualifier as written; empty if unqualified
	Column        string
	ResolvedTable string
}

func (*ColumnRef) selectExprNode()  {}
func (*ColumnRef) operandNode()     {}
func (c *ColumnRef) Pos() token.Pos { return c.StartPos }

// Qualified reports whether the reference was written with a table prefix.
func (c *ColumnRef) Qualified() bool { return c.Table != "" }

// Star represents the bare '*' select item, or the '*' argument of COUNT(*).
type Star struct {
	StartPos token.Pos
}

func (*Star) selectExprNode()  {}
func (s *Star) Pos() token.Pos { return s.StartPos }

// LiteralKind identifies the kind of value a Literal holds.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal is a constant value appearing in a predicate, assignment, or
// INSERT VALUES list.
type Literal struct {
	StartPos token.Pos
	Kind     LiteralKind
	Num      float64
	Str      string
	Bool     bool
}

func (*Literal) operandNode()     {}
func (l *Literal) Pos() token.Pos { return l.StartPos }

// AggExpr is one of COUNT/SUM/AVG/MIN/MAX applied to '*' (COUNT only) or a
// column reference.
type AggExpr struct {
	StartPos token.Pos
	Func     string // "COUNT", "SUM", "AVG", "MIN", "MAX"
	Arg      SelectExpr
}

func (*AggExpr) selectExprNode()  {}
func (a *AggExpr) Pos() token.Pos { return a.StartPos }

// Comparison is one term of a predicate: operand op operand, or a bare
// boolean literal standing in for itself (spec §4.4 "comparison := ... |
// bool_literal // treated as \"= literal\"").
type Comparison struct {
	StartPos token.Pos
	Bare     *Literal // non-nil: this comparison is a standalone TRUE/FALSE
	Left     Operand
	Op       token.Type // EQ, NEQ, LT, LTE, GT, GTE, LIKE
	Right    Operand
}

func (c *Comparison) Pos() token.Pos { return c.StartPos }

// SelectItem is one entry of a select_list: an expression with an optional
// output alias (spec §9 "Alias-without-AS is a field on Item").
type SelectItem struct {
	Expr  SelectExpr
	Alias string // empty if no alias given
}

// OrderByClause is the single ORDER BY column and direction the grammar
// allows (no multi-column ORDER BY in this dialect).
type OrderByClause struct {
	Col  *ColumnRef
	Desc bool
}

// JoinClause is the single INNER JOIN the grammar allows, with an
// equality-only ON condition between two column references.
type JoinClause struct {
	StartPos token.Pos
	Table    string
	TablePos token.Pos
	Left     *ColumnRef
	Right    *ColumnRef
}
