// Package ast defines the abstract syntax tree produced by the parser: a
// closed sum type of seven statement kinds over a small expression algebra
// (spec §4.4, §9 "AST shape").
package ast

import "github.com/relsim/sqlcore/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Pos
}

// Statement is the sum type of the seven statement kinds: Query, CreateTable,
// AlterTable, DropTable, Insert, Update, Delete.
type Statement interface {
	Node
	statementNode()
}

// SelectExpr is a select_list item's expression: a *ColumnRef, *Star, or
// *AggExpr.
type SelectExpr interface {
	Node
	selectExprNode()
}

// Operand is a predicate/assignment operand: a *ColumnRef or *Literal.
type Operand interface {
	Node
	operandNode()
}
