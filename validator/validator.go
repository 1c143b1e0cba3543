// Package validator implements the SELECT-only semantic checks of spec §4.5:
// table/column resolution, ambiguity detection, and aggregate/GROUP BY
// discipline. It never executes anything; it only annotates the AST
// (ColumnRef.ResolvedTable) and returns the first failing check.
package validator

import (
	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/catalog"
	"github.com/relsim/sqlcore/errors"
	"github.com/relsim/sqlcore/visitor"
)

// Validate checks q against cat, resolving every column reference in place.
func Validate(q *ast.QueryStmt, cat *catalog.Catalog) error {
	if !cat.HasTable(q.From) {
		return errors.New(errors.UnknownTable, q.FromPos.Offset, "unknown table %q", q.From)
	}
	scope := []string{q.From}

	if q.Join != nil {
		if !cat.HasTable(q.Join.Table) {
			return errors.New(errors.UnknownTable, q.Join.TablePos.Offset, "unknown table %q", q.Join.Table)
		}
		scope = append(scope, q.Join.Table)
	}

	if q.Join != nil {
		if err := resolveColumnRef(q.Join.Left, scope, cat); err != nil {
			return err
		}
		if err := resolveColumnRef(q.Join.Right, scope, cat); err != nil {
			return err
		}
	}

	for _, c := range visitor.ColumnRefsIn(q.Where) {
		if err := resolveColumnRef(c, scope, cat); err != nil {
			return err
		}
	}

	for _, c := range q.GroupBy {
		if err := resolveColumnRef(c, scope, cat); err != nil {
			return err
		}
	}

	if q.OrderBy != nil {
		if err := resolveColumnRef(q.OrderBy.Col, scope, cat); err != nil {
			return err
		}
	}

	if q.IsStar() {
		if len(q.GroupBy) > 0 {
			return errors.New(errors.SyntaxError, q.StartPos.Offset, "SELECT * cannot be combined with GROUP BY")
		}
		return nil
	}

	var bareCols []*ast.ColumnRef
	hasAgg := false
	for _, item := range q.SelectList {
		switch e := item.Expr.(type) {
		case *ast.ColumnRef:
			if err := resolveColumnRef(e, scope, cat); err != nil {
				return err
			}
			bareCols = append(bareCols, e)
		case *ast.AggExpr:
			hasAgg = true
			if col, ok := e.Arg.(*ast.ColumnRef); ok {
				if err := resolveColumnRef(col, scope, cat); err != nil {
					return err
				}
			}
		}
	}

	return checkAggregateDiscipline(q, bareCols, hasAgg)
}

// resolveColumnRef resolves c against scope, attaching ResolvedTable on
// success (spec §4.5 step 2).
func resolveColumnRef(c *ast.ColumnRef, scope []string, cat *catalog.Catalog) error {
	if c.Qualified() {
		inScope := false
		for _, t := range scope {
			if t == c.Table {
				inScope = true
				break
			}
		}
		if !inScope {
			return errors.New(errors.UnknownTable, c.StartPos.Offset, "table %q is not in scope", c.Table)
		}
		if !cat.HasColumn(c.Table, c.Column) {
			return errors.New(errors.UnknownColumn, c.StartPos.Offset, "unknown column %q on table %q", c.Column, c.Table)
		}
		c.ResolvedTable = c.Table
		return nil
	}

	var matches []string
	for _, t := range scope {
		if cat.HasColumn(t, c.Column) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return errors.New(errors.UnknownColumn, c.StartPos.Offset, "unknown column %q", c.Column)
	case 1:
		c.ResolvedTable = matches[0]
		return nil
	default:
		return errors.New(errors.AmbiguousColumn, c.StartPos.Offset, "column %q is ambiguous between tables %v", c.Column, matches)
	}
}

// checkAggregateDiscipline implements spec §4.5 step 3: let A be the
// non-aggregate column refs in the select list and G the resolved GROUP BY
// columns; require A ⊆ G, and reject mixing bare columns with aggregates
// when there is no GROUP BY at all.
func checkAggregateDiscipline(q *ast.QueryStmt, bareCols []*ast.ColumnRef, hasAgg bool) error {
	if len(q.GroupBy) == 0 {
		if hasAgg && len(bareCols) > 0 {
			return errors.New(errors.SyntaxError, bareCols[0].StartPos.Offset,
				"column %q must appear in GROUP BY or be used in an aggregate", bareCols[0].Column)
		}
		return nil
	}

	for _, c := range bareCols {
		inGroup := false
		for _, g := range q.GroupBy {
			if g.ResolvedTable == c.ResolvedTable && g.Column == c.Column {
				inGroup = true
				break
			}
		}
		if !inGroup {
			return errors.New(errors.SyntaxError, c.StartPos.Offset,
				"column %q must appear in GROUP BY", c.Column)
		}
	}
	return nil
}
