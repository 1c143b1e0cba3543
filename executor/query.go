package executor

import (
	"sort"
	"strings"

	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/catalog"
	"github.com/relsim/sqlcore/format"
)

// group is the unit spec §4.6 step 3 partitions scoped rows into: either one
// per distinct GROUP BY key, a single group covering every row when an
// aggregate appears without GROUP BY, or one group per row when neither
// applies (a trivial partition that lets projection share one code path).
type group struct {
	rows []scopedRow
}

func executeQuery(q *ast.QueryStmt, cat *catalog.Catalog) (*Result, error) {
	scope := []string{q.From}
	if q.Join != nil {
		scope = append(scope, q.Join.Table)
	}

	scoped := buildScopedRows(q, cat)
	scoped = filterWhere(scoped, q.Where)

	hasAgg := false
	for _, item := range q.SelectList {
		if _, ok := item.Expr.(*ast.AggExpr); ok {
			hasAgg = true
			break
		}
	}
	grouped := len(q.GroupBy) > 0 || hasAgg

	var groups []*group
	switch {
	case len(q.GroupBy) > 0:
		groups = partitionGroups(scoped, q.GroupBy)
	case hasAgg:
		groups = []*group{{rows: scoped}}
	default:
		groups = make([]*group, len(scoped))
		for i, sr := range scoped {
			groups[i] = &group{rows: []scopedRow{sr}}
		}
	}

	columns, rows, reps := project(q, scope, groups, cat)

	if q.Distinct {
		rows, reps = dedupRows(rows, reps)
	}

	if q.OrderBy != nil {
		sortRows(q, columns, rows, reps, grouped)
	}

	if q.Limit != nil && *q.Limit < len(rows) {
		rows = rows[:*q.Limit]
	}

	return &Result{Columns: columns, Rows: rows, RowCount: len(rows)}, nil
}

// buildScopedRows implements spec §4.6 step 1: each FROM row becomes a scoped
// row; with a JOIN, form the cross product and keep only combinations where
// the ON comparison holds.
func buildScopedRows(q *ast.QueryStmt, cat *catalog.Catalog) []scopedRow {
	fromRows := cat.RowsOf(q.From)
	if q.Join == nil {
		out := make([]scopedRow, len(fromRows))
		for i, r := range fromRows {
			out[i] = scopedRow{q.From: r}
		}
		return out
	}

	joinRows := cat.RowsOf(q.Join.Table)
	var out []scopedRow
	for _, lr := range fromRows {
		for _, rr := range joinRows {
			sr := scopedRow{q.From: lr, q.Join.Table: rr}
			lv := columnValue(sr, q.Join.Left)
			rv := columnValue(sr, q.Join.Right)
			if !lv.IsNull() && !rv.IsNull() && lv.Equal(rv) {
				out = append(out, sr)
			}
		}
	}
	return out
}

func filterWhere(rows []scopedRow, where []*ast.Comparison) []scopedRow {
	if len(where) == 0 {
		return rows
	}
	out := make([]scopedRow, 0, len(rows))
	for _, sr := range rows {
		if evalPredicate(where, sr) {
			out = append(out, sr)
		}
	}
	return out
}

// partitionGroups implements spec §4.6 step 3's GROUP BY partitioning,
// preserving first-seen group order.
func partitionGroups(rows []scopedRow, groupBy []*ast.ColumnRef) []*group {
	index := map[string]*group{}
	var groups []*group
	for _, sr := range rows {
		var key strings.Builder
		for _, g := range groupBy {
			key.WriteString(valueKey(columnValue(sr, g)))
			key.WriteByte(0x1f)
		}
		k := key.String()
		grp, ok := index[k]
		if !ok {
			grp = &group{}
			index[k] = grp
			groups = append(groups, grp)
		}
		grp.rows = append(grp.rows, sr)
	}
	return groups
}

// project implements spec §4.6 step 4. It returns the output columns, one
// projected row per group, and a parallel "representative" scoped row per
// output row — the first row of that group, used by the ORDER BY fallback
// when the column isn't part of the projection.
func project(q *ast.QueryStmt, scope []string, groups []*group, cat *catalog.Catalog) ([]string, [][]catalog.Value, []scopedRow) {
	if q.IsStar() {
		return projectStar(scope, groups, cat)
	}

	multiTable := len(scope) > 1
	columns := make([]string, len(q.SelectList))
	for i, item := range q.SelectList {
		if item.Alias != "" {
			columns[i] = item.Alias
		} else {
			columns[i] = defaultColumnName(item.Expr, multiTable)
		}
	}

	rows := make([][]catalog.Value, len(groups))
	reps := make([]scopedRow, len(groups))
	for gi, grp := range groups {
		row := make([]catalog.Value, len(q.SelectList))
		for i, item := range q.SelectList {
			switch e := item.Expr.(type) {
			case *ast.ColumnRef:
				if len(grp.rows) > 0 {
					row[i] = columnValue(grp.rows[0], e)
				} else {
					row[i] = catalog.Null
				}
			case *ast.AggExpr:
				row[i] = evalAggregate(e, grp.rows)
			}
		}
		rows[gi] = row
		if len(grp.rows) > 0 {
			reps[gi] = grp.rows[0]
		}
	}
	return columns, rows, reps
}

func projectStar(scope []string, groups []*group, cat *catalog.Catalog) ([]string, [][]catalog.Value, []scopedRow) {
	type col struct {
		table string
		name  string
	}
	var cols []col
	multiTable := len(scope) > 1
	for _, t := range scope {
		for _, cd := range cat.ColumnsOf(t) {
			cols = append(cols, col{table: t, name: cd.Name})
		}
	}
	columns := make([]string, len(cols))
	for i, c := range cols {
		if multiTable {
			columns[i] = c.table + "." + c.name
		} else {
			columns[i] = c.name
		}
	}

	rows := make([][]catalog.Value, len(groups))
	reps := make([]scopedRow, len(groups))
	for gi, grp := range groups {
		row := make([]catalog.Value, len(cols))
		if len(grp.rows) > 0 {
			sr := grp.rows[0]
			for i, c := range cols {
				if r, ok := sr[c.table]; ok {
					row[i] = r[c.name]
				} else {
					row[i] = catalog.Null
				}
			}
			reps[gi] = sr
		}
		rows[gi] = row
	}
	return columns, rows, reps
}

// defaultColumnName implements spec §4.6 step 4's naming rule for items with
// no alias: a column ref renders qualified ("t.c") when written qualified or
// when the scope has more than one table, otherwise bare; an aggregate
// renders its canonical "F(arg)" form.
func defaultColumnName(e ast.SelectExpr, multiTable bool) string {
	if c, ok := e.(*ast.ColumnRef); ok {
		if c.Qualified() || multiTable {
			table := c.Table
			if table == "" {
				table = c.ResolvedTable
			}
			return table + "." + c.Column
		}
		return c.Column
	}
	return format.SelectExpr(e)
}

func evalAggregate(agg *ast.AggExpr, rows []scopedRow) catalog.Value {
	if agg.Func == "COUNT" {
		if _, ok := agg.Arg.(*ast.Star); ok {
			return catalog.NumberValue(float64(len(rows)))
		}
		col := agg.Arg.(*ast.ColumnRef)
		n := 0
		for _, r := range rows {
			if v := columnValue(r, col); !v.IsNull() {
				n++
			}
		}
		return catalog.NumberValue(float64(n))
	}

	col := agg.Arg.(*ast.ColumnRef)
	var nums []float64
	for _, r := range rows {
		v := columnValue(r, col)
		if v.IsNull() || v.Kind != catalog.KindNumber {
			continue
		}
		nums = append(nums, v.Num)
	}
	if len(nums) == 0 {
		return catalog.Null
	}
	switch agg.Func {
	case "SUM":
		s := 0.0
		for _, n := range nums {
			s += n
		}
		return catalog.NumberValue(s)
	case "AVG":
		s := 0.0
		for _, n := range nums {
			s += n
		}
		return catalog.NumberValue(roundHalfAwayFromZero(s/float64(len(nums)), 2))
	case "MIN":
		m := nums[0]
		for _, n := range nums[1:] {
			if n < m {
				m = n
			}
		}
		return catalog.NumberValue(m)
	case "MAX":
		m := nums[0]
		for _, n := range nums[1:] {
			if n > m {
				m = n
			}
		}
		return catalog.NumberValue(m)
	}
	return catalog.Null
}

// dedupRows implements spec §4.6 step 5 (DISTINCT), keeping the first
// occurrence of each distinct projected tuple and its representative row.
func dedupRows(rows [][]catalog.Value, reps []scopedRow) ([][]catalog.Value, []scopedRow) {
	seen := map[string]bool{}
	outRows := make([][]catalog.Value, 0, len(rows))
	outReps := make([]scopedRow, 0, len(reps))
	for i, r := range rows {
		var key strings.Builder
		for _, v := range r {
			key.WriteString(valueKey(v))
			key.WriteByte(0x1f)
		}
		k := key.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		outRows = append(outRows, r)
		outReps = append(outReps, reps[i])
	}
	return outRows, outReps
}

// sortRows implements spec §4.6 step 6. It sorts in place; if the ORDER BY
// column cannot be resolved against the projection or (when ungrouped) the
// representative row, it leaves rows in their pre-sort order rather than
// erroring (spec §9 Open Question (a)).
func sortRows(q *ast.QueryStmt, columns []string, rows [][]catalog.Value, reps []scopedRow, grouped bool) {
	projIdx := -1
	for i, item := range q.SelectList {
		if c, ok := item.Expr.(*ast.ColumnRef); ok && c.ResolvedTable == q.OrderBy.Col.ResolvedTable && c.Column == q.OrderBy.Col.Column {
			projIdx = i
			break
		}
	}
	if q.IsStar() {
		want := q.OrderBy.Col.Column
		if q.Join != nil {
			want = q.OrderBy.Col.ResolvedTable + "." + q.OrderBy.Col.Column
		}
		for i, name := range columns {
			if name == want {
				projIdx = i
				break
			}
		}
	}

	keyFor := func(i int) (catalog.Value, bool) {
		if projIdx >= 0 {
			return rows[i][projIdx], true
		}
		if !grouped && reps[i] != nil {
			return columnValue(reps[i], q.OrderBy.Col), true
		}
		return catalog.Value{}, false
	}

	// Resolve once: if the key is unresolvable for the first row it is
	// unresolvable for all of them (same static column reference).
	if len(rows) > 0 {
		if _, ok := keyFor(0); !ok {
			return
		}
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, _ := keyFor(idx[a])
		vb, _ := keyFor(idx[b])
		if q.OrderBy.Desc {
			return orderLess(vb, va)
		}
		return orderLess(va, vb)
	})

	sortedRows := make([][]catalog.Value, len(rows))
	sortedReps := make([]scopedRow, len(reps))
	for newPos, oldIdx := range idx {
		sortedRows[newPos] = rows[oldIdx]
		sortedReps[newPos] = reps[oldIdx]
	}
	copy(rows, sortedRows)
	copy(reps, sortedReps)
}

func orderLess(a, b catalog.Value) bool {
	if a.IsNull() && b.IsNull() {
		return false
	}
	if a.IsNull() {
		return true
	}
	if b.IsNull() {
		return false
	}
	if a.Kind == catalog.KindNumber && b.Kind == catalog.KindNumber {
		return a.Num < b.Num
	}
	return asString(a) < asString(b)
}
