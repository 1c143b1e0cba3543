package executor

import (
	"fmt"

	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/catalog"
	"github.com/relsim/sqlcore/errors"
)

// executeInsert implements spec §4.6 "INSERT".
func executeInsert(s *ast.InsertStmt, cat *catalog.Catalog) (*Result, error) {
	if !cat.HasTable(s.Table) {
		return nil, errors.New(errors.UnknownTable, s.StartPos.Offset, "unknown table %q", s.Table)
	}
	if cat.IsProtected(s.Table) {
		return nil, errors.NewConstraint(errors.ProtectedTable, s.StartPos.Offset, "table %q is protected", s.Table)
	}
	if len(s.Columns) != len(s.Values) {
		return nil, errors.NewConstraint(errors.ColumnCountMismatch, s.StartPos.Offset,
			"%d column(s) but %d value(s) supplied", len(s.Columns), len(s.Values))
	}

	schema, rows, _ := cat.StageTable(s.Table)
	for _, c := range s.Columns {
		if _, ok := schema.Column(c); !ok {
			return nil, errors.New(errors.UnknownColumn, s.StartPos.Offset, "unknown column %q on table %q", c, s.Table)
		}
	}

	row := make(catalog.Row, len(schema.Columns))
	supplied := map[string]bool{}
	for i, c := range s.Columns {
		cd, _ := schema.Column(c)
		val := literalValue(s.Values[i])
		if err := typeCheck(cd, val, s.Values[i]); err != nil {
			return nil, err
		}
		row[c] = val
		supplied[c] = true
		if cd.AutoIncrement && val.Kind == catalog.KindNumber {
			bumpCounterIfHigher(schema, cd.Name, val.Num)
		}
	}
	for _, cd := range schema.Columns {
		if supplied[cd.Name] {
			continue
		}
		if cd.AutoIncrement {
			v := catalog.NextAutoIncrement(schema, cd.Name)
			row[cd.Name] = catalog.NumberValue(float64(v))
		} else {
			row[cd.Name] = catalog.Null
		}
	}
	for _, cd := range schema.Columns {
		if cd.NotNull && row[cd.Name].IsNull() {
			return nil, errors.NewConstraint(errors.NotNullViolation, s.StartPos.Offset, "column %q cannot be NULL", cd.Name)
		}
	}
	if schema.PrimaryKey != "" {
		if pkVal := row[schema.PrimaryKey]; !pkVal.IsNull() {
			for _, r := range rows {
				if existing := r[schema.PrimaryKey]; !existing.IsNull() && existing.Equal(pkVal) {
					return nil, errors.NewConstraint(errors.PrimaryKeyDuplicate, s.StartPos.Offset,
						"duplicate value for primary key %q", schema.PrimaryKey)
				}
			}
		}
	}

	rows = append(rows, row)
	cat.Commit(s.Table, schema, rows)
	return &Result{Modified: true, RowCount: 1, Message: "1 row inserted"}, nil
}

// executeUpdate implements spec §4.6 "UPDATE".
func executeUpdate(s *ast.UpdateStmt, cat *catalog.Catalog) (*Result, error) {
	if !cat.HasTable(s.Table) {
		return nil, errors.New(errors.UnknownTable, s.StartPos.Offset, "unknown table %q", s.Table)
	}
	if cat.IsProtected(s.Table) {
		return nil, errors.NewConstraint(errors.ProtectedTable, s.StartPos.Offset, "table %q is protected", s.Table)
	}

	schema, rows, _ := cat.StageTable(s.Table)
	for _, a := range s.Assignments {
		if _, ok := schema.Column(a.Column); !ok {
			return nil, errors.New(errors.UnknownColumn, s.StartPos.Offset, "unknown column %q on table %q", a.Column, s.Table)
		}
	}

	var matched []int
	for i, r := range rows {
		if evalPredicate(s.Where, scopedRow{s.Table: r}) {
			matched = append(matched, i)
		}
	}

	for _, idx := range matched {
		newRow := make(catalog.Row, len(rows[idx]))
		for k, v := range rows[idx] {
			newRow[k] = v
		}
		for _, a := range s.Assignments {
			cd, _ := schema.Column(a.Column)
			val := literalValue(a.Value)
			if err := typeCheck(cd, val, a.Value); err != nil {
				return nil, err
			}
			newRow[a.Column] = val
		}

		if schema.PrimaryKey != "" {
			if pkVal := newRow[schema.PrimaryKey]; !pkVal.IsNull() {
				for j, r := range rows {
					if j == idx {
						continue
					}
					if existing := r[schema.PrimaryKey]; !existing.IsNull() && existing.Equal(pkVal) {
						return nil, errors.NewConstraint(errors.PrimaryKeyDuplicate, s.StartPos.Offset,
							"duplicate value for primary key %q", schema.PrimaryKey)
					}
				}
			}
		}

		for _, a := range s.Assignments {
			cd, _ := schema.Column(a.Column)
			if cd.AutoIncrement {
				if val := literalValue(a.Value); val.Kind == catalog.KindNumber {
					bumpCounterIfHigher(schema, cd.Name, val.Num)
				}
			}
		}

		rows[idx] = newRow
	}

	cat.Commit(s.Table, schema, rows)
	return &Result{Modified: true, RowCount: len(matched), Message: fmt.Sprintf("%d row(s) updated", len(matched))}, nil
}

// executeDelete implements spec §4.6 "DELETE".
func executeDelete(s *ast.DeleteStmt, cat *catalog.Catalog) (*Result, error) {
	if !cat.HasTable(s.Table) {
		return nil, errors.New(errors.UnknownTable, s.StartPos.Offset, "unknown table %q", s.Table)
	}
	if cat.IsProtected(s.Table) {
		return nil, errors.NewConstraint(errors.ProtectedTable, s.StartPos.Offset, "table %q is protected", s.Table)
	}

	schema, rows, _ := cat.StageTable(s.Table)
	if len(s.Where) == 0 {
		deleted := len(rows)
		cat.Commit(s.Table, schema, []catalog.Row{})
		return &Result{Modified: true, RowCount: deleted, Message: fmt.Sprintf("%d row(s) deleted", deleted)}, nil
	}

	kept := make([]catalog.Row, 0, len(rows))
	deleted := 0
	for _, r := range rows {
		if evalPredicate(s.Where, scopedRow{s.Table: r}) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	cat.Commit(s.Table, schema, kept)
	return &Result{Modified: true, RowCount: deleted, Message: fmt.Sprintf("%d row(s) deleted", deleted)}, nil
}
