package executor

import (
	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/catalog"
	"github.com/relsim/sqlcore/errors"
	"github.com/relsim/sqlcore/token"
)

func columnType(t token.Type) string {
	typ, _ := token.TypeSynonym(t)
	return typ
}

func toCatalogColumnDef(cd *ast.ColumnDef) catalog.ColumnDef {
	return catalog.ColumnDef{
		Name:          cd.Name,
		Type:          columnType(cd.TypeTok),
		Size:          cd.Size,
		NotNull:       cd.NotNull || cd.PrimaryKey || cd.AutoIncrement,
		PrimaryKey:    cd.PrimaryKey,
		AutoIncrement: cd.AutoIncrement,
	}
}

// executeCreateTable implements spec §4.6 "CREATE TABLE".
func executeCreateTable(s *ast.CreateTableStmt, cat *catalog.Catalog) (*Result, error) {
	if cat.HasTable(s.Name) {
		return nil, errors.NewConstraint(errors.DuplicateTable, s.StartPos.Offset, "table %q already exists", s.Name)
	}

	seen := map[string]bool{}
	var primaryKey string
	cols := make([]catalog.ColumnDef, 0, len(s.Columns))
	for _, cd := range s.Columns {
		if seen[cd.Name] {
			return nil, errors.NewConstraint(errors.DuplicateColumn, cd.StartPos.Offset, "duplicate column %q", cd.Name)
		}
		seen[cd.Name] = true
		ccd := toCatalogColumnDef(cd)
		if ccd.PrimaryKey {
			primaryKey = ccd.Name
		}
		cols = append(cols, ccd)
	}

	schema := &catalog.TableSchema{Columns: cols, PrimaryKey: primaryKey, AutoIncrement: map[string]int64{}}
	cat.CreateTable(s.Name, schema)
	return &Result{Modified: true, Message: "table " + s.Name + " created"}, nil
}

// executeAlterTable implements spec §4.6 "ALTER TABLE ADD COLUMN".
func executeAlterTable(s *ast.AlterTableStmt, cat *catalog.Catalog) (*Result, error) {
	if !cat.HasTable(s.Table) {
		return nil, errors.New(errors.UnknownTable, s.StartPos.Offset, "unknown table %q", s.Table)
	}
	if cat.IsProtected(s.Table) {
		return nil, errors.NewConstraint(errors.ProtectedTable, s.StartPos.Offset, "table %q is protected", s.Table)
	}
	if cat.HasColumn(s.Table, s.AddColumn.Name) {
		return nil, errors.NewConstraint(errors.DuplicateColumn, s.AddColumn.StartPos.Offset,
			"column %q already exists on table %q", s.AddColumn.Name, s.Table)
	}

	schema, rows, _ := cat.StageTable(s.Table)
	newCol := toCatalogColumnDef(s.AddColumn)

	if len(rows) > 0 && (newCol.NotNull || newCol.PrimaryKey || newCol.AutoIncrement) {
		return nil, errors.NewConstraint(errors.NotNullViolation, s.AddColumn.StartPos.Offset,
			"cannot add NOT NULL/PRIMARY KEY/AUTO_INCREMENT column %q to non-empty table %q", newCol.Name, s.Table)
	}
	if newCol.PrimaryKey && schema.PrimaryKey != "" {
		return nil, errors.New(errors.SyntaxError, s.AddColumn.StartPos.Offset, "multiple primary keys not supported")
	}

	schema.Columns = append(schema.Columns, newCol)
	if newCol.PrimaryKey {
		schema.PrimaryKey = newCol.Name
	}
	if schema.AutoIncrement == nil {
		schema.AutoIncrement = map[string]int64{}
	}

	for i := range rows {
		if newCol.AutoIncrement {
			v := catalog.NextAutoIncrement(schema, newCol.Name)
			rows[i][newCol.Name] = catalog.NumberValue(float64(v))
		} else {
			rows[i][newCol.Name] = catalog.Null
		}
	}

	cat.Commit(s.Table, schema, rows)
	return &Result{Modified: true, RowCount: len(rows), Message: "column " + newCol.Name + " added"}, nil
}

// executeDropTable implements spec §4.6 "DROP TABLE".
func executeDropTable(s *ast.DropTableStmt, cat *catalog.Catalog) (*Result, error) {
	if !cat.HasTable(s.Table) {
		return nil, errors.New(errors.UnknownTable, s.StartPos.Offset, "unknown table %q", s.Table)
	}
	if cat.IsProtected(s.Table) {
		return nil, errors.NewConstraint(errors.ProtectedTable, s.StartPos.Offset, "table %q is protected", s.Table)
	}
	cat.DropTable(s.Table)
	return &Result{Modified: true, Message: "table " + s.Table + " dropped"}, nil
}
