package ast

import "github.com/relsim/sqlcore/token"

// QueryStmt is a SELECT statement (spec §4.4 SELECT grammar).
type QueryStmt struct {
	StartPos   token.Pos
	Distinct   bool
	SelectList []*SelectItem // singleton {Expr: *Star} represents bare '*'
	From       string
	FromPos    token.Pos
	Join       *JoinClause
	Where      []*Comparison
	GroupBy    []*ColumnRef
	OrderBy    *OrderByClause
	Limit      *int
}

func (*QueryStmt) statementNode()   {}
func (q *QueryStmt) Pos() token.Pos { return q.StartPos }

// IsStar reports whether the select list is the bare '*' form.
func (q *QueryStmt) IsStar() bool {
	if len(q.SelectList) != 1 {
		return false
	}
	_, ok := q.SelectList[0].Expr.(*Star)
	return ok
}

// ColumnDef is a column definition inside CREATE TABLE / ALTER TABLE ADD
// COLUMN, before catalog normalisation (spec §4.4 col_def grammar).
type ColumnDef struct {
	StartPos      token.Pos
	Name          string
	TypeTok       token.Type // INT, VARCHAR, BOOLEAN, ... (pre-normalisation)
	Size          *int
	PrimaryKey    bool
	AutoIncrement bool
	NotNull       bool // explicit NOT NULL seen; PRIMARY KEY/AUTO_INCREMENT imply it regardless
}

func (c *ColumnDef) Pos() token.Pos { return c.StartPos }

// CreateTableStmt is CREATE TABLE name (col_def, ...).
type CreateTableStmt struct {
	StartPos token.Pos
	Name     string
	Columns  []*ColumnDef
}

func (*CreateTableStmt) statementNode()   {}
func (c *CreateTableStmt) Pos() token.Pos { return c.StartPos }

// AlterTableStmt is ALTER TABLE name ADD [COLUMN] col_def.
type AlterTableStmt struct {
	StartPos  token.Pos
	Table     string
	AddColumn *ColumnDef
}

func (*AlterTableStmt) statementNode()   {}
func (a *AlterTableStmt) Pos() token.Pos { return a.StartPos }

// DropTableStmt is DROP TABLE name.
type DropTableStmt struct {
	StartPos token.Pos
	Table    string
}

func (*DropTableStmt) statementNode()   {}
func (d *DropTableStmt) Pos() token.Pos { return d.StartPos }

// InsertStmt is INSERT INTO table (cols...) VALUES (literals...).
type InsertStmt struct {
	StartPos token.Pos
	Table    string
	Columns  []string
	Values   []*Literal
}

func (*InsertStmt) statementNode()   {}
func (i *InsertStmt) Pos() token.Pos { return i.StartPos }

// Assignment is one `column = literal` pair in an UPDATE's SET clause.
type Assignment struct {
	Column string
	Value  *Literal
}

// UpdateStmt is UPDATE table SET assignments... [WHERE predicate].
type UpdateStmt struct {
	StartPos    token.Pos
	Table       string
	Assignments []*Assignment
	Where       []*Comparison
}

func (*UpdateStmt) statementNode()   {}
func (u *UpdateStmt) Pos() token.Pos { return u.StartPos }

// DeleteStmt is DELETE FROM table [WHERE predicate].
type DeleteStmt struct {
	StartPos token.Pos
	Table    string
	Where    []*Comparison
}

func (*DeleteStmt) statementNode()   {}
func (d *DeleteStmt) Pos() token.Pos { return d.StartPos }
