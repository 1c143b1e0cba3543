package parser

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/errors"
)

func mustParse(t *testing.T, text string) ast.Statement {
	t.Helper()
	stmt, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", text, err)
	}
	return stmt
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := mustParse(t, "SELECT id, name FROM students")
	q, ok := stmt.(*ast.QueryStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.QueryStmt", stmt)
	}
	if q.From != "students" {
		t.Errorf("From: got %q", q.From)
	}
	if len(q.SelectList) != 2 {
		t.Fatalf("SelectList: got %# v", pretty.Formatter(q.SelectList))
	}
	c0, ok := q.SelectList[0].Expr.(*ast.ColumnRef)
	if !ok || c0.Column != "id" {
		t.Errorf("item 0: got %# v", pretty.Formatter(q.SelectList[0]))
	}
}

func TestParseStar(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM students")
	q := stmt.(*ast.QueryStmt)
	if !q.IsStar() {
		t.Errorf("expected IsStar() true for %# v", pretty.Formatter(q))
	}
}

func TestParseAliasWithAs(t *testing.T) {
	stmt := mustParse(t, "SELECT id AS student_id FROM students")
	q := stmt.(*ast.QueryStmt)
	if q.SelectList[0].Alias != "student_id" {
		t.Errorf("got alias %q", q.SelectList[0].Alias)
	}
}

// TestParseAliasWithoutAs exercises the alias-without-AS lookahead rule: a
// bare identifier following a select item is its alias only when the token
// after THAT identifier is a clause boundary.
func TestParseAliasWithoutAs(t *testing.T) {
	stmt := mustParse(t, "SELECT id sid, name FROM students")
	q := stmt.(*ast.QueryStmt)
	if q.SelectList[0].Alias != "sid" {
		t.Errorf("item 0 alias: got %q", q.SelectList[0].Alias)
	}
	if q.SelectList[1].Alias != "" {
		t.Errorf("item 1 alias: got %q, want none", q.SelectList[1].Alias)
	}
}

func TestParseAliasWithoutAsBeforeWhere(t *testing.T) {
	stmt := mustParse(t, "SELECT id sid FROM students WHERE sid = 1")
	q := stmt.(*ast.QueryStmt)
	if q.SelectList[0].Alias != "sid" {
		t.Errorf("got alias %q", q.SelectList[0].Alias)
	}
	if len(q.Where) != 1 {
		t.Fatalf("Where: got %# v", pretty.Formatter(q.Where))
	}
}

func TestParseDistinct(t *testing.T) {
	stmt := mustParse(t, "SELECT DISTINCT tutor_group_id FROM students")
	q := stmt.(*ast.QueryStmt)
	if !q.Distinct {
		t.Errorf("expected Distinct true")
	}
}

func TestParseJoin(t *testing.T) {
	stmt := mustParse(t, "SELECT students.forename, tutor_groups.tutor_name FROM students JOIN tutor_groups ON students.tutor_group_id = tutor_groups.tutor_group_id")
	q := stmt.(*ast.QueryStmt)
	if q.Join == nil {
		t.Fatalf("expected Join clause")
	}
	if q.Join.Table != "tutor_groups" {
		t.Errorf("join table: got %q", q.Join.Table)
	}
	if q.Join.Left.Column != "tutor_group_id" || q.Join.Right.Column != "tutor_group_id" {
		t.Errorf("join condition: got %# v", pretty.Formatter(q.Join))
	}
}

func TestParseWhereAnd(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM students WHERE tutor_group_id = 1 AND forename = 'Alice'")
	q := stmt.(*ast.QueryStmt)
	if len(q.Where) != 2 {
		t.Fatalf("Where: got %d terms, want 2", len(q.Where))
	}
}

func TestParseGroupByOrderByLimit(t *testing.T) {
	stmt := mustParse(t, "SELECT tutor_group_id, COUNT(*) FROM students GROUP BY tutor_group_id ORDER BY tutor_group_id DESC LIMIT 5")
	q := stmt.(*ast.QueryStmt)
	if len(q.GroupBy) != 1 || q.GroupBy[0].Column != "tutor_group_id" {
		t.Errorf("GroupBy: got %# v", pretty.Formatter(q.GroupBy))
	}
	if q.OrderBy == nil || !q.OrderBy.Desc || q.OrderBy.Col.Column != "tutor_group_id" {
		t.Errorf("OrderBy: got %# v", pretty.Formatter(q.OrderBy))
	}
	if q.Limit == nil || *q.Limit != 5 {
		t.Errorf("Limit: got %v", q.Limit)
	}
}

func TestParseAggregates(t *testing.T) {
	stmt := mustParse(t, "SELECT COUNT(*), SUM(score), AVG(score), MIN(score), MAX(score) FROM grades")
	q := stmt.(*ast.QueryStmt)
	if len(q.SelectList) != 5 {
		t.Fatalf("got %d items", len(q.SelectList))
	}
	for i, want := range []string{"COUNT", "SUM", "AVG", "MIN", "MAX"} {
		agg, ok := q.SelectList[i].Expr.(*ast.AggExpr)
		if !ok || agg.Func != want {
			t.Errorf("item %d: got %# v, want %s", i, pretty.Formatter(q.SelectList[i]), want)
		}
	}
}

func TestParseLikeAndComparisonOps(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM students WHERE forename LIKE 'A%' AND tutor_group_id != 2 AND student_id >= 3")
	q := stmt.(*ast.QueryStmt)
	if len(q.Where) != 3 {
		t.Fatalf("Where: got %d terms", len(q.Where))
	}
}

func TestParseBareBooleanPredicate(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM students WHERE TRUE")
	q := stmt.(*ast.QueryStmt)
	if len(q.Where) != 1 || q.Where[0].Bare == nil {
		t.Fatalf("expected a bare boolean predicate, got %# v", pretty.Formatter(q.Where))
	}
}

func TestParseCreateTable(t *testing.T) {
	stmt := mustParse(t, "CREATE TABLE statuses (id INT PRIMARY KEY AUTO_INCREMENT, label VARCHAR(20) NOT NULL)")
	c := stmt.(*ast.CreateTableStmt)
	if c.Name != "statuses" {
		t.Errorf("Name: got %q", c.Name)
	}
	if len(c.Columns) != 2 {
		t.Fatalf("Columns: got %d", len(c.Columns))
	}
	if !c.Columns[0].PrimaryKey || !c.Columns[0].AutoIncrement {
		t.Errorf("column 0: got %# v", pretty.Formatter(c.Columns[0]))
	}
	if !c.Columns[1].NotNull {
		t.Errorf("column 1: expected NOT NULL")
	}
}

func TestParseCreateTableRejectsSecondPrimaryKey(t *testing.T) {
	_, err := Parse("CREATE TABLE t (a INT PRIMARY KEY, b INT PRIMARY KEY)")
	assertKind(t, err, errors.SyntaxError)
}

func TestParseAlterTableAddColumn(t *testing.T) {
	stmt := mustParse(t, "ALTER TABLE students ADD COLUMN email VARCHAR(100)")
	a := stmt.(*ast.AlterTableStmt)
	if a.Table != "students" || a.AddColumn.Name != "email" {
		t.Errorf("got %# v", pretty.Formatter(a))
	}
}

func TestParseDropTable(t *testing.T) {
	stmt := mustParse(t, "DROP TABLE students")
	d := stmt.(*ast.DropTableStmt)
	if d.Table != "students" {
		t.Errorf("got %q", d.Table)
	}
}

func TestParseInsert(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO students (student_id, forename) VALUES (11, 'Karen')")
	i := stmt.(*ast.InsertStmt)
	if i.Table != "students" || len(i.Columns) != 2 || len(i.Values) != 2 {
		t.Fatalf("got %# v", pretty.Formatter(i))
	}
}

func TestParseUpdate(t *testing.T) {
	stmt := mustParse(t, "UPDATE students SET forename = 'Al' WHERE student_id = 1")
	u := stmt.(*ast.UpdateStmt)
	if u.Table != "students" || len(u.Assignments) != 1 || len(u.Where) != 1 {
		t.Fatalf("got %# v", pretty.Formatter(u))
	}
}

func TestParseDelete(t *testing.T) {
	stmt := mustParse(t, "DELETE FROM students WHERE student_id = 1")
	d := stmt.(*ast.DeleteStmt)
	if d.Table != "students" || len(d.Where) != 1 {
		t.Fatalf("got %# v", pretty.Formatter(d))
	}
}

func TestParseTrailingSemicolonAllowed(t *testing.T) {
	mustParse(t, "SELECT * FROM students;")
}

func TestParseTrailingGarbageRejected(t *testing.T) {
	_, err := Parse("SELECT * FROM students garbage")
	assertKind(t, err, errors.SyntaxError)
}

func TestParseNegativeLimitRejected(t *testing.T) {
	_, err := Parse("SELECT * FROM students LIMIT -1")
	assertKind(t, err, errors.SyntaxError)
}

func TestParseReservedWordRejected(t *testing.T) {
	_, err := Parse("SELECT * FROM students WHERE forename IN ('Alice')")
	assertKind(t, err, errors.UnsupportedFeature)
}

func TestParseWithOptionsLenientDowngradesReservedWordError(t *testing.T) {
	_, err := ParseWithOptions("SELECT * FROM students WHERE forename IN ('Alice')", false)
	assertKind(t, err, errors.SyntaxError)
}

func assertKind(t *testing.T, err error, want errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error of kind %v, got nil", want)
	}
	ee, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T (%v)", err, err)
	}
	if ee.Kind != want {
		t.Fatalf("got kind %v, want %v: %v", ee.Kind, want, ee)
	}
}
