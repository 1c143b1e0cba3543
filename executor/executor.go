// Package executor evaluates a validated statement AST against a catalog
// (spec §4.6): SELECT is pure and read-only, DDL/DML stage their mutations on
// a clone and commit only once every constraint check has passed.
package executor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/catalog"
	"github.com/relsim/sqlcore/errors"
	"github.com/relsim/sqlcore/format"
	"github.com/relsim/sqlcore/token"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// Result is what the executor produces for one statement; the facade wraps
// it into the public Output shape (spec §6).
type Result struct {
	Columns  []string
	Rows     [][]catalog.Value
	RowCount int
	Modified bool
	Message  string
}

// Execute dispatches stmt against cat. Callers are expected to have already
// run validator.Validate for *ast.QueryStmt; Execute does not re-validate.
func Execute(stmt ast.Statement, cat *catalog.Catalog) (*Result, error) {
	switch s := stmt.(type) {
	case *ast.QueryStmt:
		return executeQuery(s, cat)
	case *ast.CreateTableStmt:
		return executeCreateTable(s, cat)
	case *ast.AlterTableStmt:
		return executeAlterTable(s, cat)
	case *ast.DropTableStmt:
		return executeDropTable(s, cat)
	case *ast.InsertStmt:
		return executeInsert(s, cat)
	case *ast.UpdateStmt:
		return executeUpdate(s, cat)
	case *ast.DeleteStmt:
		return executeDelete(s, cat)
	}
	return nil, errors.New(errors.SyntaxError, 0, "unsupported statement type")
}

// scopedRow is one row per in-scope table (the Glossary "scoped row").
type scopedRow map[string]catalog.Row

func columnValue(sr scopedRow, ref *ast.ColumnRef) catalog.Value {
	row, ok := sr[ref.ResolvedTable]
	if !ok {
		return catalog.Null
	}
	v, ok := row[ref.Column]
	if !ok {
		return catalog.Null
	}
	return v
}

func literalValue(l *ast.Literal) catalog.Value {
	switch l.Kind {
	case ast.LiteralNumber:
		return catalog.NumberValue(l.Num)
	case ast.LiteralString:
		return catalog.StringValue(l.Str)
	case ast.LiteralBool:
		return catalog.BoolValue(l.Bool)
	default:
		return catalog.Null
	}
}

func evalOperand(op ast.Operand, sr scopedRow) catalog.Value {
	switch o := op.(type) {
	case *ast.ColumnRef:
		return columnValue(sr, o)
	case *ast.Literal:
		return literalValue(o)
	}
	return catalog.Null
}

// evalComparison evaluates one comparison term against a scoped row (spec
// §4.6 "Comparisons"); NULL on either side is always false.
func evalComparison(cmp *ast.Comparison, sr scopedRow) bool {
	if cmp.Bare != nil {
		v := literalValue(cmp.Bare)
		return v.Kind == catalog.KindBoolean && v.Bool
	}
	left := evalOperand(cmp.Left, sr)
	right := evalOperand(cmp.Right, sr)
	return compareValues(left, right, cmp.Op)
}

// evalPredicate evaluates an AND-list of comparisons; an empty list is
// vacuously true (no WHERE clause).
func evalPredicate(preds []*ast.Comparison, sr scopedRow) bool {
	for _, c := range preds {
		if !evalComparison(c, sr) {
			return false
		}
	}
	return true
}

func compareValues(left, right catalog.Value, op token.Type) bool {
	if left.IsNull() || right.IsNull() {
		return false
	}
	if op == token.LIKE {
		return likeMatch(asString(left), asString(right))
	}
	if ln, lok := asNumber(left); lok {
		if rn, rok := asNumber(right); rok {
			return numCompare(ln, rn, op)
		}
	}
	return strCompare(asString(left), asString(right), op)
}

func asNumber(v catalog.Value) (float64, bool) {
	switch v.Kind {
	case catalog.KindNumber:
		return v.Num, true
	case catalog.KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err == nil && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

func asString(v catalog.Value) string {
	switch v.Kind {
	case catalog.KindString:
		return v.Str
	case catalog.KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case catalog.KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return ""
}

func numCompare(l, r float64, op token.Type) bool {
	switch op {
	case token.EQ:
		return l == r
	case token.NEQ:
		return l != r
	case token.LT:
		return l < r
	case token.LTE:
		return l <= r
	case token.GT:
		return l > r
	case token.GTE:
		return l >= r
	}
	return false
}

func strCompare(l, r string, op token.Type) bool {
	switch op {
	case token.EQ:
		return l == r
	case token.NEQ:
		return l != r
	case token.LT:
		return l < r
	case token.LTE:
		return l <= r
	case token.GT:
		return l > r
	case token.GTE:
		return l >= r
	}
	return false
}

// likeMatch implements spec §4.6 LIKE: '%' matches any sequence (including
// empty), every other character is literal, matching is case-insensitive and
// anchored to the full string. Case folding goes through golang.org/x/text so
// the comparison is locale-neutral rather than a byte-wise ASCII toUpper.
func likeMatch(s, pattern string) bool {
	parts := strings.Split(upper.String(pattern), "%")
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = regexp.QuoteMeta(p)
	}
	re := regexp.MustCompile("^" + strings.Join(escaped, ".*") + "$")
	return re.MatchString(upper.String(s))
}

// valueKey renders a Value into a key suitable for both DISTINCT dedup and
// GROUP BY partitioning, consistent with catalog.Value.Equal: Null groups
// with Null, numbers by their shortest round-trip decimal form, strings
// byte-exact, booleans by truth. A per-kind tag keeps e.g. the number 1 and
// the string "1" from colliding.
func valueKey(v catalog.Value) string {
	switch v.Kind {
	case catalog.KindNull:
		return "N"
	case catalog.KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case catalog.KindString:
		return "s:" + v.Str
	case catalog.KindBoolean:
		if v.Bool {
			return "b:1"
		}
		return "b:0"
	}
	return ""
}

func roundHalfAwayFromZero(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	if v >= 0 {
		return math.Floor(v*p+0.5) / p
	}
	return math.Ceil(v*p-0.5) / p
}

// bumpCounterIfHigher advances col's counter to num when an explicit write
// supplies a value at or past it (spec §3 invariant: the counter never falls
// below the highest numeric value ever stored).
func bumpCounterIfHigher(schema *catalog.TableSchema, col string, num float64) {
	if schema.AutoIncrement == nil {
		schema.AutoIncrement = map[string]int64{}
	}
	n := int64(num)
	if n > schema.AutoIncrement[col] {
		schema.AutoIncrement[col] = n
	}
}

func valueKindName(k catalog.ValueKind) string {
	switch k {
	case catalog.KindNumber:
		return catalog.TypeNumber
	case catalog.KindString:
		return catalog.TypeString
	case catalog.KindBoolean:
		return catalog.TypeBoolean
	default:
		return "Null"
	}
}

// typeCheck implements the per-value part of INSERT/UPDATE's constraint
// checks (spec §4.6 "INSERT"): Null is valid only when the column permits it;
// otherwise the value's runtime kind must equal the column's declared type.
// lit is the literal as written, rendered back into the error message via
// format.Literal so a constraint violation names the actual offending value,
// not just its kind.
func typeCheck(cd catalog.ColumnDef, val catalog.Value, lit *ast.Literal) error {
	pos := lit.StartPos.Offset
	if val.IsNull() {
		if cd.NotNull {
			return errors.NewConstraint(errors.NotNullViolation, pos, "column %q cannot be NULL", cd.Name)
		}
		return nil
	}
	var want catalog.ValueKind
	switch {
	case cd.IsNumeric():
		want = catalog.KindNumber
	case cd.IsString():
		want = catalog.KindString
	case cd.IsBoolean():
		want = catalog.KindBoolean
	}
	if val.Kind != want {
		return errors.NewConstraint(errors.TypeMismatch, pos, "column %q expects %s, got %s %s",
			cd.Name, cd.Type, valueKindName(val.Kind), format.Literal(lit))
	}
	return nil
}
