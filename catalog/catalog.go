// Package catalog implements the data model of spec §3: table schemas, row
// storage, the protected-table set, and per-column AUTO_INCREMENT counters.
// It is pure data plus helper predicates and mutating operations; statement
// semantics live in the validator and executor packages.
package catalog

// ValueKind identifies which field of a Value holds the value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBoolean
)

// Value is a cell: Null, Number(f64), String(s), or Boolean(b) (spec §3).
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
}

// Null is the Null value.
var Null = Value{Kind: KindNull}

// NumberValue constructs a Number value.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// StringValue constructs a String value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue constructs a Boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Equal implements the value-equality spec §4.6 step 5 uses for DISTINCT:
// Null == Null, numbers by numeric equality, strings by byte equality,
// booleans by truth.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindBoolean:
		return v.Bool == o.Bool
	}
	return false
}

// Column type names after normalisation (spec §3 ColumnDef.type).
const (
	TypeNumber  = "Number"
	TypeString  = "String"
	TypeBoolean = "Boolean"
)

// ColumnDef describes one column of a TableSchema (spec §3).
type ColumnDef struct {
	Name          string
	Type          string // TypeNumber, TypeString, or TypeBoolean
	Size          *int   // optional; parsed but not enforced (spec §3)
	NotNull       bool   // implied true if PrimaryKey or AutoIncrement
	PrimaryKey    bool
	AutoIncrement bool // valid only on Number columns
}

// Row maps column name to Value. Every declared column is always present;
// a column with no supplied value stores Null (spec §3 invariant).
type Row map[string]Value

// TableSchema is the schema half of a table (spec §3).
type TableSchema struct {
	Columns        []ColumnDef
	PrimaryKey     string // column name, or "" if none
	Protected      bool
	AutoIncrement  map[string]int64 // column name -> last-issued integer
}

// IsNumeric, IsString and IsBoolean classify a column's declared type for
// callers that want to branch on it without comparing string constants
// directly (SPEC_FULL §4).
func (c ColumnDef) IsNumeric() bool { return c.Type == TypeNumber }
func (c ColumnDef) IsString() bool  { return c.Type == TypeString }
func (c ColumnDef) IsBoolean() bool { return c.Type == TypeBoolean }

// Column returns the ColumnDef named col, if present.
func (s *TableSchema) Column(col string) (ColumnDef, bool) {
	for _, c := range s.Columns {
		if c.Name == col {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Clone returns a deep copy of s, used to stage a mutation (spec §5 resource
// policy: "the executor makes a shallow clone of the target table's schema +
// rows (and counters) up front").
func (s *TableSchema) Clone() *TableSchema {
	cols := make([]ColumnDef, len(s.Columns))
	for i, c := range s.Columns {
		cc := c
		if c.Size != nil {
			sz := *c.Size
			cc.Size = &sz
		}
		cols[i] = cc
	}
	counters := make(map[string]int64, len(s.AutoIncrement))
	for k, v := range s.AutoIncrement {
		counters[k] = v
	}
	return &TableSchema{Columns: cols, PrimaryKey: s.PrimaryKey, Protected: s.Protected, AutoIncrement: counters}
}

// CloneRows returns a deep copy of rows.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Catalog is the mapping from table name to TableSchema, plus the parallel
// row-data mapping; the two share the same key set (spec §3 invariant).
type Catalog struct {
	schemas map[string]*TableSchema
	rows    map[string][]Row
	order   []string // insertion order, for deterministic tables()
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{schemas: map[string]*TableSchema{}, rows: map[string][]Row{}}
}

// HasTable reports whether name is a known table.
func (c *Catalog) HasTable(name string) bool {
	_, ok := c.schemas[name]
	return ok
}

// HasColumn reports whether table has a column named col.
func (c *Catalog) HasColumn(table, col string) bool {
	s, ok := c.schemas[table]
	if !ok {
		return false
	}
	_, ok = s.Column(col)
	return ok
}

// Schema returns the schema for table.
func (c *Catalog) Schema(table string) (*TableSchema, bool) {
	s, ok := c.schemas[table]
	return s, ok
}

// ColumnsOf returns the ordered column list of table.
func (c *Catalog) ColumnsOf(table string) []ColumnDef {
	s, ok := c.schemas[table]
	if !ok {
		return nil
	}
	return s.Columns
}

// RowsOf returns the rows of table in insertion order.
func (c *Catalog) RowsOf(table string) []Row {
	return c.rows[table]
}

// Tables returns every table name, in creation order.
func (c *Catalog) Tables() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// IsProtected reports whether table is one of the seed tables (spec §3).
func (c *Catalog) IsProtected(table string) bool {
	s, ok := c.schemas[table]
	return ok && s.Protected
}

// createTable installs a brand-new schema+empty row slice. Callers
// (executor) must have already checked for a duplicate name.
func (c *Catalog) createTable(name string, schema *TableSchema) {
	c.schemas[name] = schema
	c.rows[name] = []Row{}
	c.order = append(c.order, name)
}

// dropTable removes a table's schema and rows.
func (c *Catalog) dropTable(name string) {
	delete(c.schemas, name)
	delete(c.rows, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// installTable replaces (or creates) a table's schema+rows in one step; used
// by the staged-commit path in the executor (spec §5: "swaps it into the
// catalog only if no error was raised").
func (c *Catalog) installTable(name string, schema *TableSchema, rows []Row) {
	_, existed := c.schemas[name]
	c.schemas[name] = schema
	c.rows[name] = rows
	if !existed {
		c.order = append(c.order, name)
	}
}

// StageTable returns a deep-cloned (schema, rows) pair for name and true, or
// (nil, nil, false) if the table does not exist. The returned values are
// never aliased with the committed catalog state until Commit is called.
func (c *Catalog) StageTable(name string) (*TableSchema, []Row, bool) {
	s, ok := c.schemas[name]
	if !ok {
		return nil, nil, false
	}
	return s.Clone(), CloneRows(c.rows[name]), true
}

// Commit installs a staged (schema, rows) pair for name — the only point at
// which a statement's mutations become visible (spec §5 atomicity).
func (c *Catalog) Commit(name string, schema *TableSchema, rows []Row) {
	c.installTable(name, schema, rows)
}

// CreateTable installs name with schema and no rows, after the executor has
// verified name does not already exist.
func (c *Catalog) CreateTable(name string, schema *TableSchema) {
	c.createTable(name, schema)
}

// DropTable removes name, after the executor has verified it exists and is
// not protected.
func (c *Catalog) DropTable(name string) {
	c.dropTable(name)
}

// Snapshot returns a deep copy of the entire catalog, used by tests to
// assert the atomicity invariant of spec §8 ("if execute returns an error,
// the catalog is byte-identical to its pre-call snapshot").
func (c *Catalog) Snapshot() *Catalog {
	out := New()
	for _, name := range c.order {
		out.createTable(name, c.schemas[name].Clone())
		out.rows[name] = CloneRows(c.rows[name])
	}
	return out
}

// Equal performs a deep structural comparison against other, for the same
// atomicity assertions Snapshot supports.
func (c *Catalog) Equal(other *Catalog) bool {
	if len(c.order) != len(other.order) {
		return false
	}
	for i, name := range c.order {
		if other.order[i] != name {
			return false
		}
	}
	for name, s := range c.schemas {
		os, ok := other.schemas[name]
		if !ok || !schemasEqual(s, os) {
			return false
		}
	}
	for name, rows := range c.rows {
		orows, ok := other.rows[name]
		if !ok || !rowsEqual(rows, orows) {
			return false
		}
	}
	return true
}

func schemasEqual(a, b *TableSchema) bool {
	if a.PrimaryKey != b.PrimaryKey || a.Protected != b.Protected {
		return false
	}
	if len(a.Columns) != len(b.Columns) {
		return false
	}
	for i := range a.Columns {
		ac, bc := a.Columns[i], b.Columns[i]
		if ac.Name != bc.Name || ac.Type != bc.Type || ac.NotNull != bc.NotNull ||
			ac.PrimaryKey != bc.PrimaryKey || ac.AutoIncrement != bc.AutoIncrement {
			return false
		}
	}
	if len(a.AutoIncrement) != len(b.AutoIncrement) {
		return false
	}
	for k, v := range a.AutoIncrement {
		if b.AutoIncrement[k] != v {
			return false
		}
	}
	return true
}

func rowsEqual(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for k, v := range a[i] {
			if !v.Equal(b[i][k]) {
				return false
			}
		}
	}
	return true
}

// NextAutoIncrement advances and returns the next value for an AUTO_INCREMENT
// column on a staged schema clone (spec §3 invariant: counters only
// increase).
func NextAutoIncrement(schema *TableSchema, col string) int64 {
	if schema.AutoIncrement == nil {
		schema.AutoIncrement = map[string]int64{}
	}
	schema.AutoIncrement[col]++
	return schema.AutoIncrement[col]
}
