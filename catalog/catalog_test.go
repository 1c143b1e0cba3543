package catalog_test

import (
	"testing"

	"github.com/relsim/sqlcore/catalog"
)

func TestSeedProducesProtectedTables(t *testing.T) {
	cat := catalog.Seed()
	for _, name := range []string{"students", "tutor_groups", "grades"} {
		if !cat.HasTable(name) {
			t.Fatalf("missing seed table %q", name)
		}
		if !cat.IsProtected(name) {
			t.Errorf("table %q should be protected", name)
		}
	}
	if got := len(cat.RowsOf("students")); got != 10 {
		t.Errorf("students: got %d rows, want 10", got)
	}
}

func TestSeedStudentsPrimaryKey(t *testing.T) {
	cat := catalog.Seed()
	schema, ok := cat.Schema("students")
	if !ok {
		t.Fatalf("missing students schema")
	}
	if schema.PrimaryKey != "student_id" {
		t.Errorf("got primary key %q, want student_id", schema.PrimaryKey)
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		a, b catalog.Value
		want bool
	}{
		{catalog.Null, catalog.Null, true},
		{catalog.NumberValue(1), catalog.NumberValue(1), true},
		{catalog.NumberValue(1), catalog.NumberValue(2), false},
		{catalog.NumberValue(1), catalog.StringValue("1"), false},
		{catalog.StringValue("a"), catalog.StringValue("a"), true},
		{catalog.BoolValue(true), catalog.BoolValue(true), true},
		{catalog.Null, catalog.NumberValue(0), false},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("Equal(%v, %v): got %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestStageAndCommitIsolatesFromLiveState(t *testing.T) {
	cat := catalog.Seed()
	schema, rows, ok := cat.StageTable("students")
	if !ok {
		t.Fatalf("StageTable: expected students to exist")
	}
	rows = append(rows, catalog.Row{"student_id": catalog.NumberValue(99)})
	// The staged slice is a clone; the live catalog must be untouched until
	// Commit is called.
	if len(cat.RowsOf("students")) == len(rows) {
		t.Fatalf("staged mutation leaked into live catalog before Commit")
	}
	cat.Commit("students", schema, rows)
	if len(cat.RowsOf("students")) != len(rows) {
		t.Fatalf("Commit did not take effect")
	}
}

func TestSnapshotEqualDetectsMutation(t *testing.T) {
	cat := catalog.Seed()
	snap := cat.Snapshot()
	if !cat.Equal(snap) {
		t.Fatalf("a fresh snapshot should be equal to its source")
	}
	schema, rows, _ := cat.StageTable("students")
	rows = append(rows, catalog.Row{"student_id": catalog.NumberValue(99)})
	cat.Commit("students", schema, rows)
	if cat.Equal(snap) {
		t.Fatalf("catalog mutated but still reported equal to its snapshot")
	}
}

func TestNextAutoIncrementMonotonic(t *testing.T) {
	schema := &catalog.TableSchema{AutoIncrement: map[string]int64{}}
	first := catalog.NextAutoIncrement(schema, "id")
	second := catalog.NextAutoIncrement(schema, "id")
	if first != 1 || second != 2 {
		t.Fatalf("got %d, %d; want 1, 2", first, second)
	}
}
