//go:build vitesscompat

// This file confirms every statement our dialect accepts is also valid under
// a standard SQL grammar, continuing the teacher's own vitess-comparison idea
// (see compare_test.go) without its benchmark noise: our grammar is a strict
// subset, so there is nothing here to reconcile beyond "does it parse".
package sqlcore_test

import (
	"testing"

	vitess "github.com/blastrain/vitess-sqlparser/sqlparser"

	"github.com/relsim/sqlcore/parser"
)

var acceptedStatements = []string{
	"SELECT * FROM students",
	"SELECT id, name FROM students",
	"SELECT DISTINCT tutor_group_id FROM students",
	"SELECT id AS student_id FROM students",
	"SELECT id sid FROM students",
	"SELECT students.forename, tutor_groups.tutor_name FROM students JOIN tutor_groups ON students.tutor_group_id = tutor_groups.tutor_group_id",
	"SELECT * FROM students WHERE tutor_group_id = 1 AND forename = 'Alice'",
	"SELECT * FROM students WHERE forename LIKE 'A%'",
	"SELECT tutor_group_id, COUNT(*) FROM students GROUP BY tutor_group_id",
	"SELECT * FROM students ORDER BY forename DESC LIMIT 5",
	"CREATE TABLE statuses (id INT PRIMARY KEY AUTO_INCREMENT, label VARCHAR(20) NOT NULL)",
	"ALTER TABLE students ADD COLUMN email VARCHAR(100)",
	"DROP TABLE students",
	"INSERT INTO students (student_id, forename) VALUES (11, 'Karen')",
	"UPDATE students SET forename = 'Al' WHERE student_id = 1",
	"DELETE FROM students WHERE student_id = 1",
}

func TestAcceptedStatementsAreValidUnderVitessGrammar(t *testing.T) {
	for _, text := range acceptedStatements {
		t.Run(text, func(t *testing.T) {
			if _, err := parser.Parse(text); err != nil {
				t.Fatalf("our own parser rejected %q: %v", text, err)
			}
			if _, err := vitess.Parse(text); err != nil {
				t.Errorf("vitess-sqlparser rejected a statement our dialect accepts: %q: %v", text, err)
			}
		})
	}
}
