// Package sqlcore is the engine facade of spec.md §2/§6: the single entry
// point that tokenises, parses, validates (SELECT only), and executes one SQL
// statement against a mutable Catalog.
package sqlcore

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/catalog"
	"github.com/relsim/sqlcore/config"
	"github.com/relsim/sqlcore/errors"
	"github.com/relsim/sqlcore/executor"
	"github.com/relsim/sqlcore/parser"
	"github.com/relsim/sqlcore/validator"
)

// Output is the result of a successful Execute call (spec.md §6).
type Output struct {
	Columns []string
	Rows    [][]catalog.Value
	Meta    Meta
}

// Meta carries the bookkeeping fields spec.md §6 attaches to every Output.
// Message is the human-readable line spec.md:203 requires for DDL/DML
// ("a single-column Result with a human message and meta.modified = true"),
// e.g. "table students created" or "3 row(s) updated"; it is empty for SELECT.
type Meta struct {
	RowCount int
	Modified bool
	Message  string
	Warnings []string
}

// Engine bundles the host-tunable config and logger around the stateless
// pipeline; most callers only ever need one, long-lived.
type Engine struct {
	Config *config.EngineConfig
	Log    *logrus.Logger
}

// New returns an Engine with default configuration and logrus's standard
// logger.
func New() *Engine {
	return &Engine{Config: config.Default(), Log: logrus.StandardLogger()}
}

// NewWithConfig returns an Engine using cfg instead of the defaults.
func NewWithConfig(cfg *config.EngineConfig) *Engine {
	return &Engine{Config: cfg, Log: logrus.StandardLogger()}
}

// NewSeededCatalog returns a freshly-seeded catalog (spec.md §3 "Lifecycle").
func NewSeededCatalog() *catalog.Catalog {
	return catalog.Seed()
}

// Tables, SchemaOf and RowsOf are the read-only catalog view spec.md §6
// names alongside Execute.
func Tables(cat *catalog.Catalog) []string { return cat.Tables() }

func SchemaOf(cat *catalog.Catalog, name string) (*catalog.TableSchema, bool) {
	return cat.Schema(name)
}

func RowsOf(cat *catalog.Catalog, name string) []catalog.Row { return cat.RowsOf(name) }

// Execute runs one statement against cat (spec.md §1 "execute(statement_text,
// catalog) -> Result"). Any internal panic is recovered and reported as the
// stable SyntaxError("internal") spec.md §7 mandates, never a raw host panic.
func (e *Engine) Execute(text string, cat *catalog.Catalog) (out *Output, err error) {
	start := time.Now()
	var kind string

	defer func() {
		if r := recover(); r != nil {
			ierr := errors.Internal(r)
			err = ierr
			out = nil
			e.logResult(kind, nil, ierr, time.Since(start))
		}
	}()

	strict := e.Config == nil || e.Config.StrictReservedWords
	stmt, perr := parser.ParseWithOptions(text, strict)
	if perr != nil {
		e.logResult(kind, nil, perr, time.Since(start))
		return nil, perr
	}
	kind = statementKind(stmt)

	if q, ok := stmt.(*ast.QueryStmt); ok {
		if verr := validator.Validate(q, cat); verr != nil {
			e.logResult(kind, nil, verr, time.Since(start))
			return nil, verr
		}
	}

	res, eerr := executor.Execute(stmt, cat)
	if eerr != nil {
		e.logResult(kind, nil, eerr, time.Since(start))
		return nil, eerr
	}

	rows := res.Rows
	if e.Config != nil && e.Config.MaxResultRows > 0 && len(rows) > e.Config.MaxResultRows {
		rows = rows[:e.Config.MaxResultRows]
	}

	out = &Output{
		Columns: res.Columns,
		Rows:    rows,
		Meta:    Meta{RowCount: res.RowCount, Modified: res.Modified, Message: res.Message},
	}
	e.logResult(kind, out, nil, time.Since(start))
	return out, nil
}

func statementKind(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.QueryStmt:
		return "Query"
	case *ast.CreateTableStmt:
		return "CreateTable"
	case *ast.AlterTableStmt:
		return "AlterTable"
	case *ast.DropTableStmt:
		return "DropTable"
	case *ast.InsertStmt:
		return "Insert"
	case *ast.UpdateStmt:
		return "Update"
	case *ast.DeleteStmt:
		return "Delete"
	default:
		return "Unknown"
	}
}

// logResult emits the structured execution telemetry of SPEC_FULL §2.2: one
// entry per Execute call, Debug on success and Warn on a returned error. No
// log call affects the returned Output/error or the caller's latency beyond
// the logger's own write.
func (e *Engine) logResult(kind string, out *Output, err error, dur time.Duration) {
	if e.Log == nil {
		return
	}
	fields := logrus.Fields{
		"statement_kind": kind,
		"duration_ms":    dur.Milliseconds(),
	}
	if out != nil {
		fields["row_count"] = out.Meta.RowCount
		fields["modified"] = out.Meta.Modified
	}
	if err != nil {
		if ee, ok := err.(*errors.Error); ok {
			fields["error_kind"] = ee.Kind.String()
		}
		e.Log.WithFields(fields).Warn("execute failed")
		return
	}
	e.Log.WithFields(fields).Debug("execute succeeded")
}
