// Command sqlcore is a thin REPL-less wrapper around the engine facade: it
// owns no SQL semantics of its own, only argument/stdin plumbing and result
// formatting (SPEC_FULL §4).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/relsim/sqlcore"
	"github.com/relsim/sqlcore/catalog"
)

func main() {
	logrus.SetLevel(logrus.WarnLevel)

	stmt, err := statementFromArgs(os.Args[1:], os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	eng := sqlcore.New()
	cat := sqlcore.NewSeededCatalog()
	out, execErr := eng.Execute(stmt, cat)
	if execErr != nil {
		fmt.Fprintln(os.Stderr, execErr)
		os.Exit(1)
	}
	printOutput(out)
}

// statementFromArgs takes the statement from the command-line arguments,
// joined by a space, or reads one from r when no arguments were given.
func statementFromArgs(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("reading statement from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("usage: sqlcore <statement> | sqlcore < statement.sql")
	}
	return text, nil
}

func printOutput(out *sqlcore.Output) {
	if out.Meta.Modified {
		fmt.Println(out.Meta.Message)
		return
	}
	if len(out.Columns) == 0 {
		fmt.Println("OK")
		return
	}
	fmt.Println(strings.Join(out.Columns, "\t"))
	for _, row := range out.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	fmt.Printf("(%d row(s))\n", out.Meta.RowCount)
}

func formatValue(v catalog.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	switch v.Kind {
	case catalog.KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case catalog.KindString:
		return v.Str
	case catalog.KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return ""
}
