package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Tables []seedTable `yaml:"tables"`
}

type seedTable struct {
	Name       string          `yaml:"name"`
	PrimaryKey string          `yaml:"primary_key"`
	Columns    []seedColumn    `yaml:"columns"`
	Rows       [][]interface{} `yaml:"rows"`
}

type seedColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Seed builds the bit-exact protected catalog of spec §6: students,
// tutor_groups, grades, declared in seed.yaml via gopkg.in/yaml.v2 rather
// than as Go literals, so the seed dataset reads as data, not code.
func Seed() *Catalog {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		panic(fmt.Sprintf("catalog: embedded seed.yaml is invalid: %v", err))
	}

	c := New()
	for _, t := range f.Tables {
		schema := &TableSchema{Protected: true, AutoIncrement: map[string]int64{}}
		for _, col := range t.Columns {
			cd := ColumnDef{Name: col.Name, Type: col.Type}
			if col.Name == t.PrimaryKey {
				cd.PrimaryKey = true
				cd.NotNull = true
				schema.PrimaryKey = col.Name
			}
			schema.Columns = append(schema.Columns, cd)
		}

		rows := make([]Row, 0, len(t.Rows))
		for _, raw := range t.Rows {
			row := make(Row, len(schema.Columns))
			for i, col := range schema.Columns {
				if i >= len(raw) {
					row[col.Name] = Null
					continue
				}
				row[col.Name] = seedValue(raw[i], col.Type)
			}
			rows = append(rows, row)
		}

		c.createTable(t.Name, schema)
		c.rows[t.Name] = rows
	}
	return c
}

func seedValue(raw interface{}, typ string) Value {
	if raw == nil {
		return Null
	}
	switch typ {
	case TypeNumber:
		switch n := raw.(type) {
		case int:
			return NumberValue(float64(n))
		case int64:
			return NumberValue(float64(n))
		case float64:
			return NumberValue(n)
		}
	case TypeBoolean:
		if b, ok := raw.(bool); ok {
			return BoolValue(b)
		}
	case TypeString:
		if s, ok := raw.(string); ok {
			return StringValue(s)
		}
	}
	return StringValue(fmt.Sprintf("%v", raw))
}
