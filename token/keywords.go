package token

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upper folds identifier text to the form keyword lookup is keyed on.
// Keyword matching is case-insensitive (spec §4.3); using x/text's locale-aware
// folding instead of strings.ToUpper keeps this consistent with how the rest
// of the engine does case-insensitive comparison (see executor LIKE matching).
var upper = cases.Upper(language.Und)

// keywords maps the upper-cased keyword text to its token type. Built from the
// supported set plus the reserved-for-error set (spec §4.3).
var keywords = map[string]Type{
	"SELECT":         SELECT,
	"DISTINCT":       DISTINCT,
	"FROM":           FROM,
	"WHERE":          WHERE,
	"INNER":          INNER,
	"JOIN":           JOIN,
	"ON":             ON,
	"AND":            AND,
	"GROUP":          GROUP,
	"BY":             BY,
	"ORDER":          ORDER,
	"ASC":            ASC,
	"DESC":           DESC,
	"LIMIT":          LIMIT,
	"AS":             AS,
	"LIKE":           LIKE,
	"TRUE":           TRUE,
	"FALSE":          FALSE,
	"NULL":           NULL,
	"COUNT":          COUNT,
	"SUM":            SUM,
	"AVG":            AVG,
	"MIN":            MIN,
	"MAX":            MAX,
	"CREATE":         CREATE,
	"TABLE":          TABLE,
	"ALTER":          ALTER,
	"ADD":            ADD,
	"COLUMN":         COLUMN,
	"DROP":           DROP,
	"INSERT":         INSERT,
	"INTO":           INTO,
	"VALUES":         VALUES,
	"UPDATE":         UPDATE,
	"SET":            SET,
	"DELETE":         DELETE,
	"PRIMARY":        PRIMARY,
	"KEY":            KEY,
	"AUTO_INCREMENT": AUTO_INCREMENT,
	"NOT":            NOT,
	"INT":            INT,
	"INTEGER":        INTEGER,
	"NUMBER":         NUMBER_KW,
	"DECIMAL":        DECIMAL,
	"FLOAT":          FLOAT,
	"NUMERIC":        NUMERIC,
	"REAL":           REAL,
	"DOUBLE":         DOUBLE,
	"VARCHAR":        VARCHAR,
	"CHAR":           CHAR,
	"TEXT":           TEXT,
	"STRING":         STRING_KW,
	"BOOLEAN":        BOOLEAN,
	"BOOL":           BOOL,

	// Reserved-for-error
	"OR":      OR,
	"IN":      IN,
	"BETWEEN": BETWEEN,
	"HAVING":  HAVING,
	"LEFT":    LEFT,
	"RIGHT":   RIGHT,
	"OUTER":   OUTER,
	"FULL":    FULL,
}

// Lookup classifies ident text as a keyword (supported or reserved-for-error)
// or returns (IDENT, false) for a bare identifier. Matching is case-insensitive;
// the returned bool is true only for a recognised keyword.
func Lookup(ident string) (Type, bool) {
	t, ok := keywords[upper.String(ident)]
	return t, ok
}
