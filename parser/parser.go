// Package parser implements the recursive-descent parser of spec §4.4: a
// token stream becomes a Statement AST (one of seven kinds).
package parser

import (
	"strconv"
	"strings"

	"github.com/relsim/sqlcore/ast"
	"github.com/relsim/sqlcore/errors"
	"github.com/relsim/sqlcore/lexer"
	"github.com/relsim/sqlcore/token"
)

// Parser turns a token stream into a Statement. Use Parse for a one-shot
// call, or New followed by (*Parser).Parse; every constructor builds a fresh
// Lexer over the given text.
type Parser struct {
	lex    *lexer.Lexer
	cur    token.Item
	strict bool // config.EngineConfig.StrictReservedWords
}

// New creates a Parser positioned at the first token of text, rejecting
// reserved-for-error keywords as UnsupportedFeature (the default policy,
// config.EngineConfig.StrictReservedWords = true).
func New(text string) *Parser {
	return NewWithOptions(text, true)
}

// NewWithOptions creates a Parser with an explicit reserved-word policy. When
// strict is false, a reserved-for-error keyword in identifier/operand
// position is reported as a plain SyntaxError instead of UnsupportedFeature —
// a host running a broader compatibility suite can use this to distinguish
// "this word is reserved" from "this construct will never be implemented".
func NewWithOptions(text string, strict bool) *Parser {
	p := &Parser{lex: lexer.New(text), strict: strict}
	p.cur = p.lex.Next()
	return p
}

// Parse parses exactly one statement from text. A trailing semicolon is
// consumed silently; any other trailing token is a SyntaxError (spec §4.4:
// "exactly one statement per call").
func Parse(text string) (ast.Statement, error) {
	return New(text).Parse()
}

// ParseWithOptions is Parse with an explicit reserved-word policy; see
// NewWithOptions.
func ParseWithOptions(text string, strict bool) (ast.Statement, error) {
	return NewWithOptions(text, strict).Parse()
}

// Parse runs the parser to completion, producing a Statement or the first
// error encountered.
func (p *Parser) Parse() (ast.Statement, error) {
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}

	var stmt ast.Statement
	var err error
	switch p.cur.Type {
	case token.SELECT:
		stmt, err = p.parseQuery()
	case token.CREATE:
		stmt, err = p.parseCreateTable()
	case token.ALTER:
		stmt, err = p.parseAlterTable()
	case token.DROP:
		stmt, err = p.parseDropTable()
	case token.INSERT:
		stmt, err = p.parseInsert()
	case token.UPDATE:
		stmt, err = p.parseUpdate()
	case token.DELETE:
		stmt, err = p.parseDelete()
	default:
		if p.cur.Type.IsReservedForError() {
			return nil, p.unsupported()
		}
		return nil, p.errSyntax("unexpected token %s at start of statement", p.cur.Type)
	}
	if err != nil {
		return nil, err
	}

	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}
	if !p.curIs(token.EOF) {
		return nil, p.errSyntax("unexpected token %s after statement", p.cur.Type)
	}
	return stmt, nil
}

func (p *Parser) advance() { p.cur = p.lex.Next() }

func (p *Parser) curIs(t token.Type) bool { return p.cur.Type == t }

func (p *Parser) peekItem() token.Item { return p.lex.Peek() }

// expect consumes cur if it matches t, else returns a positioned error.
func (p *Parser) expect(t token.Type) error {
	if p.cur.Type == token.ILLEGAL {
		return p.illegalErr()
	}
	if p.cur.Type != t {
		if p.cur.Type.IsReservedForError() {
			return p.unsupported()
		}
		return p.errSyntax("expected %s, got %s", t, p.cur.Type)
	}
	p.advance()
	return nil
}

func (p *Parser) errSyntax(format string, args ...interface{}) *errors.Error {
	return errors.New(errors.SyntaxError, p.cur.Pos.Offset, format, args...)
}

func (p *Parser) unsupported() *errors.Error {
	if !p.strict {
		return errors.New(errors.SyntaxError, p.cur.Pos.Offset,
			"reserved word %s cannot be used here", p.cur.Type)
	}
	return errors.New(errors.UnsupportedFeature, p.cur.Pos.Offset,
		"%s is not supported by this engine", p.cur.Type)
}

func (p *Parser) illegalErr() *errors.Error {
	return errors.New(errors.SyntaxError, p.cur.Pos.Offset, "%s", p.cur.Value)
}

// parseIdentText expects a bare identifier and returns its text and position.
func (p *Parser) parseIdentText() (string, token.Pos, error) {
	if p.cur.Type == token.ILLEGAL {
		return "", token.Pos{}, p.illegalErr()
	}
	if p.cur.Type != token.IDENT {
		if p.cur.Type.IsReservedForError() {
			return "", token.Pos{}, p.unsupported()
		}
		return "", token.Pos{}, p.errSyntax("expected identifier, got %s", p.cur.Type)
	}
	name, pos := p.cur.Value, p.cur.Pos
	p.advance()
	return name, pos, nil
}

// parseColumnRef parses col_ref := ident ['.' ident].
func (p *Parser) parseColumnRef() (*ast.ColumnRef, error) {
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}
	if p.cur.Type != token.IDENT {
		if p.cur.Type.IsReservedForError() {
			return nil, p.unsupported()
		}
		return nil, p.errSyntax("expected column reference, got %s", p.cur.Type)
	}
	start := p.cur.Pos
	first := p.cur.Value
	p.advance()
	if p.curIs(token.DOT) {
		p.advance()
		col, _, err := p.parseIdentText()
		if err != nil {
			return nil, err
		}
		return &ast.ColumnRef{StartPos: start, Table: first, Column: col}, nil
	}
	return &ast.ColumnRef{StartPos: start, Column: first}, nil
}

// parseLiteral parses a literal token into an *ast.Literal.
func (p *Parser) parseLiteral() (*ast.Literal, error) {
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.NUMBER:
		f, err := strconv.ParseFloat(p.cur.Value, 64)
		if err != nil {
			return nil, errors.New(errors.InvalidLiteral, pos.Offset, "invalid numeric literal %q", p.cur.Value)
		}
		p.advance()
		return &ast.Literal{StartPos: pos, Kind: ast.LiteralNumber, Num: f}, nil
	case token.STRING:
		s := p.cur.Value
		p.advance()
		return &ast.Literal{StartPos: pos, Kind: ast.LiteralString, Str: s}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{StartPos: pos, Kind: ast.LiteralBool, Bool: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.Literal{StartPos: pos, Kind: ast.LiteralBool, Bool: false}, nil
	case token.NULL:
		p.advance()
		return &ast.Literal{StartPos: pos, Kind: ast.LiteralNull}, nil
	}
	if p.cur.Type.IsReservedForError() {
		return nil, p.unsupported()
	}
	return nil, p.errSyntax("expected a literal value, got %s", p.cur.Type)
}

// parseOperand parses operand := col_ref | number | string | TRUE | FALSE | NULL.
func (p *Parser) parseOperand() (ast.Operand, error) {
	if p.cur.Type == token.IDENT {
		return p.parseColumnRef()
	}
	switch p.cur.Type {
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NULL:
		return p.parseLiteral()
	}
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}
	if p.cur.Type.IsReservedForError() {
		return nil, p.unsupported()
	}
	return nil, p.errSyntax("expected a column reference or literal, got %s", p.cur.Type)
}

func comparisonOp(t token.Type) bool {
	switch t {
	case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE, token.LIKE:
		return true
	}
	return false
}

// parseComparison parses comparison := operand op operand | bool_literal.
func (p *Parser) parseComparison() (*ast.Comparison, error) {
	pos := p.cur.Pos

	// A bare TRUE/FALSE not followed by an operator stands for itself
	// ("treated as \"= literal\"", spec §4.4 SELECT grammar).
	if (p.cur.Type == token.TRUE || p.cur.Type == token.FALSE) && !comparisonOp(p.peekItem().Type) {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{StartPos: pos, Bare: lit}, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}
	if !comparisonOp(p.cur.Type) {
		if p.cur.Type.IsReservedForError() {
			return nil, p.unsupported()
		}
		return nil, p.errSyntax("expected a comparison operator, got %s", p.cur.Type)
	}
	op := p.cur.Type
	p.advance()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{StartPos: pos, Left: left, Op: op, Right: right}, nil
}

// parsePredicate parses predicate := comparison (AND comparison)*.
func (p *Parser) parsePredicate() ([]*ast.Comparison, error) {
	first, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	out := []*ast.Comparison{first}
	for p.curIs(token.AND) {
		p.advance()
		c, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// isAliasFollower reports whether t can follow a bare alias identifier
// (spec §9 "Alias-without-AS"): another item, or the end of the select_list.
func isAliasFollower(t token.Type) bool {
	switch t {
	case token.COMMA, token.EOF, token.SEMICOLON, token.FROM, token.WHERE, token.GROUP, token.ORDER, token.LIMIT:
		return true
	}
	return false
}

// maybeAlias parses alias := [AS] ident, implementing the exact
// alias-without-AS lookahead rule of spec §9: a bare identifier after an
// item is an alias iff the token after it is ',', EOF, or a clause keyword.
func (p *Parser) maybeAlias() (string, error) {
	if p.curIs(token.AS) {
		p.advance()
		name, _, err := p.parseIdentText()
		return name, err
	}
	if p.cur.Type == token.IDENT && isAliasFollower(p.peekItem().Type) {
		name := p.cur.Value
		p.advance()
		return name, nil
	}
	return "", nil
}

// parseAgg parses agg := (COUNT|SUM|AVG|MIN|MAX) '(' ('*' | col_ref) ')'.
func (p *Parser) parseAgg() (*ast.AggExpr, error) {
	pos := p.cur.Pos
	name := p.cur.Type.String()
	p.advance()
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var arg ast.SelectExpr
	if p.curIs(token.STAR) {
		if name != "COUNT" {
			return nil, errors.New(errors.SyntaxError, p.cur.Pos.Offset, "'*' is only valid inside COUNT(...)")
		}
		starPos := p.cur.Pos
		p.advance()
		arg = &ast.Star{StartPos: starPos}
	} else {
		col, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		arg = col
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.AggExpr{StartPos: pos, Func: name, Arg: arg}, nil
}

// parseSelectItem parses item := (agg | col_ref) [alias].
func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	var expr ast.SelectExpr
	switch p.cur.Type {
	case token.COUNT, token.SUM, token.AVG, token.MIN, token.MAX:
		agg, err := p.parseAgg()
		if err != nil {
			return nil, err
		}
		expr = agg
	case token.IDENT:
		col, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		expr = col
	default:
		if p.cur.Type == token.ILLEGAL {
			return nil, p.illegalErr()
		}
		if p.cur.Type.IsReservedForError() {
			return nil, p.unsupported()
		}
		return nil, p.errSyntax("expected a column reference or aggregate, got %s", p.cur.Type)
	}
	alias, err := p.maybeAlias()
	if err != nil {
		return nil, err
	}
	return &ast.SelectItem{Expr: expr, Alias: alias}, nil
}

// parseSelectList parses select_list := '*' | item (',' item)*.
func (p *Parser) parseSelectList() ([]*ast.SelectItem, error) {
	if p.curIs(token.STAR) {
		pos := p.cur.Pos
		p.advance()
		return []*ast.SelectItem{{Expr: &ast.Star{StartPos: pos}}}, nil
	}
	first, err := p.parseSelectItem()
	if err != nil {
		return nil, err
	}
	items := []*ast.SelectItem{first}
	for p.curIs(token.COMMA) {
		p.advance()
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// parseQuery parses the SELECT grammar of spec §4.4.
func (p *Parser) parseQuery() (*ast.QueryStmt, error) {
	start := p.cur.Pos
	p.advance() // SELECT

	q := &ast.QueryStmt{StartPos: start}
	if p.curIs(token.DISTINCT) {
		q.Distinct = true
		p.advance()
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	q.SelectList = items

	if err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	from, fromPos, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	q.From, q.FromPos = from, fromPos

	if p.curIs(token.INNER) || p.curIs(token.JOIN) {
		joinPos := p.cur.Pos
		if p.curIs(token.INNER) {
			p.advance()
		}
		if err := p.expect(token.JOIN); err != nil {
			return nil, err
		}
		joinTable, joinTablePos, err := p.parseIdentText()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.ON); err != nil {
			return nil, err
		}
		left, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		right, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		q.Join = &ast.JoinClause{StartPos: joinPos, Table: joinTable, TablePos: joinTablePos, Left: left, Right: right}
	}

	if p.curIs(token.WHERE) {
		p.advance()
		where, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	if p.curIs(token.GROUP) {
		p.advance()
		if err := p.expect(token.BY); err != nil {
			return nil, err
		}
		col, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		q.GroupBy = append(q.GroupBy, col)
		for p.curIs(token.COMMA) {
			p.advance()
			col, err := p.parseColumnRef()
			if err != nil {
				return nil, err
			}
			q.GroupBy = append(q.GroupBy, col)
		}
	}

	if p.curIs(token.ORDER) {
		p.advance()
		if err := p.expect(token.BY); err != nil {
			return nil, err
		}
		col, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		desc := false
		if p.curIs(token.ASC) {
			p.advance()
		} else if p.curIs(token.DESC) {
			desc = true
			p.advance()
		}
		q.OrderBy = &ast.OrderByClause{Col: col, Desc: desc}
	}

	if p.curIs(token.LIMIT) {
		p.advance()
		if p.cur.Type == token.ILLEGAL {
			return nil, p.illegalErr()
		}
		if p.cur.Type != token.NUMBER {
			return nil, p.errSyntax("expected a non-negative integer after LIMIT, got %s", p.cur.Type)
		}
		text, pos := p.cur.Value, p.cur.Pos
		if strings.Contains(text, ".") {
			return nil, errors.New(errors.SyntaxError, pos.Offset, "LIMIT must be a non-negative integer, got %q", text)
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.New(errors.SyntaxError, pos.Offset, "LIMIT must be a non-negative integer, got %q", text)
		}
		p.advance()
		q.Limit = &n
	}

	return q, nil
}

// parseTypeSpec parses type_spec := type_name ['(' number ')'].
func (p *Parser) parseTypeSpec() (token.Type, *int, error) {
	if p.cur.Type == token.ILLEGAL {
		return 0, nil, p.illegalErr()
	}
	typTok := p.cur.Type
	if _, ok := token.TypeSynonym(typTok); !ok {
		if typTok.IsReservedForError() {
			return 0, nil, p.unsupported()
		}
		return 0, nil, p.errSyntax("unknown column type %q", p.cur.Value)
	}
	p.advance()

	var size *int
	if p.curIs(token.LPAREN) {
		p.advance()
		if p.cur.Type != token.NUMBER {
			return 0, nil, p.errSyntax("expected a number for column size, got %s", p.cur.Type)
		}
		text, pos := p.cur.Value, p.cur.Pos
		if strings.Contains(text, ".") {
			return 0, nil, errors.New(errors.SyntaxError, pos.Offset, "column size must be an integer, got %q", text)
		}
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			return 0, nil, errors.New(errors.SyntaxError, pos.Offset, "column size must be a positive integer, got %q", text)
		}
		p.advance()
		if err := p.expect(token.RPAREN); err != nil {
			return 0, nil, err
		}
		size = &n
	}
	return typTok, size, nil
}

// parseColumnDef parses col_def := ident type_spec constraint*.
func (p *Parser) parseColumnDef() (*ast.ColumnDef, error) {
	if p.cur.Type == token.ILLEGAL {
		return nil, p.illegalErr()
	}
	pos := p.cur.Pos
	name, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	typTok, size, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	cd := &ast.ColumnDef{StartPos: pos, Name: name, TypeTok: typTok, Size: size}

	for {
		switch p.cur.Type {
		case token.PRIMARY:
			p.advance()
			if err := p.expect(token.KEY); err != nil {
				return nil, err
			}
			cd.PrimaryKey = true
		case token.AUTO_INCREMENT:
			p.advance()
			cd.AutoIncrement = true
		case token.NOT:
			p.advance()
			if err := p.expect(token.NULL); err != nil {
				return nil, err
			}
			cd.NotNull = true
		case token.NULL:
			p.advance()
		default:
			return cd, nil
		}
	}
}

// parseCreateTable parses create_table := CREATE TABLE ident '(' col_def (',' col_def)* ')'.
func (p *Parser) parseCreateTable() (*ast.CreateTableStmt, error) {
	start := p.cur.Pos
	p.advance() // CREATE
	if err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	name, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	stmt := &ast.CreateTableStmt{StartPos: start, Name: name}
	seenPK := false
	for {
		cd, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		if cd.PrimaryKey {
			if seenPK {
				return nil, errors.New(errors.SyntaxError, cd.StartPos.Offset, "multiple primary keys not supported")
			}
			seenPK = true
		}
		stmt.Columns = append(stmt.Columns, cd)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseAlterTable parses alter_table := ALTER TABLE ident ADD [COLUMN] col_def.
func (p *Parser) parseAlterTable() (*ast.AlterTableStmt, error) {
	start := p.cur.Pos
	p.advance() // ALTER
	if err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	name, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ADD); err != nil {
		return nil, err
	}
	if p.curIs(token.COLUMN) {
		p.advance()
	}
	cd, err := p.parseColumnDef()
	if err != nil {
		return nil, err
	}
	return &ast.AlterTableStmt{StartPos: start, Table: name, AddColumn: cd}, nil
}

// parseDropTable parses drop_table := DROP TABLE ident.
func (p *Parser) parseDropTable() (*ast.DropTableStmt, error) {
	start := p.cur.Pos
	p.advance() // DROP
	if err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	name, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	return &ast.DropTableStmt{StartPos: start, Table: name}, nil
}

// parseInsert parses insert := INSERT INTO ident '(' ident,... ')' VALUES '(' literal,... ')'.
func (p *Parser) parseInsert() (*ast.InsertStmt, error) {
	start := p.cur.Pos
	p.advance() // INSERT
	if err := p.expect(token.INTO); err != nil {
		return nil, err
	}
	table, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var cols []string
	for {
		name, _, err := p.parseIdentText()
		if err != nil {
			return nil, err
		}
		cols = append(cols, name)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expect(token.VALUES); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var vals []*ast.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, lit)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.InsertStmt{StartPos: start, Table: table, Columns: cols, Values: vals}, nil
}

// parseUpdate parses update := UPDATE ident SET assign,... [WHERE predicate].
func (p *Parser) parseUpdate() (*ast.UpdateStmt, error) {
	start := p.cur.Pos
	p.advance() // UPDATE
	table, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SET); err != nil {
		return nil, err
	}
	var assigns []*ast.Assignment
	for {
		col, _, err := p.parseIdentText()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, &ast.Assignment{Column: col, Value: lit})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	stmt := &ast.UpdateStmt{StartPos: start, Table: table, Assignments: assigns}
	if p.curIs(token.WHERE) {
		p.advance()
		where, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

// parseDelete parses delete := DELETE FROM ident [WHERE predicate].
func (p *Parser) parseDelete() (*ast.DeleteStmt, error) {
	start := p.cur.Pos
	p.advance() // DELETE
	if err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	table, _, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	stmt := &ast.DeleteStmt{StartPos: start, Table: table}
	if p.curIs(token.WHERE) {
		p.advance()
		where, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}
