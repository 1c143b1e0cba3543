package lexer

import (
	"testing"

	"github.com/relsim/sqlcore/token"
)

func collect(t *testing.T, input string) []token.Item {
	t.Helper()
	l := New(input)
	var items []token.Item
	for {
		it := l.Next()
		items = append(items, it)
		if it.Type == token.EOF || it.Type == token.ILLEGAL {
			break
		}
	}
	return items
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	items := collect(t, "SELECT id, Name FROM students")
	want := []token.Type{token.SELECT, token.IDENT, token.COMMA, token.IDENT, token.FROM, token.IDENT, token.EOF}
	if len(items) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(items), len(want), items)
	}
	for i, typ := range want {
		if items[i].Type != typ {
			t.Errorf("token %d: got %v, want %v", i, items[i].Type, typ)
		}
	}
}

func TestLexerCaseInsensitiveKeyword(t *testing.T) {
	items := collect(t, "select FROM where")
	want := []token.Type{token.SELECT, token.FROM, token.WHERE, token.EOF}
	for i, typ := range want {
		if items[i].Type != typ {
			t.Errorf("token %d: got %v, want %v", i, items[i].Type, typ)
		}
	}
}

func TestLexerNumberAndString(t *testing.T) {
	items := collect(t, "123 45.6 'hello world'")
	if items[0].Type != token.NUMBER || items[0].Value != "123" {
		t.Errorf("got %v", items[0])
	}
	if items[1].Type != token.NUMBER || items[1].Value != "45.6" {
		t.Errorf("got %v", items[1])
	}
	if items[2].Type != token.STRING || items[2].Value != "hello world" {
		t.Errorf("got %v", items[2])
	}
}

func TestLexerEscapedQuote(t *testing.T) {
	items := collect(t, "'it''s fine'")
	if items[0].Type != token.STRING || items[0].Value != "it's fine" {
		t.Errorf("got %v", items[0])
	}
}

func TestLexerOperators(t *testing.T) {
	items := collect(t, "= != <> < <= > >=")
	want := []token.Type{token.EQ, token.NEQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE, token.EOF}
	for i, typ := range want {
		if items[i].Type != typ {
			t.Errorf("token %d: got %v, want %v", i, items[i].Type, typ)
		}
	}
}

func TestLexerDoubleQuoteIsIllegal(t *testing.T) {
	items := collect(t, `"oops"`)
	if items[0].Type != token.ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", items[0])
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	items := collect(t, "'unterminated")
	if items[0].Type != token.ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", items[0])
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	l := New("SELECT FROM")
	first := l.Peek()
	second := l.Peek()
	if first.Type != second.Type || first.Value != second.Value {
		t.Fatalf("Peek is not idempotent: %v vs %v", first, second)
	}
	next := l.Next()
	if next.Type != token.SELECT {
		t.Fatalf("Next after Peek: got %v, want SELECT", next.Type)
	}
	if l.Next().Type != token.FROM {
		t.Fatalf("expected FROM after consuming SELECT")
	}
}

func TestLexerBytePositions(t *testing.T) {
	items := collect(t, "SELECT id")
	if items[0].Pos.Offset != 0 {
		t.Errorf("SELECT offset: got %d, want 0", items[0].Pos.Offset)
	}
	if items[1].Pos.Offset != 7 {
		t.Errorf("id offset: got %d, want 7", items[1].Pos.Offset)
	}
}

func TestLexerReservedForErrorStillTokenizes(t *testing.T) {
	items := collect(t, "HAVING BETWEEN OR")
	want := []token.Type{token.HAVING, token.BETWEEN, token.OR, token.EOF}
	for i, typ := range want {
		if items[i].Type != typ {
			t.Errorf("token %d: got %v, want %v", i, items[i].Type, typ)
		}
		if i < len(want)-1 && !items[i].Type.IsReservedForError() {
			t.Errorf("token %d (%v) should be reserved-for-error", i, items[i].Type)
		}
	}
}
