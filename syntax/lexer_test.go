package syntax

import "testing"

func TestLexerOperators(t *testing.T) {
	cases := []struct {
		src  string
		want Token
	}{
		{"", EOF},
		{"<", LSS},
		{">", GTR},
		{">>", APPEND},
		{"|", PIPE},
		{"&", AND},
		{";", SEMI},
		{"(", LPAREN},
		{")", RPAREN},
		{"arg", WORD},
	}
	for _, c := range cases {
		l := NewLexer([]byte(c.src))
		tok, _, _ := l.Next()
		if tok != c.want {
			t.Errorf("Next(%q) = %v, want %v", c.src, tok, c.want)
		}
	}
}

func TestLexerWordBoundaries(t *testing.T) {
	l := NewLexer([]byte("  hello>world"))
	tok, start, end := l.Next()
	if tok != WORD || start != 2 || end != 7 {
		t.Fatalf("Next() = (%v,%d,%d), want (WORD,2,7)", tok, start, end)
	}
	tok, _, _ = l.Next()
	if tok != GTR {
		t.Fatalf("Next() = %v, want GTR", tok)
	}
}

func TestLexerSkipsTrailingWhitespace(t *testing.T) {
	l := NewLexer([]byte("a   b"))
	l.Next() // a
	if l.Pos() != 4 {
		t.Fatalf("Pos() = %d, want 4 (past trailing whitespace)", l.Pos())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := NewLexer([]byte("   ; rest"))
	if !l.Peek(";") {
		t.Fatal("Peek(\";\") = false, want true")
	}
	tok, _, _ := l.Next()
	if tok != SEMI {
		t.Fatalf("Next() after Peek = %v, want SEMI", tok)
	}
}

func TestPeekFalseForOtherDelimiter(t *testing.T) {
	l := NewLexer([]byte("word"))
	if l.Peek(";|") {
		t.Fatal("Peek should be false for a WORD lexeme")
	}
}
