/*
Copyright (C) 2023  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package lexer

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	toks, err := Tokenize(`let x = 5 in Print(x)`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Kind{Keyword, Identifier, Operator, Integer, Keyword, Identifier, Punctuation, Identifier, Punctuation, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: kind = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenizeString(t *testing.T) {
	toks, err := Tokenize(`'a\tb\nc'`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != String {
		t.Fatalf("kind = %s, want String", toks[0].Kind)
	}
	if toks[0].Text != "a\tb\nc" {
		t.Errorf("text = %q, want %q", toks[0].Text, "a\tb\nc")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`'abc`)
	if err == nil {
		t.Fatal("expected an unterminated-string error")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("err = %T, want *SyntaxError", err)
	}
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	toks, err := Tokenize(`a >= b -> c | d`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	var ops []string
	for _, tok := range toks {
		if tok.Kind == Operator {
			ops = append(ops, tok.Text)
		}
	}
	want := []string{">=", "->", "|"}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestTokenizeLineComment(t *testing.T) {
	toks, err := Tokenize("let x = 1 // trailing comment\nin x")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for _, tok := range toks {
		if tok.Kind == Operator && tok.Text == "//" {
			t.Fatalf("comment leaked into token stream: %v", toks)
		}
	}
}

func TestTokenizeFullwidthNormalization(t *testing.T) {
	// golang.org/x/text/width narrows fullwidth parens before tokenizing, so
	// fullwidth and ASCII punctuation lex identically.
	toks, err := Tokenize("Print（x）")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Kind != Punctuation || toks[1].Text != "(" {
		t.Errorf("token[1] = %+v, want punctuation \"(\"", toks[1])
	}
}

func TestKeywordsReclassified(t *testing.T) {
	toks, err := Tokenize("rec")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != Keyword {
		t.Errorf("kind = %s, want Keyword", toks[0].Kind)
	}
}
