// This file is part of dbginfo.
//
// dbginfo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dbginfo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dbginfo.  If not, see <https://www.gnu.org/licenses/>.

package scanner

import (
	"strings"
	"testing"
)

func tokensOf(t *testing.T, src string) []Token {
	t.Helper()
	sc := New(strings.NewReader(src))
	var toks []Token
	for {
		tok := sc.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func TestNumericLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want uint64
	}{
		{"0x1000", 0x1000},
		{"0X1F", 0x1F},
		{"010", 8},
		{"0", 0},
		{"42", 42},
	}
	for _, c := range cases {
		toks := tokensOf(t, c.src)
		if toks[0].Kind != IntCon {
			t.Fatalf("%q: got kind %v, want IntCon", c.src, toks[0].Kind)
		}
		if toks[0].IntVal != c.want {
			t.Errorf("%q: got %d, want %d", c.src, toks[0].IntVal, c.want)
		}
	}
}

func TestKeywordVsIdentifier(t *testing.T) {
	toks := tokensOf(t, "name zorp")
	if toks[0].Kind != Keyword || toks[0].Text != "name" {
		t.Errorf("expected 'name' to scan as a Keyword, got %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != Ident || toks[1].Text != "zorp" {
		t.Errorf("expected 'zorp' to scan as an Ident, got %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestStringConstant(t *testing.T) {
	toks := tokensOf(t, `"hello world"`)
	if toks[0].Kind != StrCon || toks[0].Text != "hello world" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestUnterminatedStringRecovers(t *testing.T) {
	sc := New(strings.NewReader(`"oops`))
	tok := sc.Next()
	if tok.Kind != StrCon {
		t.Fatalf("got kind %v, want StrCon", tok.Kind)
	}
	if len(sc.Diagnostics()) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(sc.Diagnostics()))
	}
	next := sc.Next()
	if next.Kind != EOF {
		t.Errorf("expected EOF after recovery, got %v", next.Kind)
	}
}

func TestPunctuationAndLineColumn(t *testing.T) {
	toks := tokensOf(t, "a=1,b\n")
	wantKinds := []Kind{Ident, Equals, IntCon, Comma, Ident, EOL, EOF}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantKinds))
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: got kind %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[0].Line != 1 || toks[0].Column != 0 {
		t.Errorf("first token at %d:%d, want 1:0", toks[0].Line, toks[0].Column)
	}
}

func TestInvalidCharacterRecovers(t *testing.T) {
	sc := New(strings.NewReader("a#b"))
	first := sc.Next()
	if first.Kind != Ident || first.Text != "a" {
		t.Fatalf("got %v %q", first.Kind, first.Text)
	}
	second := sc.Next()
	if second.Kind != Ident || second.Text != "b" {
		t.Fatalf("got %v %q, want Ident \"b\" after skipping invalid char", second.Kind, second.Text)
	}
	if len(sc.Diagnostics()) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(sc.Diagnostics()))
	}
}

func TestIsKeyword(t *testing.T) {
	for _, kw := range []string{"version", "name", "scope", "zp"} {
		if !IsKeyword(kw) {
			t.Errorf("expected %q to be a keyword", kw)
		}
	}
	if IsKeyword("notakeyword") {
		t.Errorf("expected \"notakeyword\" to not be a keyword")
	}
}
