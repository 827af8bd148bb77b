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

// Package parser is a recursive-descent reader over the directive stream
// produced by the scanner. It collects raw, unresolved records into a
// store.Store and recovers from errors at the next end-of-line.
package parser

import (
	"fmt"
	"io"

	"github.com/sixfiveteam/dbginfo/internal/scanner"
	"github.com/sixfiveteam/dbginfo/internal/store"
	"github.com/sixfiveteam/dbginfo/internal/xlog"
)

// known top-level directive keywords.
var topLevelDirectives = map[string]bool{
	"version": true, "info": true, "file": true, "library": true,
	"line": true, "module": true, "scope": true, "segment": true,
	"span": true, "sym": true,
}

// knownAttrs lists every attribute each directive understands, so an
// unrecognised one can be flagged with a warning instead of silently
// accepted - forward-compatibility is "skip with a warning", not "accept
// silently".
var knownAttrs = map[string]map[string]bool{
	"version": set("major", "minor"),
	"info":    set("file", "lib", "mod", "scope", "seg", "span", "line", "sym"),
	"file":    set("id", "name", "size", "mtime", "mod"),
	"library": set("id", "name"),
	"line":    set("id", "file", "line", "type", "count", "span"),
	"module":  set("id", "name", "file", "lib"),
	"scope":   set("id", "name", "mod", "type", "size", "parent", "sym", "span"),
	"segment": set("id", "name", "start", "size", "addrsize", "type", "oname", "ooffs"),
	"span":    set("id", "seg", "start", "size"),
	"sym":     set("id", "name", "type", "value", "size", "addrsize", "scope", "parent", "seg", "file"),
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

type parser struct {
	sc   *scanner.Scanner
	sink Sink

	tok     scanner.Token
	primed  bool
	store   *store.Store
	errors  int
	sawAny  bool // any non-blank directive seen yet
	fatal   bool
}

// Parse reads every directive from r and returns the populated store plus
// the number of errors accumulated (lexical, syntactic, semantic and
// referential errors all contribute; see the resolver for referential
// checks, which happen after this function returns).
func Parse(r io.Reader, sink Sink) (*store.Store, int) {
	p := &parser{
		sc:    scanner.New(r),
		sink:  sink,
		store: store.New(),
	}

	for !p.fatal {
		tok := p.peek()
		switch tok.Kind {
		case scanner.EOF:
			p.flushScannerDiagnostics()
			return p.store, p.errors
		case scanner.EOL:
			p.next() // blank line, ignore
			continue
		case scanner.Ident, scanner.Keyword:
			p.next()
			p.parseDirective(tok)
		default:
			p.errorf(tok.Line, tok.Column, "unexpected token at start of directive")
			p.skipToEOL()
		}
	}

	p.flushScannerDiagnostics()
	return p.store, p.errors
}

func (p *parser) flushScannerDiagnostics() {
	for _, d := range p.sc.Diagnostics() {
		p.errors++
		p.reportf(Error, d.Line, d.Column, "%s", d.Message)
	}
}

func (p *parser) peek() scanner.Token {
	if !p.primed {
		p.tok = p.sc.Next()
		p.primed = true
	}
	return p.tok
}

func (p *parser) next() scanner.Token {
	t := p.peek()
	p.primed = false
	return t
}

func (p *parser) skipToEOL() {
	for {
		t := p.peek()
		if t.Kind == scanner.EOL || t.Kind == scanner.EOF {
			return
		}
		p.next()
	}
}

func (p *parser) errorf(line, col int, format string, args ...interface{}) {
	p.errors++
	p.reportf(Error, line, col, format, args...)
}

func (p *parser) warningf(line, col int, format string, args ...interface{}) {
	p.reportf(Warning, line, col, format, args...)
}

func (p *parser) reportf(sev Severity, line, col int, format string, args ...interface{}) {
	if p.sink == nil {
		return
	}
	p.sink(Diagnostic{Severity: sev, Line: line, Column: col, Message: fmt.Sprintf(format, args...)})
}

// parseDirective parses one KEYWORD attr=value[,attr=value]* EOL directive,
// given that kwTok has already been consumed.
func (p *parser) parseDirective(kwTok scanner.Token) {
	keyword := kwTok.Text

	first := !p.sawAny
	p.sawAny = true

	if first && keyword != "version" {
		p.errorf(kwTok.Line, kwTok.Column, "first directive must be 'version'")
		p.fatal = true
		p.skipToEOL()
		return
	}

	// "seg" is accepted as the short form of the "segment" directive.
	if keyword == "seg" {
		keyword = "segment"
	}

	if !topLevelDirectives[keyword] {
		p.warningf(kwTok.Line, kwTok.Column, "unknown directive %q", keyword)
		p.skipToEOL()
		if p.peek().Kind == scanner.EOL {
			p.next()
		}
		return
	}

	attrs, ok := p.parseAttrSet()
	if p.peek().Kind == scanner.EOL {
		p.next()
	}
	if !ok {
		return
	}

	for name := range attrs {
		if !knownAttrs[keyword][name] {
			p.warningf(kwTok.Line, kwTok.Column, "unknown attribute %q on %q directive, ignoring", name, keyword)
		}
	}

	switch keyword {
	case "version":
		p.handleVersion(kwTok, attrs)
	case "info":
		p.handleInfo(attrs)
	case "file":
		p.handleFile(kwTok, attrs)
	case "library":
		p.handleLibrary(kwTok, attrs)
	case "line":
		p.handleLine(kwTok, attrs)
	case "module":
		p.handleModule(kwTok, attrs)
	case "scope":
		p.handleScope(kwTok, attrs)
	case "segment":
		p.handleSegment(kwTok, attrs)
	case "span":
		p.handleSpan(kwTok, attrs)
	case "sym":
		p.handleSym(kwTok, attrs)
	}
}

// parseAttrSet reads "name=value[,name=value]*" up to EOL/EOF. It returns
// false if a syntax error forced it to abandon the directive (the caller
// will already be positioned at EOL/EOF, or parseAttrSet will have
// skipped there itself).
func (p *parser) parseAttrSet() (attrSet, bool) {
	attrs := attrSet{}

	for {
		tok := p.peek()
		if tok.Kind == scanner.EOL || tok.Kind == scanner.EOF {
			return attrs, true
		}

		if tok.Kind != scanner.Ident && tok.Kind != scanner.Keyword {
			p.errorf(tok.Line, tok.Column, "expected attribute name")
			p.skipToEOL()
			return nil, false
		}
		nameTok := p.next()

		if p.peek().Kind != scanner.Equals {
			p.errorf(nameTok.Line, nameTok.Column, "expected '=' after attribute %q", nameTok.Text)
			p.skipToEOL()
			return nil, false
		}
		p.next() // consume '='

		val, ok := p.parseAttrValue()
		if !ok {
			p.errorf(nameTok.Line, nameTok.Column, "invalid value for attribute %q", nameTok.Text)
			p.skipToEOL()
			return nil, false
		}

		if attrs.has(nameTok.Text) {
			xlog.Logf("parser", "duplicate attribute %q, overwriting previous value", nameTok.Text)
		}
		attrs[nameTok.Text] = val

		sep := p.peek()
		switch sep.Kind {
		case scanner.Comma:
			p.next()
			continue
		case scanner.EOL, scanner.EOF:
			return attrs, true
		default:
			p.errorf(sep.Line, sep.Column, "expected ',' or end of line")
			p.skipToEOL()
			return nil, false
		}
	}
}

// parseAttrValue reads an integer constant (optionally negative or a
// '+'-separated list), a string constant, or a bare identifier.
func (p *parser) parseAttrValue() (attrValue, bool) {
	neg := false
	if p.peek().Kind == scanner.Minus {
		p.next()
		neg = true
	}

	tok := p.peek()
	switch tok.Kind {
	case scanner.IntCon:
		p.next()
		if p.peek().Kind == scanner.Plus {
			list := []uint64{tok.IntVal}
			for p.peek().Kind == scanner.Plus {
				p.next()
				n := p.peek()
				if n.Kind != scanner.IntCon {
					return attrValue{}, false
				}
				p.next()
				list = append(list, n.IntVal)
			}
			return attrValue{kind: attrList, list: list}, true
		}
		return attrValue{kind: attrInt, intVal: tok.IntVal, negative: neg}, true
	case scanner.StrCon:
		if neg {
			return attrValue{}, false
		}
		p.next()
		return attrValue{kind: attrStr, strVal: tok.Text}, true
	case scanner.Ident, scanner.Keyword:
		if neg {
			return attrValue{}, false
		}
		p.next()
		return attrValue{kind: attrIdent, identVal: tok.Text}, true
	default:
		return attrValue{}, false
	}
}
