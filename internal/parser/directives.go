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

package parser

import (
	"github.com/sixfiveteam/dbginfo/internal/scanner"
	"github.com/sixfiveteam/dbginfo/internal/store"
	"github.com/sixfiveteam/dbginfo/internal/xlog"
)

// handleInfo pre-reserves capacity in the store per the counts the file
// announces. None of these attributes are required; an absent or
// inaccurate count is never an error.
func (p *parser) handleInfo(attrs attrSet) {
	reserve := func(kind string) {
		if n, ok := attrs.uint(kind); ok {
			p.store.Reserve(kind, int(n))
		}
	}
	reserve("file")
	reserve("lib")
	reserve("mod")
	reserve("scope")
	reserve("seg")
	reserve("span")
	reserve("line")
	reserve("sym")
}

func (p *parser) requireOrDrop(kwTok scanner.Token, directive string, attrs attrSet, required ...string) bool {
	missing := attrs.missing(required...)
	if len(missing) > 0 {
		p.errorf(kwTok.Line, kwTok.Column, "%s directive missing required attribute(s): %v", directive, missing)
		return false
	}
	return true
}

func (p *parser) handleFile(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "file", attrs, "id", "name", "size", "mtime", "mod") {
		return
	}

	id, _ := attrs.uint("id")
	name, _ := attrs.str("name")
	size, _ := attrs.uint("size")
	mtime, _ := attrs.uint("mtime")
	mod, _ := attrs.list("mod")

	if p.store.HasFile(id) {
		xlog.Logf("parser", "duplicate file id %d, overwriting", id)
	}
	p.store.SetFile(&store.RawFile{ID: id, Name: name, Size: size, MTime: mtime, Mod: mod})
}

func (p *parser) handleLibrary(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "library", attrs, "id", "name") {
		return
	}
	id, _ := attrs.uint("id")
	name, _ := attrs.str("name")

	if p.store.HasLibrary(id) {
		xlog.Logf("parser", "duplicate library id %d, overwriting", id)
	}
	p.store.SetLibrary(&store.RawLibrary{ID: id, Name: name})
}

func (p *parser) handleLine(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "line", attrs, "id", "file", "line") {
		return
	}
	id, _ := attrs.uint("id")
	file, _ := attrs.uint("file")
	line, _ := attrs.uint("line")

	lineType := store.LineAssembly
	if typ, ok := attrs.ident("type"); ok {
		switch typ {
		case "c":
			lineType = store.LineC
		case "macro":
			lineType = store.LineMacro
		case "asm":
			lineType = store.LineAssembly
		default:
			p.errorf(kwTok.Line, kwTok.Column, "line directive has unrecognised type %q", typ)
		}
	}

	count, _ := attrs.uint("count")

	var spans []uint64
	if list, ok := attrs.list("span"); ok {
		spans = list
	}

	if p.store.HasLine(id) {
		xlog.Logf("parser", "duplicate line id %d, overwriting", id)
	}
	p.store.SetLine(&store.RawLine{ID: id, File: file, Line: line, Type: lineType, Count: count, Spans: spans})
}

func (p *parser) handleModule(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "module", attrs, "id", "name", "file") {
		return
	}
	id, _ := attrs.uint("id")
	name, _ := attrs.str("name")
	file, _ := attrs.uint("file")

	lib := store.InvalidID
	if v, ok := attrs.uint("lib"); ok {
		lib = v
	}

	if p.store.HasModule(id) {
		xlog.Logf("parser", "duplicate module id %d, overwriting", id)
	}
	p.store.SetModule(&store.RawModule{ID: id, Name: name, File: file, Library: lib})
}

func (p *parser) handleScope(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "scope", attrs, "id", "name", "mod") {
		return
	}
	id, _ := attrs.uint("id")
	name, _ := attrs.str("name")
	mod, _ := attrs.uint("mod")
	size, _ := attrs.uint("size")

	scopeType := store.ScopeGlobal
	if typ, ok := attrs.ident("type"); ok {
		switch typ {
		case "global":
			scopeType = store.ScopeGlobal
		case "file":
			scopeType = store.ScopeModule
		case "scope":
			scopeType = store.ScopeLexical
		case "struct":
			scopeType = store.ScopeStruct
		case "enum":
			scopeType = store.ScopeEnum
		default:
			p.errorf(kwTok.Line, kwTok.Column, "scope directive has unrecognised type %q", typ)
		}
	}

	parent := store.InvalidID
	if v, ok := attrs.uint("parent"); ok {
		parent = v
	}
	label := store.InvalidID
	if v, ok := attrs.uint("sym"); ok {
		label = v
	}

	var spans []uint64
	if list, ok := attrs.list("span"); ok {
		spans = list
	}

	if p.store.HasScope(id) {
		xlog.Logf("parser", "duplicate scope id %d, overwriting", id)
	}
	p.store.SetScope(&store.RawScope{
		ID: id, Name: name, Type: scopeType, Size: size, Mod: mod, Parent: parent, Label: label, Spans: spans,
	})
}

func (p *parser) handleSegment(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "segment", attrs, "id", "name", "start", "size", "addrsize", "type") {
		return
	}

	// oname/ooffs are paired: both or neither.
	_, hasOname := attrs["oname"]
	_, hasOoffs := attrs["ooffs"]
	if hasOname != hasOoffs {
		p.errorf(kwTok.Line, kwTok.Column, "segment directive has 'oname' without 'ooffs' or vice versa")
		return
	}

	id, _ := attrs.uint("id")
	name, _ := attrs.str("name")
	start, _ := attrs.uint("start")
	size, _ := attrs.uint("size")
	addrsize, _ := attrs.ident("addrsize")
	typ, _ := attrs.ident("type")

	seg := &store.RawSegment{ID: id, Name: name, Start: start, Size: size, AddrSize: addrsize, Type: typ}
	if hasOname {
		oname, _ := attrs.str("oname")
		ooffs, _ := attrs.uint("ooffs")
		seg.OutputName = oname
		seg.OutputOffs = ooffs
		seg.HasOutput = true
	}

	if p.store.HasSegment(id) {
		xlog.Logf("parser", "duplicate segment id %d, overwriting", id)
	}
	p.store.SetSegment(seg)
}

func (p *parser) handleSpan(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "span", attrs, "id", "seg", "start", "size") {
		return
	}
	id, _ := attrs.uint("id")
	seg, _ := attrs.uint("seg")
	start, _ := attrs.uint("start")
	size, _ := attrs.uint("size")

	if p.store.HasSpan(id) {
		xlog.Logf("parser", "duplicate span id %d, overwriting", id)
	}
	p.store.SetSpan(&store.RawSpan{ID: id, Segment: seg, Start: start, Size: size})
}

func (p *parser) handleSym(kwTok scanner.Token, attrs attrSet) {
	if !p.requireOrDrop(kwTok, "sym", attrs, "id", "name", "type", "value", "addrsize") {
		return
	}

	_, hasScope := attrs["scope"]
	_, hasParent := attrs["parent"]
	if hasScope == hasParent {
		p.errorf(kwTok.Line, kwTok.Column, "sym directive must have exactly one of 'scope' or 'parent'")
		return
	}

	id, _ := attrs.uint("id")
	name, _ := attrs.str("name")
	value, _ := attrs.int64("value")
	size, _ := attrs.uint("size")

	symType := store.SymbolEquate
	if typ, ok := attrs.ident("type"); ok {
		switch typ {
		case "equ":
			symType = store.SymbolEquate
		case "lab":
			symType = store.SymbolLabel
		default:
			p.errorf(kwTok.Line, kwTok.Column, "sym directive has unrecognised type %q", typ)
		}
	}

	segment := store.InvalidID
	if v, ok := attrs.uint("seg"); ok {
		segment = v
	}

	sym := &store.RawSymbol{ID: id, Name: name, Type: symType, Value: value, Size: size, Segment: segment}
	if hasScope {
		scope, _ := attrs.uint("scope")
		sym.Scope = scope
		sym.HasScope = true
	} else {
		parent, _ := attrs.uint("parent")
		sym.Parent = parent
	}

	if p.store.HasSymbol(id) {
		xlog.Logf("parser", "duplicate symbol id %d, overwriting", id)
	}
	p.store.SetSymbol(sym)
}
