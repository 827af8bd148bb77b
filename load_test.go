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

package dbginfo

import (
	"strings"
	"testing"

	"github.com/sixfiveteam/dbginfo/internal/dbgtest"
)

func load(t *testing.T, src string) (*Database, []Diagnostic) {
	t.Helper()
	var sink dbgtest.CollectingSink[Diagnostic]
	db, err := LoadReader("test.dbg", strings.NewReader(src), sink.Sink())
	dbgtest.ExpectNoError(t, err)
	return db, sink.Diagnostics
}

// S1 - minimal file: load succeeds and every list is empty.
func TestMinimalFile(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		"info file=0,line=0,mod=0,scope=0,seg=0,span=0,sym=0,lib=0\n")

	if db == nil {
		t.Fatalf("expected a non-nil Database, diagnostics: %v", diags)
	}
	dbgtest.ExpectEquality(t, db.FileCount(), 0)
	dbgtest.ExpectEquality(t, db.ModuleCount(), 0)
	dbgtest.ExpectEquality(t, db.LibraryCount(), 0)
	dbgtest.ExpectEquality(t, db.SegmentCount(), 0)
	dbgtest.ExpectEquality(t, db.SpanCount(), 0)
	dbgtest.ExpectEquality(t, db.ScopeCount(), 0)
	dbgtest.ExpectEquality(t, db.LineCount(), 0)
	dbgtest.ExpectEquality(t, db.SymCount(), 0)
	dbgtest.ExpectEquality(t, len(db.Files()), 0)
}

// S2 - segment + span + address query.
func TestSegmentSpanAddressQuery(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		`seg id=0,name="CODE",start=0x1000,size=0x100,addrsize=abs,type=rw`+"\n"+
		"span id=0,seg=0,start=0,size=16\n")
	if db == nil {
		t.Fatalf("expected success, diagnostics: %v", diags)
	}

	sp := db.SpanByID(0)
	if sp == nil {
		t.Fatalf("expected span 0 to exist")
	}
	dbgtest.ExpectEquality[uint64](t, sp.Start, 0x1000)
	dbgtest.ExpectEquality[uint64](t, sp.End, 0x100F)

	if got := db.SpansByAddress(0x1000); len(got) != 1 || got[0] != sp {
		t.Errorf("by_address(0x1000): got %v, want [span 0]", got)
	}
	if got := db.SpansByAddress(0x0FFF); len(got) != 0 {
		t.Errorf("by_address(0x0FFF): got %v, want empty", got)
	}
	if got := db.SpansByAddress(0x100F); len(got) != 1 || got[0] != sp {
		t.Errorf("by_address(0x100F): got %v, want [span 0]", got)
	}
	if got := db.SpansByAddress(0x1010); len(got) != 0 {
		t.Errorf("by_address(0x1010): got %v, want empty", got)
	}
}

// S3 - overlapping spans.
func TestOverlappingSpans(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		`seg id=0,name="CODE",start=0,size=0x10000,addrsize=abs,type=rw`+"\n"+
		"span id=0,seg=0,start=0x2000,size=0x10\n"+
		"span id=1,seg=0,start=0x2008,size=0x10\n")
	if db == nil {
		t.Fatalf("expected success, diagnostics: %v", diags)
	}

	s0, s1 := db.SpanByID(0), db.SpanByID(1)
	if s0 == nil || s1 == nil {
		t.Fatalf("expected both spans to exist")
	}

	got := db.SpansByAddress(0x2008)
	if len(got) != 2 || got[0] != s0 || got[1] != s1 {
		t.Errorf("by_address(0x2008): got %v, want [span0 span1] in start order", got)
	}

	got = db.SpansByAddress(0x2010)
	if len(got) != 1 || got[0] != s1 {
		t.Errorf("by_address(0x2010): got %v, want [span1]", got)
	}
}

// S4 - symbol lookup by name and by value.
func TestSymbolLookupByNameAndValue(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		`file id=0,name="test.s",size=10,mtime=0,mod=0`+"\n"+
		`module id=0,name="test",file=0`+"\n"+
		`scope id=0,name="global",mod=0,type=global`+"\n"+
		`sym id=0,name="foo",type=lab,value=5,addrsize=abs,scope=0`+"\n"+
		`sym id=1,name="foo",type=lab,value=9,addrsize=abs,scope=0`+"\n")
	if db == nil {
		t.Fatalf("expected success, diagnostics: %v", diags)
	}

	byName := db.SymbolsByName("foo")
	if len(byName) != 2 || byName[0].ID != 0 || byName[1].ID != 1 {
		t.Errorf("by_name(\"foo\"): got %v, want [id0 id1]", byName)
	}

	inRange := db.SymbolsByValueRange(5, 9)
	if len(inRange) != 2 {
		t.Errorf("in_range(5,9): got %d symbols, want 2", len(inRange))
	}
	if empty := db.SymbolsByValueRange(6, 8); len(empty) != 0 {
		t.Errorf("in_range(6,8): got %v, want empty", empty)
	}
}

// S5 - version rejection.
func TestObsoleteMajorVersionFails(t *testing.T) {
	db, diags := load(t, "version major=1,minor=0\n")
	if db != nil {
		t.Fatalf("expected load failure for an obsolete major version")
	}
	foundFatal := false
	for _, d := range diags {
		if d.Severity == SeverityError {
			foundFatal = true
		}
	}
	if !foundFatal {
		t.Errorf("expected at least one error diagnostic, got %v", diags)
	}
}

// S6 - symbol scope inheritance.
func TestSymbolScopeInheritance(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		`file id=0,name="test.s",size=10,mtime=0,mod=0`+"\n"+
		`module id=0,name="test",file=0`+"\n"+
		`scope id=0,name="global",mod=0,type=global`+"\n"+
		`sym id=0,name="p",type=lab,value=1,addrsize=abs,scope=0`+"\n"+
		`sym id=1,name="c",type=equ,value=2,addrsize=abs,parent=0`+"\n")
	if db == nil {
		t.Fatalf("expected success, diagnostics: %v", diags)
	}

	parent := db.SymByID(0)
	child := db.SymByID(1)
	if parent == nil || child == nil {
		t.Fatalf("expected both symbols to exist")
	}
	if child.Scope != parent.Scope {
		t.Errorf("expected child's effective scope to be inherited from parent")
	}
	if child.Scope == nil {
		t.Errorf("expected a non-nil effective scope")
	}
}

func TestModuleHasMainScope(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		`file id=0,name="test.s",size=10,mtime=0,mod=0`+"\n"+
		`module id=0,name="test",file=0`+"\n"+
		`scope id=0,name="global",mod=0,type=global`+"\n"+
		`scope id=1,name="inner",mod=0,type=scope,parent=0`+"\n")
	if db == nil {
		t.Fatalf("expected success, diagnostics: %v", diags)
	}

	m := db.ModuleByID(0)
	if m == nil || m.MainScope == nil {
		t.Fatalf("expected module 0 to have a main scope")
	}
	dbgtest.ExpectEquality(t, m.MainScope.ID, ID(0))

	inner := db.ScopeByID(1)
	if inner == nil || inner.Parent != m.MainScope {
		t.Errorf("expected scope 1's parent to be the main scope")
	}
}

func TestUnknownDirectiveAndAttributeAreWarningsNotFailures(t *testing.T) {
	db, diags := load(t, "version major=2,minor=0\n"+
		"frobnicate foo=1\n"+
		`seg id=0,name="CODE",start=0,size=0x10,addrsize=abs,type=rw,bogus=1`+"\n")
	if db == nil {
		t.Fatalf("expected success despite unknown directive/attribute, diagnostics: %v", diags)
	}
	foundWarning := false
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Errorf("expected at least one warning diagnostic")
	}
}
