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
	"sort"

	"github.com/sixfiveteam/dbginfo/internal/spanindex"
)

// Database is a fully resolved, immutable debug-info model. It is built once
// by Load; every query method below is read-only and safe to call
// concurrently from any number of goroutines, since nothing about a
// Database ever changes after resolve returns it.
type Database struct {
	files     []*File
	libraries []*Library
	modules   []*Module
	scopes    []*Scope
	segments  []*Segment
	spans     []*Span
	lines     []*Line
	symbols   []*Symbol

	filesByName    []*File
	modulesByName  []*Module
	segmentsByName []*Segment
	symbolsByName  []*Symbol
	symbolsByValue []*Symbol

	spanIndex *spanindex.Index
}

// FileCount, LibraryCount, ModuleCount, ScopeCount, SegmentCount, SpanCount,
// LineCount and SymCount report the raw number of id slots per kind,
// including any that ended up nil (an id mentioned in "info" but never
// defined, or a record dropped for a referential error).
func (db *Database) FileCount() int    { return len(db.files) }
func (db *Database) LibraryCount() int { return len(db.libraries) }
func (db *Database) ModuleCount() int  { return len(db.modules) }
func (db *Database) ScopeCount() int   { return len(db.scopes) }
func (db *Database) SegmentCount() int { return len(db.segments) }
func (db *Database) SpanCount() int    { return len(db.spans) }
func (db *Database) LineCount() int    { return len(db.lines) }
func (db *Database) SymCount() int     { return len(db.symbols) }

// Files, Libraries, Modules, Segments and Spans each enumerate every
// non-nil entity of that kind, in ascending id order.
func (db *Database) Files() []*File         { return compact(db.files) }
func (db *Database) Libraries() []*Library  { return compact(db.libraries) }
func (db *Database) Modules() []*Module     { return compact(db.modules) }
func (db *Database) Segments() []*Segment   { return compact(db.segments) }
func (db *Database) Spans() []*Span         { return compact(db.spans) }
func (db *Database) Symbols() []*Symbol     { return compact(db.symbols) }

func compact[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// FileByID, LibraryByID, ModuleByID, ScopeByID, SegmentByID, SpanByID,
// LineByID and SymByID return the entity with the given id, or nil if the
// id is out of range or names a gap.
func (db *Database) FileByID(id ID) *File       { return byID(db.files, id) }
func (db *Database) LibraryByID(id ID) *Library { return byID(db.libraries, id) }
func (db *Database) ModuleByID(id ID) *Module   { return byID(db.modules, id) }
func (db *Database) ScopeByID(id ID) *Scope     { return byID(db.scopes, id) }
func (db *Database) SegmentByID(id ID) *Segment { return byID(db.segments, id) }
func (db *Database) SpanByID(id ID) *Span       { return byID(db.spans, id) }
func (db *Database) LineByID(id ID) *Line       { return byID(db.lines, id) }
func (db *Database) SymByID(id ID) *Symbol      { return byID(db.symbols, id) }

func byID[T any](in []*T, id ID) *T {
	if int(id) >= len(in) {
		return nil
	}
	return in[id]
}

// SymbolsByName performs a binary search on the by-name index and widens to
// every consecutive entry with an equal name, returning all of them in id
// order.
func (db *Database) SymbolsByName(name string) []*Symbol {
	lo := sort.Search(len(db.symbolsByName), func(i int) bool { return db.symbolsByName[i].Name >= name })
	if lo >= len(db.symbolsByName) || db.symbolsByName[lo].Name != name {
		return nil
	}
	hi := lo
	for hi < len(db.symbolsByName) && db.symbolsByName[hi].Name == name {
		hi++
	}
	out := make([]*Symbol, hi-lo)
	copy(out, db.symbolsByName[lo:hi])
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SymbolsByValueRange returns every label-kind symbol whose value falls in
// [start, end] inclusive, in ascending value order.
func (db *Database) SymbolsByValueRange(start, end int64) []*Symbol {
	lo := sort.Search(len(db.symbolsByValue), func(i int) bool { return db.symbolsByValue[i].Value >= start })
	var out []*Symbol
	for i := lo; i < len(db.symbolsByValue) && db.symbolsByValue[i].Value <= end; i++ {
		if db.symbolsByValue[i].Type == SymbolLabel {
			out = append(out, db.symbolsByValue[i])
		}
	}
	return out
}

// LineByFileAndLine binary searches the file's lines-by-line-number index.
// It returns the first line record at that number, or nil if the file has
// none.
func (db *Database) LineByFileAndLine(f *File, lineNo uint64) *Line {
	if f == nil {
		return nil
	}
	i := sort.Search(len(f.Lines), func(i int) bool { return f.Lines[i].Line >= lineNo })
	if i >= len(f.Lines) || f.Lines[i].Line != lineNo {
		return nil
	}
	return f.Lines[i]
}

// SpansByAddress returns every span covering addr, via the §4.4 address
// index, in start-sorted order.
func (db *Database) SpansByAddress(addr uint64) []*Span {
	handles := db.spanIndex.Lookup(addr)
	if len(handles) == 0 {
		return nil
	}
	out := make([]*Span, 0, len(handles))
	for _, h := range handles {
		out = append(out, db.spans[h])
	}
	return out
}

// ScopesByModule and FilesByModule return a module's own collections
// directly - they are already maintained sorted by name during resolution.
func (db *Database) ScopesByModule(m *Module) []*Scope {
	if m == nil {
		return nil
	}
	return m.Scopes
}

func (db *Database) FilesByModule(m *Module) []*File {
	if m == nil {
		return nil
	}
	return m.Files
}

// SymbolsByScope returns every symbol whose effective scope is s.
func (db *Database) SymbolsByScope(s *Scope) []*Symbol {
	if s == nil {
		return nil
	}
	var out []*Symbol
	for _, sym := range db.symbols {
		if sym != nil && sym.Scope == s {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SpansByLine and SpansByScope return a Line's / Scope's own Spans
// collection - returned here for symmetry with the rest of the query
// surface, though callers can equally read l.Spans / s.Spans directly.
func (db *Database) SpansByLine(l *Line) []*Span {
	if l == nil {
		return nil
	}
	return l.Spans
}

func (db *Database) SpansByScope(s *Scope) []*Span {
	if s == nil {
		return nil
	}
	return s.Spans
}

// LinesBySpan and ScopesBySpan are the reverse direction of a Span's back-
// reference collections.
func (db *Database) LinesBySpan(sp *Span) []*Line {
	if sp == nil {
		return nil
	}
	return sp.Lines
}

func (db *Database) ScopesBySpan(sp *Span) []*Scope {
	if sp == nil {
		return nil
	}
	return sp.Scopes
}
