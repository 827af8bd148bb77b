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
	"github.com/sixfiveteam/dbginfo/internal/store"
)

// resolver turns a store.Store of raw, id-keyed records into a Database of
// directly-linked entities. It is used exactly once per Load and discarded
// afterwards - nothing about it survives into the returned Database.
type resolver struct {
	raw  *store.Store
	diag *diagnosticCollector

	files     []*File
	libraries []*Library
	modules   []*Module
	scopes    []*Scope
	segments  []*Segment
	spans     []*Span
	lines     []*Line
	symbols   []*Symbol

	// parallel to scopes/symbols: the raw id fields that can only be
	// resolved once every entity of the target kind exists.
	scopeParent  []uint64
	scopeLabel   []uint64
	symbolParent []uint64

	symbolResolving []bool // cycle guard for the scope-inheritance walk
}

// resolve runs the full second pass described by the component design:
// id -> reference resolution, back-reference construction, secondary index
// construction, and invariant validation.
func resolve(raw *store.Store, diag *diagnosticCollector) *Database {
	r := &resolver{raw: raw, diag: diag}

	r.resolveLibraries()
	r.resolveSegments()
	r.resolveFiles()
	r.resolveModules()
	r.linkFilesAndModules()
	r.resolveScopesPassA()
	r.resolveScopesPassB()
	r.assignMainScopes()
	r.resolveSymbolsPassA()
	r.resolveSymbolsPassB()
	r.resolveScopeLabels()
	r.resolveSpans()
	r.linkSpansToScopes()
	r.resolveLines()

	db := &Database{
		files:     r.files,
		libraries: r.libraries,
		modules:   r.modules,
		scopes:    r.scopes,
		segments:  r.segments,
		spans:     r.spans,
		lines:     r.lines,
		symbols:   r.symbols,
	}
	db.buildSecondaryIndices()
	db.buildSpanIndex()
	return db
}

func (r *resolver) resolveLibraries() {
	r.libraries = make([]*Library, len(r.raw.Libraries))
	for id, raw := range r.raw.Libraries {
		if raw == nil {
			continue
		}
		r.libraries[id] = &Library{ID: ID(raw.ID), Name: raw.Name}
	}
}

func (r *resolver) resolveSegments() {
	r.segments = make([]*Segment, len(r.raw.Segments))
	for id, raw := range r.raw.Segments {
		if raw == nil {
			continue
		}
		r.segments[id] = &Segment{
			ID:           ID(raw.ID),
			Name:         raw.Name,
			Start:        raw.Start,
			Size:         raw.Size,
			AddrSize:     raw.AddrSize,
			Type:         raw.Type,
			OutputName:   raw.OutputName,
			OutputOffset: raw.OutputOffs,
			HasOutput:    raw.HasOutput,
		}
	}
}

func (r *resolver) resolveFiles() {
	r.files = make([]*File, len(r.raw.Files))
	for id, raw := range r.raw.Files {
		if raw == nil {
			continue
		}
		r.files[id] = &File{ID: ID(raw.ID), Name: raw.Name, Size: raw.Size, MTime: raw.MTime}
	}
}

func (r *resolver) library(id uint64) *Library {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.libraries)) || r.libraries[id] == nil {
		r.diag.errorf(0, 0, "dangling library id %d", id)
		return nil
	}
	return r.libraries[id]
}

func (r *resolver) file(id uint64) *File {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.files)) || r.files[id] == nil {
		r.diag.errorf(0, 0, "dangling file id %d", id)
		return nil
	}
	return r.files[id]
}

func (r *resolver) segment(id uint64) *Segment {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.segments)) || r.segments[id] == nil {
		r.diag.errorf(0, 0, "dangling segment id %d", id)
		return nil
	}
	return r.segments[id]
}

func (r *resolver) resolveModules() {
	r.modules = make([]*Module, len(r.raw.Modules))
	for id, raw := range r.raw.Modules {
		if raw == nil {
			continue
		}
		m := &Module{
			ID:      ID(raw.ID),
			Name:    raw.Name,
			File:    r.file(raw.File),
			Library: r.library(raw.Library),
		}
		r.modules[id] = m
	}
}

func (r *resolver) module(id uint64) *Module {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.modules)) || r.modules[id] == nil {
		r.diag.errorf(0, 0, "dangling module id %d", id)
		return nil
	}
	return r.modules[id]
}

// linkFilesAndModules builds the File<->Module relation from both
// directions the wire format offers it: every module's owning "file"
// attribute, and every file's (possibly multi-valued) "mod" attribute.
func (r *resolver) linkFilesAndModules() {
	link := func(f *File, m *Module) {
		if f == nil || m == nil {
			return
		}
		if !containsFile(m.Files, f) {
			m.Files = append(m.Files, f)
		}
		if !containsModule(f.Modules, m) {
			f.Modules = append(f.Modules, m)
		}
	}

	for _, m := range r.modules {
		if m == nil {
			continue
		}
		link(m.File, m)
	}
	for id, raw := range r.raw.Files {
		if raw == nil {
			continue
		}
		f := r.files[id]
		for _, modID := range raw.Mod {
			link(f, r.module(modID))
		}
	}

	for _, f := range r.files {
		if f == nil {
			continue
		}
		sort.Slice(f.Modules, func(i, j int) bool { return f.Modules[i].Name < f.Modules[j].Name })
	}
	for _, m := range r.modules {
		if m == nil {
			continue
		}
		sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Name < m.Files[j].Name })
	}
}

func containsFile(files []*File, f *File) bool {
	for _, x := range files {
		if x == f {
			return true
		}
	}
	return false
}

func containsModule(modules []*Module, m *Module) bool {
	for _, x := range modules {
		if x == m {
			return true
		}
	}
	return false
}

func (r *resolver) resolveScopesPassA() {
	n := len(r.raw.Scopes)
	r.scopes = make([]*Scope, n)
	r.scopeParent = make([]uint64, n)
	r.scopeLabel = make([]uint64, n)

	for id, raw := range r.raw.Scopes {
		if raw == nil {
			continue
		}
		s := &Scope{
			ID:     ID(raw.ID),
			Name:   raw.Name,
			Type:   ScopeType(raw.Type),
			Size:   raw.Size,
			Module: r.module(raw.Mod),
		}
		r.scopes[id] = s
		r.scopeParent[id] = raw.Parent
		r.scopeLabel[id] = raw.Label

		if s.Module != nil {
			s.Module.Scopes = append(s.Module.Scopes, s)
		}
	}

	for _, m := range r.modules {
		if m == nil {
			continue
		}
		sort.Slice(m.Scopes, func(i, j int) bool { return m.Scopes[i].Name < m.Scopes[j].Name })
	}
}

func (r *resolver) scope(id uint64) *Scope {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.scopes)) || r.scopes[id] == nil {
		r.diag.errorf(0, 0, "dangling scope id %d", id)
		return nil
	}
	return r.scopes[id]
}

func (r *resolver) resolveScopesPassB() {
	for id, s := range r.scopes {
		if s == nil {
			continue
		}
		if r.scopeParent[id] == store.InvalidID {
			continue
		}
		s.Parent = r.scope(r.scopeParent[id])
	}
}

func (r *resolver) assignMainScopes() {
	for _, s := range r.scopes {
		if s == nil || s.Parent != nil || s.Module == nil {
			continue
		}
		if s.Module.MainScope != nil {
			r.diag.errorf(0, 0, "module %q has more than one scope without a parent", s.Module.Name)
			continue
		}
		s.Module.MainScope = s
	}
	for _, m := range r.modules {
		if m == nil {
			continue
		}
		if m.MainScope == nil {
			r.diag.errorf(0, 0, "module %q has no main scope", m.Name)
		}
	}
}

func (r *resolver) resolveSymbolsPassA() {
	n := len(r.raw.Symbols)
	r.symbols = make([]*Symbol, n)
	r.symbolParent = make([]uint64, n)
	r.symbolResolving = make([]bool, n)

	for id, raw := range r.raw.Symbols {
		if raw == nil {
			continue
		}
		sym := &Symbol{
			ID:      ID(raw.ID),
			Name:    raw.Name,
			Type:    SymbolType(raw.Type),
			Value:   raw.Value,
			Size:    raw.Size,
			Segment: r.segment(raw.Segment),
		}
		if raw.HasScope {
			sym.Scope = r.scope(raw.Scope)
		} else {
			r.symbolParent[id] = raw.Parent
		}
		r.symbols[id] = sym
	}
}

func (r *resolver) symbol(id uint64) *Symbol {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.symbols)) || r.symbols[id] == nil {
		r.diag.errorf(0, 0, "dangling symbol id %d", id)
		return nil
	}
	return r.symbols[id]
}

// resolveSymbolsPassB walks the parent chain of every symbol that had no
// direct scope, inheriting the parent's effective scope. Chains are resolved
// with memoisation so a long parent chain is only ever walked once overall,
// and a cycle is reported rather than looping forever.
func (r *resolver) resolveSymbolsPassB() {
	for id, raw := range r.raw.Symbols {
		if raw == nil || raw.HasScope {
			continue
		}
		r.inheritScope(uint64(id))
	}
	for _, sym := range r.symbols {
		if sym == nil {
			continue
		}
		if sym.Scope == nil {
			r.diag.errorf(0, 0, "symbol %q has no effective scope", sym.Name)
		}
	}
}

func (r *resolver) inheritScope(id uint64) *Scope {
	sym := r.symbols[id]
	if sym == nil {
		return nil
	}
	if sym.Scope != nil {
		return sym.Scope
	}
	if r.symbolResolving[id] {
		r.diag.errorf(0, 0, "symbol %q has a circular parent chain", sym.Name)
		return nil
	}
	r.symbolResolving[id] = true
	defer func() { r.symbolResolving[id] = false }()

	parentID := r.symbolParent[id]
	parent := r.symbol(parentID)
	if parent == nil {
		return nil
	}
	sym.Parent = parent
	if parent.Scope == nil && parentID < uint64(len(r.raw.Symbols)) && r.raw.Symbols[parentID] != nil && !r.raw.Symbols[parentID].HasScope {
		parent.Scope = r.inheritScope(parentID)
	}
	sym.Scope = parent.Scope
	return sym.Scope
}

func (r *resolver) resolveScopeLabels() {
	for id, s := range r.scopes {
		if s == nil || r.scopeLabel[id] == store.InvalidID {
			continue
		}
		s.Label = r.symbol(r.scopeLabel[id])
	}
}

func (r *resolver) resolveSpans() {
	n := len(r.raw.Spans)
	r.spans = make([]*Span, n)
	for id, raw := range r.raw.Spans {
		if raw == nil {
			continue
		}
		seg := r.segment(raw.Segment)
		if seg == nil {
			continue
		}
		if raw.Size == 0 {
			r.diag.errorf(0, 0, "span %d has zero size, dropping", raw.ID)
			continue
		}
		start := seg.Start + raw.Start
		end := start + raw.Size - 1
		if start > end {
			r.diag.errorf(0, 0, "span %d has start > end after resolution, dropping", raw.ID)
			continue
		}
		r.spans[id] = &Span{ID: ID(raw.ID), Segment: seg, Start: start, End: end}
	}
}

func (r *resolver) span(id uint64) *Span {
	if id == store.InvalidID {
		return nil
	}
	if id >= uint64(len(r.spans)) || r.spans[id] == nil {
		r.diag.errorf(0, 0, "dangling span id %d", id)
		return nil
	}
	return r.spans[id]
}

func (r *resolver) linkSpansToScopes() {
	for id, raw := range r.raw.Scopes {
		if raw == nil || len(raw.Spans) == 0 {
			continue
		}
		s := r.scopes[id]
		for _, spanID := range raw.Spans {
			sp := r.span(spanID)
			if sp == nil {
				continue
			}
			s.Spans = append(s.Spans, sp)
			sp.Scopes = append(sp.Scopes, s)
		}
	}
	for _, sp := range r.spans {
		if sp == nil {
			continue
		}
		sort.Slice(sp.Scopes, func(i, j int) bool { return sp.Scopes[i].ID < sp.Scopes[j].ID })
	}
}

func (r *resolver) resolveLines() {
	n := len(r.raw.Lines)
	r.lines = make([]*Line, n)
	for id, raw := range r.raw.Lines {
		if raw == nil {
			continue
		}
		f := r.file(raw.File)
		if f == nil {
			continue
		}
		line := &Line{ID: ID(raw.ID), File: f, Line: raw.Line, Type: LineType(raw.Type), Count: raw.Count}
		for _, spanID := range raw.Spans {
			sp := r.span(spanID)
			if sp == nil {
				continue // per-entry referential error: drop the entry, keep the line
			}
			line.Spans = append(line.Spans, sp)
			sp.Lines = append(sp.Lines, line)
		}
		r.lines[id] = line
		f.Lines = append(f.Lines, line)
	}

	for _, f := range r.files {
		if f == nil {
			continue
		}
		sort.Slice(f.Lines, func(i, j int) bool { return f.Lines[i].Line < f.Lines[j].Line })
	}
	for _, sp := range r.spans {
		if sp == nil {
			continue
		}
		sort.Slice(sp.Lines, func(i, j int) bool { return sp.Lines[i].ID < sp.Lines[j].ID })
	}
}

// buildSecondaryIndices builds every sorted-handle index described in §4.3,
// over the (already resolved) entity slices.
func (db *Database) buildSecondaryIndices() {
	for _, f := range db.files {
		if f != nil {
			db.filesByName = append(db.filesByName, f)
		}
	}
	sort.Slice(db.filesByName, func(i, j int) bool {
		a, b := db.filesByName[i], db.filesByName[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.MTime != b.MTime {
			return a.MTime < b.MTime
		}
		return a.Size < b.Size
	})

	for _, m := range db.modules {
		if m != nil {
			db.modulesByName = append(db.modulesByName, m)
		}
	}
	sort.Slice(db.modulesByName, func(i, j int) bool { return db.modulesByName[i].Name < db.modulesByName[j].Name })

	for _, seg := range db.segments {
		if seg != nil {
			db.segmentsByName = append(db.segmentsByName, seg)
		}
	}
	sort.Slice(db.segmentsByName, func(i, j int) bool { return db.segmentsByName[i].Name < db.segmentsByName[j].Name })

	for _, sym := range db.symbols {
		if sym != nil {
			db.symbolsByName = append(db.symbolsByName, sym)
		}
	}
	sort.Slice(db.symbolsByName, func(i, j int) bool {
		a, b := db.symbolsByName[i], db.symbolsByName[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	db.symbolsByValue = make([]*Symbol, len(db.symbolsByName))
	copy(db.symbolsByValue, db.symbolsByName)
	sort.Slice(db.symbolsByValue, func(i, j int) bool {
		a, b := db.symbolsByValue[i], db.symbolsByValue[j]
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		return a.Name < b.Name
	})
}

// buildSpanIndex constructs the address -> covering-spans lookup structure
// described in §4.4, over the resolved Span entities. Handle is the span's
// slice index, so Lookup results map straight back into db.spans.
func (db *Database) buildSpanIndex() {
	var ranges []spanindex.Range
	for i, sp := range db.spans {
		if sp == nil {
			continue
		}
		ranges = append(ranges, spanindex.Range{Handle: spanindex.Handle(i), Start: sp.Start, End: sp.End})
	}
	db.spanIndex = spanindex.Build(ranges)
}
