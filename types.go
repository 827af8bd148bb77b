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

// Package dbginfo loads a cc65-style textual debug-info file into an
// in-memory, queryable model of a program's symbolic structure: source
// files, modules, libraries, segments, spans of generated code, lexical
// scopes, symbols and source-line records, with every cross-reference
// resolved to a direct pointer.
//
// A *Database is built once by Load and is immutable afterwards; its query
// methods may be called concurrently from any number of goroutines.
package dbginfo

// ID is a dense, per-kind integer identifier as it appears in the debug-info
// file. After a successful load, ids within a kind are unique but may have
// gaps (a gap corresponds to an id mentioned in the "info" directive's
// counts but never actually defined).
type ID uint64

// File is a source file referenced by one or more modules.
type File struct {
	ID    ID
	Name  string
	Size  uint64
	MTime uint64

	// Modules is every module that uses this file, sorted by name.
	Modules []*Module

	// Lines is every line record located in this file, sorted by line
	// number.
	Lines []*Line
}

// Library is a collection of modules linked in as a group.
type Library struct {
	ID   ID
	Name string
}

// Module is a single translation unit's contribution to the linked program.
type Module struct {
	ID      ID
	Name    string
	File    *File
	Library *Library // nil if the module isn't part of a library

	// MainScope is the module's top-level scope - the unique scope with no
	// parent whose Mod field names this module.
	MainScope *Scope

	// Scopes is every scope defined in this module.
	Scopes []*Scope

	// Files is every file referenced by this module (for the common case of
	// a module that only has one file, this still includes that file),
	// sorted by name.
	Files []*File
}

// ScopeType classifies a lexical Scope.
type ScopeType int

const (
	ScopeGlobal ScopeType = iota
	ScopeModule
	ScopeLexical
	ScopeStruct
	ScopeEnum
)

func (t ScopeType) String() string {
	switch t {
	case ScopeGlobal:
		return "global"
	case ScopeModule:
		return "module"
	case ScopeLexical:
		return "scope"
	case ScopeStruct:
		return "struct"
	case ScopeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Scope is a lexical container of symbols within a module; it may nest.
type Scope struct {
	ID     ID
	Name   string
	Type   ScopeType
	Size   uint64
	Module *Module
	Parent *Scope // nil iff this is the module's main scope
	Label  *Symbol // nil if the scope has no associated label symbol

	// Spans is every span of generated code associated with this scope.
	Spans []*Span
}

// Segment is a linker-level output section with a base address and size.
type Segment struct {
	ID    ID
	Name  string
	Start uint64
	Size  uint64

	// AddrSize and Type are recorded as scanned but never validated or
	// interpreted by this library - see the open questions in DESIGN.md.
	AddrSize string
	Type     string

	// OutputName/OutputOffset are either both present or both absent.
	OutputName   string
	OutputOffset uint64
	HasOutput    bool
}

// Span is a contiguous run of bytes emitted from one translation unit into
// one segment. Start and End are absolute addresses (post-resolution),
// inclusive on both ends.
type Span struct {
	ID      ID
	Segment *Segment
	Start   uint64
	End     uint64

	// Scopes and Lines are back-references: every scope/line that lists
	// this span among its own Spans.
	Scopes []*Scope
	Lines  []*Line
}

// LineType classifies the kind of source that produced a Line.
type LineType int

const (
	LineAssembly LineType = iota
	LineC
	LineMacro
)

func (t LineType) String() string {
	switch t {
	case LineAssembly:
		return "assembly"
	case LineC:
		return "C"
	case LineMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// Line is a single source-line record.
type Line struct {
	ID    ID
	File  *File
	Line  uint64 // 1-based
	Type  LineType
	Count uint64 // macro-nesting depth

	// Spans is every span of generated code that covers this line.
	Spans []*Span
}

// SymbolType classifies a Symbol.
type SymbolType int

const (
	SymbolEquate SymbolType = iota
	SymbolLabel
)

func (t SymbolType) String() string {
	if t == SymbolLabel {
		return "label"
	}
	return "equate"
}

// Symbol is a named value: either an equate (a compile-time constant) or a
// label (a target address within a segment).
type Symbol struct {
	ID      ID
	Name    string
	Type    SymbolType
	Value   int64
	Size    uint64
	Segment *Segment // nil if the symbol isn't tied to a segment location

	// Scope is the symbol's effective scope: either the scope given
	// directly at parse time, or inherited from Parent's scope during
	// resolution.
	Scope *Scope

	// Parent is the symbol this one was declared relative to, if any.
	Parent *Symbol
}
