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

// Severity mirrors the root package's Severity without importing it - the
// root package owns the public Diagnostic type and translates these as they
// cross the package boundary, avoiding an import cycle between the public
// API and this internal parser.
type Severity int

const (
	Warning Severity = iota
	Error
)

// Diagnostic is the parser-internal shape of a diagnostic.
type Diagnostic struct {
	Severity Severity
	Line     int
	Column   int
	Message  string
}

// Sink receives the parser's own Diagnostics in file order; the scanner's
// lexical diagnostics are delivered together once the end of input is
// reached, after every parser diagnostic.
type Sink func(Diagnostic)
