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

import "fmt"

// Severity classifies a Diagnostic as recoverable (Warning) or as a
// contributor to load failure (Error).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic describes a single problem found while loading a debug-info
// file. The scanner, parser and resolver all report through the same shape
// so callers only need to handle one type.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Column   int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
}

// DiagnosticSink receives diagnostics while loading a file: parser
// diagnostics in file order, then the scanner's lexical diagnostics (which
// are delivered together at the end of input), then the resolver's
// referential diagnostics. It returns nothing; the loader itself accumulates the
// error count and decides whether the load ultimately fails. A sink that
// returns early (e.g. because it's writing to a closed channel) cannot abort
// the parse - that is a caller-side policy, not something the core
// implements.
type DiagnosticSink func(Diagnostic)

// diagnosticCollector is the thing that actually gets passed down through
// the scanner/parser/resolver layers: it forwards every diagnostic to the
// caller's sink (if any) and keeps its own running error count so Load can
// decide whether to fail after the full pass.
type diagnosticCollector struct {
	file   string
	sink   DiagnosticSink
	errors int
}

func newDiagnosticCollector(file string, sink DiagnosticSink) *diagnosticCollector {
	return &diagnosticCollector{file: file, sink: sink}
}

func (c *diagnosticCollector) warningf(line, col int, format string, args ...interface{}) {
	c.report(SeverityWarning, line, col, format, args...)
}

func (c *diagnosticCollector) errorf(line, col int, format string, args ...interface{}) {
	c.errors++
	c.report(SeverityError, line, col, format, args...)
}

func (c *diagnosticCollector) report(sev Severity, line, col int, format string, args ...interface{}) {
	if c.sink == nil {
		return
	}
	c.sink(Diagnostic{
		Severity: sev,
		File:     c.file,
		Line:     line,
		Column:   col,
		Message:  fmt.Sprintf(format, args...),
	})
}
