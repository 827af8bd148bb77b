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
	"io"
	"os"

	"github.com/sixfiveteam/dbginfo/internal/parser"
)

// Load reads a debug-info file from path, parses and resolves it into a
// Database, and reports every problem found along the way through sink
// (which may be nil). It returns a non-nil Database only if the file parsed
// and resolved with zero errors; warnings never prevent success.
//
// A non-nil error return is reserved for failures outside the file's own
// content - currently just "the input file could not be opened" - matching
// the taxonomy's I/O category. Every other kind of failure (lexical,
// syntactic, semantic, referential, an obsolete major version) is reported
// through sink and produces a nil Database with a nil error.
func Load(path string, sink DiagnosticSink) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorf("cannot open debug info file %q: %v", path, err)
	}
	defer f.Close()

	return LoadReader(path, f, sink)
}

// LoadReader is Load without the file-open step, for callers that already
// have the debug-info content in hand (e.g. embedded testdata, or a file
// extracted from an archive).
func LoadReader(name string, r io.Reader, sink DiagnosticSink) (*Database, error) {
	diag := newDiagnosticCollector(name, sink)

	raw, parseErrors := parser.Parse(r, func(d parser.Diagnostic) {
		sev := SeverityWarning
		if d.Severity == parser.Error {
			sev = SeverityError
		}
		diag.report(sev, d.Line, d.Column, "%s", d.Message)
	})
	diag.errors = parseErrors

	db := resolve(raw, diag)
	if diag.errors > 0 {
		return nil, nil
	}
	return db, nil
}
