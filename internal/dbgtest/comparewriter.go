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

package dbgtest

// CollectingSink is a dbginfo.DiagnosticSink-shaped recorder for tests: it
// just appends whatever it's handed, so a test can assert on the exact
// sequence and severities of diagnostics produced by a load.
type CollectingSink[D any] struct {
	Diagnostics []D
}

// Sink returns a function suitable for passing as a DiagnosticSink.
func (c *CollectingSink[D]) Sink() func(D) {
	return func(d D) {
		c.Diagnostics = append(c.Diagnostics, d)
	}
}
