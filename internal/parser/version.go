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

import "github.com/sixfiveteam/dbginfo/internal/scanner"

// SupportedMajor and SupportedMinor are the version of the debug-info
// format this parser understands.
const (
	SupportedMajor = 2
	SupportedMinor = 0
)

func (p *parser) handleVersion(kwTok scanner.Token, attrs attrSet) {
	if missing := attrs.missing("major", "minor"); len(missing) > 0 {
		p.errorf(kwTok.Line, kwTok.Column, "version directive missing required attribute(s): %v", missing)
		p.fatal = true
		return
	}

	major, _ := attrs.uint("major")
	minor, _ := attrs.uint("minor")

	switch {
	case major < SupportedMajor:
		p.errorf(kwTok.Line, kwTok.Column, "debug info format version %d.%d is older than the oldest supported major version %d", major, minor, SupportedMajor)
		p.fatal = true
	case major == SupportedMajor && minor > SupportedMinor:
		p.errorf(kwTok.Line, kwTok.Column, "debug info format version %d.%d is newer than supported version %d.%d", major, minor, SupportedMajor, SupportedMinor)
	case major > SupportedMajor:
		p.warningf(kwTok.Line, kwTok.Column, "debug info format major version %d is newer than supported version %d, proceeding at risk", major, SupportedMajor)
	}
}
