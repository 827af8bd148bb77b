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
	"fmt"
	"strings"
)

// curated is a lightweight implementation of the error interface that
// normalises wrapped error chains: when a function wraps an error with its
// own message and that message happens to repeat the wrapped error's
// leading context, the duplicate part is dropped on formatting. Callers
// never need to worry about which layer already mentioned "cannot open
// file" etc.
type curated struct {
	pattern string
	values  []interface{}
}

// errorf creates a new curated error. Note that - unlike fmt.Errorf -
// formatting doesn't happen here; it happens lazily in Error(), so that
// de-duplication has the full pattern/args to work with.
func errorf(pattern string, values ...interface{}) error {
	return curated{pattern: pattern, values: values}
}

// Error implements the error interface.
func (e curated) Error() string {
	s := fmt.Errorf(e.pattern, e.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// isCurated reports whether err is a curated error with the given pattern.
func isCurated(err error, pattern string) bool {
	if err == nil {
		return false
	}
	e, ok := err.(curated)
	return ok && e.pattern == pattern
}
