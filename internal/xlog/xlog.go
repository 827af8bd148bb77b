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

// Package xlog is a small ring-buffer logger for internal tracing during
// parse and resolve. It is never required for correctness - nothing in this
// module reads its own log - and it never writes anywhere unless a caller
// opts in with SetEcho. It exists purely so parse/resolve can leave a trail
// that's useful when debugging a malformed input file, the way the teacher
// codebase's central logger does for the emulator core.
package xlog

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// entry is a single logged line, with simple de-duplication of immediate
// repeats (common when a bad input repeats the same malformed directive
// many times in a row).
type entry struct {
	tag      string
	detail   string
	repeated int
}

func (e *entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.tag, e.detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

const maxEntries = 256

var (
	mu      sync.Mutex
	entries []entry
	echo    io.Writer
)

// Logf appends a formatted entry to the package-local ring buffer.
func Logf(tag, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	detail := fmt.Sprintf(format, args...)

	if len(entries) > 0 {
		last := &entries[len(entries)-1]
		if last.tag == tag && last.detail == detail {
			last.repeated++
			return
		}
	}

	entries = append(entries, entry{tag: tag, detail: detail})
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	if echo != nil {
		io.WriteString(echo, entries[len(entries)-1].String())
	}
}

// SetEcho mirrors every future log entry to w as it's written. Passing nil
// disables echoing.
func SetEcho(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	echo = w
}

// Clear empties the ring buffer.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = entries[:0]
}

// Write dumps every buffered entry to w, in order.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for i := range entries {
		io.WriteString(w, entries[i].String())
	}
}
