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

package spanindex

import "testing"

func TestLookupSingleSpan(t *testing.T) {
	ix := Build([]Range{{Handle: 0, Start: 0x1000, End: 0x100F}})

	if got := ix.Lookup(0x0FFF); got != nil {
		t.Errorf("got %v, want nil (one below start)", got)
	}
	if got := ix.Lookup(0x1000); len(got) != 1 || got[0] != 0 {
		t.Errorf("got %v, want [0] at start", got)
	}
	if got := ix.Lookup(0x100F); len(got) != 1 || got[0] != 0 {
		t.Errorf("got %v, want [0] at end", got)
	}
	if got := ix.Lookup(0x1010); got != nil {
		t.Errorf("got %v, want nil (one above end)", got)
	}
}

func TestLookupOverlappingSpans(t *testing.T) {
	ix := Build([]Range{
		{Handle: 0, Start: 0x2000, End: 0x200F},
		{Handle: 1, Start: 0x2008, End: 0x2017},
	})

	got := ix.Lookup(0x2008)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("got %v, want [0 1] in start-sorted order", got)
	}

	got = ix.Lookup(0x2010)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestEmptyIndex(t *testing.T) {
	ix := Build(nil)
	if got := ix.Lookup(0); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	var nilIx *Index
	if got := nilIx.Lookup(0); got != nil {
		t.Errorf("got %v, want nil from nil *Index", got)
	}
}
