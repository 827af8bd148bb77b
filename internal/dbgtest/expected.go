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

// Package dbgtest collects small test-only helpers shared across this
// module's _test.go files, in place of a third-party assertion library.
package dbgtest

import "testing"

// ExpectEquality compares got and want with reflect-free equality for the
// common case of comparable values, reporting a helpful failure through t
// and returning whether the two matched.
func ExpectEquality[T comparable](t *testing.T, got, want T) bool {
	t.Helper()
	if got != want {
		t.Errorf("got %v, expected %v", got, want)
		return false
	}
	return true
}

// ExpectNoError fails the test if err is non-nil.
func ExpectNoError(t *testing.T, err error) bool {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
		return false
	}
	return true
}

// ExpectError fails the test if err is nil.
func ExpectError(t *testing.T, err error) bool {
	t.Helper()
	if err == nil {
		t.Errorf("expected an error, got nil")
		return false
	}
	return true
}
