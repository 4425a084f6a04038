// This file is part of Crocus3DS.
//
// Crocus3DS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Crocus3DS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Crocus3DS.  If not, see <https://www.gnu.org/licenses/>.

package logger_test

import (
	"strings"
	"testing"

	"github.com/crocusemu/crocus3ds/logger"
	"github.com/crocusemu/crocus3ds/test"
)

func TestCentralLogger(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Write(w)
	test.Equate(t, w.String(), "")

	logger.Log("test", "this is a test")
	logger.Write(w)
	test.Equate(t, w.String(), "test: this is a test\n")

	// clear the Builder before continuing, makes comparisons easier to manage
	w.Reset()

	logger.Logf("test2", "this is %s test", "another")
	logger.Write(w)
	test.Equate(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	logger.Tail(w, 100)
	test.Equate(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for fewer entries is okay too
	w.Reset()
	logger.Tail(w, 1)
	test.Equate(t, w.String(), "test2: this is another test\n")

	// and no entries
	w.Reset()
	logger.Tail(w, 0)
	test.Equate(t, w.String(), "")

	logger.Clear()
}

func TestRepeatCollapse(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Log("tag", "detail")
	logger.Log("tag", "detail")
	logger.Log("tag", "detail")
	logger.Write(w)
	test.Equate(t, w.String(), "tag: detail (repeat x3)\n")

	// a different entry ends the run
	w.Reset()
	logger.Log("tag", "other")
	logger.Write(w)
	test.Equate(t, w.String(), "tag: detail (repeat x3)\ntag: other\n")

	logger.Clear()
}

func TestBorrowLog(t *testing.T) {
	logger.Clear()

	logger.Log("tag", "detail")
	logger.BorrowLog(func(entries []logger.Entry) {
		test.Equate(t, len(entries), 1)
		test.Equate(t, entries[0].Tag, "tag")
		test.Equate(t, entries[0].Detail, "detail")
	})

	logger.Clear()
}
