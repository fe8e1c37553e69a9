// This file is part of GopherBlaster.
//
// GopherBlaster is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherBlaster is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherBlaster.  If not, see <https://www.gnu.org/licenses/>.

package fifo_test

import (
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/blaster/fifo"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestPushPop(t *testing.T) {
	r := fifo.NewRing(4)
	test.ExpectEquality(t, r.Cap(), 4)

	_, ok := r.Pop()
	test.ExpectFailure(t, ok)

	for i := range uint8(4) {
		test.ExpectSuccess(t, r.Push(i+1))
	}
	test.ExpectSuccess(t, r.Full())
	test.ExpectFailure(t, r.Push(99))
	test.ExpectEquality(t, r.Len(), 4)

	v, ok := r.Pop()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 1)

	// the free slot is reused at the start of the underlying array
	test.ExpectSuccess(t, r.Push(5))
	test.ExpectEquality(t, string(r.Contents()), string([]byte{2, 3, 4, 5}))

	for _, e := range []uint8{2, 3, 4, 5} {
		v, ok = r.Pop()
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, v, e)
	}
	test.ExpectEquality(t, r.Len(), 0)
}

func TestClear(t *testing.T) {
	r := fifo.NewRing(64)
	for range 70 {
		r.Push(0xaa)
	}
	test.ExpectEquality(t, r.Len(), 64)
	r.Clear()
	test.ExpectEquality(t, r.Len(), 0)
	test.ExpectEquality(t, len(r.Contents()), 0)
}

func TestMinimumCapacity(t *testing.T) {
	r := fifo.NewRing(0)
	test.ExpectEquality(t, r.Cap(), 1)
	test.ExpectSuccess(t, r.Push(1))
	test.ExpectFailure(t, r.Push(2))
}
