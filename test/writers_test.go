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

package test_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherblaster/test"
)

func TestCappedWriter(t *testing.T) {
	c, err := test.NewCappedWriter(5)
	test.DemandSuccess(t, err)

	n, _ := fmt.Fprint(c, "abc")
	test.ExpectEquality(t, n, 3)
	n, _ = fmt.Fprint(c, "defg")
	test.ExpectEquality(t, n, 2)
	n, _ = fmt.Fprint(c, "h")
	test.ExpectEquality(t, n, 0)
	test.ExpectEquality(t, c.String(), "abcde")

	c.Reset()
	test.ExpectEquality(t, c.String(), "")

	_, err = test.NewCappedWriter(0)
	test.ExpectFailure(t, err)
}

func TestRingWriter(t *testing.T) {
	r, err := test.NewRingWriter(5)
	test.DemandSuccess(t, err)

	fmt.Fprint(r, "abc")
	test.ExpectEquality(t, r.String(), "abc")
	fmt.Fprint(r, "de")
	test.ExpectEquality(t, r.String(), "abcde")
	fmt.Fprint(r, "fg")
	test.ExpectEquality(t, r.String(), "cdefg")
	fmt.Fprint(r, "0123456789")
	test.ExpectEquality(t, r.String(), "56789")

	r.Reset()
	test.ExpectEquality(t, r.String(), "")
	fmt.Fprint(r, "x")
	test.ExpectEquality(t, r.String(), "x")
}
