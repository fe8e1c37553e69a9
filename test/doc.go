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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions log a failure but allow the test to continue. The
// Demand*() functions stop the test immediately.
//
// All functions accept an optional list of tags. The tags are prepended to any
// failure message and are useful for identifying which iteration of a loop
// failed:
//
//	for i, c := range cases {
//		test.ExpectEquality(t, f(c.in), c.out, i)
//	}
package test
