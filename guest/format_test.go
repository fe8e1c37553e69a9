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

package guest

import (
	"bytes"
	"io"
	"testing"

	"github.com/jetsetilly/gopherblaster/test"
)

func TestConverterMono(t *testing.T) {
	in := Format{Rate: 8000, Channels: 2, Bits: 16}
	out := Format{Rate: 8000, Channels: 1, Bits: 8}

	// two stereo frames
	c := newConverter(bytes.NewReader([]byte{
		0x00, 0x10, 0x00, 0x30,
		0x00, 0xe0, 0x00, 0xe0,
	}), in, out)

	b, err := io.ReadAll(c)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), string([]byte{0xa0, 0x60}))
}

func TestConverterRate(t *testing.T) {
	in := Format{Rate: 16000, Channels: 1, Bits: 8}
	out := Format{Rate: 8000, Channels: 2, Bits: 8}

	// every other frame is dropped and mono becomes stereo
	c := newConverter(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}), in, out)
	b, err := io.ReadAll(c)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), string([]byte{1, 1, 3, 3, 5, 5}))

	// and doubling the rate repeats frames
	in.Rate = 4000
	out.Channels = 1
	c = newConverter(bytes.NewReader([]byte{7, 8}), in, out)
	b, err = io.ReadAll(c)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), string([]byte{7, 7, 8, 8}))
}

func TestFill(t *testing.T) {
	buf := make([]byte, 4)
	n, err := fill(bytes.NewReader([]byte{1}), Format{Rate: 8000, Channels: 1, Bits: 8}, buf)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, string(buf), string([]byte{1, 0x80, 0x80, 0x80}))
}
