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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Format of PCM data. 8 bit data is unsigned and 16 bit data is signed
// little-endian. Stereo data is interleaved.
type Format struct {
	Rate     int
	Channels int
	Bits     int
}

func (f Format) String() string {
	ch := "mono"
	if f.Channels == 2 {
		ch = "stereo"
	}
	return fmt.Sprintf("%dHz %dbit %s", f.Rate, f.Bits, ch)
}

// Validate returns an error if the format can not be played by any card.
func (f Format) Validate() error {
	if f.Rate <= 0 {
		return fmt.Errorf("guest: bad sample rate (%d)", f.Rate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("guest: bad number of channels (%d)", f.Channels)
	}
	if f.Bits != 8 && f.Bits != 16 {
		return fmt.Errorf("guest: bad bit depth (%d)", f.Bits)
	}
	return nil
}

// FrameBytes is the number of bytes in a single frame.
func (f Format) FrameBytes() int {
	return f.Channels * f.Bits / 8
}

// the value of a silent byte
func (f Format) silence() uint8 {
	if f.Bits == 8 {
		return 0x80
	}
	return 0x00
}

// converter reads data in one format and produces it in another. sample
// rates are converted by repeating or dropping frames
type converter struct {
	r       *bufio.Reader
	in, out Format

	// input frames per output frame
	step float64

	// position in the input of the next output frame
	pos float64

	// number of input frames read
	consumed int

	raw   []byte
	frame [2]int16
}

func newConverter(r io.Reader, in Format, out Format) *converter {
	return &converter{
		r:    bufio.NewReader(r),
		in:   in,
		out:  out,
		step: float64(in.Rate) / float64(out.Rate),
		raw:  make([]byte, in.FrameBytes()),
	}
}

// read the next input frame
func (c *converter) next() error {
	if _, err := io.ReadFull(c.r, c.raw); err != nil {
		if err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return err
	}
	c.consumed++

	for i := range c.in.Channels {
		if c.in.Bits == 8 {
			c.frame[i] = int16(uint16(c.raw[i]^0x80) << 8)
		} else {
			c.frame[i] = int16(binary.LittleEndian.Uint16(c.raw[i*2:]))
		}
	}
	if c.in.Channels == 1 {
		c.frame[1] = c.frame[0]
	}

	return nil
}

// Read implements the io.Reader interface. Only whole frames are returned.
func (c *converter) Read(p []byte) (int, error) {
	fb := c.out.FrameBytes()
	n := 0

	var mono [1]int16

	for n+fb <= len(p) {
		for c.consumed <= int(c.pos) {
			if err := c.next(); err != nil {
				if n > 0 && err == io.EOF {
					return n, nil
				}
				return n, err
			}
		}
		c.pos += c.step

		samples := c.frame[:]
		if c.out.Channels == 1 {
			mono[0] = int16((int32(c.frame[0]) + int32(c.frame[1])) / 2)
			samples = mono[:]
		}
		for _, v := range samples {
			if c.out.Bits == 8 {
				p[n] = uint8(uint16(v)>>8) ^ 0x80
				n++
			} else {
				binary.LittleEndian.PutUint16(p[n:], uint16(v))
				n += 2
			}
		}
	}

	return n, nil
}

// fill the buffer from the reader. the remainder of the buffer is filled
// with silence. returns the number of bytes read
func fill(r io.Reader, f Format, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	for i := n; i < len(buf); i++ {
		buf[i] = f.silence()
	}
	return n, err
}
