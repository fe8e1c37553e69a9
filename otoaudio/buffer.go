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

package otoaudio

import (
	"encoding/binary"
	"sync"
)

// bytes in a single stereo frame of 16 bit samples
const frameBytes = 4

// buffer sits between the mixer and the sound device. the mixer pushes
// frames and the device reads bytes
type buffer struct {
	crit sync.Mutex
	cond *sync.Cond
	data []uint8

	// push() blocks while the buffer holds more than limit bytes
	limit int

	closed bool

	// number of times the device read from an empty buffer
	underruns int
}

func newBuffer(limit int) *buffer {
	b := &buffer{
		limit: limit,
	}
	b.cond = sync.NewCond(&b.crit)
	return b
}

// push frames into the buffer. blocks until there is room
func (b *buffer) push(frames []int16) {
	b.crit.Lock()
	defer b.crit.Unlock()

	for len(b.data) > b.limit && !b.closed {
		b.cond.Wait()
	}
	if b.closed {
		return
	}

	for _, v := range frames {
		b.data = binary.LittleEndian.AppendUint16(b.data, uint16(v))
	}
}

// Read implements the io.Reader interface. an empty buffer reads as silence
// so that the device is never starved. the number of bytes is always a whole
// number of frames
func (b *buffer) Read(p []uint8) (int, error) {
	b.crit.Lock()
	defer b.crit.Unlock()

	size := len(p) / frameBytes * frameBytes

	n := min(len(b.data), size)
	copy(p, b.data[:n])
	b.data = b.data[:copy(b.data, b.data[n:])]

	if n < size {
		if n == 0 {
			b.underruns++
		}
		clear(p[n:size])
	}

	b.cond.Broadcast()

	return size, nil
}

// the number of bytes waiting to be read
func (b *buffer) pending() int {
	b.crit.Lock()
	defer b.crit.Unlock()
	return len(b.data)
}

func (b *buffer) reset() {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.data = b.data[:0]
	b.cond.Broadcast()
}

// close releases any goroutine blocked in push()
func (b *buffer) close() {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.closed = true
	b.cond.Broadcast()
}
