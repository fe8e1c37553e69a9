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

// Package fifo implements the fixed capacity byte queue used for the output
// of the DSP. Pushing to a full queue fails and popping from an empty queue
// fails. Neither operation ever grows the queue.
package fifo

import "fmt"

// Ring is a fixed capacity FIFO of bytes.
type Ring struct {
	data []uint8
	pos  int
	used int
}

// NewRing is the preferred method of initialisation for the Ring type. A
// capacity of less than one is treated as one.
func NewRing(capacity int) *Ring {
	return &Ring{
		data: make([]uint8, max(capacity, 1)),
	}
}

func (r *Ring) String() string {
	return fmt.Sprintf("%d/%d % 02x", r.used, len(r.data), r.Contents())
}

// Push adds the value to the end of the queue. Returns false if the queue is
// full, in which case the value is dropped.
func (r *Ring) Push(v uint8) bool {
	if r.used >= len(r.data) {
		return false
	}
	r.data[(r.pos+r.used)%len(r.data)] = v
	r.used++
	return true
}

// Pop removes the value at the front of the queue. Returns false if the queue
// is empty.
func (r *Ring) Pop() (uint8, bool) {
	if r.used == 0 {
		return 0, false
	}
	v := r.data[r.pos]
	r.pos = (r.pos + 1) % len(r.data)
	r.used--
	return v, true
}

// Len returns the number of values in the queue.
func (r *Ring) Len() int {
	return r.used
}

// Cap returns the capacity of the queue.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Full returns true if Push() would fail.
func (r *Ring) Full() bool {
	return r.used >= len(r.data)
}

// Clear empties the queue.
func (r *Ring) Clear() {
	r.pos = 0
	r.used = 0
}

// Contents returns a copy of the queue in the order the values will be
// popped.
func (r *Ring) Contents() []uint8 {
	c := make([]uint8, r.used)
	for i := range c {
		c[i] = r.data[(r.pos+i)%len(r.data)]
	}
	return c
}
