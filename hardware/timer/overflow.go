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

package timer

import (
	"fmt"
	"math"
)

// Overflow is a counter timer that sets an overflow flag every time the
// counter wraps.
type Overflow struct {
	// length of a single count in milliseconds
	clockInterval float64

	// length of a complete count from the reload value in milliseconds
	counterInterval float64

	// start and trigger time of the current count
	start   float64
	trigger float64

	Counter    uint8
	Enabled    bool
	Masked     bool
	Overflowed bool
}

// NewOverflow is the preferred method of initialisation for the Overflow
// type. The micros argument is the length of a single count in microseconds.
func NewOverflow(micros float64) *Overflow {
	o := &Overflow{
		clockInterval: micros * 0.001,
	}
	o.SetCounter(0)
	return o
}

func (o *Overflow) String() string {
	return fmt.Sprintf("counter=%02x enabled=%v masked=%v overflow=%v trigger=%.4f",
		o.Counter, o.Enabled, o.Masked, o.Overflowed, o.trigger)
}

// SetCounter sets the reload value. The new value takes effect from the next
// call to Start().
func (o *Overflow) SetCounter(v uint8) {
	o.Counter = v
	o.counterInterval = float64(256-int(v)) * o.clockInterval
}

// Interval returns the time in milliseconds between overflows.
func (o *Overflow) Interval() float64 {
	return o.counterInterval
}

// Start the timer at the specified time. Starting a timer that is already
// running has no effect. The start time is aligned to the clock interval.
func (o *Overflow) Start(now float64) {
	if o.Enabled {
		return
	}
	o.Enabled = true
	o.Overflowed = false
	o.start = now - math.Mod(now, o.clockInterval)
	o.trigger = o.start + o.counterInterval
}

// Stop the timer. The overflow flag is unaffected.
func (o *Overflow) Stop() {
	o.Enabled = false
}

// Reset clears the overflow flag. A running timer is brought up to date
// first so that an overflow that has already happened is discarded.
func (o *Overflow) Reset(now float64) {
	o.Update(now)
	o.Overflowed = false
}

// Update brings the timer up to date with the specified time and returns the
// state of the overflow flag. The start and trigger times advance by whole
// counter intervals. Calling Update() more than once for the same time has no
// additional effect.
func (o *Overflow) Update(now float64) bool {
	if o.Enabled && now >= o.trigger {
		since := now - o.trigger
		o.start = now - math.Mod(since, o.counterInterval)
		o.trigger = o.start + o.counterInterval
		if !o.Masked {
			o.Overflowed = true
		}
	}
	return o.Overflowed
}
