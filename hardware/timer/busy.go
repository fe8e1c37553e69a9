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

// BusySteps is the number of steps in a busy cycle. A program polling the
// status port sees a transition within BusySteps reads.
const BusySteps = 8

// polls closer together than this (in milliseconds) step the synthetic cycle
// rather than resynchronising with virtual time
const busyResync = 0.02

// BusyCycle models the free running busy bit of the DSP.
type BusyCycle struct {
	// frequency of the cycle in Hz. a value of zero or less disables the cycle
	Hz float64

	// percentage of the cycle in which the DSP is busy
	Duty int

	// the busy cycle is visible even when no DMA transfer is in progress
	Always bool

	lastPoll float64
	step     int
}

// NewBusyCycle is the preferred method of initialisation for the BusyCycle
// type.
func NewBusyCycle(hz float64, duty int, always bool) *BusyCycle {
	return &BusyCycle{
		Hz:       hz,
		Duty:     duty,
		Always:   always,
		lastPoll: math.Inf(-1),
	}
}

func (b *BusyCycle) String() string {
	if !b.Enabled() {
		return "disabled"
	}
	always := ""
	if b.Always {
		always = " always"
	}
	return fmt.Sprintf("%.0fHz %d%%%s", b.Hz, b.Duty, always)
}

// Enabled returns true if the busy cycle has any effect.
func (b *BusyCycle) Enabled() bool {
	return b.Hz > 0 && b.Duty > 0
}

// Reset forgets the most recent poll.
func (b *BusyCycle) Reset() {
	b.lastPoll = math.Inf(-1)
	b.step = 0
}

// Busy returns true if the DSP is in the busy part of the cycle at the
// specified time. Every call counts as a poll of the status port.
func (b *BusyCycle) Busy(now float64) bool {
	if !b.Enabled() {
		return false
	}

	// resynchronise with the position in the cycle for the current time
	if now >= b.lastPoll+busyResync {
		_, frac := math.Modf(now / 1000 * b.Hz)
		b.step = int(frac * BusySteps)
	}
	b.lastPoll = now

	t := (b.step % BusySteps) * 100 / BusySteps
	b.step++

	return t < b.Duty
}
