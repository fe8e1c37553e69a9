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

package random

import (
	"math"
	"math/rand/v2"
	"time"
)

// the base seed for all random numbers
var baseSeed uint64

func init() {
	baseSeed = uint64(time.Now().UnixNano())
}

// Clock is the source of virtual time used to seed random numbers.
type Clock interface {
	NowMs() float64
}

// Random is a random number generator that is sensitive to time within the
// emulation.
type Random struct {
	clock Clock

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool

	// the generator used by NoRewind()
	norewind *rand.Rand
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(clock Clock) *Random {
	return &Random{
		clock:    clock,
		norewind: rand.New(rand.NewPCG(baseSeed, 0)),
	}
}

// translate virtual time into a seed value. the virtual time is measured in
// microsecond resolution
func (rnd *Random) seed() uint64 {
	var t uint64
	if rnd.clock != nil {
		t = uint64(math.Round(rnd.clock.NowMs() * 1000))
	}
	if rnd.ZeroSeed {
		return t
	}
	return baseSeed + t
}

// Stream returns a new random number generator seeded from the current virtual
// time. Useful when more than one number is required for the same moment, such
// as when generating a block of audio samples.
func (rnd *Random) Stream() *rand.Rand {
	return rand.New(rand.NewPCG(rnd.seed(), 0x5b))
}

// Rewindable returns a number between 0 and n-1. The same number is returned
// for the same virtual time.
func (rnd *Random) Rewindable(n int) int {
	return rnd.Stream().IntN(n)
}

// NoRewind returns a number between 0 and n-1 that does not depend on the
// virtual time.
func (rnd *Random) NoRewind(n int) int {
	if rnd.ZeroSeed {
		return rnd.Rewindable(n)
	}
	return rnd.norewind.IntN(n)
}
