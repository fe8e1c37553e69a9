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

// Package timer implements the two clocked timing models used by the sound
// card and its companion OPL chip.
//
// Overflow is a free running counter timer of the type found in the OPL
// chips. The timer is driven by virtual time rather than by ticking. Calls
// to Update() with the current time bring the timer up to date.
//
// BusyCycle is the model for the busy bit of the DSP write status port. Real
// cards toggle the bit at a rate that depends on the DSP firmware. Programs
// poll the bit in a tight loop and expect to see it change within a bounded
// number of reads.
package timer
