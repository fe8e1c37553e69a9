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

// Package opl emulates the parts of the Yamaha OPL2 and OPL3 FM chips that
// are visible to detection code: the address latch, the register file, the
// two timers and the status port. Sound generation is not emulated.
//
// The Mode decides how ports are decoded. An OPL2 answers on an even/odd
// port pair. An OPL3 has a second register bank selected by port bit 1.
// Dual OPL2 is the arrangement of the Sound Blaster Pro 1, where port bit 1
// selects the left or right chip and the ports at offset 8 and 9 write to
// both chips.
package opl
