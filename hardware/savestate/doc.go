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

// Package savestate serialises the state of a Sound Blaster card.
//
// A save-state begins with the eight byte magic tag "SBLASTER" followed by a
// single schema version byte. The fields of blaster.State follow in a fixed
// order. All multi-byte values are little endian and integers are stored as
// 32 bit values. Variable length fields (the DSP output queue, the
// partial DMA frame and the DAC samples) are preceded by their length.
//
// Scheduled events are not stored. They are recreated from the state when
// it is restored to a card.
package savestate
