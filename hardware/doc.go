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

// Package hardware is the base package for the emulation. It and its
// sub-packages contain everything required for a headless emulation of a PC
// with one or two Sound Blaster cards.
//
// The Machine type is the root of the emulation and owns every component: the
// I/O bus, the interrupt and DMA controllers, the scheduler, the audio mixer,
// the OPL and the cards. All components are driven from the goroutine that
// owns the Machine. From here, the emulation can either be set running with
// a continue check function or it can be stepped by an amount of virtual
// time.
package hardware
