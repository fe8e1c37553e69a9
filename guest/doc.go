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

// Package guest is a driver for the emulated Sound Blaster written from the
// point of view of software running on the emulated PC. The driver only
// talks to the hardware through I/O ports, the same way that a DOS program
// would. Memory is written and read directly because there is no emulated
// CPU to do it.
//
// The driver finds the card from a BLASTER environment string:
//
//	settings, err := guest.ParseBlaster("A220 I7 D1 H5 T6")
//	drv := guest.NewDriver(machine, settings)
//	err = drv.Detect()
//
// Waiting for the hardware is done by advancing the machine's virtual time.
// Interrupts are taken by acknowledging the interrupt controller after every
// advance.
package guest
