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

// Package iobus routes I/O port accesses to the devices that decode them.
//
// A device installs a Callout describing the ports it answers to. The port
// value of the callout is the first address, the Range is the number of
// consecutive addresses decoded (a power of two) and the Mask selects which
// address lines take part in the decode. A mask of 0xffff is a fully decoded
// port; ISA cards with ten address lines use a mask of 0x03ff and so also
// answer at 0x400 intervals.
//
// Callouts are matched in installation order. Lookups are cached per address
// and per direction. The cache is invalidated whenever a callout is
// installed or uninstalled.
//
// An access to an address with no callout returns an all-ones value of the
// width of the access. Writes to such an address are dropped.
package iobus
