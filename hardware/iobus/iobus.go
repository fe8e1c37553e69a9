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

package iobus

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/jetsetilly/gopherblaster/logger"
)

// Width of an I/O access. Width values can be combined to indicate the
// widths that a Callout serves.
type Width uint8

// List of valid Width values.
const (
	Byte  Width = 1
	Word  Width = 2
	Dword Width = 4
)

func (w Width) String() string {
	switch w {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case Dword:
		return "dword"
	}
	return fmt.Sprintf("width(%d)", uint8(w))
}

// all ones value for the width
func (w Width) ones() uint32 {
	switch w {
	case Word:
		return 0xffff
	case Dword:
		return 0xffffffff
	}
	return 0xff
}

// ReadFunc is called when a port decoded by the Callout is read.
type ReadFunc func(port uint16, width Width) uint32

// WriteFunc is called when a port decoded by the Callout is written.
type WriteFunc func(port uint16, value uint32, width Width)

// Callout describes the ports that a device decodes.
type Callout struct {
	// name is used in log entries
	Name string

	// first port and the number of consecutive ports that are decoded
	Port  uint16
	Range uint16

	// address lines taking part in the decode. a zero value is the same as
	// 0xffff
	Mask uint16

	// widths that the read and write functions accept. a zero value is the
	// same as Byte. accesses of other widths are split into byte accesses
	Widths Width

	// either function can be nil
	Read  ReadFunc
	Write WriteFunc
}

func (c Callout) String() string {
	return fmt.Sprintf("%s [%#04x+%d mask=%#04x]", c.Name, c.Port, c.Range, c.Mask)
}

// Decodes returns true if the Callout decodes the address.
func (c Callout) Decodes(addr uint16) bool {
	return (addr-c.Port)&c.Mask&^(c.Range-1) == 0
}

// Handle identifies an installed Callout.
type Handle int

// NoDevice is the Handle returned by Lookup() for an address with no callout.
const NoDevice Handle = -1

// cache values. positive values are handles offset by one
const (
	cacheUnknown = 0
	cacheNone    = -1
)

// Direction of a Lookup().
type Direction int

// List of valid Direction values.
const (
	Read Direction = iota
	Write
)

// Bus is the I/O address space of the machine.
type Bus struct {
	env logger.Permission

	callouts  []Callout
	installed []bool

	// install order of each slot. slots are reused so the handle does not
	// follow the order of installation
	order []uint64
	next  uint64

	// lookup cache for each direction
	cache [2][]int32

	// unmapped ports that have already been logged
	logged map[uint16]bool

	// number of lookups satisfied by the cache. used by tests and the
	// statistics viewer
	Hits   int
	Misses int
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(env logger.Permission) *Bus {
	b := &Bus{
		env:    env,
		logged: make(map[uint16]bool),
	}
	b.cache[Read] = make([]int32, 0x10000)
	b.cache[Write] = make([]int32, 0x10000)
	return b
}

// Install a Callout. Returns an error if the callout range is not a power of
// two. The earliest installed callout for an address is the one that serves
// it.
func (b *Bus) Install(c Callout) (Handle, error) {
	if c.Range == 0 || bits.OnesCount16(c.Range) != 1 {
		return NoDevice, fmt.Errorf("iobus: range of %s is not a power of two", c.Name)
	}
	if c.Mask == 0 {
		c.Mask = 0xffff
	}
	if c.Widths == 0 {
		c.Widths = Byte
	}

	// reuse the slot of an uninstalled callout if possible
	h := NoDevice
	for i, ok := range b.installed {
		if !ok {
			h = Handle(i)
			b.callouts[i] = c
			b.installed[i] = true
			b.order[i] = b.next
			break
		}
	}
	if h == NoDevice {
		h = Handle(len(b.callouts))
		b.callouts = append(b.callouts, c)
		b.installed = append(b.installed, true)
		b.order = append(b.order, b.next)
	}
	b.next++

	// the new callout is the latest installed so it can only serve addresses
	// that previously had no device
	for d := range b.cache {
		for a, v := range b.cache[d] {
			if v == cacheNone {
				b.cache[d][a] = cacheUnknown
			}
		}
	}

	return h, nil
}

// Uninstall a previously installed Callout. Uninstalling an unknown handle
// does nothing.
func (b *Bus) Uninstall(h Handle) {
	if h < 0 || int(h) >= len(b.callouts) || !b.installed[h] {
		return
	}
	b.installed[h] = false
	b.callouts[h] = Callout{}

	v := int32(h) + 1
	for d := range b.cache {
		for a := range b.cache[d] {
			if b.cache[d][a] == v {
				b.cache[d][a] = cacheUnknown
			}
		}
	}
}

// Lookup returns the handle of the callout serving the address in the
// direction. Returns NoDevice if there is no suitable callout.
func (b *Bus) Lookup(addr uint16, dir Direction) Handle {
	v := b.cache[dir][addr]
	if v != cacheUnknown {
		b.Hits++
		if v == cacheNone {
			return NoDevice
		}
		return Handle(v - 1)
	}

	b.Misses++
	v = cacheNone
	for i, c := range b.callouts {
		if !b.installed[i] {
			continue
		}
		if dir == Read && c.Read == nil {
			continue
		}
		if dir == Write && c.Write == nil {
			continue
		}
		if !c.Decodes(addr) {
			continue
		}
		if v == cacheNone || b.order[i] < b.order[v-1] {
			v = int32(i) + 1
		}
	}
	b.cache[dir][addr] = v

	if v == cacheNone {
		return NoDevice
	}
	return Handle(v - 1)
}

// Callout returns the installed callout for the handle.
func (b *Bus) Callout(h Handle) (Callout, bool) {
	if h < 0 || int(h) >= len(b.callouts) || !b.installed[h] {
		return Callout{}, false
	}
	return b.callouts[h], true
}

func (b *Bus) unmapped(addr uint16, what string) {
	if b.logged[addr] {
		return
	}
	b.logged[addr] = true
	logger.Logf(b.env, "iobus", "%s of unmapped port %#04x", what, addr)
}

// Read from the port with the specified access width.
func (b *Bus) Read(addr uint16, width Width) uint32 {
	h := b.Lookup(addr, Read)
	if h == NoDevice {
		b.unmapped(addr, "read")
		return width.ones()
	}

	c := b.callouts[h]
	if c.Widths&width == width || width == Byte {
		return c.Read(addr, width) & width.ones()
	}

	// split into byte accesses, low byte first
	var v uint32
	for i := range uint16(width) {
		v |= (b.Read(addr+i, Byte) & 0xff) << (8 * i)
	}
	return v
}

// Write to the port with the specified access width.
func (b *Bus) Write(addr uint16, value uint32, width Width) {
	h := b.Lookup(addr, Write)
	if h == NoDevice {
		b.unmapped(addr, "write")
		return
	}

	c := b.callouts[h]
	if c.Widths&width == width || width == Byte {
		c.Write(addr, value&width.ones(), width)
		return
	}

	for i := range uint16(width) {
		b.Write(addr+i, (value>>(8*i))&0xff, Byte)
	}
}

// ReadByte is a convenience function for a byte sized Read().
func (b *Bus) ReadByte(addr uint16) uint8 {
	return uint8(b.Read(addr, Byte))
}

// WriteByte is a convenience function for a byte sized Write().
func (b *Bus) WriteByte(addr uint16, value uint8) {
	b.Write(addr, uint32(value), Byte)
}

func (b *Bus) String() string {
	s := strings.Builder{}
	for i, c := range b.callouts {
		if b.installed[i] {
			s.WriteString(fmt.Sprintf("%02d: %s\n", i, c))
		}
	}
	return s.String()
}
