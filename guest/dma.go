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

package guest

// mode register values
const (
	dmaToMemory   = 0x44
	dmaFromMemory = 0x48
	dmaAutoInit   = 0x10
)

// page register ports for each channel
var pagePorts = [8]uint16{0x87, 0x83, 0x81, 0x82, 0x8f, 0x8b, 0x89, 0x8a}

// programDMA sets up the channel through the controller ports and unmasks
// it. The address is a physical byte address and length is in bytes. The
// buffer must not cross a 64K boundary (128K for the 16 bit channels).
func (d *Driver) programDMA(ch uint8, addr uint32, length int, mode uint8) {
	bus := d.m.Bus

	if ch < 4 {
		count := length - 1
		bus.WriteByte(0x0a, 0x04|ch)
		bus.WriteByte(0x0c, 0x00)
		bus.WriteByte(0x0b, mode|ch)
		bus.WriteByte(uint16(ch)*2, uint8(addr))
		bus.WriteByte(uint16(ch)*2, uint8(addr>>8))
		bus.WriteByte(pagePorts[ch], uint8(addr>>16))
		bus.WriteByte(uint16(ch)*2+1, uint8(count))
		bus.WriteByte(uint16(ch)*2+1, uint8(count>>8))
		bus.WriteByte(0x0a, ch)
		return
	}

	// the second controller counts words and its registers are on even ports
	c := ch - 4
	word := addr >> 1
	count := length/2 - 1
	bus.WriteByte(0xd4, 0x04|c)
	bus.WriteByte(0xd8, 0x00)
	bus.WriteByte(0xd6, mode|c)
	bus.WriteByte(0xc0+uint16(c)*4, uint8(word))
	bus.WriteByte(0xc0+uint16(c)*4, uint8(word>>8))
	bus.WriteByte(pagePorts[ch], uint8(addr>>16)&0xfe)
	bus.WriteByte(0xc2+uint16(c)*4, uint8(count))
	bus.WriteByte(0xc2+uint16(c)*4, uint8(count>>8))
	bus.WriteByte(0xd4, c)
}

// maskDMA stops the channel
func (d *Driver) maskDMA(ch uint8) {
	if ch < 4 {
		d.m.Bus.WriteByte(0x0a, 0x04|ch)
		return
	}
	d.m.Bus.WriteByte(0xd4, 0x04|(ch-4))
}
