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

// Package pic emulates the cascaded pair of 8259 programmable interrupt
// controllers found in the PC/AT. Devices raise and lower lines with
// Activate() and Deactivate(). The CPU side is represented by
// Acknowledge() and the command/mask ports.
//
// Only the parts of the 8259 used by PC software are emulated: the
// initialisation sequence is accepted but the vector base is the only ICW
// value that is retained, and end-of-interrupt is non-specific or
// specific. Rotation and special mask mode are not supported.
package pic

import (
	"fmt"

	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/logger"
)

// NumLines is the number of interrupt lines of the cascaded pair.
const NumLines = 16

// the slave controller is connected to line 2 of the master
const cascade = 2

// a single 8259
type chip struct {
	irr uint8
	imr uint8
	isr uint8

	// vector base from ICW2
	vector uint8

	// position in the initialisation sequence. zero when not initialising
	icw int

	// whether ICW4 is expected
	icw4 bool

	// OCW3 read register select
	readISR bool
}

// priority order of lines for a chip. lower number is higher priority
func (c *chip) highest(bits uint8) (int, bool) {
	for i := range 8 {
		if bits&(1<<i) != 0 {
			return i, true
		}
	}
	return 0, false
}

// PIC is the cascaded pair of interrupt controllers.
type PIC struct {
	env    logger.Permission
	master chip
	slave  chip

	// line level as driven by devices
	level uint16

	// number of times each line has been activated from an inactive state
	raised [NumLines]int
}

// NewPIC is the preferred method of initialisation for the PIC type. The
// default state is the one left by a PC BIOS: vectors at 0x08 and 0x70 and
// all lines unmasked.
func NewPIC(env logger.Permission) *PIC {
	p := &PIC{env: env}
	p.Reset()
	return p
}

// Reset the controllers.
func (p *PIC) Reset() {
	p.master = chip{vector: 0x08}
	p.slave = chip{vector: 0x70}
	p.level = 0
	clear(p.raised[:])
}

func (p *PIC) String() string {
	return fmt.Sprintf("irr=%02x%02x imr=%02x%02x isr=%02x%02x",
		p.slave.irr, p.master.irr,
		p.slave.imr, p.master.imr,
		p.slave.isr, p.master.isr)
}

func (p *PIC) chipFor(irq uint8) (*chip, uint8) {
	if irq >= 8 {
		return &p.slave, irq - 8
	}
	return &p.master, irq
}

// Activate raises the interrupt line. Activating a line that is already
// active has no effect.
func (p *PIC) Activate(irq uint8) {
	if irq >= NumLines {
		logger.Logf(p.env, "pic", "activate of unknown line %d", irq)
		return
	}
	if p.level&(1<<irq) != 0 {
		return
	}
	p.level |= 1 << irq
	p.raised[irq]++

	c, b := p.chipFor(irq)
	c.irr |= 1 << b
	if irq >= 8 {
		p.master.irr |= 1 << cascade
	}
}

// Deactivate lowers the interrupt line. An interrupt that has not yet been
// acknowledged is withdrawn.
func (p *PIC) Deactivate(irq uint8) {
	if irq >= NumLines {
		logger.Logf(p.env, "pic", "deactivate of unknown line %d", irq)
		return
	}
	p.level &^= 1 << irq

	c, b := p.chipFor(irq)
	c.irr &^= 1 << b
	if irq >= 8 && p.slave.irr == 0 {
		p.master.irr &^= 1 << cascade
	}
}

// IsActive returns true if the line is raised.
func (p *PIC) IsActive(irq uint8) bool {
	return irq < NumLines && p.level&(1<<irq) != 0
}

// Raised returns the number of times the line has been activated.
func (p *PIC) Raised(irq uint8) int {
	if irq >= NumLines {
		return 0
	}
	return p.raised[irq]
}

// Pending returns the highest priority line that would be delivered to the
// CPU if interrupts were enabled. Lines 8 to 15 have the priority of line 2.
func (p *PIC) Pending() (uint8, bool) {
	m := p.master.irr &^ p.master.imr
	i, ok := p.master.highest(m)
	if !ok {
		return 0, false
	}

	// in-service lines of equal or higher priority block delivery
	if s, ok := p.master.highest(p.master.isr); ok && s <= i {
		if s < i || i != cascade {
			return 0, false
		}
	}

	if i != cascade {
		return uint8(i), true
	}

	j, ok := p.slave.highest(p.slave.irr &^ p.slave.imr)
	if !ok {
		return 0, false
	}
	if s, ok := p.slave.highest(p.slave.isr); ok && s <= j {
		return 0, false
	}
	return uint8(j + 8), true
}

// Acknowledge the highest priority pending interrupt. The line moves from the
// request register to the in-service register. Returns the line and the
// vector number.
func (p *PIC) Acknowledge() (irq uint8, vector uint8, ok bool) {
	irq, ok = p.Pending()
	if !ok {
		return 0, 0, false
	}

	if irq >= 8 {
		b := irq - 8
		p.slave.irr &^= 1 << b
		p.slave.isr |= 1 << b
		if p.slave.irr&^p.slave.imr == 0 {
			p.master.irr &^= 1 << cascade
		}
		p.master.isr |= 1 << cascade
		return irq, p.slave.vector + b, true
	}

	p.master.irr &^= 1 << irq
	p.master.isr |= 1 << irq
	return irq, p.master.vector + irq, true
}

// EndOfInterrupt clears the line from the in-service register. Equivalent to a
// specific EOI to the slave (if necessary) and the master.
func (p *PIC) EndOfInterrupt(irq uint8) {
	if irq >= NumLines {
		return
	}
	if irq >= 8 {
		p.slave.isr &^= 1 << (irq - 8)
		if p.slave.isr == 0 {
			p.master.isr &^= 1 << cascade
		}
		return
	}
	p.master.isr &^= 1 << irq
}

// SetMask sets or clears the mask bit for the line.
func (p *PIC) SetMask(irq uint8, masked bool) {
	if irq >= NumLines {
		return
	}
	c, b := p.chipFor(irq)
	if masked {
		c.imr |= 1 << b
	} else {
		c.imr &^= 1 << b
	}
}

// IsMasked returns true if the line is masked.
func (p *PIC) IsMasked(irq uint8) bool {
	if irq >= NumLines {
		return true
	}
	c, b := p.chipFor(irq)
	return c.imr&(1<<b) != 0
}

// InstallPorts installs the command and data ports of both chips on the bus.
func (p *PIC) InstallPorts(bus *iobus.Bus) error {
	for _, c := range []struct {
		name string
		port uint16
		chip *chip
	}{
		{name: "pic master", port: 0x20, chip: &p.master},
		{name: "pic slave", port: 0xa0, chip: &p.slave},
	} {
		chip := c.chip
		_, err := bus.Install(iobus.Callout{
			Name:  c.name,
			Port:  c.port,
			Range: 2,
			Read: func(port uint16, _ iobus.Width) uint32 {
				return uint32(p.readPort(chip, port&1))
			},
			Write: func(port uint16, value uint32, _ iobus.Width) {
				p.writePort(chip, port&1, uint8(value))
			},
		})
		if err != nil {
			return fmt.Errorf("pic: %w", err)
		}
	}
	return nil
}

func (p *PIC) readPort(c *chip, reg uint16) uint8 {
	if reg == 1 {
		return c.imr
	}
	if c.readISR {
		return c.isr
	}
	return c.irr
}

func (p *PIC) writePort(c *chip, reg uint16, data uint8) {
	if reg == 0 {
		switch {
		case data&0x10 != 0:
			// ICW1
			c.icw = 2
			c.icw4 = data&0x01 != 0
			c.imr = 0
			c.isr = 0
			c.readISR = false
		case data&0x18 == 0x08:
			// OCW3
			if data&0x02 != 0 {
				c.readISR = data&0x01 != 0
			}
		case data&0x20 != 0:
			// OCW2 end of interrupt
			if data&0x40 != 0 {
				c.isr &^= 1 << (data & 0x07)
			} else if i, ok := c.highest(c.isr); ok {
				c.isr &^= 1 << i
			}
		default:
			logger.Logf(p.env, "pic", "unsupported command %#02x", data)
		}
		return
	}

	switch c.icw {
	case 2:
		c.vector = data & 0xf8
		c.icw = 3
	case 3:
		if c.icw4 {
			c.icw = 4
		} else {
			c.icw = 0
		}
	case 4:
		c.icw = 0
	default:
		c.imr = data
	}
}
