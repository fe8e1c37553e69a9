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

package blaster

import "github.com/jetsetilly/gopherblaster/logger"

type irqClass int

const (
	irq8 irqClass = iota
	irq16
)

type irqState struct {
	pending8  bool
	pending16 bool
}

// the line that is driven for the assigned IRQ. IRQ 2 on the ISA bus is
// wired to IRQ 9 on AT machines
func (c *Card) irqLine() (uint8, bool) {
	switch c.hw.IRQ {
	case NoIRQ:
		return 0, false
	case 2:
		return 9, true
	}
	return c.hw.IRQ, true
}

// raiseIRQ raises the interrupt for the class. Raising an interrupt that is
// already pending does nothing.
func (c *Card) raiseIRQ(class irqClass) {
	switch class {
	case irq8:
		if c.irq.pending8 {
			return
		}
		c.irq.pending8 = true
	case irq16:
		if c.irq.pending16 {
			return
		}
		c.irq.pending16 = true
	}

	line, ok := c.irqLine()
	if !ok {
		logger.Log(c.env, "sb", "interrupt raised with no irq assigned")
		return
	}
	c.conn.IRQ.Activate(line)
}

// the line stays active while either class is pending
func (c *Card) lowerIRQ() {
	if c.irq.pending8 || c.irq.pending16 {
		return
	}
	if line, ok := c.irqLine(); ok {
		c.conn.IRQ.Deactivate(line)
	}
}

func (c *Card) clearIRQ() {
	c.irq.pending8 = false
	c.irq.pending16 = false
	c.lowerIRQ()
}

// moveIRQ assigns a different interrupt. A pending interrupt moves to the
// new line.
func (c *Card) moveIRQ(irq uint8) {
	pending := c.irq.pending8 || c.irq.pending16
	if pending {
		if line, ok := c.irqLine(); ok {
			c.conn.IRQ.Deactivate(line)
		}
	}
	c.hw.IRQ = irq
	if pending {
		if line, ok := c.irqLine(); ok {
			c.conn.IRQ.Activate(line)
		}
	}
}

// acknowledge an interrupt of the class. a transfer waiting for the
// acknowledgement continues whichever class is acknowledged. the other
// class stays pending until it is acknowledged itself
func (c *Card) ackIRQ(class irqClass) {
	switch class {
	case irq8:
		if c.irq.pending8 {
			c.irq.pending8 = false
			c.lowerIRQ()
		}
	case irq16:
		if c.irq.pending16 {
			c.irq.pending16 = false
			c.lowerIRQ()
		}
	}

	if c.mode == ModeDMARequireIRQAck {
		c.toDMA()
	}
}

// Pending returns whether the 8 bit and 16 bit interrupts are pending.
func (c *Card) Pending() (bool, bool) {
	return c.irq.pending8, c.irq.pending16
}

// class of interrupt raised by the current transfer
func (c *Card) dmaIRQClass() irqClass {
	if c.dma.mode.is16() {
		return irq16
	}
	return irq8
}
