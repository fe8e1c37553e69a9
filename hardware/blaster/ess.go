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

// first and last of the ESS extended registers
const (
	essFirst = 0xa0
	essLast  = 0xbf
)

// extended registers with a function
const (
	essRate       = 0xa1
	essFilter     = 0xa2
	essCountLo    = 0xa4
	essCountHi    = 0xa5
	essAnalogue   = 0xa8
	essIRQControl = 0xb1
	essDMAControl = 0xb2
	essFormat     = 0xb7
	essDMAStart   = 0xb8
)

type ess struct {
	// commands 0xa0 to 0xbf write the extended registers
	extended bool

	regs [essLast - essFirst + 1]uint8
}

func (e *ess) reset() {
	e.extended = false
	clear(e.regs[:])
}

func (e *ess) reg(r uint8) uint8 {
	return e.regs[r-essFirst]
}

// the transfer length in bytes is the two's complement of the counter
func (e *ess) count() int {
	return 0x10000 - (int(e.reg(essCountHi))<<8 | int(e.reg(essCountLo)))
}

func (e *ess) stereo() bool {
	return e.reg(essAnalogue)&0x03 == 0x01
}

func (c *Card) essWrite(reg uint8, v uint8) {
	if !c.ess.extended {
		logger.Logf(c.env, "sb ess", "write of %02x to %02x ignored. extended mode is off", v, reg)
		return
	}

	c.ess.regs[reg-essFirst] = v

	switch reg {
	case essRate:
		if v&0x80 != 0 {
			c.freq = 795500 / (256 - int(v))
		} else {
			c.freq = 397700 / (256 - int(v))
		}
		c.retune()
	case essFilter:
		logger.Logf(c.env, "sb ess", "filter divider %02x", v)
	case essCountLo, essCountHi:
		c.dma.total = c.ess.count()
	case essIRQControl:
		switch (v >> 2) & 0x03 {
		case 0:
			c.hw.IRQ = 2
		case 1:
			c.hw.IRQ = 5
		case 2:
			c.hw.IRQ = 7
		case 3:
			c.hw.IRQ = 10
		}
		logger.Logf(c.env, "sb ess", "irq control %s", c.hw)
	case essDMAControl:
		switch (v >> 2) & 0x03 {
		case 0:
			c.hw.DMA8 = NoChannel
		case 1:
			c.hw.DMA8 = 0
		case 2:
			c.hw.DMA8 = 1
		case 3:
			c.hw.DMA8 = 3
		}
		logger.Logf(c.env, "sb ess", "dma control %s", c.hw)
	case essDMAStart:
		if v&0x01 != 0 {
			c.essStart()
		} else {
			c.essStop()
		}
	}
}

func (c *Card) essRead(reg uint8) uint8 {
	if reg < essFirst || reg > essLast {
		logger.Logf(c.env, "sb ess", "read of unknown register %02x", reg)
		return 0xff
	}
	return c.ess.reg(reg)
}

// start the transfer described by the extended registers. the chip only
// has an 8 bit DMA channel so 16 bit transfers are aliased
func (c *Card) essStart() {
	s := &c.dma
	format := c.ess.reg(essFormat)
	control := c.ess.reg(essDMAStart)

	mode := DMAPCM8
	if format&0x04 != 0 {
		mode = DMAPCM16Aliased
	}

	c.dsp.highspeed = false
	s.total = c.ess.count()
	s.autoinit = control&0x04 != 0
	s.recording = control&0x08 != 0
	s.sign = format&0x20 != 0
	s.channel = c.hw.DMA8
	s.halved = false
	s.legacy = false

	c.beginTransfer(mode, c.freq, c.ess.stereo())
}

func (c *Card) essStop() {
	if c.dma.mode == DMANone {
		return
	}
	c.channel.FillUp()
	c.cancel(evEndDMA)
	c.cancel(evDACDMA)
	c.cancel(evSilentDMA)
	c.toIdle()
	logger.Log(c.env, "sb ess", "transfer stopped")
}

// the ESS mixer has a DAC volume register in the Pro format
func (c *Card) essMixerWrite(reg uint8, v uint8) {
	if reg == 0x14 {
		c.mixer.dac = c.setProVol(v)
		c.RecomputeGains()
	}
}
