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

import (
	"github.com/jetsetilly/gopherblaster/hardware/audio/mix"
	"github.com/jetsetilly/gopherblaster/logger"
)

// names of the other channels controlled by the mixer
const (
	fmChannel = "FM"
	cdChannel = "CDAUDIO"
)

// volumes are five bit values in the order left, right
type mixer struct {
	index uint8

	master [2]uint8
	dac    [2]uint8
	fm     [2]uint8
	cda    [2]uint8
	lin    [2]uint8
	mic    uint8

	stereo   bool
	filtered bool

	// volume registers affect channel gains
	enabled bool

	// registers without an emulated function. read back on the variants
	// that have them
	unhandled [0x100]uint8
}

func (c *Card) resetMixer() {
	m := &c.mixer
	m.fm = [2]uint8{31, 31}
	m.cda = [2]uint8{31, 31}
	m.dac = [2]uint8{31, 31}
	m.master = [2]uint8{31, 31}
	m.enabled = c.cfg.Mixer
	c.RecomputeGains()
}

// RecomputeGains applies the volume registers to the audio channels.
func (c *Card) RecomputeGains() {
	m := &c.mixer
	if !m.enabled {
		return
	}

	apply := func(ch MixerChannel, v [2]uint8) {
		ch.FillUp()
		ch.SetVolume(
			float32(m.master[0])/mix.MaxVolume*mix.Gain(v[0]),
			float32(m.master[1])/mix.MaxVolume*mix.Gain(v[1]),
		)
	}

	apply(c.channel, m.dac)
	if ch := c.conn.Mixer.FindChannel(fmChannel); ch != nil {
		apply(ch, m.fm)
	}
	if ch := c.conn.Mixer.FindChannel(cdChannel); ch != nil {
		apply(ch, m.cda)
	}
}

// the low bit of a volume unpacked from a Pro register
func (c *Card) proLow() uint8 {
	if c.variant.IsSB16() {
		return 1
	}
	return 3
}

// unpack a Pro style register with the left volume in the high nibble
func (c *Card) setProVol(v uint8) [2]uint8 {
	return [2]uint8{
		(v&0xf0)>>3 | c.proLow(),
		(v&0x0f)<<1 | c.proLow(),
	}
}

func (c *Card) makeProVol(w [2]uint8) uint8 {
	v := (w[0]&0x1e)<<3 | (w[1]&0x1e)>>1
	if !c.variant.IsSB16() {
		v &= 0xee
	}
	return v
}

// registers with a shadow on the variant
func (c *Card) shadowed(reg uint8) bool {
	switch c.variant {
	case SBPro1, SBPro2:
		return reg == 0x0c
	case SB16:
		return reg >= 0x3b && reg <= 0x47
	case ESS688:
		return true
	}
	return false
}

// changeStereo applies the mixer's stereo bit to a running transfer. SB16
// transfers take their stereo setting from the command and are not changed.
func (c *Card) changeStereo(stereo bool) {
	s := &c.dma
	if !s.legacy || s.mode == DMANone || s.stereo == stereo {
		return
	}

	c.channel.FillUp()
	if stereo {
		s.mul *= 2
		s.freq = s.srcRate / 2
	} else {
		s.mul /= 2
		s.freq = s.srcRate
	}
	c.channel.SetFreq(max(s.freq, 1))
	s.rate = s.srcRate * s.mul >> rateShift
	s.min = s.rate * 3 / 1000
	s.stereo = stereo
	s.halved = stereo
}

func (c *Card) writeMixer(val uint8) {
	m := &c.mixer
	sb16 := c.variant.IsSB16()

	switch m.index {
	case 0x00:
		c.resetMixer()
		logger.Logf(c.env, "sb mixer", "reset (%02x)", val)
	case 0x02:
		m.master = c.setProVol(val&0x0f | val<<4)
		c.RecomputeGains()
	case 0x04:
		m.dac = c.setProVol(val)
		c.RecomputeGains()
	case 0x06:
		m.fm = c.setProVol(val&0x0f | val<<4)
		c.RecomputeGains()
		if val&0x60 != 0 {
			logger.Logf(c.env, "sb mixer", "fm channel selection %02x not supported", val)
		}
	case 0x08:
		m.cda = c.setProVol(val&0x0f | val<<4)
		c.RecomputeGains()
	case 0x0a:
		if c.variant == SB2 {
			v := (val&0x06)<<2 | 3
			m.dac = [2]uint8{v, v}
			c.RecomputeGains()
		} else {
			m.mic = (val&0x07)<<2 | c.proLow()
		}
	case 0x0e:
		if c.variant.IsPro() || (sb16 && !c.cfg.StereoProOnly) || c.variant == ESS688 || c.variant == SC400 {
			m.stereo = val&0x02 != 0
		}
		m.filtered = val&0x20 != 0
		c.changeStereo(m.stereo)
		logger.Logf(c.env, "sb mixer", "stereo %v", m.stereo)
	case 0x22:
		m.master = c.setProVol(val)
		c.RecomputeGains()
	case 0x26:
		m.fm = c.setProVol(val)
		c.RecomputeGains()
	case 0x28:
		m.cda = c.setProVol(val)
		c.RecomputeGains()
	case 0x2e:
		m.lin = c.setProVol(val)
	case 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37:
		if !sb16 {
			break
		}
		side := (m.index - 0x30) & 1
		switch (m.index - 0x30) >> 1 {
		case 0:
			m.master[side] = val >> 3
		case 1:
			m.dac[side] = val >> 3
		case 2:
			m.fm[side] = val >> 3
		case 3:
			m.cda[side] = val >> 3
		}
		c.RecomputeGains()
	case 0x38:
		if sb16 {
			m.lin[0] = val >> 3
		}
	case 0x39:
		if sb16 {
			m.lin[1] = val >> 3
		}
	case 0x3a:
		if sb16 {
			m.mic = val >> 3
		}
	case 0x80:
		if sb16 && !c.cfg.Vibra {
			var irq uint8 = NoIRQ
			switch {
			case val&0x01 != 0:
				irq = 2
			case val&0x02 != 0:
				irq = 5
			case val&0x04 != 0:
				irq = 7
			case val&0x08 != 0:
				irq = 10
			}
			c.moveIRQ(irq)
			logger.Logf(c.env, "sb mixer", "irq select %s", c.hw)
		}
	case 0x81:
		if sb16 && !c.cfg.Vibra {
			c.hw.DMA8 = NoChannel
			c.hw.DMA16 = NoChannel
			switch {
			case val&0x01 != 0:
				c.hw.DMA8 = 0
			case val&0x02 != 0:
				c.hw.DMA8 = 1
			case val&0x08 != 0:
				c.hw.DMA8 = 3
			}
			switch {
			case val&0x20 != 0:
				c.hw.DMA16 = 5
			case val&0x40 != 0:
				c.hw.DMA16 = 6
			case val&0x80 != 0:
				c.hw.DMA16 = 7
			}
			logger.Logf(c.env, "sb mixer", "dma select %s", c.hw)
			c.rebind()
		}
	default:
		if c.variant == ESS688 {
			c.essMixerWrite(m.index, val)
		}
		if c.shadowed(m.index) {
			m.unhandled[m.index] = val
		}
		logger.Logf(c.env, "sb mixer", "write %02x to unhandled register %02x", val, m.index)
	}
}

func (c *Card) readMixer() uint8 {
	m := &c.mixer
	sb16 := c.variant.IsSB16()

	switch m.index {
	case 0x00:
		return 0x00
	case 0x02:
		return (m.master[1] >> 1) & 0x0e
	case 0x22:
		return c.makeProVol(m.master)
	case 0x04:
		return c.makeProVol(m.dac)
	case 0x06:
		return (m.fm[1] >> 1) & 0x0e
	case 0x08:
		return (m.cda[1] >> 1) & 0x0e
	case 0x0a:
		if c.variant == SB2 {
			return m.dac[0] >> 2
		}
		if sb16 {
			return (m.mic >> 2) & 0x07
		}
		return (m.mic >> 2) & 0x06
	case 0x0e:
		v := uint8(0x11)
		if m.stereo {
			v |= 0x02
		}
		if m.filtered {
			v |= 0x20
		}
		return v
	case 0x26:
		return c.makeProVol(m.fm)
	case 0x28:
		return c.makeProVol(m.cda)
	case 0x2e:
		return c.makeProVol(m.lin)
	case 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39:
		if !sb16 {
			return 0x0a
		}
		side := (m.index - 0x30) & 1
		switch (m.index - 0x30) >> 1 {
		case 0:
			return m.master[side] << 3
		case 1:
			return m.dac[side] << 3
		case 2:
			return m.fm[side] << 3
		case 3:
			return m.cda[side] << 3
		}
		return m.lin[side] << 3
	case 0x3a:
		if !sb16 {
			return 0x0a
		}
		return m.mic << 3
	case 0x80:
		switch c.hw.IRQ {
		case 2:
			return 0x01
		case 5:
			return 0x02
		case 7:
			return 0x04
		case 10:
			return 0x08
		}
		return 0x00
	case 0x81:
		var v uint8
		switch c.hw.DMA8 {
		case 0:
			v |= 0x01
		case 1:
			v |= 0x02
		case 3:
			v |= 0x08
		}
		switch c.hw.DMA16 {
		case 5:
			v |= 0x20
		case 6:
			v |= 0x40
		case 7:
			v |= 0x80
		}
		return v
	case 0x82:
		var v uint8
		if c.irq.pending8 {
			v |= 0x01
		}
		if c.irq.pending16 {
			v |= 0x02
		}
		if sb16 {
			v |= 0x20
		}
		return v
	}

	logger.Logf(c.env, "sb mixer", "read from unhandled register %02x", m.index)
	if c.shadowed(m.index) {
		return m.unhandled[m.index]
	}
	return 0x0a
}
