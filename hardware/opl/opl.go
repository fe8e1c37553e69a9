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

package opl

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/timer"
	"github.com/jetsetilly/gopherblaster/logger"
)

// Mode of the OPL.
type Mode int

// List of valid Mode values.
const (
	None Mode = iota
	OPL2
	DualOPL2
	OPL3
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case OPL2:
		return "opl2"
	case DualOPL2:
		return "dualopl2"
	case OPL3:
		return "opl3"
	}
	return "unknown opl mode"
}

// ParseMode converts the string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return None, nil
	case "opl2":
		return OPL2, nil
	case "dualopl2":
		return DualOPL2, nil
	case "opl3":
		return OPL3, nil
	}
	return None, fmt.Errorf("opl: unknown mode (%s)", s)
}

// Clock is the source of virtual time.
type Clock interface {
	NowMs() float64
}

// Chip is a single OPL chip. Only the timers are modelled.
type Chip struct {
	Timer0 *timer.Overflow
	Timer1 *timer.Overflow
}

func newChip() Chip {
	return Chip{
		Timer0: timer.NewOverflow(80),
		Timer1: timer.NewOverflow(320),
	}
}

// write returns true if the register is a timer register
func (c *Chip) write(reg uint16, val uint8, now float64) bool {
	switch reg {
	case 0x02:
		c.Timer0.SetCounter(val)
		return true
	case 0x03:
		c.Timer1.SetCounter(val)
		return true
	case 0x04:
		if val&0x80 != 0 {
			c.Timer0.Reset(now)
			c.Timer1.Reset(now)
			return true
		}

		c.Timer0.Masked = val&0x40 != 0
		c.Timer1.Masked = val&0x20 != 0
		if val&0x01 != 0 {
			c.Timer0.Start(now)
		} else {
			c.Timer0.Stop()
		}
		if val&0x02 != 0 {
			c.Timer1.Start(now)
		} else {
			c.Timer1.Stop()
		}
		return true
	}
	return false
}

// status register
func (c *Chip) read(now float64) uint8 {
	var ret uint8
	if c.Timer0.Update(now) {
		ret |= 0x80 | 0x40
	}
	if c.Timer1.Update(now) {
		ret |= 0x80 | 0x20
	}
	return ret
}

// OPL is the FM companion of the sound card. There is also a stand alone
// instance at the Adlib ports.
type OPL struct {
	env   logger.Permission
	clock Clock
	mode  Mode

	chips [2]Chip

	// address latch. dual holds the latch of each chip in dual OPL2 mode
	latch uint16
	dual  [2]uint8

	// register file. the second bank of an OPL3 starts at 0x100. in dual
	// OPL2 mode the right chip uses the second bank
	Registers [0x200]uint8

	// time of the most recent write
	LastWrite float64
}

// NewOPL is the preferred method of initialisation for the OPL type.
func NewOPL(env logger.Permission, clock Clock, mode Mode) *OPL {
	o := &OPL{
		env:   env,
		clock: clock,
		mode:  mode,
	}
	o.Reset()
	return o
}

func (o *OPL) String() string {
	if o.mode == None {
		return "no opl"
	}
	return fmt.Sprintf("%s latch=%03x t0[%s] t1[%s]", o.mode, o.latch, o.chips[0].Timer0, o.chips[0].Timer1)
}

// Mode returns the current mode.
func (o *OPL) Mode() Mode {
	return o.mode
}

// Chip returns one of the two chips. Only the first chip is used unless the
// mode is DualOPL2.
func (o *OPL) Chip(i int) *Chip {
	return &o.chips[i&1]
}

// Reset the OPL.
func (o *OPL) Reset() {
	o.chips[0] = newChip()
	o.chips[1] = newChip()
	o.latch = 0
	o.dual = [2]uint8{}
	clear(o.Registers[:])
}

// the OPL3 second bank is only reachable when the new mode bit is set, with
// the exception of the register containing the bit
func (o *OPL) newMode() bool {
	return o.Registers[0x105]&0x01 != 0
}

// WritePort handles a write to an OPL port.
func (o *OPL) WritePort(port uint16, val uint8) {
	now := o.clock.NowMs()

	switch o.mode {
	case None:
		return
	case OPL2:
		if port&1 == 0 {
			o.latch = uint16(val)
			return
		}
	case OPL3:
		if port&1 == 0 {
			o.latch = uint16(val)
			if port&2 != 0 && (val == 0x05 || o.newMode()) {
				o.latch |= 0x100
			}
			return
		}
	case DualOPL2:
		if port&1 == 0 {
			if port&8 == 0 {
				o.dual[(port&2)>>1] = val
			} else {
				o.dual[0] = val
				o.dual[1] = val
			}
			return
		}
		if port&8 == 0 {
			o.dualWrite(int(port&2)>>1, val, now)
		} else {
			o.dualWrite(0, val, now)
			o.dualWrite(1, val, now)
		}
		o.LastWrite = now
		return
	}

	// data write for OPL2 and OPL3
	o.LastWrite = now
	if !o.chips[0].write(o.latch, val, now) {
		o.Registers[o.latch&0x1ff] = val
	}
}

func (o *OPL) dualWrite(index int, val uint8, now float64) {
	reg := o.dual[index]

	// the OPL3 features of the chips can not be used
	if reg == 0x05 {
		return
	}

	// only four waveforms
	if reg >= 0xe0 {
		val &= 0x03
	}

	if o.chips[index].write(uint16(reg), val, now) {
		return
	}

	// panning is fixed. left chip to the left and right chip to the right
	if reg >= 0xc0 && reg <= 0xc8 {
		val &= 0x0f
		if index == 0 {
			val |= 0x50
		} else {
			val |= 0xa0
		}
	}

	o.Registers[uint16(reg)+uint16(index)*0x100] = val
}

// ReadPort handles a read of an OPL port.
func (o *OPL) ReadPort(port uint16) uint8 {
	now := o.clock.NowMs()

	switch o.mode {
	case OPL2:
		if port&3 == 0 {
			// low bits are 6 on the opl2
			return o.chips[0].read(now) | 0x06
		}
	case OPL3:
		if port&3 == 0 {
			return o.chips[0].read(now)
		}
	case DualOPL2:
		if port&1 == 0 {
			return o.chips[(port>>1)&1].read(now) | 0x06
		}
	}
	return 0xff
}

// Install the OPL at the Adlib ports.
func (o *OPL) Install(bus *iobus.Bus, port uint16) (iobus.Handle, error) {
	h, err := bus.Install(iobus.Callout{
		Name:  "adlib",
		Port:  port,
		Range: 4,
		Mask:  0x03ff,
		Read: func(port uint16, _ iobus.Width) uint32 {
			return uint32(o.ReadPort(port))
		},
		Write: func(port uint16, value uint32, _ iobus.Width) {
			o.WritePort(port, uint8(value))
		},
	})
	if err != nil {
		return h, fmt.Errorf("opl: %w", err)
	}
	logger.Logf(o.env, "opl", "%s at %#03x", o.mode, port)
	return h, nil
}
