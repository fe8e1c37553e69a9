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

package dma

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/logger"
)

// DefaultMemorySize is the size of the memory used by NewController() when
// size is zero. One megabyte is enough for real mode software.
const DefaultMemorySize = 1 << 20

// memory reachable by the controller. addresses wrap at the end of memory
type memory struct {
	data []byte
	mask uint32
}

func (m *memory) read(addr uint32, p []byte) {
	for i := range p {
		p[i] = m.data[(addr+uint32(i))&m.mask]
	}
}

func (m *memory) write(addr uint32, p []byte) {
	for i := range p {
		m.data[(addr+uint32(i))&m.mask] = p[i]
	}
}

// page register port offsets (from 0x80) for each channel
var pagePorts = [8]uint16{0x07, 0x03, 0x01, 0x02, 0x0f, 0x0b, 0x09, 0x0a}

// Controller is the pair of 8237 controllers.
type Controller struct {
	env logger.Permission
	mem memory

	channels [8]Channel

	// address/count byte flip-flop for each of the two controllers
	flipflop [2]bool

	// page register file. unused page registers are scratch registers
	pages [16]uint8
}

// NewController is the preferred method of initialisation for the Controller
// type. The size of memory must be a power of two. A size of zero selects
// DefaultMemorySize.
func NewController(env logger.Permission, size int) (*Controller, error) {
	if size == 0 {
		size = DefaultMemorySize
	}
	if size < 0 || bits.OnesCount(uint(size)) != 1 {
		return nil, fmt.Errorf("dma: memory size (%d) is not a power of two", size)
	}

	ctrl := &Controller{
		env: env,
		mem: memory{
			data: make([]byte, size),
			mask: uint32(size - 1),
		},
	}

	for i := range ctrl.channels {
		ctrl.channels[i] = Channel{
			ctrl:   ctrl,
			Number: i,
			Is16:   i >= 4,
			Masked: true,
		}
	}

	return ctrl, nil
}

func (ctrl *Controller) String() string {
	s := strings.Builder{}
	for i := range ctrl.channels {
		if i == 4 {
			continue
		}
		s.WriteString(ctrl.channels[i].String())
		s.WriteString("\n")
	}
	return s.String()
}

// Channel returns the numbered channel. Returns nil if the number is out of
// range or is the cascade channel.
func (ctrl *Controller) Channel(n int) *Channel {
	if n < 0 || n >= len(ctrl.channels) || n == 4 {
		return nil
	}
	return &ctrl.channels[n]
}

// Reset masks all channels and clears their registers. Listeners remain
// registered but are not notified.
func (ctrl *Controller) Reset() {
	for i := range ctrl.channels {
		l := ctrl.channels[i].listener
		ctrl.channels[i] = Channel{
			ctrl:     ctrl,
			Number:   i,
			Is16:     i >= 4,
			Masked:   true,
			listener: l,
		}
	}
	ctrl.flipflop = [2]bool{}
	clear(ctrl.pages[:])
}

// Snapshot returns a copy of the channel registers. Memory is not part of
// the snapshot.
func (ctrl *Controller) Snapshot() [8]Channel {
	var s [8]Channel
	for i, ch := range ctrl.channels {
		ch.ctrl = nil
		ch.listener = nil
		s[i] = ch
	}
	return s
}

// Plumb the channel registers from a previous Snapshot(). Listeners remain
// registered but are not notified.
func (ctrl *Controller) Plumb(s [8]Channel) {
	for i := range ctrl.channels {
		l := ctrl.channels[i].listener
		ctrl.channels[i] = s[i]
		ctrl.channels[i].ctrl = ctrl
		ctrl.channels[i].listener = l
	}
	ctrl.flipflop = [2]bool{}
}

// Poke writes data directly into memory.
func (ctrl *Controller) Poke(addr uint32, data []byte) {
	ctrl.mem.write(addr, data)
}

// Peek reads data directly from memory.
func (ctrl *Controller) Peek(addr uint32, data []byte) {
	ctrl.mem.read(addr, data)
}

// InstallPorts installs the register ports of both controllers and the page
// registers.
func (ctrl *Controller) InstallPorts(bus *iobus.Bus) error {
	callouts := []iobus.Callout{
		{
			Name:  "dma1",
			Port:  0x00,
			Range: 16,
			Read: func(port uint16, _ iobus.Width) uint32 {
				return uint32(ctrl.readRegister(0, port&0x0f))
			},
			Write: func(port uint16, value uint32, _ iobus.Width) {
				ctrl.writeRegister(0, port&0x0f, uint8(value))
			},
		},
		{
			Name:  "dma2",
			Port:  0xc0,
			Range: 32,
			Read: func(port uint16, _ iobus.Width) uint32 {
				return uint32(ctrl.readRegister(1, (port>>1)&0x0f))
			},
			Write: func(port uint16, value uint32, _ iobus.Width) {
				ctrl.writeRegister(1, (port>>1)&0x0f, uint8(value))
			},
		},
		{
			Name:  "dma page",
			Port:  0x80,
			Range: 16,
			Read: func(port uint16, _ iobus.Width) uint32 {
				return uint32(ctrl.pages[port&0x0f])
			},
			Write: func(port uint16, value uint32, _ iobus.Width) {
				ctrl.writePage(port&0x0f, uint8(value))
			},
		},
	}

	for _, c := range callouts {
		if _, err := bus.Install(c); err != nil {
			return fmt.Errorf("dma: %w", err)
		}
	}
	return nil
}

func (ctrl *Controller) writePage(reg uint16, data uint8) {
	ctrl.pages[reg] = data
	for i, p := range pagePorts {
		if p == reg {
			ctrl.channels[i].Page = data
		}
	}
}

func (ctrl *Controller) channel(c int, n uint16) *Channel {
	return &ctrl.channels[c*4+int(n&3)]
}

// flip the flip-flop for the controller, returning true if the low byte is
// being accessed
func (ctrl *Controller) flip(c int) bool {
	ctrl.flipflop[c] = !ctrl.flipflop[c]
	return ctrl.flipflop[c]
}

func (ctrl *Controller) readRegister(c int, reg uint16) uint8 {
	switch {
	case reg < 8:
		ch := ctrl.channel(c, reg>>1)
		v := ch.CurrAddr
		if reg&1 == 1 {
			v = ch.CurrCount
		}
		if ctrl.flip(c) {
			return uint8(v)
		}
		return uint8(v >> 8)
	case reg == 8:
		var ret uint8
		for i := range uint16(4) {
			ch := ctrl.channel(c, i)
			if ch.TC {
				ret |= 1 << i
			}
			ch.TC = false
			if ch.Request {
				ret |= 1 << (4 + i)
			}
		}
		return ret
	}
	logger.Logf(ctrl.env, "dma", "read of undefined register %#x on controller %d", reg, c+1)
	return 0xff
}

func (ctrl *Controller) writeRegister(c int, reg uint16, data uint8) {
	switch {
	case reg < 8:
		ch := ctrl.channel(c, reg>>1)
		lo := ctrl.flip(c)
		if reg&1 == 0 {
			if lo {
				ch.BaseAddr = ch.BaseAddr&0xff00 | uint16(data)
			} else {
				ch.BaseAddr = ch.BaseAddr&0x00ff | uint16(data)<<8
			}
			ch.CurrAddr = ch.BaseAddr
		} else {
			if lo {
				ch.BaseCount = ch.BaseCount&0xff00 | uint16(data)
			} else {
				ch.BaseCount = ch.BaseCount&0x00ff | uint16(data)<<8
			}
			ch.CurrCount = ch.BaseCount
		}
	case reg == 0x8:
		// command register. nothing of interest
	case reg == 0x9:
		ctrl.channel(c, uint16(data)).Request = data&0x04 != 0
	case reg == 0xa:
		ctrl.channel(c, uint16(data)).SetMask(data&0x04 != 0)
	case reg == 0xb:
		ch := ctrl.channel(c, uint16(data))
		ch.AutoInit = data&0x10 != 0
		ch.Decrement = data&0x20 != 0
		switch (data >> 2) & 0x03 {
		case 0x01:
			ch.Transfer = ToMemory
		case 0x02:
			ch.Transfer = FromMemory
		default:
			ch.Transfer = Verify
		}
	case reg == 0xc:
		ctrl.flipflop[c] = false
	case reg == 0xd:
		for i := range uint16(4) {
			ch := ctrl.channel(c, i)
			ch.SetMask(true)
			ch.TC = false
		}
		ctrl.flipflop[c] = false
	case reg == 0xe:
		for i := range uint16(4) {
			ctrl.channel(c, i).SetMask(false)
		}
	case reg == 0xf:
		for i := range uint16(4) {
			ctrl.channel(c, i).SetMask(data&(1<<i) != 0)
		}
	}
}
