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

// size of the ASP's internal memory
const aspRAMSize = 2048

// the register that accesses memory when the mode allows it
const aspRAMRegister = 0x83

// asp is the Advanced Signal Processor fitted to some SB16 cards. Nothing is
// processed but drivers can find and initialise it.
type asp struct {
	regs [256]uint8
	mode uint8

	// the driver is checking register 0x83 during initialisation
	initInProgress bool

	ram   [aspRAMSize]uint8
	index int
}

func (a *asp) reset() {
	clear(a.regs[:])
	a.regs[5] = 0x01
	a.regs[9] = 0xf8
	a.mode = 0
	a.initInProgress = false
	a.index = 0
}

func (a *asp) ramMode() bool {
	return a.mode&0x08 != 0
}

func (a *asp) setMode(v uint8) {
	a.mode = v
	a.initInProgress = v&0xf1 == 0xf1
	a.index = 0
}

func (a *asp) setRegister(reg uint8, v uint8) {
	if reg == aspRAMRegister && a.ramMode() {
		a.ram[a.index] = v
		a.index = (a.index + 1) % aspRAMSize
		return
	}
	a.regs[reg] = v
}

func (a *asp) getRegister(reg uint8) uint8 {
	if reg == aspRAMRegister {
		if a.ramMode() {
			v := a.ram[a.index]
			a.index = (a.index + 1) % aspRAMSize
			return v
		}
		if a.initInProgress {
			a.regs[reg] = ^a.regs[reg]
		}
	}
	return a.regs[reg]
}

// answers to the undocumented 0xf9 command expected by the drivers
func (a *asp) query(v uint8) uint8 {
	switch v {
	case 0x0e:
		return 0xff
	case 0x0f:
		return 0x07
	case 0x37:
		return 0x38
	}
	return 0x00
}

// logs the codec parameter command
func (c *Card) aspCodec(param uint8, value uint8) {
	logger.Logf(c.env, "sb asp", "codec parameter %02x=%02x", param, value)
}
