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
	"github.com/jetsetilly/gopherblaster/hardware/blaster/adpcm"
	"github.com/jetsetilly/gopherblaster/hardware/blaster/fifo"
	"github.com/jetsetilly/gopherblaster/logger"
)

// NoCommand is the value of the current command when the DSP is waiting for
// an opcode.
const NoCommand = -1

// capacity of the output FIFO
const outputSize = 64

// the largest number of argument bytes of any command
const maxArguments = 4

type dspState int

const (
	dspReset dspState = iota
	dspResetWait
	dspNormal
)

func (s dspState) String() string {
	switch s {
	case dspReset:
		return "reset"
	case dspResetWait:
		return "reset wait"
	}
	return "normal"
}

type dsp struct {
	state dspState

	// current command and the number of argument bytes it takes
	cmd    int
	cmdLen int

	in struct {
		data [maxArguments]uint8
		pos  int
	}

	out *fifo.Ring

	// the last value popped from the output FIFO. repeated when the FIFO is
	// empty
	lastval uint8

	testRegister uint8

	writeBusy bool
	highspeed bool

	// bytes written to the DSP are sent to the MIDI port until reset
	midiUART bool

	// MIDI read poll mode. there is never any MIDI input
	midiPoll bool
}

// Command returns the command being collected or NoCommand.
func (c *Card) Command() int {
	return c.dsp.cmd
}

// Output returns the contents of the output FIFO without removing them.
func (c *Card) Output() []uint8 {
	return c.dsp.out.Contents()
}

func (c *Card) addData(v uint8) {
	if !c.dsp.out.Push(v) {
		logger.Log(c.env, "sb dsp", "output buffer full")
	}
}

func (c *Card) flushData() {
	c.dsp.out.Clear()
}

func (c *Card) readData() uint8 {
	if v, ok := c.dsp.out.Pop(); ok {
		c.dsp.lastval = v
	}
	return c.dsp.lastval
}

// DSP writes are refused while busy. high-speed mode can only be left with
// a reset on the older DSPs
func (c *Card) dspBusy() bool {
	return c.dsp.writeBusy || (c.dsp.highspeed && c.variant.HighSpeedNeedsReset())
}

func (c *Card) writeStatus() uint8 {
	if c.dsp.state != dspNormal {
		return 0xff
	}
	if c.dspBusy() {
		return 0xff
	}
	if c.busy.Enabled() && (c.busy.Always || c.mode == ModeDMA) {
		if c.busy.Busy(c.conn.Scheduler.NowMs()) {
			return 0xff
		}
	}
	return 0x7f
}

// reset port
func (c *Card) doReset(val uint8) {
	if val&0x01 != 0 && c.dsp.state != dspReset {
		c.dspReset()
		c.dsp.state = dspReset
	} else if val&0x01 == 0 && c.dsp.state == dspReset {
		c.dsp.state = dspResetWait
		c.cancel(evFinishReset)
		c.schedule(evFinishReset, 0.02, 0)
	}
	c.dsp.writeBusy = false
}

func (c *Card) finishReset() {
	c.flushData()
	c.addData(0xaa)
	c.dsp.state = dspNormal
}

// dspReset stops all activity and cancels every scheduled event.
func (c *Card) dspReset() {
	logger.Log(c.env, "sb dsp", "reset")

	c.changeMode(ModeNone)
	c.flushData()

	c.dsp.cmd = NoCommand
	c.dsp.cmdLen = 0
	c.dsp.in.pos = 0
	c.dsp.writeBusy = false
	c.dsp.highspeed = false
	c.dsp.midiUART = false
	c.dsp.midiPoll = false

	c.conn.Scheduler.CancelTarget(c)

	if ch := c.boundChannel(); ch != nil {
		ch.Request = false
	}
	c.dma.reset()
	c.unregisterListener()

	// flushing the mode change above can complete a block and raise an
	// interrupt. the interrupt is cleared after everything has stopped
	c.clearIRQ()

	c.freq = 22050
	c.timeConstant = 45
	c.dac.used = 0
	c.adpcm = adpcm.State{Reference: 0x80}
	c.e2.value = 0xaa
	c.e2.count = 0
	c.channel.SetFreq(22050)
}

// dspWrite handles a byte written to the command port.
func (c *Card) dspWrite(val uint8) {
	if c.dspBusy() {
		logger.Logf(c.env, "sb dsp", "write of %02x ignored. dsp is not ready", val)
		return
	}

	if c.dsp.midiUART {
		c.writeMIDI(val)
		return
	}

	delay := c.cfg.WriteBusyDelay
	if c.cfg.SampleRateLimits && c.dsp.cmd == 0x10 {
		// the data byte of the direct DAC command
		delay = 1000000000/25500 - c.cfg.WriteBusyDelay
	}
	if delay > 0 {
		c.dsp.writeBusy = true
		c.cancel(evBusyComplete)
		c.schedule(evBusyComplete, float64(delay)/1000000, 0)
	}

	if c.dsp.cmd == NoCommand {
		op := c.canonicalOpcode(val)
		c.dsp.cmd = int(op)
		c.dsp.cmdLen = c.commandLength(op)
		c.dsp.in.pos = 0
		if c.dsp.cmdLen == 0 {
			c.doCommand()
		}
		return
	}

	c.dsp.in.data[c.dsp.in.pos] = val
	c.dsp.in.pos++
	if c.dsp.in.pos >= c.dsp.cmdLen {
		c.doCommand()
	}
}

// canonicalOpcode returns the opcode that the older DSPs treat the opcode
// as.
func (c *Card) canonicalOpcode(op uint8) uint8 {
	switch c.variant {
	case SB1, SB2, SBPro1, SBPro2:
		switch op {
		case 0x15:
			return 0x14
		case 0x11, 0x12, 0x13:
			return 0x10
		}
	}
	return op
}

func (c *Card) writeMIDI(v uint8) {
	if c.conn.MIDI == nil {
		return
	}
	if _, err := c.conn.MIDI.Write([]byte{v}); err != nil {
		logger.Logf(c.env, "sb", "midi: %v", err)
	}
}
