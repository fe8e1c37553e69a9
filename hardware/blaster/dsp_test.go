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

package blaster_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestResetHandshake(t *testing.T) {
	r := newRig(t, blaster.SB16)

	r.write(0x06, 0x01)
	r.write(0x06, 0x00)

	// the DSP is not ready until the reset completes
	test.ExpectEquality(t, r.read(0x0c), 0xff)
	test.ExpectEquality(t, r.read(0x0e), 0x7f)

	r.sched.Advance(0.05)
	test.ExpectEquality(t, r.read(0x0c), 0x7f)
	test.ExpectEquality(t, r.read(0x0e), 0xff)
	test.ExpectEquality(t, r.read(0x0a), 0xaa)
	test.ExpectEquality(t, r.read(0x0e), 0x7f)

	// an empty FIFO repeats the last value
	test.ExpectEquality(t, r.read(0x0a), 0xaa)
}

func TestVersion(t *testing.T) {
	for _, v := range blaster.Variants {
		r := newRig(t, v)
		r.command(0xe1)
		major, minor := v.Version()
		got := r.response(2)
		test.ExpectEquality(t, got[0], major, v)
		test.ExpectEquality(t, got[1], minor, v)
	}
}

func TestIdentification(t *testing.T) {
	r := newRig(t, blaster.SBPro2)

	r.command(0xe0, 0x55)
	test.ExpectEquality(t, r.read(0x0a), 0xaa)

	r.command(0xe4, 0x3c)
	r.command(0xe8)
	test.ExpectEquality(t, r.read(0x0a), 0x3c)

	r.command(0xe3)
	b := r.response(45)
	test.ExpectEquality(t, string(b[:44]), "COPYRIGHT (C) CREATIVE TECHNOLOGY LTD, 1992.")
	test.ExpectEquality(t, b[44], 0x00)

	r.command(0x04)
	test.ExpectEquality(t, r.read(0x0a), 0x7b)
}

// the number of bytes consumed by every opcode matches the command table
func TestCommandLength(t *testing.T) {
	for _, v := range blaster.Variants {
		r := newRig(t, v)
		for op := range 256 {
			tag := fmt.Sprintf("%s %02x", v, op)

			r.card.Reset()
			r.command(uint8(op))
			n := blaster.CommandLength(v, uint8(op))
			test.ExpectSuccess(t, n >= 0 && n <= 3, tag)

			for range n {
				test.ExpectInequality(t, r.card.Command(), blaster.NoCommand, tag)
				r.command(0x00)
			}
			test.ExpectEquality(t, r.card.Command(), blaster.NoCommand, tag)
		}
	}
}

func TestCanonicalOpcodes(t *testing.T) {
	for _, v := range []blaster.Variant{blaster.SB1, blaster.SB2, blaster.SBPro1, blaster.SBPro2} {
		test.ExpectEquality(t, blaster.CommandLength(v, 0x15), blaster.CommandLength(v, 0x14), v)
		test.ExpectEquality(t, blaster.CommandLength(v, 0x11), 1, v)
		test.ExpectEquality(t, blaster.CommandLength(v, 0x13), 1, v)
	}
	test.ExpectEquality(t, blaster.CommandLength(blaster.SB16, 0x11), 0)

	// the SB16 commands take three bytes on the SB16 only
	test.ExpectEquality(t, blaster.CommandLength(blaster.SB16, 0xb6), 3)
	test.ExpectEquality(t, blaster.CommandLength(blaster.SBPro2, 0xb6), 0)
}

func TestCommandRequiresVariant(t *testing.T) {
	r := newRig(t, blaster.SB1)
	before := r.card.State()
	r.command(0x1c)
	test.ExpectEquality(t, r.card.Command(), blaster.NoCommand)
	test.ExpectEquality(t, r.card.Mode(), blaster.ModeNone)
	test.ExpectEquality(t, r.card.DMAMode(), blaster.DMANone)
	test.ExpectEquality(t, r.card.State().DMA.Total, before.DMA.Total)

	// the arguments are consumed before the command is refused
	r = newRig(t, blaster.SB2)
	r.command(0x41, 0xac, 0x44)
	test.ExpectEquality(t, r.card.Command(), blaster.NoCommand)
	test.ExpectEquality(t, r.card.State().Freq, 22050)

	r = newRig(t, blaster.SBPro2)
	r.command(0xf3)
	p8, p16 := r.card.Pending()
	test.ExpectFailure(t, p8)
	test.ExpectFailure(t, p16)
	test.ExpectEquality(t, r.pic.Raised(r.irqLine()), 0)

	// chipset commands on the wrong chipset
	r.command(0xe7)
	test.ExpectEquality(t, len(r.card.Output()), 0)
	r.command(0xe6)
	test.ExpectEquality(t, len(r.card.Output()), 0)
}

func TestSpeakerStatus(t *testing.T) {
	r := newRig(t, blaster.SB2)
	test.ExpectFailure(t, r.card.Channel().IsEnabled())

	r.command(0xd8)
	test.ExpectEquality(t, r.read(0x0a), 0x00)

	r.command(0xd1)
	test.ExpectSuccess(t, r.card.Speaker())
	test.ExpectSuccess(t, r.card.Channel().IsEnabled())
	r.command(0xd8)
	test.ExpectEquality(t, r.read(0x0a), 0xff)

	r.command(0xd3)
	test.ExpectFailure(t, r.card.Channel().IsEnabled())

	// the SB16 channel is never disabled
	r = newRig(t, blaster.SB16)
	test.ExpectSuccess(t, r.card.Channel().IsEnabled())
	r.command(0xd3)
	test.ExpectSuccess(t, r.card.Channel().IsEnabled())
}

func TestHighSpeedNeedsReset(t *testing.T) {
	r := newRig(t, blaster.SB2)
	r.command(0xd1)
	r.program(1, 0x8000, ramp(64), false)

	// the high speed command uses the block size set by 0x48
	r.command(0x48, 63, 0)
	r.command(0x91)
	test.ExpectEquality(t, r.card.State().DMA.Total, 64)
	test.ExpectEquality(t, r.read(0x0c), 0xff)

	r.command(0xe1)
	test.ExpectEquality(t, r.card.Command(), blaster.NoCommand)
	test.ExpectEquality(t, len(r.card.Output()), 0)

	r.reset()
	test.ExpectEquality(t, r.read(0x0c), 0x7f)
	test.ExpectEquality(t, r.read(0x0a), 0xaa)
	test.ExpectEquality(t, r.card.DMAMode(), blaster.DMANone)

	// the SB16 is always ready
	r = newRig(t, blaster.SB16)
	r.program(1, 0x8000, ramp(64), false)
	r.command(0x48, 63, 0)
	r.command(0x91)
	test.ExpectEquality(t, r.read(0x0c), 0x7f)
}

func TestWriteBusy(t *testing.T) {
	r := newRig(t, blaster.SBPro2, func(cfg *blaster.Config) {
		cfg.WriteBusyDelay = 15000
	})

	test.ExpectEquality(t, r.read(0x0c), 0x7f)
	r.command(0xd1)
	test.ExpectEquality(t, r.read(0x0c), 0xff)

	// writes while busy are lost
	r.command(0xd3)
	test.ExpectSuccess(t, r.card.Speaker())

	r.sched.Advance(0.02)
	test.ExpectEquality(t, r.read(0x0c), 0x7f)
}

func TestBusyCycle(t *testing.T) {
	r := newRig(t, blaster.SB16, func(cfg *blaster.Config) {
		cfg.BusyCycleRate = 8000
		cfg.BusyCycleDuty = 50
		cfg.BusyCycleAlways = true
	})

	busy := 0
	for range 8 {
		if r.read(0x0c) == 0xff {
			busy++
		}
	}
	test.ExpectEquality(t, busy, 4)

	// without a transfer the cycle is only seen if it is always visible
	r = newRig(t, blaster.SBPro2, func(cfg *blaster.Config) {
		cfg.BusyCycleRate = 8000
		cfg.BusyCycleDuty = 50
		cfg.BusyCycleAlways = false
	})
	for range 8 {
		test.ExpectEquality(t, r.read(0x0c), 0x7f)
	}
}

func TestMIDI(t *testing.T) {
	r := newRig(t, blaster.SB2)

	r.command(0x38, 0x90)
	test.ExpectEquality(t, r.midi.String(), "\x90")

	// UART mode sends everything to the MIDI port until reset
	r.command(0x35)
	r.command(0x3c, 0x7f, 0xe1)
	test.ExpectEquality(t, r.midi.String(), "\x90\x3c\x7f\xe1")
	test.ExpectEquality(t, len(r.card.Output()), 0)

	r.reset()
	test.ExpectEquality(t, r.read(0x0a), 0xaa)
	r.command(0xe1)
	test.ExpectEquality(t, r.read(0x0a), 0x02)
	test.ExpectEquality(t, r.midi.Len(), 4)
}

func TestOutputOverflow(t *testing.T) {
	r := newRig(t, blaster.SB16)
	for range 100 {
		r.command(0xf9, 0x37)
	}
	test.ExpectEquality(t, len(r.card.Output()), 64)
}
