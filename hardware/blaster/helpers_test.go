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
	"bytes"
	"testing"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/hardware/audio"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/dma"
	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/pic"
	"github.com/jetsetilly/gopherblaster/hardware/scheduler"
	"github.com/jetsetilly/gopherblaster/test"
)

// a card with everything it is connected to
type rig struct {
	sched *scheduler.Scheduler
	bus   *iobus.Bus
	pic   *pic.PIC
	dma   *dma.Controller
	mixer *audio.Mixer
	card  *blaster.Card
	cfg   blaster.Config

	// bytes sent to the MIDI port
	midi bytes.Buffer
}

// the rig card has no write delay or busy cycle so that every DSP write is
// accepted. the options are applied to the configuration before the card is
// created
func newRig(t *testing.T, v blaster.Variant, opts ...func(*blaster.Config)) *rig {
	t.Helper()
	return newRigWithSource(t, v, nil, opts...)
}

// as newRig() but the card records from the source
func newRigWithSource(t *testing.T, v blaster.Variant, src blaster.Source, opts ...func(*blaster.Config)) *rig {
	t.Helper()

	r := &rig{}
	r.sched = scheduler.NewScheduler()
	env := environment.NewEnvironment(environment.Throwaway, r.sched, nil)
	r.bus = iobus.NewBus(env)
	r.pic = pic.NewPIC(env)

	var err error
	r.dma, err = dma.NewController(env, 0)
	test.DemandSuccess(t, err)

	r.mixer = audio.NewMixer(env, r.sched, audio.DefaultRate)

	r.cfg = blaster.DefaultConfig(v)
	r.cfg.WriteBusyDelay = 0
	r.cfg.BusyCycleRate = 0
	r.cfg.SampleRateLimits = false
	for _, o := range opts {
		o(&r.cfg)
	}

	r.card, err = blaster.NewCard(env, r.cfg, blaster.Connections{
		Bus:       r.bus,
		IRQ:       r.pic,
		DMA:       r.dma,
		Scheduler: r.sched,
		Mixer:     r.mixer,
		MIDI:      &r.midi,
		Source:    src,
	})
	test.DemandSuccess(t, err)

	return r
}

func (r *rig) write(offset uint16, v uint8) {
	r.bus.WriteByte(r.cfg.Base+offset, v)
}

func (r *rig) read(offset uint16) uint8 {
	return r.bus.ReadByte(r.cfg.Base + offset)
}

// send bytes to the DSP
func (r *rig) command(b ...uint8) {
	for _, v := range b {
		r.write(0x0c, v)
	}
}

// read n bytes from the DSP
func (r *rig) response(n int) []uint8 {
	var b []uint8
	for range n {
		b = append(b, r.read(0x0a))
	}
	return b
}

func (r *rig) setMixer(reg uint8, v uint8) {
	r.write(0x04, reg)
	r.write(0x05, v)
}

func (r *rig) getMixer(reg uint8) uint8 {
	r.write(0x04, reg)
	return r.read(0x05)
}

// the reset handshake. leaves 0xaa in the output
func (r *rig) reset() {
	r.write(0x06, 0x01)
	r.write(0x06, 0x00)
	r.sched.Advance(0.05)
}

// put data in memory and program the channel to play it
func (r *rig) program(channel int, addr uint32, data []byte, autoInit bool) *dma.Channel {
	ch := r.dma.Channel(channel)
	r.dma.Poke(addr, data)
	count := len(data)
	if ch.Is16 {
		count /= 2
	}
	ch.Program(addr, count, autoInit, dma.FromMemory)
	return ch
}

func (r *rig) irqLine() uint8 {
	irq := r.card.HW().IRQ
	if irq == 2 {
		return 9
	}
	return irq
}

func ramp(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = uint8(i)
	}
	return b
}
