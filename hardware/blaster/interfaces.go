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
	"io"

	"github.com/jetsetilly/gopherblaster/hardware/audio"
	"github.com/jetsetilly/gopherblaster/hardware/dma"
	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/opl"
	"github.com/jetsetilly/gopherblaster/hardware/scheduler"
)

// InterruptController is the part of the interrupt controller used by the
// card. Lines are level triggered.
type InterruptController interface {
	Activate(irq uint8)
	Deactivate(irq uint8)
}

// DMAController returns the channels that the card transfers through. The
// card looks up the channel every time it is needed so that the assignment
// can change while the card is running.
type DMAController interface {
	Channel(n int) *dma.Channel
}

// Scheduler is the source of virtual time and events.
type Scheduler interface {
	NowMs() float64
	ScheduleEvent(cb scheduler.Callback, delay float64, token int)
	CancelEvents(cb scheduler.Callback)
	CancelTarget(t scheduler.Target)
	HasPending(cb scheduler.Callback) bool
}

// MixerChannel is the audio channel that the card produces samples for.
type MixerChannel interface {
	SetFreq(hz int)
	Enable(enabled bool)
	IsEnabled() bool
	SetVolume(left float32, right float32)
	FillUp()
	AddSamples8(frames int, data []uint8, stereo bool, signed bool)
	AddSamples16(frames int, data []int16, stereo bool, signed bool)
	AddSilence()
	AddStretched(data []int16)
	AddStretchedStereo(data []int16)
}

// Mixer creates and finds channels.
type Mixer interface {
	AddChannel(name string, handler audio.Handler, freq int) *audio.Channel
	RemoveChannel(ch *audio.Channel)
	FindChannel(name string) *audio.Channel
}

// Source produces the audio heard by the card when it is recording.
type Source interface {
	// Fill the slice with mono samples at the rate
	Fill(rate int, p []int16)
}

// Connections are the parts of the machine that the card is connected to.
type Connections struct {
	Bus       *iobus.Bus
	IRQ       InterruptController
	DMA       DMAController
	Scheduler Scheduler
	Mixer     Mixer

	// the OPL decoded at the start of the card's port range. can be nil
	OPL *opl.OPL

	// recording source. a nil source is silence
	Source Source

	// bytes sent to the MIDI port. can be nil
	MIDI io.Writer
}
