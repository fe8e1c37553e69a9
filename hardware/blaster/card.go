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
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/hardware/audio"
	"github.com/jetsetilly/gopherblaster/hardware/blaster/adpcm"
	"github.com/jetsetilly/gopherblaster/hardware/blaster/fifo"
	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/scheduler"
	"github.com/jetsetilly/gopherblaster/hardware/timer"
	"github.com/jetsetilly/gopherblaster/logger"
)

// port offsets from the base address
const (
	portMixerIndex  = 0x04
	portMixerData   = 0x05
	portReset       = 0x06
	portReadData    = 0x0a
	portWriteData   = 0x0c
	portWriteStatus = 0x0c
	portReadStatus  = 0x0e
	portAck16       = 0x0f
)

// scheduled event kinds
const (
	evBusyComplete = iota
	evFinishReset
	evEndDMA
	evSilentDMA
	evDACDMA
	evRaiseIRQ8
)

// the number of samples kept for direct DAC output
const dacSize = 512

type dac struct {
	data [dacSize]int16
	used int
}

func (d *dac) add(v ...int16) bool {
	if d.used+len(v) > dacSize {
		return false
	}
	d.used += copy(d.data[d.used:], v)
	return true
}

// Card is a single Sound Blaster card.
type Card struct {
	env  *environment.Environment
	cfg  Config
	conn Connections

	variant Variant
	hw      HW

	channel      MixerChannel
	audioChannel *audio.Channel

	handles []iobus.Handle

	mode    Mode
	speaker bool

	dsp   dsp
	dma   stream
	dac   dac
	mixer mixer
	adpcm adpcm.State
	asp   asp
	ess   ess
	irq   irqState

	// configuration byte of the SC400
	sc400 uint8

	// state of the 0xe2 identification command
	e2 struct {
		value uint8
		count int
	}

	// busy cycle seen through the write status port
	busy *timer.BusyCycle

	// sample rate as set by commands 0x40, 0x41 and 0x42
	freq         int
	timeConstant uint8
}

// NewCard is the preferred method of initialisation for the Card type. The
// card creates an audio channel and installs itself on the bus.
func NewCard(env *environment.Environment, cfg Config, conn Connections) (*Card, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if conn.Bus == nil || conn.IRQ == nil || conn.DMA == nil || conn.Scheduler == nil || conn.Mixer == nil {
		return nil, fmt.Errorf("blaster: card is not fully connected")
	}
	if cfg.Name == "" {
		cfg.Name = "SB"
	}

	c := &Card{
		env:     env,
		cfg:     cfg,
		conn:    conn,
		variant: cfg.Variant,
		hw: HW{
			Base:  cfg.Base,
			IRQ:   cfg.IRQ,
			DMA8:  cfg.DMA8,
			DMA16: cfg.DMA16,
			Alias: cfg.Variant.Aliased(),
		},
		busy: timer.NewBusyCycle(cfg.BusyCycleRate, cfg.BusyCycleDuty, cfg.BusyCycleAlways),
	}
	c.dsp.out = fifo.NewRing(outputSize)
	c.dsp.lastval = 0xaa
	c.dsp.state = dspNormal
	c.dma.channel = NoChannel

	c.audioChannel = conn.Mixer.AddChannel(cfg.Name, c.PullSamples, 22050)
	c.channel = c.audioChannel

	if err := c.install(); err != nil {
		conn.Mixer.RemoveChannel(c.audioChannel)
		return nil, err
	}

	c.asp.reset()
	c.dspReset()
	c.resetMixer()

	c.speaker = false
	c.channel.Enable(c.variant.IsSB16())

	logger.Logf(c.env, "sb", "%s %s", c.variant, c.hw)

	return c, nil
}

func (c *Card) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s %s mode=%s", c.variant, c.hw, c.mode))
	if c.dma.mode != DMANone {
		s.WriteString(fmt.Sprintf(" [%s]", c.dma.String()))
	}
	if c.irq.pending8 {
		s.WriteString(" irq8")
	}
	if c.irq.pending16 {
		s.WriteString(" irq16")
	}
	return s.String()
}

// Variant returns the model of card.
func (c *Card) Variant() Variant {
	return c.variant
}

// HW returns the current resource assignment.
func (c *Card) HW() HW {
	return c.hw
}

// Channel returns the audio channel of the card.
func (c *Card) Channel() *audio.Channel {
	return c.audioChannel
}

// Speaker returns true if the speaker is enabled.
func (c *Card) Speaker() bool {
	return c.speaker
}

// AttachSource changes the audio heard by the card when the guest is
// recording. A nil source is silence.
func (c *Card) AttachSource(src Source) {
	c.conn.Source = src
}

// AttachMIDI changes the destination of bytes sent to the MIDI port.
func (c *Card) AttachMIDI(w io.Writer) {
	c.conn.MIDI = w
}

// Blaster returns the value of the BLASTER environment variable for the
// card. The string is empty if the card has no IRQ or 8 bit DMA channel.
func (c *Card) Blaster() string {
	if c.hw.IRQ == NoIRQ || c.hw.DMA8 == NoChannel {
		return ""
	}
	return c.hw.Blaster(c.variant)
}

// the ports decoded by the card. the OPL ports are forwarded when an OPL
// is connected
func (c *Card) callouts() []iobus.Callout {
	read := func(port uint16, _ iobus.Width) uint32 {
		return uint32(c.ReadPort(port))
	}
	write := func(port uint16, value uint32, _ iobus.Width) {
		c.WritePort(port, uint8(value))
	}

	base := c.hw.Base
	var cs []iobus.Callout

	if c.variant.HasMixer() {
		cs = append(cs, iobus.Callout{Name: "sb mixer", Port: base + 0x04, Range: 4, Read: read, Write: write})
	} else {
		cs = append(cs, iobus.Callout{Name: "sb reset", Port: base + 0x06, Range: 2, Read: read, Write: write})
	}
	cs = append(cs,
		iobus.Callout{Name: "sb read data", Port: base + 0x0a, Range: 2, Read: read, Write: write},
		iobus.Callout{Name: "sb dsp", Port: base + 0x0c, Range: 4, Read: read, Write: write},
	)

	if c.conn.OPL != nil {
		oplRead := func(port uint16, _ iobus.Width) uint32 {
			return uint32(c.conn.OPL.ReadPort(port))
		}
		oplWrite := func(port uint16, value uint32, _ iobus.Width) {
			c.conn.OPL.WritePort(port, uint8(value))
		}
		if c.variant.HasStereoOPL() {
			cs = append(cs, iobus.Callout{Name: "sb opl", Port: base, Range: 4, Read: oplRead, Write: oplWrite})
		}
		cs = append(cs, iobus.Callout{Name: "sb opl", Port: base + 0x08, Range: 2, Read: oplRead, Write: oplWrite})
	}

	return cs
}

func (c *Card) install() error {
	for _, co := range c.callouts() {
		h, err := c.conn.Bus.Install(co)
		if err != nil {
			c.uninstall()
			return fmt.Errorf("blaster: %w", err)
		}
		c.handles = append(c.handles, h)
	}
	return nil
}

func (c *Card) uninstall() {
	for _, h := range c.handles {
		c.conn.Bus.Uninstall(h)
	}
	c.handles = c.handles[:0]
}

// Relocate moves the card to a new base address. The DSP is reset and any
// transfer in progress is stopped.
func (c *Card) Relocate(base uint16) error {
	cfg := c.cfg
	cfg.Base = base
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.dspReset()
	c.dsp.state = dspNormal
	c.uninstall()
	c.cfg.Base = base
	c.hw.Base = base
	if err := c.install(); err != nil {
		return err
	}
	logger.Logf(c.env, "sb", "relocated to %#03x", base)
	return nil
}

// Remove the card from the machine. The card should not be used afterwards.
func (c *Card) Remove() {
	c.dspReset()
	c.conn.Scheduler.CancelTarget(c)
	c.unregisterListener()
	c.uninstall()
	c.conn.Mixer.RemoveChannel(c.audioChannel)
}

// Reset the card as though the machine has been reset.
func (c *Card) Reset() {
	c.dspReset()
	c.dsp.state = dspNormal
	c.dsp.lastval = 0xaa
	c.dsp.midiUART = false
	c.dsp.midiPoll = false
	c.asp.reset()
	c.ess.reset()
	c.sc400 = 0
	c.resetMixer()
	c.mixer.stereo = false
	c.mixer.filtered = false
	c.speaker = false
	c.channel.Enable(c.variant.IsSB16())
	c.busy.Reset()
}

func (c *Card) schedule(kind int, delay float64, token int) {
	c.conn.Scheduler.ScheduleEvent(scheduler.Callback{Target: c, Kind: kind}, delay, token)
}

func (c *Card) cancel(kind int) {
	c.conn.Scheduler.CancelEvents(scheduler.Callback{Target: c, Kind: kind})
}

// HandleEvent implements the scheduler.Target interface.
func (c *Card) HandleEvent(kind int, token int) {
	switch kind {
	case evBusyComplete:
		c.dsp.writeBusy = false
	case evFinishReset:
		c.finishReset()
	case evEndDMA:
		c.generate(token)
	case evSilentDMA:
		c.silentTransfer(token)
	case evDACDMA:
		c.dacTransfer()
	case evRaiseIRQ8:
		c.raiseIRQ(irq8)
	default:
		logger.Logf(c.env, "sb", "unknown event kind %d", kind)
	}
}

// the port offset after aliasing
func (c *Card) offset(port uint16) uint16 {
	off := port - c.hw.Base
	if !c.hw.Alias || off == portMixerIndex || off == portMixerData {
		return off
	}
	if c.variant == ESS688 && off == portAck16 {
		return off
	}
	return off &^ 1
}

// ReadPort handles a read from one of the card's ports.
func (c *Card) ReadPort(port uint16) uint8 {
	switch c.offset(port) {
	case portMixerIndex:
		return c.mixer.index
	case portMixerData:
		return c.readMixer()
	case portReadData:
		return c.readData()
	case portWriteStatus:
		return c.writeStatus()
	case portReadStatus:
		c.ackIRQ(irq8)
		if c.dsp.out.Len() > 0 {
			return 0xff
		}
		return 0x7f
	case portAck16:
		c.ackIRQ(irq16)
		return 0xff
	case portReset:
		return 0xff
	}
	logger.Logf(c.env, "sb", "unhandled read from port %#04x", port)
	return 0xff
}

// WritePort handles a write to one of the card's ports.
func (c *Card) WritePort(port uint16, val uint8) {
	switch c.offset(port) {
	case portReset:
		c.doReset(val)
	case portWriteData:
		c.dspWrite(val)
	case portMixerIndex:
		c.mixer.index = val
	case portMixerData:
		c.writeMixer(val)
	default:
		logger.Logf(c.env, "sb", "unhandled write to port %#04x", port)
	}
}

// setSpeaker turns the speaker on or off. The SB16 speaker is always on.
func (c *Card) setSpeaker(on bool) {
	if c.speaker == on {
		return
	}
	c.speaker = on
	if c.variant.IsSB16() {
		return
	}
	c.channel.FillUp()
	c.channel.Enable(on)
	if on {
		c.cancel(evSilentDMA)
		c.checkDMAEnd()
	} else if c.mode == ModeDMA && !c.dma.dacMode {
		c.cancel(evEndDMA)
		c.checkDMAEnd()
	}
}
