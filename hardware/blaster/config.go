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
	"strings"

	"github.com/jetsetilly/gopherblaster/hardware/preferences"
)

// NoChannel is the value of a DMA channel field when the channel is not
// assigned.
const NoChannel = 0xff

// NoIRQ is the value of the IRQ field when the line is not assigned.
const NoIRQ = 0xff

// HW is the resource assignment of the card.
type HW struct {
	Base  uint16
	IRQ   uint8
	DMA8  uint8
	DMA16 uint8

	// odd ports outside of the mixer pair are decoded as the even port
	Alias bool
}

func (hw HW) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("base=%#03x", hw.Base))
	if hw.IRQ != NoIRQ {
		s.WriteString(fmt.Sprintf(" irq=%d", hw.IRQ))
	}
	if hw.DMA8 != NoChannel {
		s.WriteString(fmt.Sprintf(" dma=%d", hw.DMA8))
	}
	if hw.DMA16 != NoChannel {
		s.WriteString(fmt.Sprintf(" hdma=%d", hw.DMA16))
	}
	return s.String()
}

// Config is the construction time configuration of a card.
type Config struct {
	Variant Variant

	// name of the audio channel created for the card
	Name string

	Base  uint16
	IRQ   uint8
	DMA8  uint8
	DMA16 uint8

	// ViBRA cards can not be reconfigured through the mixer
	Vibra bool

	// a card without the mixer enabled does not change the volume of any
	// audio channel
	Mixer bool

	Goldplay       bool
	GoldplayStereo bool

	SampleRateLimits bool

	// the stereo bit of mixer register 0x0e only works on the Pro models
	StereoProOnly bool

	// SB16 style auto-init transfers stop until the previous interrupt has
	// been acknowledged
	RequireIRQAck bool

	// in nanoseconds
	WriteBusyDelay int

	// busy cycle seen through the write-status port. a rate of zero disables
	// the busy cycle
	BusyCycleRate   float64
	BusyCycleDuty   int
	BusyCycleAlways bool

	ListenToRecording bool

	FilterSB16 bool
}

// DefaultConfig returns the configuration used by a card of the variant
// when no preferences have been set.
func DefaultConfig(v Variant) Config {
	cfg := Config{
		Variant:          v,
		Name:             "SB",
		Base:             0x220,
		IRQ:              7,
		DMA8:             1,
		DMA16:            NoChannel,
		Mixer:            true,
		Goldplay:         true,
		GoldplayStereo:   true,
		SampleRateLimits: true,
		StereoProOnly:    true,
		RequireIRQAck:    v == SB16,
		WriteBusyDelay:   15000,
		FilterSB16:       true,
	}
	if v == SB16 {
		cfg.IRQ = 5
		cfg.DMA16 = 5
	}
	cfg.BusyCycleRate, cfg.BusyCycleDuty, cfg.BusyCycleAlways = defaultBusyCycle(v)
	return cfg
}

// busy cycle values for each variant. the original Sound Blaster has no
// observable busy cycle
func defaultBusyCycle(v Variant) (rate float64, duty int, always bool) {
	switch v {
	case SB1:
		return 0, 0, false
	case SB16:
		return 8000, 50, true
	}
	return 8000, 50, false
}

// NewConfig creates a Config from the hardware preferences.
func NewConfig(p *preferences.Preferences) (Config, error) {
	v, err := ParseVariant(p.Type.String())
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig(v)
	cfg.Vibra = p.Vibra.Get().(bool) || strings.EqualFold(p.Type.String(), "sb16vibra")
	cfg.Mixer = p.Mixer.Get().(bool)
	cfg.Goldplay = p.Goldplay.Get().(bool)
	cfg.GoldplayStereo = p.GoldplayStereo.Get().(bool)
	cfg.SampleRateLimits = p.SampleRateLimits.Get().(bool)
	cfg.ListenToRecording = p.ListenToRecording.Get().(bool)
	cfg.FilterSB16 = p.FilterSB16.Get().(bool)

	base := p.Base.Get().(int)
	if base < 0 || base > 0xfff0 {
		return Config{}, fmt.Errorf("blaster: base address out of range (%#x)", base)
	}
	cfg.Base = uint16(base)

	resource := func(n int) uint8 {
		if n < 0 {
			return NoChannel
		}
		return uint8(n)
	}
	cfg.IRQ = resource(p.IRQ.Get().(int))
	cfg.DMA8 = resource(p.DMA.Get().(int))
	cfg.DMA16 = resource(p.HDMA.Get().(int))
	if !v.IsSB16() {
		cfg.DMA16 = NoChannel
	}

	if cfg.RequireIRQAck, err = autoBool(p.RequireIRQAck.String(), cfg.RequireIRQAck); err != nil {
		return Config{}, fmt.Errorf("blaster: require irq ack: %w", err)
	}
	if cfg.BusyCycleAlways, err = autoBool(p.BusyCycleAlways.String(), cfg.BusyCycleAlways); err != nil {
		return Config{}, fmt.Errorf("blaster: busy cycle always: %w", err)
	}

	if n := p.WriteBusyDelay.Get().(int); n >= 0 {
		cfg.WriteBusyDelay = n
	}
	if n := p.BusyCycleRate.Get().(float64); n >= 0 {
		cfg.BusyCycleRate = n
	}
	if n := p.BusyCycleDuty.Get().(int); n >= 0 {
		cfg.BusyCycleDuty = n
	}

	return cfg, cfg.Validate()
}

// values of "auto", "true" and "false" style preferences
func autoBool(s string, auto bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case preferences.Auto, "":
		return auto, nil
	case "true", "on", "1", "yes":
		return true, nil
	case "false", "off", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("unrecognised value (%s)", s)
}

// Validate returns an error if the resource assignment is not possible.
func (cfg Config) Validate() error {
	if cfg.Base&0x0f != 0 {
		return fmt.Errorf("blaster: base address (%#x) is not aligned", cfg.Base)
	}
	if cfg.Base < 0x100 || cfg.Base > 0x3f0 {
		return fmt.Errorf("blaster: base address (%#x) is out of range", cfg.Base)
	}
	if cfg.IRQ != NoIRQ && cfg.IRQ > 15 {
		return fmt.Errorf("blaster: irq (%d) is out of range", cfg.IRQ)
	}
	if cfg.DMA8 != NoChannel && cfg.DMA8 > 3 {
		return fmt.Errorf("blaster: dma (%d) is not an 8 bit channel", cfg.DMA8)
	}
	if cfg.DMA16 != NoChannel && (cfg.DMA16 > 7 || cfg.DMA16 == 4) {
		return fmt.Errorf("blaster: hdma (%d) is not a usable channel", cfg.DMA16)
	}
	if cfg.BusyCycleDuty < 0 || cfg.BusyCycleDuty > 100 {
		return fmt.Errorf("blaster: busy cycle duty (%d) is not a percentage", cfg.BusyCycleDuty)
	}
	return nil
}

// Blaster returns the value of the BLASTER environment variable that
// describes the assignment. The 16 bit channel is only included for the
// SB16.
func (hw HW) Blaster(v Variant) string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("A%3x", hw.Base))
	if hw.IRQ != NoIRQ {
		s.WriteString(fmt.Sprintf(" I%d", hw.IRQ))
	}
	if hw.DMA8 != NoChannel {
		s.WriteString(fmt.Sprintf(" D%d", hw.DMA8))
	}
	if v.IsSB16() && hw.DMA16 != NoChannel {
		s.WriteString(fmt.Sprintf(" H%d", hw.DMA16))
	}
	s.WriteString(fmt.Sprintf(" T%d", v.blasterType()))
	return s.String()
}
