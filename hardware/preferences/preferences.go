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

package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherblaster/curated"
	"github.com/jetsetilly/gopherblaster/prefs"
	"github.com/jetsetilly/gopherblaster/resources"
)

// Auto is the value used by preferences that are decided by the hardware
// variant.
const Auto = "auto"

// Preferences defines and collates all the preference values used by the
// hardware.
type Preferences struct {
	dsk *prefs.Disk

	// the sound card. see the blaster package for the list of card types
	Type prefs.String

	// resources used by the card. base address is normally 0x220 or 0x240
	Base  prefs.Int
	IRQ   prefs.Int
	DMA   prefs.Int
	HDMA  prefs.Int
	Vibra prefs.Bool

	// whether the card has a mixer. a card without a mixer always plays with
	// full volume
	Mixer prefs.Bool

	// goldplay is the single-sample DMA quirk. goldplay stereo compensates for
	// the quirk when the program is playing stereo audio
	Goldplay       prefs.Bool
	GoldplayStereo prefs.Bool

	// limit sample rates to those documented by Creative
	SampleRateLimits prefs.Bool

	// SB16 style DMA continuation. either "auto", "true" or "false"
	RequireIRQAck prefs.String

	// duration of the DSP write-busy state after each write, in nanoseconds
	WriteBusyDelay prefs.Int

	// the busy cycle seen through the write-status port, in Hz. a rate or
	// duty of -1 means the value is decided by the card type. BusyCycleAlways
	// is one of "auto", "true" or "false"
	BusyCycleRate   prefs.Float
	BusyCycleDuty   prefs.Int
	BusyCycleAlways prefs.String

	// the audio source when the guest is recording. one of "silence", "tone",
	// "hiss" or a path to a WAV or MP3 file
	RecordingSource prefs.String

	// whether recorded audio can be heard
	ListenToRecording prefs.Bool

	// the OPL companion chip. one of "auto", "none", "opl2", "dualopl2" or
	// "opl3"
	OPLMode prefs.String

	// whether the output filter is enabled on SB16 cards
	FilterSB16 prefs.Bool

	// the base address, IRQ and DMA channels in the form of the BLASTER
	// environment variable. eg. "A220 I5 D1 H5". not saved to disk
	Resources *prefs.Generic
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. The preferences are loaded from the global preferences
// file.
func NewPreferences() (*Preferences, error) {
	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

// NewPreferencesFromFile is like NewPreferences() but the preferences are
// loaded from the specified file.
func NewPreferencesFromFile(path string) (*Preferences, error) {
	return newPreferences(path)
}

func newPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	for _, e := range []struct {
		key string
		v   prefStorable
	}{
		{"sblaster.type", &p.Type},
		{"sblaster.base", &p.Base},
		{"sblaster.irq", &p.IRQ},
		{"sblaster.dma", &p.DMA},
		{"sblaster.hdma", &p.HDMA},
		{"sblaster.vibra", &p.Vibra},
		{"sblaster.mixer", &p.Mixer},
		{"sblaster.goldplay", &p.Goldplay},
		{"sblaster.goldplayStereo", &p.GoldplayStereo},
		{"sblaster.sampleRateLimits", &p.SampleRateLimits},
		{"sblaster.requireIRQAck", &p.RequireIRQAck},
		{"sblaster.writeBusyDelay", &p.WriteBusyDelay},
		{"sblaster.busyCycleRate", &p.BusyCycleRate},
		{"sblaster.busyCycleDuty", &p.BusyCycleDuty},
		{"sblaster.busyCycleAlways", &p.BusyCycleAlways},
		{"sblaster.recordingSource", &p.RecordingSource},
		{"sblaster.listenToRecording", &p.ListenToRecording},
		{"sblaster.oplMode", &p.OPLMode},
		{"sblaster.filterSB16", &p.FilterSB16},
	} {
		err = p.dsk.Add(e.key, e.v)
		if err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load()
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// the prefs.Disk.Add() function requires a type satisfying the unexported
// interface in the prefs package. this interface is a copy of it
type prefStorable interface {
	String() string
	Set(value prefs.Value) error
	Get() prefs.Value
	Reset() error
}

// NewDefaults returns preferences with default values that are not backed by
// a file. Load() and Save() have no effect.
func NewDefaults() *Preferences {
	p := &Preferences{}
	p.SetDefaults()
	return p
}

func (p *Preferences) setResources(s string) error {
	fields := strings.Fields(strings.ToUpper(s))
	if len(fields) == 0 {
		return nil
	}

	for _, f := range fields {
		if len(f) < 2 {
			return fmt.Errorf("preferences: malformed resource (%s)", f)
		}

		base := 10
		var v *prefs.Int
		switch f[0] {
		case 'A':
			base = 16
			v = &p.Base
		case 'I':
			v = &p.IRQ
		case 'D':
			v = &p.DMA
		case 'H':
			v = &p.HDMA
		default:
			continue
		}

		n, err := strconv.ParseInt(f[1:], base, 32)
		if err != nil {
			return fmt.Errorf("preferences: resource %c: %w", f[0], err)
		}
		if err := v.Set(int(n)); err != nil {
			return err
		}
	}

	return nil
}

func (p *Preferences) getResources() string {
	s := fmt.Sprintf("A%x I%d D%d", p.Base.Get().(int), p.IRQ.Get().(int), p.DMA.Get().(int))
	if h := p.HDMA.Get().(int); h >= 0 {
		s = fmt.Sprintf("%s H%d", s, h)
	}
	return s
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	if p.Resources == nil {
		p.Resources = prefs.NewGeneric(p.setResources, p.getResources)
	}
	p.Type.Set("SB16")
	p.Base.Set(0x220)
	p.IRQ.Set(7)
	p.DMA.Set(1)
	p.HDMA.Set(5)
	p.Vibra.Set(false)
	p.Mixer.Set(true)
	p.Goldplay.Set(true)
	p.GoldplayStereo.Set(true)
	p.SampleRateLimits.Set(true)
	p.RequireIRQAck.Set(Auto)
	p.WriteBusyDelay.Set(15000)
	p.BusyCycleRate.Set(-1.0)
	p.BusyCycleDuty.Set(-1)
	p.BusyCycleAlways.Set(Auto)
	p.RecordingSource.Set("silence")
	p.ListenToRecording.Set(false)
	p.OPLMode.Set(Auto)
	p.FilterSB16.Set(true)
}

// Load current hardware preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	err := p.dsk.Load()
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return err
	}
	return nil
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
