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

package soundsource

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/random"
)

// Names of the synthetic sources recognised by NewSource().
const (
	SilenceName = "silence"
	ToneName    = "tone"
	HissName    = "hiss"
)

// NewSource returns the source named by the recording source preference.
// Any value that is not the name of a synthetic source is treated as the
// path to a WAV or MP3 file.
func NewSource(env *environment.Environment, name string) (blaster.Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SilenceName, "":
		return Silence{}, nil
	case ToneName:
		return NewTone(440), nil
	case HissName:
		return NewHiss(env.Random), nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".mp3":
		return NewFile(env, name)
	}
	return nil, fmt.Errorf("soundsource: unrecognised source (%s)", name)
}

// Silence is a source that is always silent.
type Silence struct{}

// Fill implements the blaster.Source interface.
func (Silence) Fill(_ int, p []int16) {
	clear(p)
}

// Tone is a sine wave.
type Tone struct {
	Freq      float64
	Amplitude float64

	phase float64
}

// NewTone is the preferred method of initialisation for the Tone type. The
// amplitude is half of full scale.
func NewTone(freq float64) *Tone {
	return &Tone{
		Freq:      freq,
		Amplitude: math.MaxInt16 / 2,
	}
}

// Fill implements the blaster.Source interface.
func (t *Tone) Fill(rate int, p []int16) {
	if rate <= 0 {
		clear(p)
		return
	}
	step := 2 * math.Pi * t.Freq / float64(rate)
	for i := range p {
		p[i] = int16(math.Sin(t.phase) * t.Amplitude)
		t.phase = math.Mod(t.phase+step, 2*math.Pi)
	}
}

// Hiss is white noise. The noise depends on the virtual time at which it is
// requested.
type Hiss struct {
	rnd       *random.Random
	Amplitude int
}

// NewHiss is the preferred method of initialisation for the Hiss type.
func NewHiss(rnd *random.Random) *Hiss {
	return &Hiss{
		rnd:       rnd,
		Amplitude: math.MaxInt16 / 8,
	}
}

// Fill implements the blaster.Source interface.
func (h *Hiss) Fill(_ int, p []int16) {
	r := h.rnd.Stream()
	for i := range p {
		p[i] = int16(r.IntN(2*h.Amplitude+1) - h.Amplitude)
	}
}
