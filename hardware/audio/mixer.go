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

package audio

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jetsetilly/gopherblaster/hardware/audio/mix"
	"github.com/jetsetilly/gopherblaster/logger"
)

// DefaultRate is the output rate of the mixer used by the machine.
const DefaultRate = 44100

// Clock is the source of virtual time.
type Clock interface {
	NowMs() float64
}

// Sink implementations receive the rendered output of the mixer.
type Sink interface {
	// SetAudio receives interleaved stereo frames. The slice should not be
	// retained
	SetAudio(frames []int16) error

	// EndMixing is called when no more audio will be rendered
	EndMixing() error

	// Reset is called when the machine is reset
	Reset()
}

// Mixer combines the audio of all channels.
type Mixer struct {
	env   logger.Permission
	clock Clock
	rate  int

	channels []*Channel
	sinks    []Sink

	// number of frames rendered since time zero
	rendered int64

	// interleaved output of the most recent render
	buffer []int16

	// number of clipped samples since the mixer was created
	Clipped int
}

// NewMixer is the preferred method of initialisation for the Mixer type.
func NewMixer(env logger.Permission, clock Clock, rate int) *Mixer {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Mixer{
		env:   env,
		clock: clock,
		rate:  rate,
	}
}

func (m *Mixer) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("mixer %dHz", m.rate))
	for _, ch := range m.channels {
		s.WriteString("\n  ")
		s.WriteString(ch.String())
	}
	return s.String()
}

// Rate returns the output rate of the mixer.
func (m *Mixer) Rate() int {
	return m.rate
}

// AddChannel creates a new channel. The channel is disabled and has a gain of
// one.
func (m *Mixer) AddChannel(name string, handler Handler, freq int) *Channel {
	ch := &Channel{
		mixer:   m,
		Name:    name,
		handler: handler,
		gain:    [2]float32{1.0, 1.0},
		pos:     1,
	}
	ch.SetFreq(freq)
	m.channels = append(m.channels, ch)
	return ch
}

// RemoveChannel removes the channel from the mixer.
func (m *Mixer) RemoveChannel(ch *Channel) {
	m.channels = slices.DeleteFunc(m.channels, func(c *Channel) bool {
		return c == ch
	})
}

// FindChannel returns the channel with the name or nil if there is no such
// channel.
func (m *Mixer) FindChannel(name string) *Channel {
	for _, ch := range m.channels {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

// AddSink adds a Sink that receives the rendered audio.
func (m *Mixer) AddSink(s Sink) {
	m.sinks = append(m.sinks, s)
}

// RemoveSink removes a Sink from the mixer.
func (m *Mixer) RemoveSink(s Sink) {
	m.sinks = slices.DeleteFunc(m.sinks, func(o Sink) bool {
		return o == s
	})
}

// number of frames between the last render and now
func (m *Mixer) due() int {
	var now float64
	if m.clock != nil {
		now = m.clock.NowMs()
	}
	n := int64(math.Floor(now*float64(m.rate)/1000)) - m.rendered
	if n < 0 {
		return 0
	}
	return int(n)
}

// FillUp produces the audio for the channel up to the current time.
func (m *Mixer) FillUp(ch *Channel) {
	ch.fill(m.due())
}

// Render mixes the audio of all channels up to the current time and sends it
// to the sinks. The rendered audio is returned and is valid until the next
// call to Render().
func (m *Mixer) Render() ([]int16, error) {
	n := m.due()

	m.buffer = slices.Grow(m.buffer[:0], n*2)[:n*2]
	mixed := make([]int32, n*2)

	for _, ch := range m.channels {
		ch.fill(n)
		for i, f := range ch.out[:n] {
			mixed[i*2] += f[0]
			mixed[i*2+1] += f[1]
		}
		ch.out = ch.out[:copy(ch.out, ch.out[n:])]
	}

	for i, v := range mixed {
		c := mix.Clip(v)
		if int32(c) != v {
			m.Clipped++
		}
		m.buffer[i] = c
	}

	m.rendered += int64(n)

	for _, s := range m.sinks {
		if err := s.SetAudio(m.buffer); err != nil {
			return m.buffer, fmt.Errorf("audio: %w", err)
		}
	}

	return m.buffer, nil
}

// EndMixing tells every sink that no more audio will be rendered.
func (m *Mixer) EndMixing() error {
	var errs []string
	for _, s := range m.sinks {
		if err := s.EndMixing(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		logger.Logf(m.env, "audio", "end mixing: %s", strings.Join(errs, "; "))
		return fmt.Errorf("audio: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Reset discards unmixed audio and resynchronises the mixer with the clock.
func (m *Mixer) Reset() {
	for _, ch := range m.channels {
		ch.out = ch.out[:0]
		ch.pos = 1
		ch.prev = [2]int16{}
	}
	m.rendered = 0
	if m.clock != nil {
		m.rendered = int64(math.Floor(m.clock.NowMs() * float64(m.rate) / 1000))
	}
	for _, s := range m.sinks {
		s.Reset()
	}
}
