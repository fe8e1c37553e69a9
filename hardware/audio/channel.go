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

	"github.com/jetsetilly/gopherblaster/hardware/audio/mix"
)

// Handler is called by the mixer when the channel needs more audio. The
// frames argument is in source frames at the frequency of the channel.
type Handler func(frames int)

// a resampled and scaled frame. values are not clipped until the channels are
// mixed
type frame [2]int32

// Channel is a single source of audio.
type Channel struct {
	mixer *Mixer

	Name    string
	handler Handler
	enabled bool

	// source frequency and the step through the source for each output
	// frame
	freq int
	step float64

	// linear gain for each side
	gain [2]float32

	// output frames that have not yet been mixed
	out []frame

	// number of output frames that the current call to the handler should
	// produce. zero when the handler is not being called
	want int

	// position of the next output frame between prev (0) and the next source
	// frame (1)
	pos  float64
	prev [2]int16

	// total number of source frames added to the channel
	Added int
}

func (ch *Channel) String() string {
	en := ""
	if !ch.enabled {
		en = " disabled"
	}
	return fmt.Sprintf("%s %dHz gain=%.3f/%.3f%s", ch.Name, ch.freq, ch.gain[0], ch.gain[1], en)
}

// SetFreq sets the source frequency of the channel. Callers should call
// FillUp() first if the change happens part way through a frame.
func (ch *Channel) SetFreq(hz int) {
	if hz <= 0 {
		hz = 1
	}
	ch.freq = hz
	ch.step = float64(hz) / float64(ch.mixer.rate)
}

// Freq returns the source frequency of the channel.
func (ch *Channel) Freq() int {
	return ch.freq
}

// Enable or disable the channel. A disabled channel is silent and the handler
// is not called.
func (ch *Channel) Enable(enabled bool) {
	ch.enabled = enabled
}

// IsEnabled returns true if the channel is enabled.
func (ch *Channel) IsEnabled() bool {
	return ch.enabled
}

// SetVolume sets the linear gain of each side.
func (ch *Channel) SetVolume(left float32, right float32) {
	ch.gain = [2]float32{left, right}
}

// Volume returns the linear gain of each side.
func (ch *Channel) Volume() (float32, float32) {
	return ch.gain[0], ch.gain[1]
}

// FillUp produces the audio for the channel up to the current time.
func (ch *Channel) FillUp() {
	ch.mixer.FillUp(ch)
}

// Pending returns the number of output frames that have been produced but
// not yet mixed.
func (ch *Channel) Pending() int {
	return len(ch.out)
}

// the number of source frames required to produce the number of output
// frames
func (ch *Channel) framesFor(outputs int) int {
	if outputs <= 0 {
		return 0
	}
	return int(math.Ceil(ch.pos + float64(outputs-1)*ch.step))
}

// fill the output buffer to n frames
func (ch *Channel) fill(n int) {
	if len(ch.out) >= n {
		return
	}

	if ch.enabled && ch.handler != nil {
		ch.want = n
		ch.handler(ch.framesFor(n - len(ch.out)))
		ch.want = 0
	}

	// a handler that doesn't produce enough leaves silence
	for len(ch.out) < n {
		ch.out = append(ch.out, frame{})
	}
}

// resample a single source frame into the output buffer
func (ch *Channel) push(left int16, right int16) {
	ch.Added++
	for ch.pos <= 1 {
		l := float64(ch.prev[0]) + (float64(left)-float64(ch.prev[0]))*ch.pos
		r := float64(ch.prev[1]) + (float64(right)-float64(ch.prev[1]))*ch.pos
		ch.out = append(ch.out, frame{
			int32(l * float64(ch.gain[0])),
			int32(r * float64(ch.gain[1])),
		})
		ch.pos += ch.step
	}
	ch.pos -= 1
	ch.prev = [2]int16{left, right}
}

// AddSamples8 adds 8 bit audio to the channel. The data is interleaved if
// the stereo flag is set.
func (ch *Channel) AddSamples8(frames int, data []uint8, stereo bool, signed bool) {
	conv := mix.Unsigned8
	if signed {
		conv = mix.Signed8
	}
	for i := range frames {
		if stereo {
			ch.push(conv(data[i*2]), conv(data[i*2+1]))
		} else {
			v := conv(data[i])
			ch.push(v, v)
		}
	}
}

// AddSamples16 adds 16 bit audio to the channel. Unsigned audio is in the
// same slice type as signed audio.
func (ch *Channel) AddSamples16(frames int, data []int16, stereo bool, signed bool) {
	conv := func(v int16) int16 {
		if signed {
			return v
		}
		return mix.Unsigned16(uint16(v))
	}
	for i := range frames {
		if stereo {
			ch.push(conv(data[i*2]), conv(data[i*2+1]))
		} else {
			v := conv(data[i])
			ch.push(v, v)
		}
	}
}

// AddSilence fills the remainder of the current request with silence. Has no
// effect outside of the handler.
func (ch *Channel) AddSilence() {
	for len(ch.out) < ch.want {
		ch.out = append(ch.out, frame{})
	}
	ch.prev = [2]int16{}
	ch.pos = 1
}

// AddStretched stretches the mono samples over the remainder of the current
// request. Has no effect outside of the handler.
func (ch *Channel) AddStretched(data []int16) {
	remain := ch.want - len(ch.out)
	if remain <= 0 || len(data) == 0 {
		return
	}
	for i := range remain {
		v := data[i*len(data)/remain]
		ch.out = append(ch.out, frame{
			mix.Scale(v, ch.gain[0]),
			mix.Scale(v, ch.gain[1]),
		})
	}
	ch.Added += len(data)
	ch.prev = [2]int16{data[len(data)-1], data[len(data)-1]}
	ch.pos = 1
}

// AddStretchedStereo is like AddStretched() but the data is interleaved
// stereo.
func (ch *Channel) AddStretchedStereo(data []int16) {
	remain := ch.want - len(ch.out)
	frames := len(data) / 2
	if remain <= 0 || frames == 0 {
		return
	}
	for i := range remain {
		f := i * frames / remain
		ch.out = append(ch.out, frame{
			mix.Scale(data[f*2], ch.gain[0]),
			mix.Scale(data[f*2+1], ch.gain[1]),
		})
	}
	ch.Added += frames
	ch.prev = [2]int16{data[frames*2-2], data[frames*2-1]}
	ch.pos = 1
}
