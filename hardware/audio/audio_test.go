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

package audio_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/audio"
	"github.com/jetsetilly/gopherblaster/logger"
	"github.com/jetsetilly/gopherblaster/test"
)

type clock struct {
	now float64
}

func (c *clock) NowMs() float64 {
	return c.now
}

type sink struct {
	frames []int16
	ended  bool
	resets int
	err    error
}

func (s *sink) SetAudio(frames []int16) error {
	s.frames = append(s.frames, frames...)
	return s.err
}

func (s *sink) EndMixing() error {
	s.ended = true
	return s.err
}

func (s *sink) Reset() {
	s.resets++
}

func TestSilentChannel(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 1000)
	calls := 0
	m.AddChannel("test", func(int) { calls++ }, 1000)

	clk.now = 10
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(out), 20)
	for _, v := range out {
		test.ExpectEquality(t, v, 0)
	}

	// disabled channels are not asked for audio
	test.ExpectEquality(t, calls, 0)
}

func TestSameRate(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 1000)

	var ch *audio.Channel
	var requested int
	ch = m.AddChannel("test", func(frames int) {
		requested += frames
		data := make([]uint8, frames)
		for i := range data {
			data[i] = 0xc0
		}
		ch.AddSamples8(frames, data, false, false)
	}, 1000)
	ch.Enable(true)

	clk.now = 5
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, requested, 5)
	test.DemandEquality(t, len(out), 10)
	for _, v := range out {
		test.ExpectEquality(t, v, 0x4000)
	}
}

func TestUpsample(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 2000)

	var ch *audio.Channel
	var requested int
	ch = m.AddChannel("test", func(frames int) {
		requested += frames
		data := make([]int16, frames*2)
		for i := range frames {
			data[i*2] = 1000
			data[i*2+1] = -1000
		}
		ch.AddSamples16(frames, data, true, true)
	}, 1000)
	ch.Enable(true)

	clk.now = 10
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(out), 40)

	// half as many source frames as output frames, give or take one for the
	// resampling position
	test.ExpectSuccess(t, requested >= 10 && requested <= 11, requested)

	// the first output frame is positioned on the first source frame so there
	// is no interpolation with the silence before it
	for i := range 20 {
		test.ExpectEquality(t, out[i*2], 1000, i)
		test.ExpectEquality(t, out[i*2+1], -1000, i)
	}
}

func TestFillUpPreservesGain(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 1000)

	var ch *audio.Channel
	ch = m.AddChannel("test", func(frames int) {
		data := make([]int16, frames)
		for i := range data {
			data[i] = 10000
		}
		ch.AddSamples16(frames, data, false, true)
	}, 1000)
	ch.Enable(true)

	clk.now = 4
	ch.FillUp()
	test.ExpectEquality(t, ch.Pending(), 4)
	ch.SetVolume(0.5, 0.5)

	clk.now = 8
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(out), 16)
	test.ExpectEquality(t, out[0], 10000)
	test.ExpectEquality(t, out[7], 10000)
	test.ExpectEquality(t, out[8], 5000)
	test.ExpectEquality(t, out[15], 5000)
	test.ExpectEquality(t, ch.Pending(), 0)
}

func TestStretchedAndSilence(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 1000)

	silence := false
	var ch *audio.Channel
	ch = m.AddChannel("dac", func(frames int) {
		if silence {
			ch.AddSilence()
			return
		}
		ch.AddStretched([]int16{100, 200})
	}, 8000)
	ch.Enable(true)

	clk.now = 4
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(out), 8)
	test.ExpectEquality(t, out[0], 100)
	test.ExpectEquality(t, out[2], 100)
	test.ExpectEquality(t, out[4], 200)
	test.ExpectEquality(t, out[6], 200)

	silence = true
	clk.now = 6
	out, err = m.Render()
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(out), 4)
	for _, v := range out {
		test.ExpectEquality(t, v, 0)
	}
}

func TestClipping(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 1000)

	for _, name := range []string{"a", "b"} {
		var ch *audio.Channel
		ch = m.AddChannel(name, func(frames int) {
			data := make([]int16, frames)
			for i := range data {
				data[i] = 30000
			}
			ch.AddSamples16(frames, data, false, true)
		}, 1000)
		ch.Enable(true)
	}

	clk.now = 1
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out[0], 32767)
	test.ExpectEquality(t, m.Clipped, 2)
}

func TestSinks(t *testing.T) {
	clk := &clock{}
	m := audio.NewMixer(logger.Deny, clk, 1000)
	m.AddChannel("test", nil, 1000)

	s := &sink{}
	m.AddSink(s)

	clk.now = 3
	_, err := m.Render()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(s.frames), 6)

	m.Reset()
	test.ExpectEquality(t, s.resets, 1)

	// the reset mixer is synchronised with the clock so nothing is due
	out, err := m.Render()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(out), 0)

	test.ExpectSuccess(t, m.EndMixing())
	test.ExpectSuccess(t, s.ended)

	s.err = errors.New("sink error")
	clk.now = 4
	_, err = m.Render()
	test.ExpectFailure(t, err)
	test.ExpectFailure(t, m.EndMixing())

	m.RemoveSink(s)
	clk.now = 5
	_, err = m.Render()
	test.ExpectSuccess(t, err)
}

func TestFindChannel(t *testing.T) {
	m := audio.NewMixer(logger.Deny, nil, 0)
	test.ExpectEquality(t, m.Rate(), audio.DefaultRate)

	ch := m.AddChannel("fm", nil, 49716)
	test.ExpectEquality(t, m.FindChannel("fm"), ch)
	m.RemoveChannel(ch)
	test.ExpectEquality(t, m.FindChannel("fm") == nil, true)
}
