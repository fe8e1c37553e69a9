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

//go:build !headless

package otoaudio

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/gopherblaster/logger"
)

// the amount of audio, in milliseconds, that can be waiting for the device
const bufferMs = 100

// the longest time EndMixing() waits for the device to play what remains
const drainTimeout = time.Second

// Audio implements the audio.Sink interface.
type Audio struct {
	env    logger.Permission
	ctx    *oto.Context
	player *oto.Player
	buffer *buffer
	rate   int
}

// Available returns true if the package was built with sound device support.
func Available() bool {
	return true
}

// NewAudio is the preferred method of initialisation for the Audio type. The
// rate is the rate of the mixer that the Audio is added to.
func NewAudio(env logger.Permission, rate int) (*Audio, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("otoaudio: bad sample rate (%d)", rate)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("otoaudio: %w", err)
	}
	<-ready

	aud := &Audio{
		env:    env,
		ctx:    ctx,
		buffer: newBuffer(rate * frameBytes * bufferMs / 1000),
		rate:   rate,
	}
	aud.player = ctx.NewPlayer(aud.buffer)
	aud.player.Play()

	logger.Logf(env, "otoaudio", "playing at %dHz", rate)

	return aud, nil
}

// SetAudio implements the audio.Sink interface.
func (aud *Audio) SetAudio(frames []int16) error {
	if err := aud.ctx.Err(); err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	aud.buffer.push(frames)
	return nil
}

// EndMixing implements the audio.Sink interface.
func (aud *Audio) EndMixing() error {
	deadline := time.Now().Add(drainTimeout)
	for aud.buffer.pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	aud.buffer.close()
	err := aud.player.Close()

	aud.buffer.crit.Lock()
	underruns := aud.buffer.underruns
	aud.buffer.crit.Unlock()
	if underruns > 0 {
		logger.Logf(aud.env, "otoaudio", "%d underruns", underruns)
	}

	if err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	return nil
}

// Reset implements the audio.Sink interface.
func (aud *Audio) Reset() {
	aud.buffer.reset()
}
