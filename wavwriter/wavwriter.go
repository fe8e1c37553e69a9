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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data rendered by the mixer is buffered in memory in its
// entirety and written to disk when mixing ends.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopherblaster/logger"
)

// WavWriter implements the audio.Sink interface.
type WavWriter struct {
	filename string
	rate     int

	// interleaved stereo samples
	buffer []int
}

// New is the preferred method of initialisation for the WavWriter type. The
// rate is the rate of the mixer that the WavWriter is added to.
func New(filename string, rate int) (*WavWriter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("wavwriter: bad sample rate (%d)", rate)
	}
	return &WavWriter{
		filename: filename,
		rate:     rate,
	}, nil
}

// SetAudio implements the audio.Sink interface.
func (aw *WavWriter) SetAudio(frames []int16) error {
	for _, v := range frames {
		aw.buffer = append(aw.buffer, int(v))
	}
	return nil
}

// Frames returns the number of stereo frames waiting to be written.
func (aw *WavWriter) Frames() int {
	return len(aw.buffer) / 2
}

// EndMixing implements the audio.Sink interface.
func (aw *WavWriter) EndMixing() error {
	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)
	return WriteFile(aw.filename, aw.rate, 2, 16, aw.buffer)
}

// Reset implements the audio.Sink interface.
func (aw *WavWriter) Reset() {
	aw.buffer = aw.buffer[:0]
}

// WriteFile writes PCM data to a new WAV file. Data for 8 bit files is
// unsigned and data for 16 bit files is signed. Multi-channel data is
// interleaved.
func WriteFile(filename string, rate int, channels int, bits int, data []int) (rerr error) {
	if bits != 8 && bits != 16 {
		return fmt.Errorf("wavwriter: unsupported bit depth (%d)", bits)
	}
	if channels < 1 {
		return fmt.Errorf("wavwriter: bad number of channels (%d)", channels)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	// audio format 1 is uncompressed PCM
	enc := wav.NewEncoder(f, rate, bits, channels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  rate,
		},
		Data:           data,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}
