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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/gopherblaster/logger"
)

const logTag = "soundsource"

// File is a source that plays audio decoded from a file.
type File struct {
	Filename string

	// sample rate of the file
	rate int

	// mono data taken from the first channel of the file
	data []int16

	// position in data of the next sample
	pos float64
}

// NewFile decodes the WAV or MP3 file. The type of file is decided by the
// filename extension.
func NewFile(env logger.Permission, filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("soundsource: %w", err)
	}
	defer f.Close()

	src := &File{Filename: filename}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		err = src.decodeWAV(env, f)
	case ".mp3":
		err = src.decodeMP3(env, f)
	default:
		err = fmt.Errorf("unsupported file type (%s)", filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("soundsource: %w", err)
	}

	if len(src.data) == 0 || src.rate <= 0 {
		return nil, fmt.Errorf("soundsource: %s contains no audio", filename)
	}

	logger.Logf(env, logTag, "%s: %d samples at %dHz", filepath.Base(filename), len(src.data), src.rate)

	return src, nil
}

func (src *File) decodeWAV(env logger.Permission, r io.ReadSeeker) error {
	dec := wav.NewDecoder(r)
	if dec == nil {
		return fmt.Errorf("wav: error decoding")
	}
	if !dec.IsValidFile() {
		return fmt.Errorf("wav: not a valid wav file")
	}

	logger.Log(env, logTag, "loading from wav file")

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	// values in the buffer are in the range of the file's bit depth. 8 bit
	// files are unsigned
	conv := func(v int) int16 {
		switch dec.BitDepth {
		case 8:
			return int16((v - 128) << 8)
		case 24:
			return int16(v >> 8)
		case 32:
			return int16(v >> 16)
		}
		return int16(v)
	}

	// copy first channel only of data stream
	chans := max(int(dec.NumChans), 1)
	src.data = make([]int16, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		src.data = append(src.data, conv(buf.Data[i]))
	}

	src.rate = int(dec.SampleRate)

	return nil
}

func (src *File) decodeMP3(env logger.Permission, r io.Reader) error {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("mp3: %w", err)
	}

	logger.Log(env, logTag, "loading from mp3 file")

	// the decoded stream is always 16 bit little endian stereo. a frame is
	// four bytes and we only want the left channel
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			src.data = append(src.data, int16(uint16(chunk[i])|uint16(chunk[i+1])<<8))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return fmt.Errorf("mp3: %w", err)
		}
	}

	src.rate = dec.SampleRate()

	return nil
}

// Rate returns the sample rate of the file.
func (src *File) Rate() int {
	return src.rate
}

// Len returns the number of samples in the file.
func (src *File) Len() int {
	return len(src.data)
}

// Fill implements the blaster.Source interface. The file is resampled to the
// requested rate by repeating or skipping samples.
func (src *File) Fill(rate int, p []int16) {
	if rate <= 0 {
		clear(p)
		return
	}
	step := float64(src.rate) / float64(rate)
	n := float64(len(src.data))
	for i := range p {
		p[i] = src.data[int(src.pos)]
		src.pos += step
		for src.pos >= n {
			src.pos -= n
		}
	}
}
