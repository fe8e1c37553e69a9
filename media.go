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

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/gopherblaster/guest"
	"github.com/jetsetilly/gopherblaster/voc"
	"github.com/jetsetilly/gopherblaster/wavwriter"
)

// openMedia loads a WAV or VOC file for playback. 8 bit data is unsigned and
// 16 bit data is signed, as expected by the guest driver.
func openMedia(filename string) (guest.Format, io.Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".voc":
		snd, err := voc.Load(filename)
		if err != nil {
			return guest.Format{}, nil, err
		}
		f := guest.Format{Rate: snd.Rate, Channels: snd.Channels, Bits: snd.Bits}
		return f, bytes.NewReader(snd.Data), f.Validate()
	case ".wav":
		return openWAV(filename)
	}
	return guest.Format{}, nil, fmt.Errorf("unsupported file type (%s)", filepath.Ext(filename))
}

func openWAV(filename string) (guest.Format, io.Reader, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return guest.Format{}, nil, err
	}
	defer fh.Close()

	dec := wav.NewDecoder(fh)
	if !dec.IsValidFile() {
		return guest.Format{}, nil, fmt.Errorf("not a valid wav file (%s)", filename)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return guest.Format{}, nil, fmt.Errorf("wav: %w", err)
	}

	f := guest.Format{
		Rate:     int(dec.SampleRate),
		Channels: int(dec.NumChans),
		Bits:     16,
	}

	// anything with more than two channels is reduced to the first two
	chans := max(f.Channels, 1)
	f.Channels = min(chans, 2)

	var data []byte
	for i := 0; i+chans <= len(buf.Data); i += chans {
		for c := range f.Channels {
			v := buf.Data[i+c]
			switch dec.BitDepth {
			case 8:
				v = (v - 128) << 8
			case 24:
				v >>= 8
			case 32:
				v >>= 16
			}
			data = binary.LittleEndian.AppendUint16(data, uint16(int16(v)))
		}
	}

	if dec.BitDepth == 8 {
		f.Bits = 8
		for i := 0; i < len(data)/2; i++ {
			data[i] = data[i*2+1] ^ 0x80
		}
		data = data[:len(data)/2]
	}

	return f, bytes.NewReader(data), f.Validate()
}

// saveWAV writes data captured by the guest driver to a WAV file.
func saveWAV(filename string, f guest.Format, data []byte) error {
	var samples []int
	if f.Bits == 8 {
		samples = make([]int, len(data))
		for i, v := range data {
			samples[i] = int(v)
		}
	} else {
		samples = make([]int, len(data)/2)
		for i := range samples {
			samples[i] = int(int16(binary.LittleEndian.Uint16(data[i*2:])))
		}
	}
	return wavwriter.WriteFile(filename, f.Rate, f.Channels, f.Bits, samples)
}
