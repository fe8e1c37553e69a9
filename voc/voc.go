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

package voc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/jetsetilly/gopherblaster/curated"
)

// Sentinel error patterns.
const (
	NotVOC           = "voc: not a creative voice file"
	Truncated        = "voc: truncated block at offset %d"
	UnsupportedCodec = "voc: unsupported codec (%d)"
	FormatChange     = "voc: format changes at offset %d"
	NoAudio          = "voc: file contains no audio"
)

// the identification string at the start of every file
const signature = "Creative Voice File\x1a"

// block types
const (
	blockTerminator = 0x00
	blockSound      = 0x01
	blockContinue   = 0x02
	blockSilence    = 0x03
	blockMarker     = 0x04
	blockText       = 0x05
	blockRepeat     = 0x06
	blockRepeatEnd  = 0x07
	blockExtended   = 0x08
	blockNewSound   = 0x09
)

// codecs used in a new format sound block
const (
	codecPCM8  = 0x0000
	codecPCM16 = 0x0004
)

// Sound is the audio data of a file. 8 bit data is unsigned and 16 bit data
// is signed little-endian. Stereo data is interleaved.
type Sound struct {
	Rate     int
	Channels int
	Bits     int
	Data     []byte

	// version of the file format
	Version uint16
}

func (snd *Sound) String() string {
	return fmt.Sprintf("%dHz %dbit %dch (%d frames)", snd.Rate, snd.Bits, snd.Channels, snd.Frames())
}

// Frames returns the number of sample frames in the sound.
func (snd *Sound) Frames() int {
	if snd.Channels == 0 || snd.Bits == 0 {
		return 0
	}
	return len(snd.Data) / (snd.Channels * snd.Bits / 8)
}

// TimeConstant returns the value that would be written with DSP command 0x40
// to play the sound at the correct rate.
func (snd *Sound) TimeConstant() uint8 {
	return uint8(256 - 1000000/(snd.Rate*snd.Channels))
}

// format of the data in a block
type format struct {
	rate     int
	channels int
	bits     int
}

// the extended block modifies the next sound block
type extended struct {
	timeConstant uint16
	pack         uint8
	stereo       bool
}

// Load and decode the named file.
func Load(filename string) (*Sound, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("voc: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode the file read from r.
func Decode(r io.Reader) (*Sound, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("voc: %w", err)
	}

	if len(data) < 26 || !bytes.Equal(data[:len(signature)], []byte(signature)) {
		return nil, curated.Errorf(NotVOC)
	}

	snd := &Sound{
		Version: binary.LittleEndian.Uint16(data[22:]),
	}

	checksum := binary.LittleEndian.Uint16(data[24:])
	if checksum != ^snd.Version+0x1234 {
		return nil, curated.Errorf(NotVOC)
	}

	var current format
	var ext *extended

	// append data in the format f. the format of the sound is decided by the
	// first block
	add := func(pos int, f format, p []byte) error {
		if current.rate == 0 {
			current = f
			snd.Rate = f.rate
			snd.Channels = f.channels
			snd.Bits = f.bits
		} else if current != f {
			return curated.Errorf(FormatChange, pos)
		}
		snd.Data = append(snd.Data, p...)
		return nil
	}

	pos := int(binary.LittleEndian.Uint16(data[20:]))
	for pos < len(data) {
		typ := data[pos]
		if typ == blockTerminator {
			break
		}

		if pos+4 > len(data) {
			return nil, curated.Errorf(Truncated, pos)
		}
		size := int(data[pos+1]) | int(data[pos+2])<<8 | int(data[pos+3])<<16
		if pos+4+size > len(data) {
			return nil, curated.Errorf(Truncated, pos)
		}
		body := data[pos+4 : pos+4+size]

		switch typ {
		case blockSound:
			if len(body) < 2 {
				return nil, curated.Errorf(Truncated, pos)
			}
			f := format{
				rate:     1000000 / (256 - int(body[0])),
				channels: 1,
				bits:     8,
			}
			pack := body[1]
			if ext != nil {
				if ext.stereo {
					f.channels = 2
				}
				f.rate = 256000000 / (65536 - int(ext.timeConstant)) / f.channels
				pack = ext.pack
				ext = nil
			}
			if pack != 0 {
				return nil, curated.Errorf(UnsupportedCodec, pack)
			}
			if err := add(pos, f, body[2:]); err != nil {
				return nil, err
			}

		case blockContinue:
			if current.rate == 0 {
				return nil, curated.Errorf(FormatChange, pos)
			}
			snd.Data = append(snd.Data, body...)

		case blockSilence:
			if len(body) < 3 {
				return nil, curated.Errorf(Truncated, pos)
			}
			n := int(binary.LittleEndian.Uint16(body)) + 1
			f := current
			if f.rate == 0 {
				f = format{
					rate:     1000000 / (256 - int(body[2])),
					channels: 1,
					bits:     8,
				}
			}
			silence := make([]byte, n*f.channels*f.bits/8)
			if f.bits == 8 {
				for i := range silence {
					silence[i] = 0x80
				}
			}
			if err := add(pos, f, silence); err != nil {
				return nil, err
			}

		case blockExtended:
			if len(body) < 4 {
				return nil, curated.Errorf(Truncated, pos)
			}
			ext = &extended{
				timeConstant: binary.LittleEndian.Uint16(body),
				pack:         body[2],
				stereo:       body[3] == 1,
			}

		case blockNewSound:
			if len(body) < 12 {
				return nil, curated.Errorf(Truncated, pos)
			}
			f := format{
				rate:     int(binary.LittleEndian.Uint32(body)),
				bits:     int(body[4]),
				channels: int(body[5]),
			}
			codec := binary.LittleEndian.Uint16(body[6:])
			switch {
			case codec == codecPCM8 && f.bits == 8:
			case codec == codecPCM16 && f.bits == 16:
			default:
				return nil, curated.Errorf(UnsupportedCodec, codec)
			}
			if f.channels < 1 || f.channels > 2 || f.rate <= 0 {
				return nil, curated.Errorf(UnsupportedCodec, codec)
			}
			if err := add(pos, f, body[12:]); err != nil {
				return nil, err
			}

		case blockMarker, blockText, blockRepeat, blockRepeatEnd:
			// repeats are not followed

		default:
			// unknown blocks are skipped
		}

		pos += 4 + size
	}

	if len(snd.Data) == 0 {
		return nil, curated.Errorf(NoAudio)
	}

	return snd, nil
}
