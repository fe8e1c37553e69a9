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

// Package adpcm implements the three ADPCM codecs of the Sound Blaster DSP.
//
// Each codec expands a code of two, three or four bits into an unsigned 8
// bit sample by adding a delta to the running reference value. The delta is
// chosen by the code and the current step, and the step adapts after every
// sample. The three codecs share the same State type.
//
// The "2.6 bit" codec packs three samples into a byte. The third sample only
// has two bits and is shifted so that it uses the same table as the other
// two.
package adpcm

import "fmt"

// Bits identifies one of the three codecs.
type Bits int

// List of valid Bits values.
const (
	Bits2 Bits = 2
	Bits3 Bits = 3
	Bits4 Bits = 4
)

func (b Bits) String() string {
	switch b {
	case Bits2:
		return "2 bit ADPCM"
	case Bits3:
		return "2.6 bit ADPCM"
	case Bits4:
		return "4 bit ADPCM"
	}
	return "unknown ADPCM"
}

type table struct {
	scale  []int8
	adjust []uint8

	// number of codes and the largest valid step
	codes   int
	maxStep int
}

var tables = map[Bits]table{
	Bits2: {
		scale: []int8{
			0, 1, 0, -1, 1, 3, -1, -3,
			2, 6, -2, -6, 4, 12, -4, -12,
			8, 24, -8, -24, 16, 48, -16, -48,
		},
		adjust: []uint8{
			0, 4, 0, 4,
			252, 4, 252, 4, 252, 4, 252, 4,
			252, 4, 252, 4, 252, 4, 252, 4,
			252, 0, 252, 0,
		},
		codes:   4,
		maxStep: 20,
	},
	Bits3: {
		scale: []int8{
			0, 1, 2, 3, 0, -1, -2, -3,
			1, 3, 5, 7, -1, -3, -5, -7,
			2, 6, 10, 14, -2, -6, -10, -14,
			4, 12, 20, 28, -4, -12, -20, -28,
			5, 15, 25, 35, -5, -15, -25, -35,
		},
		adjust: []uint8{
			0, 0, 0, 8, 0, 0, 0, 8,
			248, 0, 0, 8, 248, 0, 0, 8,
			248, 0, 0, 8, 248, 0, 0, 8,
			248, 0, 0, 8, 248, 0, 0, 8,
			248, 0, 0, 0, 248, 0, 0, 0,
		},
		codes:   8,
		maxStep: 32,
	},
	Bits4: {
		scale: []int8{
			0, 1, 2, 3, 4, 5, 6, 7, 0, -1, -2, -3, -4, -5, -6, -7,
			1, 3, 5, 7, 9, 11, 13, 15, -1, -3, -5, -7, -9, -11, -13, -15,
			2, 6, 10, 14, 18, 22, 26, 30, -2, -6, -10, -14, -18, -22, -26, -30,
			4, 12, 20, 28, 36, 44, 52, 60, -4, -12, -20, -28, -36, -44, -52, -60,
		},
		adjust: []uint8{
			0, 0, 0, 0, 0, 16, 16, 16,
			0, 0, 0, 0, 0, 16, 16, 16,
			240, 0, 0, 0, 0, 16, 16, 16,
			240, 0, 0, 0, 0, 16, 16, 16,
			240, 0, 0, 0, 0, 16, 16, 16,
			240, 0, 0, 0, 0, 16, 16, 16,
			240, 0, 0, 0, 0, 0, 0, 0,
			240, 0, 0, 0, 0, 0, 0, 0,
		},
		codes:   16,
		maxStep: 48,
	},
}

// MaxStep returns the largest step value of the codec.
func MaxStep(b Bits) int {
	return tables[b].maxStep
}

// SamplesPerByte returns the number of samples packed into each byte.
func SamplesPerByte(b Bits) int {
	switch b {
	case Bits2:
		return 4
	case Bits3:
		return 3
	}
	return 2
}

// State of a codec. The zero value is a valid starting state.
type State struct {
	Reference uint8
	Step      int

	// the next byte of the stream is a raw reference sample
	HaveReference bool
}

func (s State) String() string {
	ref := ""
	if s.HaveReference {
		ref = " (awaiting reference)"
	}
	return fmt.Sprintf("ref=%02x step=%d%s", s.Reference, s.Step, ref)
}

// Seed the state with a reference sample. The step is reset to its minimum.
func (s *State) Seed(reference uint8) {
	s.Reference = reference
	s.Step = 0
	s.HaveReference = false
}

// Decode a single code. The returned boolean is false if the step or the
// code were out of range and had to be clamped.
func (s *State) Decode(b Bits, code uint8) (uint8, bool) {
	t, ok := tables[b]
	if !ok {
		return s.Reference, false
	}

	valid := true
	if s.Step < 0 || s.Step > t.maxStep {
		s.Step = min(max(s.Step, 0), t.maxStep)
		valid = false
	}

	idx := int(code) + s.Step
	if idx >= len(t.scale) {
		idx = len(t.scale) - 1
		valid = false
	}

	ref := int(s.Reference) + int(t.scale[idx])
	s.Reference = uint8(min(max(ref, 0), 0xff))
	s.Step = (s.Step + int(t.adjust[idx])) & 0xff

	return s.Reference, valid
}

// DecodeByte expands a byte of the stream into out, which must have room for
// SamplesPerByte() samples. Returns the number of samples and false if any
// value was clamped.
func (s *State) DecodeByte(b Bits, v uint8, out []uint8) (int, bool) {
	var codes [4]uint8
	n := SamplesPerByte(b)

	switch b {
	case Bits2:
		codes = [4]uint8{(v >> 6) & 0x03, (v >> 4) & 0x03, (v >> 2) & 0x03, v & 0x03}
	case Bits3:
		codes = [4]uint8{(v >> 5) & 0x07, (v >> 2) & 0x07, (v & 0x03) << 1}
	default:
		codes = [4]uint8{v >> 4, v & 0x0f}
	}

	valid := true
	for i := range n {
		var ok bool
		out[i], ok = s.Decode(b, codes[i])
		valid = valid && ok
	}
	return n, valid
}

// encode chooses the code that decodes closest to the sample and applies it
// to the state
func (s *State) encode(b Bits, sample uint8, codes int) uint8 {
	var best uint8
	bestErr := 1 << 16
	for c := range codes {
		try := *s
		v, _ := try.Decode(b, uint8(c))
		e := int(v) - int(sample)
		if e < 0 {
			e = -e
		}
		if e < bestErr {
			best = uint8(c)
			bestErr = e
		}
	}
	s.Decode(b, best)
	return best
}

// EncodeByte packs SamplesPerByte() samples into a byte. The state is
// advanced exactly as a decoder's state would be advanced by the result.
func (s *State) EncodeByte(b Bits, samples []uint8) uint8 {
	switch b {
	case Bits2:
		var v uint8
		for i := range 4 {
			v = v<<2 | s.encode(b, samples[i], 4)
		}
		return v
	case Bits3:
		v := s.encode(b, samples[0], 8) << 5
		v |= s.encode(b, samples[1], 8) << 2

		// the last code of the byte only has the even codes 0, 2, 4 and 6
		var best uint8
		bestErr := 1 << 16
		for c := uint8(0); c < 8; c += 2 {
			try := *s
			d, _ := try.Decode(b, c)
			e := int(d) - int(samples[2])
			if e < 0 {
				e = -e
			}
			if e < bestErr {
				best = c
				bestErr = e
			}
		}
		s.Decode(b, best)
		return v | best>>1
	}
	return s.encode(b, samples[0], 16)<<4 | s.encode(b, samples[1], 16)
}
