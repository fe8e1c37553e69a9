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

package adpcm_test

import (
	"math"
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/blaster/adpcm"
	"github.com/jetsetilly/gopherblaster/test"
)

var codecs = []adpcm.Bits{adpcm.Bits2, adpcm.Bits3, adpcm.Bits4}

// the step moves in increments of this size for each codec
func increment(b adpcm.Bits) int {
	switch b {
	case adpcm.Bits2:
		return 4
	case adpcm.Bits3:
		return 8
	}
	return 16
}

func TestDecodeFourBit(t *testing.T) {
	var s adpcm.State
	s.Seed(0x80)

	// largest positive delta at the smallest step moves the step up
	v, ok := s.Decode(adpcm.Bits4, 0x07)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x87)
	test.ExpectEquality(t, s.Step, 16)

	// the same code at the larger step
	v, ok = s.Decode(adpcm.Bits4, 0x07)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x87+15)
	test.ExpectEquality(t, s.Step, 32)

	// a zero code moves the step back down
	v, ok = s.Decode(adpcm.Bits4, 0x00)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x87+15+2)
	test.ExpectEquality(t, s.Step, 16)

	// negative codes
	v, _ = s.Decode(adpcm.Bits4, 0x0f)
	test.ExpectEquality(t, v, 0x87+15+2-15)
}

func TestDecodeSaturates(t *testing.T) {
	var s adpcm.State
	s.Seed(0xfe)
	s.Step = 48
	v, ok := s.Decode(adpcm.Bits4, 0x07)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0xff)

	s.Seed(0x01)
	s.Step = 48
	v, _ = s.Decode(adpcm.Bits4, 0x0f)
	test.ExpectEquality(t, v, 0x00)
}

func TestDecodeClampsStep(t *testing.T) {
	for _, b := range codecs {
		var s adpcm.State
		s.Seed(0x80)
		s.Step = 200
		_, ok := s.Decode(b, 0)
		test.ExpectFailure(t, ok, b)
		test.ExpectSuccess(t, s.Step >= 0 && s.Step <= adpcm.MaxStep(b), b, s.Step)

		s.Step = -5
		_, ok = s.Decode(b, 0)
		test.ExpectFailure(t, ok, b)
		test.ExpectSuccess(t, s.Step >= 0 && s.Step <= adpcm.MaxStep(b), b, s.Step)
	}
}

// every code from every valid state leaves the state valid
func TestStepRange(t *testing.T) {
	for _, b := range codecs {
		codes := 1 << int(b)
		if b == adpcm.Bits3 {
			codes = 8
		}
		for step := 0; step <= adpcm.MaxStep(b); step += increment(b) {
			for ref := range 256 {
				for code := range codes {
					s := adpcm.State{Reference: uint8(ref), Step: step}
					_, ok := s.Decode(b, uint8(code))
					if !ok {
						t.Fatalf("%s: ref=%d step=%d code=%d: unexpected clamp", b, ref, step, code)
					}
					if s.Step < 0 || s.Step > adpcm.MaxStep(b) || s.Step%increment(b) != 0 {
						t.Fatalf("%s: ref=%d step=%d code=%d: step out of range (%d)", b, ref, step, code, s.Step)
					}
				}
			}
		}
	}
}

func TestDecodeByte(t *testing.T) {
	out := make([]uint8, 4)

	var s adpcm.State
	s.Seed(0x80)
	n, ok := s.DecodeByte(adpcm.Bits2, 0x00, out)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, n, 4)
	for i := range n {
		test.ExpectEquality(t, out[i], 0x80)
	}

	s.Seed(0x80)
	n, _ = s.DecodeByte(adpcm.Bits3, 0x00, out)
	test.ExpectEquality(t, n, 3)

	// the final two bits of a 2.6 bit byte are shifted into the top two bits
	// of the code. 0x01 becomes code 2
	s.Seed(0x80)
	n, _ = s.DecodeByte(adpcm.Bits3, 0x01, out)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, out[2], 0x82)

	s.Seed(0x80)
	n, _ = s.DecodeByte(adpcm.Bits4, 0x12, out)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, out[0], 0x81)
	test.ExpectEquality(t, out[1], 0x83)
}

func TestEncodeMatchesDecoder(t *testing.T) {
	const length = 192

	wave := make([]uint8, length)
	for i := range wave {
		wave[i] = uint8(128 + int(40*math.Sin(float64(i)*2*math.Pi/64)))
	}

	for _, b := range codecs {
		per := adpcm.SamplesPerByte(b)

		var enc adpcm.State
		var dec adpcm.State
		enc.Seed(wave[0])
		dec.Seed(wave[0])

		out := make([]uint8, 4)
		for i := 0; i+per <= length; i += per {
			v := enc.EncodeByte(b, wave[i:i+per])
			n, ok := dec.DecodeByte(b, v, out)
			test.ExpectSuccess(t, ok, b)
			test.DemandEquality(t, enc, dec, b, i)

			if b == adpcm.Bits4 {
				for j := range n {
					d := int(out[j]) - int(wave[i+j])
					test.ExpectSuccess(t, d >= -12 && d <= 12, b, i+j, d)
				}
			}
		}
	}
}

func TestEncodeConstant(t *testing.T) {
	for _, b := range codecs {
		var enc adpcm.State
		enc.Seed(0x80)
		in := []uint8{0x80, 0x80, 0x80, 0x80}
		v := enc.EncodeByte(b, in)
		test.ExpectEquality(t, v, 0, b)
		test.ExpectEquality(t, enc.Reference, 0x80, b)
		test.ExpectEquality(t, enc.Step, 0, b)
	}
}
