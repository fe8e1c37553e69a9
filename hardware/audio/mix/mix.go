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

// Package mix contains the arithmetic used when combining audio channels:
// gain tables, scaling and clipping.
//
// The Sound Blaster mixer registers are logarithmic. A register value of 31
// is full volume and each step below that attenuates the signal by 1.3dB (the
// 2dB steps of the Pro mixer are represented by even values). The table of
// linear gains is created once at program start.
package mix

import "math"

// MaxVolume is the highest value of a five bit volume register.
const MaxVolume = 31

// the attenuation of one step of the volume register, in dB
const stepDB = -1.3

var gains [MaxVolume + 1]float32

func init() {
	for v := range gains {
		gains[v] = float32(math.Pow(10, float64(MaxVolume-v)*stepDB/20))
	}
}

// Gain returns the linear gain for a five bit volume register value. Values
// larger than MaxVolume are masked.
func Gain(v uint8) float32 {
	return gains[v&0x1f]
}

// Clip a mixed value to the range of a 16 bit sample.
func Clip(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Scale a sample by the gain. The result is not clipped.
func Scale(v int16, gain float32) int32 {
	return int32(float32(v) * gain)
}

// Mono combines a stereo pair into a single value.
func Mono(left int16, right int16) int16 {
	return int16((int32(left) + int32(right)) >> 1)
}

// Unsigned8 converts an unsigned 8 bit sample to a signed 16 bit sample.
func Unsigned8(v uint8) int16 {
	return int16(uint16(v^0x80) << 8)
}

// Signed8 converts a signed 8 bit sample to a signed 16 bit sample.
func Signed8(v uint8) int16 {
	return int16(uint16(v) << 8)
}

// Unsigned16 converts an unsigned 16 bit sample to a signed 16 bit sample.
func Unsigned16(v uint16) int16 {
	return int16(v ^ 0x8000)
}
