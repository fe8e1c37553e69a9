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

package guest

import (
	"github.com/jetsetilly/gopherblaster/curated"
	"github.com/jetsetilly/gopherblaster/logger"
)

// AdaptRecording returns the format that the card records when asked to
// record the format. Cards before the SB16 record 8 bit mono audio at a rate
// decided by a time constant.
func (d *Driver) AdaptRecording(f Format) Format {
	out := f
	if d.Major >= 4 {
		out.Rate = min(max(out.Rate, 5000), 44100)
		return out
	}

	out.Bits = 8
	out.Channels = 1
	limit := 15000
	if d.Major < 2 {
		limit = 13000
	}
	out.Rate = min(max(out.Rate, 4000), limit)
	out.Rate = min(1000000/(256-int(timeConstant(out.Rate))), limit)

	return out
}

// Record captures frames of audio with single cycle ADC transfers. Returns
// the format of the captured data.
func (d *Driver) Record(f Format, frames int) (Format, []byte, error) {
	if err := f.Validate(); err != nil {
		return f, nil, err
	}

	out := d.AdaptRecording(f)
	fb := out.FrameBytes()
	sixteen := out.Bits == 16
	ch := d.channel(sixteen)
	if err := d.checkResources(ch); err != nil {
		return out, nil, err
	}

	if d.Major < 4 {
		if err := d.Speaker(false); err != nil {
			return out, nil, err
		}
	}
	if err := d.SetRate(out.Rate, out.Channels, true); err != nil {
		return out, nil, err
	}

	logger.Logf(d.m.Env, "guest", "recording %d frames of %s", frames, out)

	total := frames * fb
	data := make([]byte, 0, total)
	block := make([]byte, maxBlock/fb*fb)

	for len(data) < total {
		n := min(total-len(data), len(block))
		units := n
		if sixteen {
			units /= 2
		}

		d.programDMA(ch, bufferAddr, n, dmaToMemory)

		var err error
		if d.Major >= 4 {
			cmd := uint8(0xc8)
			var mode uint8
			if sixteen {
				cmd = 0xb8
				mode = 0x10
			}
			if out.Channels == 2 {
				mode |= 0x20
			}
			err = d.Write(cmd, mode, uint8(units-1), uint8((units-1)>>8))
		} else {
			err = d.Write(0x24, uint8(n-1), uint8((n-1)>>8))
		}
		if err != nil {
			return out, data, err
		}

		ok, err := d.waitIRQ(float64(n/fb)*1000/float64(out.Rate) + 100)
		if err != nil {
			return out, data, err
		}
		if !ok {
			return out, data, curated.Errorf(Timeout, "record")
		}

		d.m.DMA.Peek(bufferAddr, block[:n])
		data = append(data, block[:n]...)
	}

	d.maskDMA(ch)

	return out, data, nil
}
