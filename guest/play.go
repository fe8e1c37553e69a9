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
	"fmt"
	"io"

	"github.com/jetsetilly/gopherblaster/govern"
	"github.com/jetsetilly/gopherblaster/hardware"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/logger"
)

// physical address of the DMA buffer. the buffer never crosses a 64K page
const bufferAddr = 0x20000

// largest block used by a transfer in bytes
const maxBlock = 0x8000

// Adapt returns the format that the card will play when asked to play the
// format. Cards before the SB16 only play 8 bit data. The SB1 and SB2 only
// play mono.
func (d *Driver) Adapt(f Format) Format {
	out := f
	switch {
	case d.Major >= 4:
		out.Rate = min(max(out.Rate, 5000), 44100)
	case d.Major == 3:
		out.Bits = 8
		if out.Channels == 2 {
			out.Rate = min(max(out.Rate, 4000), 22050)
		} else {
			out.Rate = min(max(out.Rate, 4000), 44100)
		}
	case d.Major == 2:
		out.Bits = 8
		out.Channels = 1
		out.Rate = min(max(out.Rate, 4000), 44100)
	default:
		out.Bits = 8
		out.Channels = 1
		out.Rate = min(max(out.Rate, 4000), 23000)
	}
	return out
}

func (d *Driver) checkResources(ch uint8) error {
	if ch == blaster.NoChannel {
		return fmt.Errorf("guest: no dma channel")
	}
	if d.Settings.IRQ == blaster.NoIRQ {
		return fmt.Errorf("guest: no irq")
	}
	return nil
}

// Play streams PCM data from the reader with an auto-init DMA transfer. The
// DMA buffer is split into two blocks and each block is refilled when the
// card interrupts at the end of it. The SB1 has no auto-init commands so a
// single cycle command is sent for each block instead.
//
// The data is converted to a format that the card can play. The
// continueCheck function is called before every Quantum of virtual time.
// Virtual time does not advance while it returns govern.Paused and playback
// stops early when it returns govern.Ending.
//
// Returns the number of blocks that were played.
func (d *Driver) Play(f Format, r io.Reader, continueCheck func() (govern.State, error)) (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	out := d.Adapt(f)
	src := r
	if out != f {
		src = newConverter(r, f, out)
	}

	fb := out.FrameBytes()
	half := min(max(out.Rate/20, 1)*fb, maxBlock/fb*fb)
	blockMs := float64(half/fb) * 1000 / float64(out.Rate)

	sixteen := out.Bits == 16
	stereo := out.Channels == 2
	ch := d.channel(sixteen)
	if err := d.checkResources(ch); err != nil {
		return 0, err
	}

	// the first two blocks are filled before the transfer starts
	buf := make([]byte, half)
	var queued int
	var eof bool
	refill := func(i int) error {
		if eof {
			for j := range buf {
				buf[j] = out.silence()
			}
		} else {
			n, err := fill(src, out, buf)
			if err != nil {
				return fmt.Errorf("guest: %w", err)
			}
			if n > 0 {
				queued++
			}
			eof = n < half
		}
		d.m.DMA.Poke(bufferAddr+uint32(i*half), buf)
		return nil
	}
	for i := range 2 {
		if err := refill(i); err != nil {
			return 0, err
		}
	}
	if queued == 0 {
		return 0, nil
	}

	logger.Logf(d.m.Env, "guest", "playing %s as %s in blocks of %d bytes", f, out, half)

	units := half
	if sixteen {
		units /= 2
	}
	length := [2]uint8{uint8(units - 1), uint8((units - 1) >> 8)}

	exit := uint8(0xda)
	highspeed := false

	if d.Major >= 4 {
		if err := d.SetRate(out.Rate, out.Channels, false); err != nil {
			return 0, err
		}
		d.programDMA(ch, bufferAddr, half*2, dmaFromMemory|dmaAutoInit)

		cmd := uint8(0xc6)
		var mode uint8
		if sixteen {
			cmd = 0xb6
			mode = 0x10
			exit = 0xd9
		}
		if stereo {
			mode |= 0x20
		}
		if err := d.Write(cmd, mode, length[0], length[1]); err != nil {
			return 0, err
		}
	} else {
		if err := d.Speaker(true); err != nil {
			return 0, err
		}
		if stereo {
			d.SetMixer(0x0e, d.GetMixer(0x0e)|0x02)
		}
		if err := d.SetRate(out.Rate, out.Channels, false); err != nil {
			return 0, err
		}
		d.programDMA(ch, bufferAddr, half*2, dmaFromMemory|dmaAutoInit)

		var err error
		switch {
		case d.Major < 2:
			err = d.Write(0x14, length[0], length[1])
		case out.Rate*out.Channels > 23000:
			highspeed = true
			err = d.Write(0x48, length[0], length[1], 0x90)
		default:
			err = d.Write(0x48, length[0], length[1], 0x1c)
		}
		if err != nil {
			return 0, err
		}
	}

	played := 0
	stopped := false

	for played < queued && !stopped {
		state, err := continueCheck()
		if err != nil {
			return played, err
		}

		switch state {
		case govern.Ending:
			stopped = true
			continue
		case govern.Paused:
			continue
		case govern.Stopping:
			// refills from now on are silent and do not count as queued
			eof = true
		}

		if err := d.wait(hardware.Quantum); err != nil {
			return played, err
		}

		for range d.service() {
			i := played % 2
			played++
			if d.Major < 2 && played < queued {
				if err := d.Write(0x14, length[0], length[1]); err != nil {
					return played, err
				}
			}
			if err := refill(i); err != nil {
				return played, err
			}
		}
	}

	// the DSP ignores writes in high-speed mode. the only way out is a reset
	switch {
	case stopped || highspeed:
		if err := d.Reset(); err != nil {
			return played, err
		}
	case d.Major >= 2:
		if err := d.Write(exit); err != nil {
			return played, err
		}
		if _, err := d.waitIRQ(blockMs*2 + hardware.Quantum); err != nil {
			return played, err
		}
	}
	d.maskDMA(ch)

	if d.Major < 4 {
		if stereo {
			d.SetMixer(0x0e, d.GetMixer(0x0e)&^0x02)
		}
		if err := d.Speaker(false); err != nil {
			return played, err
		}
	}

	logger.Logf(d.m.Env, "guest", "played %d blocks", played)

	return played, nil
}
