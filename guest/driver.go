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

	"github.com/jetsetilly/gopherblaster/curated"
	"github.com/jetsetilly/gopherblaster/hardware"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/opl"
	"github.com/jetsetilly/gopherblaster/logger"
)

// Sentinel error patterns.
const (
	NoDSP   = "guest: no dsp found at %#03x"
	Timeout = "guest: dsp timed out waiting to %s"
)

// port offsets from the base address
const (
	mixerIndex  = 0x04
	mixerData   = 0x05
	reset       = 0x06
	readData    = 0x0a
	writeData   = 0x0c
	writeStatus = 0x0c
	readStatus  = 0x0e
	ack16       = 0x0f
)

// waiting for the DSP is done in steps of virtual time
const (
	pollStep   = 0.005
	resetPulse = 0.003
	maxPolls   = 1000
)

// Driver programs a card through the ports of the machine.
type Driver struct {
	m        *hardware.Machine
	Settings Settings

	// DSP version. valid after Detect()
	Major uint8
	Minor uint8

	// number of interrupts from the card that have been serviced
	Interrupts int
}

// NewDriver is the preferred method of initialisation for the Driver type.
func NewDriver(m *hardware.Machine, s Settings) *Driver {
	return &Driver{
		m:        m,
		Settings: s,
	}
}

func (d *Driver) String() string {
	return fmt.Sprintf("%s dsp=%d.%02d", d.Settings, d.Major, d.Minor)
}

func (d *Driver) in(offset uint16) uint8 {
	return d.m.Bus.ReadByte(d.Settings.Base + offset)
}

func (d *Driver) out(offset uint16, v uint8) {
	d.m.Bus.WriteByte(d.Settings.Base+offset, v)
}

// wait for the number of milliseconds of virtual time
func (d *Driver) wait(ms float64) error {
	return d.m.Step(ms)
}

// Detect resets the DSP and reads its version number.
func (d *Driver) Detect() error {
	if err := d.Reset(); err != nil {
		return err
	}
	major, minor, err := d.Version()
	if err != nil {
		return err
	}
	d.Major = major
	d.Minor = minor
	logger.Logf(d.m.Env, "guest", "dsp %d.%02d at %#03x", major, minor, d.Settings.Base)
	return nil
}

// Reset the DSP with the reset handshake. The DSP answers with 0xaa when it
// is ready.
func (d *Driver) Reset() error {
	d.out(reset, 0x01)
	if err := d.wait(resetPulse); err != nil {
		return err
	}
	d.out(reset, 0x00)

	for range maxPolls / 10 {
		if err := d.wait(pollStep); err != nil {
			return err
		}
		if d.in(readStatus)&0x80 != 0 && d.in(readData) == 0xaa {
			return nil
		}
	}
	return curated.Errorf(NoDSP, d.Settings.Base)
}

// Write bytes to the DSP. The write status port is polled before each byte.
func (d *Driver) Write(b ...uint8) error {
	for _, v := range b {
		ready := false
		for range maxPolls {
			if d.in(writeStatus)&0x80 == 0 {
				ready = true
				break
			}
			if err := d.wait(pollStep); err != nil {
				return err
			}
		}
		if !ready {
			return curated.Errorf(Timeout, fmt.Sprintf("write %02x", v))
		}
		d.out(writeData, v)
	}
	return nil
}

// Read a byte from the DSP. The read status port is polled until data is
// available.
func (d *Driver) Read() (uint8, error) {
	for range maxPolls {
		if d.in(readStatus)&0x80 != 0 {
			return d.in(readData), nil
		}
		if err := d.wait(pollStep); err != nil {
			return 0, err
		}
	}
	return 0, curated.Errorf(Timeout, "read")
}

// Version returns the DSP version with command 0xe1.
func (d *Driver) Version() (uint8, uint8, error) {
	if err := d.Write(0xe1); err != nil {
		return 0, 0, err
	}
	major, err := d.Read()
	if err != nil {
		return 0, 0, err
	}
	minor, err := d.Read()
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

// Copyright returns the string returned by command 0xe3.
func (d *Driver) Copyright() (string, error) {
	if err := d.Write(0xe3); err != nil {
		return "", err
	}
	var s []byte
	for range 80 {
		v, err := d.Read()
		if err != nil {
			return string(s), err
		}
		if v == 0 {
			break
		}
		s = append(s, v)
	}
	return string(s), nil
}

// SetMixer writes a mixer register.
func (d *Driver) SetMixer(reg uint8, v uint8) {
	d.out(mixerIndex, reg)
	d.out(mixerData, v)
}

// GetMixer reads a mixer register.
func (d *Driver) GetMixer(reg uint8) uint8 {
	d.out(mixerIndex, reg)
	return d.in(mixerData)
}

// Speaker turns the speaker on or off.
func (d *Driver) Speaker(on bool) error {
	if on {
		return d.Write(0xd1)
	}
	return d.Write(0xd3)
}

// SetRate sets the sample rate of the next transfer. Cards before the SB16
// are programmed with a time constant, which includes the number of
// channels.
func (d *Driver) SetRate(rate int, channels int, recording bool) error {
	if d.Major >= 4 {
		cmd := uint8(0x41)
		if recording {
			cmd = 0x42
		}
		return d.Write(cmd, uint8(rate>>8), uint8(rate))
	}
	return d.Write(0x40, timeConstant(rate*channels))
}

func timeConstant(rate int) uint8 {
	return uint8(256 - 1000000/max(rate, 4000))
}

// DetectOPL looks for an OPL at the port with the timer sequence used by
// Adlib drivers. The status register of an OPL3 has the low bits clear.
func (d *Driver) DetectOPL(port uint16) (opl.Mode, error) {
	bus := d.m.Bus
	write := func(reg uint8, v uint8) {
		bus.WriteByte(port, reg)
		bus.WriteByte(port+1, v)
	}

	write(0x04, 0x60)
	write(0x04, 0x80)
	before := bus.ReadByte(port)
	write(0x02, 0xff)
	write(0x04, 0x21)
	if err := d.wait(0.1); err != nil {
		return opl.None, err
	}
	after := bus.ReadByte(port)
	write(0x04, 0x60)
	write(0x04, 0x80)

	if before&0xe0 != 0x00 || after&0xe0 != 0xc0 {
		return opl.None, nil
	}
	if after&0x06 == 0 {
		return opl.OPL3, nil
	}
	return opl.OPL2, nil
}

// the interrupt line used by the card. IRQ 2 arrives on line 9
func (d *Driver) line() uint8 {
	if d.Settings.IRQ == 2 {
		return 9
	}
	return d.Settings.IRQ
}

// service every pending interrupt. interrupts from the card are acknowledged
// at the card. returns the number of interrupts from the card
func (d *Driver) service() int {
	var n int
	for {
		irq, _, ok := d.m.PIC.Acknowledge()
		if !ok {
			return n
		}

		if irq == d.line() {
			d.in(readStatus)
			if d.Major >= 4 {
				d.in(ack16)
			}
			n++
			d.Interrupts++
		}

		// non-specific end of interrupt
		if irq >= 8 {
			d.m.Bus.WriteByte(0xa0, 0x20)
		}
		d.m.Bus.WriteByte(0x20, 0x20)
	}
}

// waitIRQ advances time until the card interrupts or the timeout expires
func (d *Driver) waitIRQ(timeout float64) (bool, error) {
	end := d.m.Sched.NowMs() + timeout
	for d.m.Sched.NowMs() < end {
		if err := d.wait(hardware.Quantum); err != nil {
			return false, err
		}
		if d.service() > 0 {
			return true, nil
		}
	}
	return false, nil
}

// the 16 bit channel if it can be used by the transfer
func (d *Driver) channel(sixteen bool) uint8 {
	if sixteen && d.Settings.HDMA != blaster.NoChannel && d.Settings.HDMA >= 4 {
		return d.Settings.HDMA
	}
	return d.Settings.DMA
}
