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

package opl_test

import (
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/opl"
	"github.com/jetsetilly/gopherblaster/hardware/scheduler"
	"github.com/jetsetilly/gopherblaster/logger"
	"github.com/jetsetilly/gopherblaster/test"
)

func write(o *opl.OPL, port uint16, reg uint8, val uint8) {
	o.WritePort(port, reg)
	o.WritePort(port+1, val)
}

// the detection sequence used by most Adlib drivers
func detect(t *testing.T, o *opl.OPL, sched *scheduler.Scheduler, port uint16) (uint8, uint8) {
	t.Helper()

	write(o, port, 0x04, 0x60)
	write(o, port, 0x04, 0x80)
	before := o.ReadPort(port)
	write(o, port, 0x02, 0xff)
	write(o, port, 0x04, 0x21)
	sched.Advance(0.1)
	after := o.ReadPort(port)
	write(o, port, 0x04, 0x60)
	write(o, port, 0x04, 0x80)

	return before, after
}

func TestParseMode(t *testing.T) {
	for _, m := range []opl.Mode{opl.None, opl.OPL2, opl.DualOPL2, opl.OPL3} {
		p, err := opl.ParseMode(m.String())
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, p, m)
	}
	_, err := opl.ParseMode("opl4")
	test.ExpectFailure(t, err)
}

func TestDetectOPL2(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := opl.NewOPL(logger.Deny, sched, opl.OPL2)

	before, after := detect(t, o, sched, 0x388)
	test.ExpectEquality(t, before&0xe0, 0x00)
	test.ExpectEquality(t, after&0xe0, 0xc0)

	// opl2 status has the low bits set
	test.ExpectEquality(t, before&0x06, 0x06)

	// the second port pair is not decoded
	test.ExpectEquality(t, o.ReadPort(0x38a), 0xff)
}

func TestDetectOPL3(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := opl.NewOPL(logger.Deny, sched, opl.OPL3)

	before, after := detect(t, o, sched, 0x388)
	test.ExpectEquality(t, before, 0x00)
	test.ExpectEquality(t, after, 0xc0)

	// the second bank is only reachable after setting the new mode bit
	write(o, 0x38a, 0x20, 0x11)
	test.ExpectEquality(t, o.Registers[0x20], 0x11)
	write(o, 0x38a, 0x05, 0x01)
	test.ExpectEquality(t, o.Registers[0x105], 0x01)
	write(o, 0x38a, 0x20, 0x22)
	test.ExpectEquality(t, o.Registers[0x120], 0x22)
}

func TestTimer1(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := opl.NewOPL(logger.Deny, sched, opl.OPL3)

	// timer 1 counts in 320us units
	write(o, 0x388, 0x03, 0xfe)
	write(o, 0x388, 0x04, 0x42)
	sched.Advance(0.5)
	test.ExpectEquality(t, o.ReadPort(0x388), 0x00)
	sched.Advance(0.2)
	test.ExpectEquality(t, o.ReadPort(0x388), 0xa0)
}

func TestDualOPL2(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := opl.NewOPL(logger.Deny, sched, opl.DualOPL2)

	// left chip at base+0, right chip at base+2
	_, after := detect(t, o, sched, 0x220)
	test.ExpectEquality(t, after&0xe0, 0xc0)

	// the right chip has not been started
	test.ExpectEquality(t, o.ReadPort(0x222)&0xe0, 0x00)

	// writes to base+8 go to both chips
	write(o, 0x228, 0xc0, 0xff)
	test.ExpectEquality(t, o.Registers[0x0c0], 0x5f)
	test.ExpectEquality(t, o.Registers[0x1c0], 0xaf)

	// waveform select is limited to four waveforms
	write(o, 0x222, 0xe0, 0x07)
	test.ExpectEquality(t, o.Registers[0x1e0], 0x03)

	// odd ports read as nothing
	test.ExpectEquality(t, o.ReadPort(0x221), 0xff)
}

func TestNone(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := opl.NewOPL(logger.Deny, sched, opl.None)
	write(o, 0x388, 0x20, 0x11)
	test.ExpectEquality(t, o.Registers[0x20], 0x00)
	test.ExpectEquality(t, o.ReadPort(0x388), 0xff)
}

func TestInstall(t *testing.T) {
	sched := scheduler.NewScheduler()
	bus := iobus.NewBus(logger.Deny)
	o := opl.NewOPL(logger.Deny, sched, opl.OPL2)

	_, err := o.Install(bus, 0x388)
	test.DemandSuccess(t, err)

	bus.WriteByte(0x388, 0x04)
	bus.WriteByte(0x389, 0x80)
	test.ExpectEquality(t, bus.ReadByte(0x388), 0x06)
}
