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

package pic_test

import (
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/pic"
	"github.com/jetsetilly/gopherblaster/logger"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestActivate(t *testing.T) {
	p := pic.NewPIC(logger.Deny)

	_, ok := p.Pending()
	test.ExpectFailure(t, ok)

	p.Activate(5)
	p.Activate(5)
	test.ExpectSuccess(t, p.IsActive(5))
	test.ExpectEquality(t, p.Raised(5), 1)

	irq, ok := p.Pending()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, irq, 5)

	p.Deactivate(5)
	_, ok = p.Pending()
	test.ExpectFailure(t, ok)

	p.Activate(5)
	test.ExpectEquality(t, p.Raised(5), 2)
}

func TestPriority(t *testing.T) {
	p := pic.NewPIC(logger.Deny)

	p.Activate(7)
	p.Activate(10)
	p.Activate(5)

	// line 10 is on the slave and has the priority of line 2
	irq, vector, ok := p.Acknowledge()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, irq, 10)
	test.ExpectEquality(t, vector, 0x72)

	// in-service slave blocks the lower priority master lines
	_, ok = p.Pending()
	test.ExpectFailure(t, ok)

	p.EndOfInterrupt(10)
	irq, vector, ok = p.Acknowledge()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, irq, 5)
	test.ExpectEquality(t, vector, 0x0d)

	p.EndOfInterrupt(5)
	irq, _, ok = p.Acknowledge()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, irq, 7)
}

func TestMask(t *testing.T) {
	p := pic.NewPIC(logger.Deny)

	p.SetMask(7, true)
	test.ExpectSuccess(t, p.IsMasked(7))
	p.Activate(7)
	_, ok := p.Pending()
	test.ExpectFailure(t, ok)

	p.SetMask(7, false)
	irq, ok := p.Pending()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, irq, 7)
}

func TestPorts(t *testing.T) {
	bus := iobus.NewBus(logger.Deny)
	p := pic.NewPIC(logger.Deny)
	test.DemandSuccess(t, p.InstallPorts(bus))

	// mask everything except line 5 through the data port
	bus.WriteByte(0x21, 0xdf)
	test.ExpectEquality(t, bus.ReadByte(0x21), 0xdf)
	test.ExpectSuccess(t, p.IsMasked(7))
	test.ExpectFailure(t, p.IsMasked(5))

	p.Activate(5)
	test.ExpectEquality(t, bus.ReadByte(0x20), 0x20)

	_, _, ok := p.Acknowledge()
	test.ExpectSuccess(t, ok)

	// OCW3 read ISR
	bus.WriteByte(0x20, 0x0b)
	test.ExpectEquality(t, bus.ReadByte(0x20), 0x20)

	// non-specific EOI
	bus.WriteByte(0x20, 0x20)
	test.ExpectEquality(t, bus.ReadByte(0x20), 0x00)

	// initialisation sequence with a new vector base
	bus.WriteByte(0x20, 0x11)
	bus.WriteByte(0x21, 0x50)
	bus.WriteByte(0x21, 0x04)
	bus.WriteByte(0x21, 0x01)
	bus.WriteByte(0x21, 0x00)

	p.Deactivate(5)
	p.Activate(5)
	irq, vector, ok := p.Acknowledge()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, irq, 5)
	test.ExpectEquality(t, vector, 0x55)
}
