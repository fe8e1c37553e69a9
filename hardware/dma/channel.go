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

package dma

import (
	"fmt"
)

// Event is sent to a Listener.
type Event int

// List of valid Event values.
const (
	ReachedTC Event = iota
	Masked
	Unmasked
)

func (ev Event) String() string {
	switch ev {
	case ReachedTC:
		return "tc"
	case Masked:
		return "masked"
	case Unmasked:
		return "unmasked"
	}
	return "unknown dma event"
}

// Listener is notified of changes to a channel.
type Listener func(ch *Channel, ev Event)

// Transfer type from the mode register.
type Transfer int

// List of valid Transfer values.
const (
	Verify Transfer = iota
	ToMemory
	FromMemory
)

// Channel is a single DMA channel.
type Channel struct {
	ctrl *Controller

	// channel number 0 to 7
	Number int

	// channels 4 to 7 transfer words
	Is16 bool

	// addresses and counts are in transfer units (bytes or words). the count
	// is one less than the number of units to transfer
	BaseAddr  uint16
	CurrAddr  uint16
	BaseCount uint16
	CurrCount uint16

	// page register
	Page uint8

	Masked    bool
	AutoInit  bool
	Decrement bool
	Transfer  Transfer

	// terminal count reached since the status register was last read
	TC bool

	// device request line
	Request bool

	listener Listener
}

func (ch *Channel) String() string {
	mask := ""
	if ch.Masked {
		mask = " masked"
	}
	auto := ""
	if ch.AutoInit {
		auto = " auto"
	}
	return fmt.Sprintf("ch%d page=%02x addr=%04x/%04x count=%04x/%04x%s%s",
		ch.Number, ch.Page, ch.CurrAddr, ch.BaseAddr, ch.CurrCount, ch.BaseCount, auto, mask)
}

// Register the listener for the channel. The listener is notified
// immediately of the current mask state. A nil listener removes any existing
// listener.
func (ch *Channel) Register(l Listener) {
	ch.listener = l
	if l == nil {
		return
	}
	if ch.Masked {
		l(ch, Masked)
	} else {
		l(ch, Unmasked)
	}
}

// HasListener returns true if a listener is registered.
func (ch *Channel) HasListener() bool {
	return ch.listener != nil
}

func (ch *Channel) notify(ev Event) {
	if ch.listener != nil {
		ch.listener(ch, ev)
	}
}

// SetMask changes the mask state of the channel, notifying the listener if
// the state changes.
func (ch *Channel) SetMask(masked bool) {
	if ch.Masked == masked {
		return
	}
	ch.Masked = masked
	if masked {
		ch.notify(Masked)
	} else {
		ch.notify(Unmasked)
	}
}

// physical address of a unit address
func (ch *Channel) physical(addr uint16) uint32 {
	if ch.Is16 {
		return uint32(ch.Page&0xfe)<<16 | uint32(addr)<<1
	}
	return uint32(ch.Page)<<16 | uint32(addr)
}

// size of a transfer unit in bytes
func (ch *Channel) unit() int {
	if ch.Is16 {
		return 2
	}
	return 1
}

// Program the channel as the guest would through the ports. The address is a
// physical byte address and count is the number of units to transfer. The
// channel is left masked.
func (ch *Channel) Program(physical uint32, count int, autoInit bool, transfer Transfer) {
	ch.SetMask(true)
	if ch.Is16 {
		ch.Page = uint8(physical>>16) & 0xfe
		ch.BaseAddr = uint16(physical >> 1)
	} else {
		ch.Page = uint8(physical >> 16)
		ch.BaseAddr = uint16(physical)
	}
	ch.CurrAddr = ch.BaseAddr
	ch.BaseCount = uint16(count - 1)
	ch.CurrCount = ch.BaseCount
	ch.AutoInit = autoInit
	ch.Decrement = false
	ch.Transfer = transfer
	ch.TC = false
}

// transfer units between memory and the buffer. the buffer must be large
// enough for want units
func (ch *Channel) transfer(want int, buf []byte, toMemory bool) int {
	if ch.Masked {
		return 0
	}

	u := ch.unit()
	done := 0

	for want > 0 {
		left := int(ch.CurrCount) + 1
		n := min(want, left)

		for i := range n {
			p := buf[(done+i)*u : (done+i+1)*u]
			a := ch.physical(ch.CurrAddr)
			if toMemory {
				ch.ctrl.mem.write(a, p)
			} else {
				ch.ctrl.mem.read(a, p)
			}
			if ch.Decrement {
				ch.CurrAddr--
			} else {
				ch.CurrAddr++
			}
		}

		done += n
		want -= n

		if n < left {
			ch.CurrCount -= uint16(n)
			break
		}

		// terminal count
		ch.TC = true
		ch.notify(ReachedTC)
		if ch.AutoInit {
			ch.CurrCount = ch.BaseCount
			ch.CurrAddr = ch.BaseAddr
			continue
		}

		ch.CurrCount = 0xffff
		ch.SetMask(true)
		break
	}

	return done
}

// Read units from memory into the buffer. The buffer must be at least want
// units long. Fewer units than requested are returned if the channel is
// masked or a non auto-init transfer reaches terminal count.
func (ch *Channel) Read(want int, buf []byte) int {
	return ch.transfer(want, buf, false)
}

// Write units from the buffer into memory. Same rules as Read().
func (ch *Channel) Write(want int, buf []byte) int {
	return ch.transfer(want, buf, true)
}

// Remaining returns the number of units before terminal count.
func (ch *Channel) Remaining() int {
	if ch.CurrCount == 0xffff {
		return 0
	}
	return int(ch.CurrCount) + 1
}
