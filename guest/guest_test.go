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

package guest_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/gopherblaster/curated"
	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/govern"
	"github.com/jetsetilly/gopherblaster/guest"
	"github.com/jetsetilly/gopherblaster/hardware"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/opl"
	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/soundsource"
	"github.com/jetsetilly/gopherblaster/test"
)

// a machine with the card type and a driver that has detected the card
func newDriver(t *testing.T, cardType string) (*hardware.Machine, *guest.Driver) {
	t.Helper()

	p := preferences.NewDefaults()
	test.DemandSuccess(t, p.Type.Set(cardType))

	m, err := hardware.NewMachine(environment.Throwaway, p)
	test.DemandSuccess(t, err)

	s, err := guest.ParseBlaster(m.Card().Blaster())
	test.DemandSuccess(t, err)

	d := guest.NewDriver(m, s)
	test.DemandSuccess(t, d.Detect())

	return m, d
}

func TestParseBlaster(t *testing.T) {
	s, err := guest.ParseBlaster("A220 I7 D1 H5 P330 T6")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.Base, 0x220)
	test.ExpectEquality(t, s.IRQ, 7)
	test.ExpectEquality(t, s.DMA, 1)
	test.ExpectEquality(t, s.HDMA, 5)
	test.ExpectEquality(t, s.Type, 6)

	s, err = guest.ParseBlaster("a240 i5")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.Base, 0x240)
	test.ExpectEquality(t, s.IRQ, 5)
	test.ExpectEquality(t, s.DMA, blaster.NoChannel)
	test.ExpectEquality(t, s.HDMA, blaster.NoChannel)

	_, err = guest.ParseBlaster("I7 D1")
	test.ExpectFailure(t, err)
	_, err = guest.ParseBlaster("A220 Ix")
	test.ExpectFailure(t, err)
}

func TestDetect(t *testing.T) {
	_, d := newDriver(t, "SB16")
	test.ExpectEquality(t, d.Major, 4)
	test.ExpectEquality(t, d.Minor, 5)

	s, err := d.Copyright()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "COPYRIGHT (C) CREATIVE TECHNOLOGY LTD, 1992.")

	mode, err := d.DetectOPL(hardware.AdlibPort)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mode, opl.OPL3)

	// the SB16 also decodes the OPL at the start of its ports
	mode, err = d.DetectOPL(0x220)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mode, opl.OPL3)

	// there is nothing at the second address
	mode, err = d.DetectOPL(0x240)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mode, opl.None)
}

func TestDetectOlderCards(t *testing.T) {
	_, d := newDriver(t, "SB1")
	test.ExpectEquality(t, d.Major, 1)
	mode, err := d.DetectOPL(hardware.AdlibPort)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mode, opl.OPL2)

	_, d = newDriver(t, "SBPro2")
	test.ExpectEquality(t, d.Major, 3)
	test.ExpectEquality(t, d.Minor, 2)
}

func TestNoDSP(t *testing.T) {
	m, _ := newDriver(t, "SB16")
	d := guest.NewDriver(m, guest.Settings{Base: 0x240})
	err := d.Detect()
	test.ExpectSuccess(t, curated.Is(err, guest.NoDSP))
}

func TestMixer(t *testing.T) {
	_, d := newDriver(t, "SB16")
	d.SetMixer(0x30, 0xf8)
	test.ExpectEquality(t, d.GetMixer(0x30), 0xf8)
}

func TestAdapt(t *testing.T) {
	f := guest.Format{Rate: 44100, Channels: 2, Bits: 16}

	_, d := newDriver(t, "SB16")
	test.ExpectEquality(t, d.Adapt(f), f)

	_, d = newDriver(t, "SBPro2")
	test.ExpectEquality(t, d.Adapt(f), guest.Format{Rate: 22050, Channels: 2, Bits: 8})

	_, d = newDriver(t, "SB1")
	test.ExpectEquality(t, d.Adapt(f), guest.Format{Rate: 23000, Channels: 1, Bits: 8})
	test.ExpectEquality(t, d.AdaptRecording(f), guest.Format{Rate: 13000, Channels: 1, Bits: 8})
}

func TestPlaySB16(t *testing.T) {
	m, d := newDriver(t, "SB16")

	// a little over four and a half blocks of 50ms
	data := bytes.Repeat([]byte{0x80, 0xc0, 0x80, 0x40}, 1250)
	played, err := d.Play(guest.Format{Rate: 22050, Channels: 1, Bits: 8}, bytes.NewReader(data), nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, played, 5)

	// one more interrupt for the block that ends the transfer
	test.ExpectEquality(t, d.Interrupts, 6)
	test.ExpectEquality(t, m.Card().Mode(), blaster.ModeNone)
	test.ExpectSuccess(t, m.Card().Channel().Added >= len(data))
}

func TestPlay16(t *testing.T) {
	m, d := newDriver(t, "SB16")

	// two blocks of 16 bit stereo
	data := make([]byte, 2205*4*2)
	played, err := d.Play(guest.Format{Rate: 44100, Channels: 2, Bits: 16}, bytes.NewReader(data), nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, played, 2)
	test.ExpectEquality(t, m.Card().Mode(), blaster.ModeNone)

	p8, p16 := m.Card().Pending()
	test.ExpectFailure(t, p8)
	test.ExpectFailure(t, p16)
}

func TestPlaySB1(t *testing.T) {
	m, d := newDriver(t, "SB1")

	// the SB1 is sent a single cycle command for every block
	data := bytes.Repeat([]byte{0x80, 0xff}, 1000)
	played, err := d.Play(guest.Format{Rate: 11025, Channels: 1, Bits: 8}, bytes.NewReader(data), nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, played, 4)
	test.ExpectEquality(t, d.Interrupts, 4)
	test.ExpectFailure(t, m.Card().Speaker())
	test.ExpectSuccess(t, m.Card().Channel().Added > 0)
}

func TestPlayProStereo(t *testing.T) {
	m, d := newDriver(t, "SBPro2")

	// 16 bit data is converted to 8 bit and played with the high-speed
	// commands
	data := make([]byte, 2205*4)
	played, err := d.Play(guest.Format{Rate: 22050, Channels: 2, Bits: 16}, bytes.NewReader(data), nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, played, 3)
	test.ExpectEquality(t, m.Card().Mode(), blaster.ModeNone)
	test.ExpectEquality(t, d.GetMixer(0x0e)&0x02, 0x00)
}

func TestPlayStopped(t *testing.T) {
	m, d := newDriver(t, "SB16")

	data := make([]byte, 44100)
	played, err := d.Play(guest.Format{Rate: 22050, Channels: 1, Bits: 8}, bytes.NewReader(data), func() (govern.State, error) {
		return govern.Ending, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, played, 0)
	test.ExpectEquality(t, m.Card().Mode(), blaster.ModeNone)
}

func TestPlayStopping(t *testing.T) {
	m, d := newDriver(t, "SB16")

	// only the two blocks filled before the transfer starts are heard
	data := bytes.Repeat([]byte{0x80, 0xc0, 0x80, 0x40}, 11025)
	played, err := d.Play(guest.Format{Rate: 22050, Channels: 1, Bits: 8}, bytes.NewReader(data), func() (govern.State, error) {
		return govern.Stopping, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, played, 2)
	test.ExpectEquality(t, d.Interrupts, 3)
	test.ExpectEquality(t, m.Card().Mode(), blaster.ModeNone)
}

func TestPlayNothing(t *testing.T) {
	_, d := newDriver(t, "SB16")
	played, err := d.Play(guest.Format{Rate: 22050, Channels: 1, Bits: 8}, bytes.NewReader(nil), nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, played, 0)

	_, err = d.Play(guest.Format{Rate: 22050, Channels: 3, Bits: 8}, bytes.NewReader(nil), nil)
	test.ExpectFailure(t, err)
}

func TestRecordSB16(t *testing.T) {
	m, d := newDriver(t, "SB16")
	m.AttachSource(soundsource.NewTone(1000))

	f, data, err := d.Record(guest.Format{Rate: 22050, Channels: 1, Bits: 8}, 2000)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, f, guest.Format{Rate: 22050, Channels: 1, Bits: 8})
	test.DemandEquality(t, len(data), 2000)

	var peak uint8
	for _, v := range data {
		peak = max(peak, v)
	}
	test.ExpectSuccess(t, peak > 0xa0)
}

func TestRecordSB2(t *testing.T) {
	m, d := newDriver(t, "SB2")
	m.AttachSource(soundsource.NewTone(1000))

	// the SB2 records 8 bit mono at no more than 15000Hz
	f, data, err := d.Record(guest.Format{Rate: 44100, Channels: 2, Bits: 16}, 1000)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, f, guest.Format{Rate: 15000, Channels: 1, Bits: 8})
	test.DemandEquality(t, len(data), 1000)
}
