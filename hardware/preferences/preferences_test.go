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

package preferences_test

import (
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/prefs"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestDefaults(t *testing.T) {
	p := preferences.NewDefaults()
	test.ExpectEquality(t, p.Type.String(), "SB16")
	test.ExpectEquality(t, p.Base.Get().(int), 0x220)
	test.ExpectEquality(t, p.OPLMode.String(), preferences.Auto)
	test.ExpectEquality(t, p.RecordingSource.String(), "silence")

	// preferences without a file can be loaded and saved with no effect
	test.ExpectSuccess(t, p.Load())
	test.ExpectSuccess(t, p.Save())
}

func TestSaveAndLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	p, err := preferences.NewPreferencesFromFile(fn)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Type.Set("SBPro2"))
	test.DemandSuccess(t, p.IRQ.Set(5))
	test.DemandSuccess(t, p.Save())

	q, err := preferences.NewPreferencesFromFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Type.String(), "SBPro2")
	test.ExpectEquality(t, q.IRQ.Get().(int), 5)
	test.ExpectEquality(t, q.DMA.Get().(int), 1)
}

func TestCommandLine(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	prefs.PushCommandLineStack("sblaster.type::SB2; sblaster.oplMode::none; sblaster.unknown::1")
	p, err := preferences.NewPreferencesFromFile(fn)
	unused := prefs.PopCommandLineStack()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.Type.String(), "SB2")
	test.ExpectEquality(t, p.OPLMode.String(), "none")
	test.ExpectEquality(t, unused, "sblaster.unknown::1")
}

func TestResources(t *testing.T) {
	p := preferences.NewDefaults()
	test.ExpectEquality(t, p.Resources.String(), "A220 I7 D1 H5")

	test.DemandSuccess(t, p.Resources.Set("a240 i5 d3 h6 t6"))
	test.ExpectEquality(t, p.Base.Get().(int), 0x240)
	test.ExpectEquality(t, p.IRQ.Get().(int), 5)
	test.ExpectEquality(t, p.DMA.Get().(int), 3)
	test.ExpectEquality(t, p.HDMA.Get().(int), 6)
	test.ExpectEquality(t, p.Resources.String(), "A240 I5 D3 H6")

	// an empty string changes nothing
	test.ExpectSuccess(t, p.Resources.Set(""))
	test.ExpectEquality(t, p.Base.Get().(int), 0x240)

	test.ExpectFailure(t, p.Resources.Set("A2x0"))
	test.ExpectFailure(t, p.Resources.Set("I"))

	test.DemandSuccess(t, p.HDMA.Set(-1))
	test.ExpectEquality(t, p.Resources.String(), "A240 I5 D3")
}

func TestBusyCycleRate(t *testing.T) {
	p := preferences.NewDefaults()
	test.ExpectEquality(t, p.BusyCycleRate.Get().(float64), -1.0)

	prefs.PushCommandLineStack("sblaster.busyCycleRate::7812.5")
	q, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	prefs.PopCommandLineStack()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.BusyCycleRate.Get().(float64), 7812.5)
}
