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

package blaster_test

import (
	"testing"

	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestConfigFromPreferences(t *testing.T) {
	p := preferences.NewDefaults()
	cfg, err := blaster.NewConfig(p)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Variant, blaster.SB16)
	test.ExpectEquality(t, cfg.BusyCycleRate, 8000.0)

	test.DemandSuccess(t, p.BusyCycleRate.Set("7812.5"))
	test.DemandSuccess(t, p.Resources.Set("A240 I5 D3 H7"))
	cfg, err = blaster.NewConfig(p)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.BusyCycleRate, 7812.5)
	test.ExpectEquality(t, cfg.Base, 0x240)
	test.ExpectEquality(t, cfg.IRQ, 5)
	test.ExpectEquality(t, cfg.DMA8, 3)
	test.ExpectEquality(t, cfg.DMA16, 7)

	test.DemandSuccess(t, p.Resources.Set("A245"))
	_, err = blaster.NewConfig(p)
	test.ExpectFailure(t, err)
}
