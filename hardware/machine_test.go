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

package hardware_test

import (
	"testing"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/govern"
	"github.com/jetsetilly/gopherblaster/hardware"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/opl"
	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/test"
)

func newMachine(t *testing.T) *hardware.Machine {
	t.Helper()
	m, err := hardware.NewMachine(environment.Throwaway, nil)
	test.DemandSuccess(t, err)
	return m
}

// write a command and its arguments to the DSP of the first card
func command(m *hardware.Machine, b ...uint8) {
	for _, v := range b {
		m.Bus.WriteByte(0x22c, v)
		m.Step(0.1)
	}
}

func TestDefaults(t *testing.T) {
	m := newMachine(t)
	test.DemandEquality(t, len(m.Cards), 1)
	test.ExpectSuccess(t, m.OPL != nil)
	test.ExpectEquality(t, m.Card().Blaster(), "A220 I7 D1 H5 T6")
}

func TestNoOPL(t *testing.T) {
	p := preferences.NewDefaults()
	test.DemandSuccess(t, p.OPLMode.Set("none"))
	m, err := hardware.NewMachine(environment.Throwaway, p)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, m.OPL == nil)
}

func TestOPLMode(t *testing.T) {
	for _, c := range []struct {
		v    blaster.Variant
		mode opl.Mode
	}{
		{v: blaster.SB1, mode: opl.OPL2},
		{v: blaster.SB2, mode: opl.OPL2},
		{v: blaster.SBPro1, mode: opl.DualOPL2},
		{v: blaster.SBPro2, mode: opl.OPL3},
		{v: blaster.SB16, mode: opl.OPL3},
	} {
		mode, err := hardware.OPLMode(preferences.Auto, c.v)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, mode, c.mode)
	}

	mode, err := hardware.OPLMode("opl2", blaster.SB16)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mode, opl.OPL2)
}

func TestAddCard(t *testing.T) {
	m := newMachine(t)

	cfg := blaster.DefaultConfig(blaster.SB16)
	cfg.Base = 0x240
	c, err := m.AddCard(cfg)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(m.Cards), 2)
	test.ExpectEquality(t, c.HW().Base, 0x240)

	cfg.Base = 0x260
	_, err = m.AddCard(cfg)
	test.ExpectFailure(t, err)
}

func TestRewind(t *testing.T) {
	m := newMachine(t)
	original := m.Card().State().TimeConstant

	command(m, 0x40, 0xa5)
	test.ExpectEquality(t, m.Card().State().TimeConstant, 0xa5)
	m.Checkpoint()

	command(m, 0x40, 0x83)
	m.Checkpoint()

	n, pos := m.RewindState()
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, pos, 2)

	test.DemandSuccess(t, m.Rewind(1))
	test.ExpectEquality(t, m.Card().State().TimeConstant, 0xa5)

	test.DemandSuccess(t, m.Rewind(0))
	test.ExpectEquality(t, m.Card().State().TimeConstant, original)

	// a new checkpoint replaces the checkpoints after the current position
	m.Checkpoint()
	n, pos = m.RewindState()
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, pos, 1)

	test.ExpectFailure(t, m.Rewind(5))
}

func TestPlumbMismatch(t *testing.T) {
	m := newMachine(t)
	s := m.Snapshot()

	cfg := blaster.DefaultConfig(blaster.SB16)
	cfg.Base = 0x240
	_, err := m.AddCard(cfg)
	test.DemandSuccess(t, err)

	test.ExpectFailure(t, m.Plumb(s))
	test.ExpectFailure(t, m.Plumb(nil))
}

func TestStep(t *testing.T) {
	m := newMachine(t)
	test.DemandSuccess(t, m.Step(25))
	test.ExpectEquality(t, m.Sched.NowMs(), 25.0)
}

func TestRun(t *testing.T) {
	m := newMachine(t)

	var calls int
	err := m.Run(func() (govern.State, error) {
		calls++
		if calls >= 3 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Sched.NowMs(), hardware.Quantum*3)
}

func TestRunPaused(t *testing.T) {
	m := newMachine(t)

	// time only advances for the first quantum
	var calls int
	err := m.Run(func() (govern.State, error) {
		calls++
		if calls >= 4 {
			return govern.Ending, nil
		}
		return govern.Paused, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Sched.NowMs(), hardware.Quantum)
	test.ExpectEquality(t, calls, 4)
}
