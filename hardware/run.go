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

package hardware

import (
	"fmt"

	"github.com/jetsetilly/gopherblaster/govern"
)

// Quantum is the amount of virtual time, in milliseconds, between each
// render of the mixer by Run() and Step().
const Quantum = 10.0

// Step advances virtual time by the number of milliseconds. Scheduled events
// fire in order and the mixer is rendered at least once for every Quantum.
func (m *Machine) Step(ms float64) error {
	end := m.Sched.NowMs() + ms
	for m.Sched.NowMs() < end {
		m.Sched.RunUntil(min(m.Sched.NowMs()+Quantum, end))
		if _, err := m.Mixer.Render(); err != nil {
			return fmt.Errorf("hardware: %w", err)
		}
	}
	return nil
}

// Run sets the emulation running. The continueCheck function is called after
// every Quantum of virtual time. Virtual time does not advance while the
// continueCheck function returns govern.Paused. Run returns when the function
// returns govern.Ending or an error.
func (m *Machine) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state != govern.Ending {
		switch state {
		case govern.Running:
			if err := m.Step(Quantum); err != nil {
				return err
			}
		case govern.Paused:
		default:
			return fmt.Errorf("hardware: unsupported emulation state (%s) in Run() function", state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return m.Mixer.EndMixing()
}
