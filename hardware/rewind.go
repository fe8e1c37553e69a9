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

import "fmt"

// the maximum number of steps to store before the earliest steps are
// forgotten
const maxRewindSteps = 100

type rewind struct {
	m        *Machine
	steps    []*State
	position int
}

func newRewind(m *Machine) *rewind {
	r := &rewind{
		m:     m,
		steps: make([]*State, 0, maxRewindSteps),
	}
	r.reset()
	return r
}

// reset rewind system to zero, taking a snapshot of the current state
func (r *rewind) reset() {
	r.steps = r.steps[:0]
	r.position = 0
	r.append(r.m.Snapshot())
}

func (r *rewind) append(s *State) {
	// appending after a rewind discards the steps after the current position
	r.steps = append(r.steps[:r.position], s)

	// maintain maximum length
	if len(r.steps) > maxRewindSteps {
		r.steps = r.steps[1:]
	}

	r.position = len(r.steps)
}

// Checkpoint adds a snapshot of the current state to the rewind history.
func (m *Machine) Checkpoint() {
	m.rewind.append(m.Snapshot())
}

// RewindState returns the number of checkpoints in the rewind history and
// the index of the most recently plumbed or added checkpoint.
func (m *Machine) RewindState() (int, int) {
	return len(m.rewind.steps), m.rewind.position - 1
}

// Rewind plumbs the checkpoint at the index. Checkpoints added afterwards
// replace the checkpoints after the index.
func (m *Machine) Rewind(pos int) error {
	r := m.rewind
	if pos < 0 || pos >= len(r.steps) {
		return fmt.Errorf("hardware: no rewind checkpoint at %d", pos)
	}

	// plumb in a snapshot of the stored state. we don't want the machine to
	// change what we have stored in our history
	if err := m.Plumb(r.steps[pos].Snapshot()); err != nil {
		return err
	}
	r.position = pos + 1
	return nil
}

// Checkpoints returns the time of each checkpoint in the rewind history.
func (m *Machine) Checkpoints() []float64 {
	t := make([]float64, len(m.rewind.steps))
	for i, s := range m.rewind.steps {
		t[i] = s.Time
	}
	return t
}
