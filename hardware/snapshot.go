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

	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/dma"
)

// State stores the state of the machine's sub-systems. It is produced by the
// Snapshot() function and can be restored with the Plumb() function.
//
// Note in particular that DMA memory and the OPL are not part of the snapshot
// process.
type State struct {
	// virtual time at which the snapshot was taken
	Time float64

	DMA   [8]dma.Channel
	Cards []blaster.State
}

func (s *State) String() string {
	return fmt.Sprintf("%.3fms", s.Time)
}

// Snapshot creates a copy of a previously snapshotted State.
func (s *State) Snapshot() *State {
	n := &State{
		Time:  s.Time,
		DMA:   s.DMA,
		Cards: make([]blaster.State, len(s.Cards)),
	}
	for i, c := range s.Cards {
		n.Cards[i] = copyCardState(c)
	}
	return n
}

// the slices in the card state are the only parts that need copying
func copyCardState(st blaster.State) blaster.State {
	st.DSP.Output = append([]uint8{}, st.DSP.Output...)
	st.DMA.Pending = append([]uint8{}, st.DMA.Pending...)
	st.DAC = append([]int16{}, st.DAC...)
	return st
}

// Snapshot the state of the machine's sub-systems.
func (m *Machine) Snapshot() *State {
	s := &State{
		Time: m.Sched.NowMs(),
		DMA:  m.DMA.Snapshot(),
	}
	for _, c := range m.Cards {
		s.Cards = append(s.Cards, c.State())
	}
	return s
}

// Plumb a previously snapshotted state. The state must have been taken from
// a machine with the same cards. Virtual time is not changed.
func (m *Machine) Plumb(s *State) error {
	if s == nil {
		return fmt.Errorf("hardware: cannot plumb in a nil state")
	}
	if len(s.Cards) != len(m.Cards) {
		return fmt.Errorf("hardware: state has %d cards, machine has %d", len(s.Cards), len(m.Cards))
	}

	// the DMA registers must be in place before the cards register their
	// listeners
	m.DMA.Plumb(s.DMA)

	for i, c := range m.Cards {
		if err := c.Restore(copyCardState(s.Cards[i])); err != nil {
			return fmt.Errorf("hardware: %w", err)
		}
	}

	return nil
}
