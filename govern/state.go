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

package govern

// State indicates the emulation's state.
type State int

// List of possible emulation states.
//
// Initialising is used while the machine is being built and should never be
// returned once the machine has started running.
//
// Stopping is only meaningful to the guest driver. No more audio is given to
// the card and playback ends once the audio already queued has been heard.
// Ending stops playback immediately by resetting the DSP.
const (
	Initialising State = iota
	Paused
	Running
	Stopping
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "Initialising"
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	case Ending:
		return "Ending"
	}

	return ""
}
