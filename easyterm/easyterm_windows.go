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

//go:build windows

package easyterm

import (
	"fmt"
	"os"
)

// TermGeometry is the size of the terminal.
type TermGeometry struct {
	Rows uint16
	Cols uint16
}

// Terminal is not supported on windows. Initialise() always fails.
type Terminal struct {
	Geometry TermGeometry
}

// IsTerminal always returns false on windows.
func IsTerminal(_ *os.File) bool {
	return false
}

// Initialise always returns an error on windows.
func (pt *Terminal) Initialise(_ *os.File, _ *os.File) error {
	return fmt.Errorf("easyterm: not supported on windows")
}

// CleanUp does nothing on windows.
func (pt *Terminal) CleanUp() {}

// Print does nothing on windows.
func (pt *Terminal) Print(_ string, _ ...any) {}

// UpdateGeometry does nothing on windows.
func (pt *Terminal) UpdateGeometry() error { return nil }

// CanonicalMode does nothing on windows.
func (pt *Terminal) CanonicalMode() {}

// CBreakMode does nothing on windows.
func (pt *Terminal) CBreakMode() {}

// Flush does nothing on windows.
func (pt *Terminal) Flush() error { return nil }

// Keys returns a channel that never receives.
func (pt *Terminal) Keys() <-chan uint8 {
	return make(chan uint8)
}
