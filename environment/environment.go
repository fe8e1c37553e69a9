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

// Package environment provides the context for an emulation. An emulation can
// be the main emulation, the one the user hears, or a secondary emulation
// created for some other purpose. For example, an emulation created to
// measure the size of a save-state.
package environment

import (
	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/random"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the main emulation.
const MainEmulation = Label("")

// Throwaway is the label for emulations whose log output is not wanted.
const Throwaway = Label("throwaway")

// Environment is used to provide context for an emulation. Particularly useful
// when using multiple emulations.
type Environment struct {
	Label Label

	// any randomisation required by the emulation should be retrieved through
	// this structure
	Random *random.Random

	// the emulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the Environment type.
//
// The clock argument is used to seed random numbers. It is usually the
// scheduler of the emulation. The prefs argument can be nil, in which case the
// default preferences are used. Providing a non-nil value allows the
// preferences of more than one emulation to be synchronised.
func NewEnvironment(label Label, clock random.Clock, prefs *preferences.Preferences) *Environment {
	if prefs == nil {
		prefs = preferences.NewDefaults()
	}

	return &Environment{
		Label:  label,
		Random: random.NewRandom(clock),
		Prefs:  prefs,
	}
}

// Normalise ensures the environment is in an known default state. Useful for
// testing where the initial state must be the same for every run.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
	env.Prefs.SetDefaults()
}

// AllowLogging implements the logging.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Label != Throwaway
}

// IsMainEmulation returns true if the environment is intended for the main
// emulation in the system.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}
