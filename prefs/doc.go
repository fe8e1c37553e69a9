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

// Package prefs facilitates the storage of preferential values in the
// emulator. Preference values are typed (Bool, Int, Float, String and the
// Generic type for anything else) and can be persisted to a file through the
// Disk type.
//
// Every preference type supports pre and post hooks. The hooks are called
// every time the value is set, even if the value hasn't changed. The hooks
// are useful for propagating a preference change to a live emulation.
//
// Values can be overridden from the command line with the command line stack.
// See PushCommandLineStack() for the format.
package prefs
