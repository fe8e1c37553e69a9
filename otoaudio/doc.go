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

// Package otoaudio plays the output of the mixer through the host's sound
// device. It implements the audio.Sink interface.
//
// Rendering is paced by the sound device: SetAudio() blocks while more than
// the buffer limit is waiting to be played. The emulation therefore runs at
// real time while an Audio is attached to the mixer.
//
// The package is built without the oto dependency when the headless build
// tag is present. NewAudio() returns an error in that case.
package otoaudio
