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

// Package soundsource provides the audio heard by a Sound Blaster when the
// guest is recording. The synthetic sources are silence, a sine tone and
// hiss. The File source plays the first channel of a WAV or MP3 file,
// looping when it reaches the end.
//
// Every type in the package implements the blaster.Source interface.
package soundsource
