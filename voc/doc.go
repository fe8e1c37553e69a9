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

// Package voc reads Creative Voice Files. These are the sound files that
// shipped with the Sound Blaster and they map closely onto the card's own
// playback commands: a block records either the time constant written with
// DSP command 0x40 or, in later versions of the format, the sample rate.
//
// Decode() gathers the audio blocks of a file into a single Sound. Blocks
// of silence are expanded into sample data. Markers, text and repeat
// blocks are skipped. ADPCM packed data is not supported.
package voc
