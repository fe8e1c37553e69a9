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

// Package audio is the mixer that the sound devices of the machine play
// through.
//
// The mixer pulls audio from its channels. Each Channel has a Handler that
// the mixer calls with the number of source frames it needs. The handler
// responds by calling one of the Add functions of the channel. Source audio
// is resampled to the rate of the mixer and scaled by the channel gain as it
// is added.
//
// Audio is rendered in step with virtual time. Render() produces the frames
// for the time since the previous call. A device that is about to change
// something that affects its audio output (the sample rate, the gain or the
// mode of the device) calls Channel.FillUp() first, so that the frames
// belonging to the time before the change are produced under the old
// conditions.
//
// Rendered audio is interleaved stereo, 16 bit, at the rate of the mixer. It
// is passed to every Sink added to the mixer.
package audio
