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

// Package blaster emulates the ISA Sound Blaster family of sound cards: the
// original Sound Blaster, the Sound Blaster 2.0, both Sound Blaster Pro
// models, the Sound Blaster 16 and two compatible chipsets (the ESS
// AudioDrive 688 and the Reveal SC400).
//
// A Card is created with NewCard() and connected to the rest of the machine
// through the Connections type. The card decodes its ports on an iobus.Bus,
// raises interrupts through an InterruptController, moves audio through
// DMA channels and produces audio on a channel of the audio mixer.
//
// The DSP is programmed by writing commands and their arguments to the write
// data port. The number of argument bytes taken by a command depends on the
// variant and is fixed when the opcode is written. Commands that a variant
// does not support are logged and ignored.
//
// Audio is produced when the mixer asks for it. A DMA transfer reads as many
// bytes from memory as are needed for the frames requested by the mixer and
// raises an interrupt when a block is complete. When the mixer will not ask
// for audio, because the speaker is off or the block is very short, the
// transfer is driven by events on the scheduler instead.
//
// The card runs on a single goroutine. Nothing in the package is safe for
// concurrent use.
package blaster
