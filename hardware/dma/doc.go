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

// Package dma emulates the pair of 8237 DMA controllers of the PC/AT and the
// memory they transfer to and from.
//
// Channels 0 to 3 belong to the first controller and transfer bytes.
// Channels 4 to 7 belong to the second controller and transfer 16 bit words.
// Channel 4 is the cascade input and is never used by a device.
//
// Devices do not program the controller. They find a channel by number with
// Controller.Channel() and then move data with Channel.Read() and
// Channel.Write(). A device that wants to know about mask changes and
// terminal count registers a Listener. Registering a listener immediately
// notifies it of the current mask state.
//
// The guest programs the controller through the I/O ports installed by
// Controller.InstallPorts() or, for convenience, with Channel.Program().
package dma
