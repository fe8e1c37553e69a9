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

// Package scheduler implements the virtual clock of the emulation. Devices
// never wait for anything. Instead they schedule an event for a time in the
// future and return. The scheduler dispatches the event when the virtual clock
// reaches the trigger time.
//
// Events are plain data. An event names the Target that will receive it, an
// event kind (meaningful only to the target) and a token. Events with the same
// trigger time are dispatched in the order they were scheduled.
//
// Time is measured in milliseconds.
package scheduler
