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

// Package modalflag wraps the flag package of the standard library so that a
// command line can select between program modes, each mode having its own
// flags and arguments.
//
// Arguments are given once with NewArgs(). Each call to Parse() consumes the
// flags for the current mode and, if sub-modes have been added with
// AddSubModes(), the mode selector that follows them. The first sub-mode is
// the default and is selected when no selector is given.
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PROBE", "PLAY", "RECORD", "STATE")
//
//	p, err := md.Parse()
//	if err != nil || p != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "PLAY":
//		md.NewMode()
//		wav := md.AddString("wav", "", "write mixer output to wav file")
//		p, err := md.Parse()
//		if err != nil || p != modalflag.ParseContinue {
//			return err
//		}
//		play(md.GetArg(0), *wav)
//	}
//
// Mode selectors are case insensitive and Mode() always returns the upper
// case form. Path() returns every mode selected so far, joined with a slash,
// and is useful for error messages.
//
// A -help flag prints the flags and sub-modes of the current mode to Output
// and Parse() returns ParseHelp.
package modalflag
