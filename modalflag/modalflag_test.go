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

package modalflag_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/gopherblaster/modalflag"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.Path(), "")
	test.ExpectEquality(t, md.GetArg(0), "")
}

func TestFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-log", "-rate", "11025", "-duration", "2s", "out.wav"})
	log := md.AddBool("log", false, "echo log")
	rate := md.AddInt("rate", 22050, "sample rate")
	duration := md.AddDuration("duration", time.Second, "length")
	scale := md.AddFloat64("scale", 1.5, "scale")

	p, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, *log)
	test.ExpectEquality(t, *rate, 11025)
	test.ExpectEquality(t, *duration, 2*time.Second)
	test.ExpectEquality(t, *scale, 1.5)
	test.ExpectEquality(t, strings.Join(md.RemainingArgs(), " "), "out.wav")

	var set []string
	md.Visit(func(name string) {
		set = append(set, name)
	})
	test.ExpectEquality(t, strings.Join(set, " "), "duration log rate")
}

func TestUnknownFlag(t *testing.T) {
	md := modalflag.Modes{Output: &bytes.Buffer{}}
	md.NewArgs([]string{"-foo"})
	p, err := md.Parse()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, p, modalflag.ParseError)
}

func TestModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"play", "-wav", "out.wav", "in.voc"})
	md.AddSubModes("PROBE", "PLAY")

	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "PLAY")

	md.NewMode()
	wav := md.AddString("wav", "", "wav file")
	_, err = md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, *wav, "out.wav")
	test.ExpectEquality(t, md.GetArg(0), "in.voc")
	test.ExpectEquality(t, md.GetArg(1), "")
	test.ExpectEquality(t, md.Path(), "PLAY")
}

func TestDefaultMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-log"})
	md.AddSubModes("PROBE", "PLAY")

	// the unknown flag is left for the default mode
	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "PROBE")

	md.NewMode()
	log := md.AddBool("log", false, "echo log")
	_, err = md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, *log)
	test.ExpectEquality(t, len(md.RemainingArgs()), 0)
}

func TestNestedModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-v", "state", "dump", "x"})
	v := md.AddBool("v", false, "verbose")
	md.AddSubModes("probe", "state")

	_, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, *v)
	test.ExpectEquality(t, md.Mode(), "STATE")

	md.NewMode()
	md.AddSubModes("SHOW", "DUMP")
	_, err = md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "DUMP")
	test.ExpectEquality(t, md.Path(), "STATE/DUMP")
	test.ExpectEquality(t, md.String(), "STATE/DUMP")
	test.ExpectEquality(t, md.GetArg(0), "x")
}

func TestNoHelpAvailable(t *testing.T) {
	var out bytes.Buffer
	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"-help"})

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "No help available\n")
}

func TestHelpFlags(t *testing.T) {
	var out bytes.Buffer
	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"-help"})
	md.AddBool("test", true, "test flag")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "Usage:\n"+
		"  -test\n"+
		"    \ttest flag (default true)\n")
}

func TestHelpModes(t *testing.T) {
	var out bytes.Buffer
	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("A", "B", "C")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "Usage:\n"+
		"  available sub-modes: A, B, C\n"+
		"    default: A\n")
}

func TestHelpFlagsAndModes(t *testing.T) {
	var out bytes.Buffer
	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"-help"})
	md.AddBool("test", true, "test flag")
	md.AddSubModes("A", "B", "C")
	md.AdditionalHelp("more help")

	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "Usage:\n"+
		"  -test\n"+
		"    \ttest flag (default true)\n"+
		"\n"+
		"  available sub-modes: A, B, C\n"+
		"    default: A\n"+
		"\n"+
		"more help\n")
}

func TestHelpForMode(t *testing.T) {
	var out bytes.Buffer
	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"record", "-help"})
	md.AddSubModes("PROBE", "RECORD")
	_, err := md.Parse()
	test.DemandSuccess(t, err)

	md.NewMode()
	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "No help available for RECORD\n")
}
