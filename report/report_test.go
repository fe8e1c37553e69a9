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

package report_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/hardware"
	"github.com/jetsetilly/gopherblaster/report"
	"github.com/jetsetilly/gopherblaster/test"
)

func TestWrite(t *testing.T) {
	rep := report.New("probe")
	rep.Add("dsp", "%d.%02d", 4, 5)
	rep.Add("copyright", "none")
	rep.Warn("opl", "not found")

	var b strings.Builder
	test.DemandSuccess(t, rep.Write(&b))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	test.DemandEquality(t, len(lines), 4)
	test.ExpectSuccess(t, strings.Contains(lines[0], "probe"))

	// keys are aligned
	test.ExpectSuccess(t, strings.HasPrefix(lines[1], "dsp"))
	test.ExpectEquality(t, strings.Index(lines[1], "4.05"), strings.Index(lines[2], "none"))
	test.ExpectEquality(t, strings.Index(lines[2], "none"), strings.Index(lines[3], "not found"))
}

func TestCard(t *testing.T) {
	m, err := hardware.NewMachine(environment.Throwaway, nil)
	test.DemandSuccess(t, err)

	rep := report.New("card")
	rep.Card(m.Card())

	var b strings.Builder
	test.DemandSuccess(t, rep.Write(&b))
	test.ExpectSuccess(t, strings.Contains(b.String(), "A220 I7 D1 H5 T6"))
	test.ExpectSuccess(t, strings.Contains(b.String(), "SB16"))
}
