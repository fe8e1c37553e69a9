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

package soundsource_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/scheduler"
	"github.com/jetsetilly/gopherblaster/logger"
	"github.com/jetsetilly/gopherblaster/soundsource"
	"github.com/jetsetilly/gopherblaster/test"
	"github.com/jetsetilly/gopherblaster/wavwriter"
)

func newEnvironment() *environment.Environment {
	env := environment.NewEnvironment(environment.Throwaway, scheduler.NewScheduler(), nil)
	env.Normalise()
	return env
}

func TestNewSource(t *testing.T) {
	env := newEnvironment()

	src, err := soundsource.NewSource(env, "silence")
	test.DemandSuccess(t, err)
	test.DemandImplements[blaster.Source](t, src)

	_, err = soundsource.NewSource(env, "TONE")
	test.ExpectSuccess(t, err)
	_, err = soundsource.NewSource(env, "hiss")
	test.ExpectSuccess(t, err)

	_, err = soundsource.NewSource(env, "noise")
	test.ExpectFailure(t, err)
	_, err = soundsource.NewSource(env, filepath.Join(t.TempDir(), "missing.wav"))
	test.ExpectFailure(t, err)
}

func TestSilence(t *testing.T) {
	p := []int16{1, 2, 3}
	soundsource.Silence{}.Fill(22050, p)
	for _, v := range p {
		test.ExpectEquality(t, v, 0)
	}
}

func TestTone(t *testing.T) {
	tone := soundsource.NewTone(1000)

	// eight samples per cycle
	p := make([]int16, 16)
	tone.Fill(8000, p)
	test.ExpectEquality(t, p[0], 0)
	test.ExpectApproximate(t, float64(p[2]), tone.Amplitude, 0.001)
	test.ExpectApproximate(t, float64(p[6]), -tone.Amplitude, 0.001)
	test.ExpectApproximate(t, float64(p[10]), float64(p[2]), 0.001)

	// the phase continues between calls
	q := make([]int16, 1)
	tone.Fill(8000, q)
	test.ExpectSuccess(t, q[0] >= -1 && q[0] <= 1)
}

func TestHiss(t *testing.T) {
	env := newEnvironment()
	hiss := soundsource.NewHiss(env.Random)

	p := make([]int16, 1000)
	hiss.Fill(22050, p)

	var quiet int
	for _, v := range p {
		test.ExpectSuccess(t, int(math.Abs(float64(v))) <= hiss.Amplitude)
		if v == 0 {
			quiet++
		}
	}
	test.ExpectSuccess(t, quiet < len(p))
}

func TestFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "in.wav")

	// stereo 16 bit file. only the left channel is used
	test.DemandSuccess(t, wavwriter.WriteFile(fn, 8000, 2, 16, []int{
		100, -1, 200, -1, 300, -1, 400, -1,
	}))

	src, err := soundsource.NewFile(logger.Deny, fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, src.Rate(), 8000)
	test.ExpectEquality(t, src.Len(), 4)

	// twice the rate of the file repeats every sample
	p := make([]int16, 8)
	src.Fill(16000, p)
	test.ExpectEquality(t, p[0], 100)
	test.ExpectEquality(t, p[1], 100)
	test.ExpectEquality(t, p[2], 200)
	test.ExpectEquality(t, p[7], 400)

	// and the file loops
	src.Fill(8000, p[:2])
	test.ExpectEquality(t, p[0], 100)
	test.ExpectEquality(t, p[1], 200)
}
