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

package performance

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/jetsetilly/gopherblaster/govern"
	"github.com/jetsetilly/gopherblaster/guest"
	"github.com/jetsetilly/gopherblaster/hardware"
)

// sentinel error returned by the continueCheck function
var timedOut = errors.New("performance timed out")

// Loop is an endless reader of the same data.
type Loop struct {
	data []byte
	idx  int
}

// NewLoop is the preferred method of initialisation for the Loop type.
func NewLoop(data []byte) *Loop {
	return &Loop{data: data}
}

// Read implements the io.Reader interface. Returns io.EOF if there is no data
// to loop.
func (l *Loop) Read(p []byte) (int, error) {
	if len(l.data) == 0 {
		return 0, io.EOF
	}
	for i := range p {
		p[i] = l.data[l.idx]
		l.idx = (l.idx + 1) % len(l.data)
	}
	return len(p), nil
}

// Tone returns one cycle of a sine wave in the format. 8 bit data is
// unsigned and 16 bit data is signed little-endian.
func Tone(f guest.Format, freq float64) []byte {
	n := max(int(float64(f.Rate)/freq), 1)
	data := make([]byte, 0, n*f.FrameBytes())
	for i := range n {
		v := math.Sin(2 * math.Pi * float64(i) / float64(n))
		for range f.Channels {
			if f.Bits == 8 {
				data = append(data, uint8(128+int(v*100)))
			} else {
				s := uint16(int16(v * 25000))
				data = append(data, uint8(s), uint8(s>>8))
			}
		}
	}
	return data
}

// Result of a performance check.
type Result struct {
	// virtual time emulated during the measurement in milliseconds
	Emulated float64

	// real time of the measurement
	Elapsed time.Duration

	// number of blocks played by the guest driver
	Blocks int
}

// Speed is the number of times faster than real time the emulation ran.
func (r Result) Speed() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return r.Emulated / (float64(r.Elapsed) / float64(time.Millisecond))
}

func (r Result) String() string {
	return fmt.Sprintf("%.2fx real time (%.0fms emulated in %.2f seconds, %d blocks)",
		r.Speed(), r.Emulated, r.Elapsed.Seconds(), r.Blocks)
}

// Check the performance of the emulation by playing a tone in the format for
// the duration. The mixer is not paced so the emulation runs as fast as
// possible.
func Check(output io.Writer, profile Profile, d *guest.Driver, m *hardware.Machine, f guest.Format, duration time.Duration) (Result, error) {
	var res Result

	runner := func() error {
		start := time.Now()
		startMs := m.Sched.NowMs()

		blocks, err := d.Play(f, NewLoop(Tone(f, 440)), func() (govern.State, error) {
			if time.Since(start) >= duration {
				return govern.Ending, timedOut
			}
			return govern.Running, nil
		})
		res.Elapsed = time.Since(start)
		res.Emulated = m.Sched.NowMs() - startMs
		res.Blocks = blocks
		return err
	}

	err := RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return res, fmt.Errorf("performance: %w", err)
	}

	if output != nil {
		fmt.Fprintln(output, res.String())
	}

	return res, nil
}
