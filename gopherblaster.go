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

package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/jetsetilly/gopherblaster/easyterm"
	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/govern"
	"github.com/jetsetilly/gopherblaster/guest"
	"github.com/jetsetilly/gopherblaster/hardware"
	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/hardware/savestate"
	"github.com/jetsetilly/gopherblaster/logger"
	"github.com/jetsetilly/gopherblaster/modalflag"
	"github.com/jetsetilly/gopherblaster/otoaudio"
	"github.com/jetsetilly/gopherblaster/performance"
	"github.com/jetsetilly/gopherblaster/prefs"
	"github.com/jetsetilly/gopherblaster/report"
	"github.com/jetsetilly/gopherblaster/soundsource"
	"github.com/jetsetilly/gopherblaster/statsview"
	"github.com/jetsetilly/gopherblaster/version"
	"github.com/jetsetilly/gopherblaster/wavwriter"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode has a more
	// appropriate handler of its own. PLAY mode ends playback gracefully.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// communication between the main() function and the launch() function
type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// default ctrl-c handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses the mainSync instance to
// indicate when to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("PROBE", "PLAY", "RECORD", "STATE", "PERFORMANCE")
	ver := md.AddBool("version", false, "print version and exit")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	if *ver {
		fmt.Println(version.String())
		sync.state <- stateRequest{req: reqQuit}
		return
	}

	switch md.Mode() {
	case "PROBE":
		err = probe(md, os.Stdout)

	case "PLAY":
		err = play(md, sync)

	case "RECORD":
		err = record(md)

	case "STATE":
		err = state(md, os.Stdout)

	case "PERFORMANCE":
		err = perform(md, os.Stdout)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// flags shared by every mode
type common struct {
	prefs   *string
	blaster *string
	log     *bool
}

func addCommon(md *modalflag.Modes) common {
	return common{
		prefs:   md.AddString("prefs", "", "preferences to override, eg. \"sblaster.type::SB16; sblaster.irq::5\""),
		blaster: md.AddString("blaster", "", "card resources as a BLASTER string, eg. \"A220 I5 D1 H5\""),
		log:     md.AddBool("log", false, "echo debugging log to stdout"),
	}
}

// setup the machine and a guest driver for the card described by the
// preferences
func (c common) setup() (*hardware.Machine, *guest.Driver, error) {
	if *c.log {
		if easyterm.IsTerminal(os.Stdout) {
			logger.SetEcho(logger.NewColorizer(os.Stdout))
		} else {
			logger.SetEcho(os.Stdout)
		}
	} else {
		logger.SetEcho(nil)
	}

	prefs.PushCommandLineStack(*c.prefs)
	p, err := preferences.NewPreferences()
	unused := prefs.PopCommandLineStack()
	if err != nil {
		return nil, nil, err
	}
	if unused != "" {
		fmt.Printf("! unused preferences: %s\n", unused)
	}
	if err := p.Resources.Set(*c.blaster); err != nil {
		return nil, nil, err
	}

	m, err := hardware.NewMachine(environment.MainEmulation, p)
	if err != nil {
		return nil, nil, err
	}

	src, err := soundsource.NewSource(m.Env, p.RecordingSource.String())
	if err != nil {
		return nil, nil, err
	}
	m.AttachSource(src)

	s, err := guest.ParseBlaster(m.Card().Blaster())
	if err != nil {
		return nil, nil, err
	}

	d := guest.NewDriver(m, s)
	if err := d.Detect(); err != nil {
		return nil, nil, err
	}

	return m, d, nil
}

func probe(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	cm := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	m, d, err := cm.setup()
	if err != nil {
		return err
	}

	rep := report.New(version.String())
	rep.Card(m.Card())

	rep.Add("dsp", "%d.%02d", d.Major, d.Minor)
	if d.Major >= 3 {
		cr, err := d.Copyright()
		if err != nil {
			rep.Warn("copyright", "%v", err)
		} else {
			rep.Add("copyright", "%s", cr)
		}
	}

	v := m.Card().Variant()
	switch {
	case v.IsSB16():
		rep.Add("master volume", "%#02x", d.GetMixer(0x30))
	case v.IsPro():
		rep.Add("master volume", "%#02x", d.GetMixer(0x22))
	}

	for _, port := range []uint16{hardware.AdlibPort, d.Settings.Base} {
		mode, err := d.DetectOPL(port)
		if err != nil {
			rep.Warn(fmt.Sprintf("opl %#03x", port), "%v", err)
			continue
		}
		rep.Add(fmt.Sprintf("opl %#03x", port), "%s", mode)
	}

	return rep.Write(output)
}

// control of playback from the keyboard and the interrupt signal
type control struct {
	keys     <-chan uint8
	intr     <-chan os.Signal
	paused   bool
	stopping bool
	output   io.Writer
}

func (c *control) check() (govern.State, error) {
	for {
		select {
		case <-c.intr:
			return govern.Ending, nil

		case k, ok := <-c.keys:
			if !ok {
				c.keys = nil
				continue
			}
			switch k {
			case easyterm.KeySpace:
				c.paused = !c.paused
				if c.paused {
					fmt.Fprint(c.output, "paused\r\n")
				} else {
					fmt.Fprint(c.output, "resumed\r\n")
				}
			case 's', 'S':
				if !c.stopping {
					c.stopping = true
					fmt.Fprint(c.output, "stopping\r\n")
				}
			case 'q', 'Q', easyterm.KeyEsc, easyterm.KeyInterrupt:
				return govern.Ending, nil
			}
			continue

		default:
		}

		if c.paused {
			time.Sleep(10 * time.Millisecond)
			return govern.Paused, nil
		}
		if c.stopping {
			return govern.Stopping, nil
		}
		return govern.Running, nil
	}
}

func play(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	cm := addCommon(md)
	wav := md.AddString("wav", "", "write mixer output to wav file instead of the audio device")
	stats := md.AddBool("stats", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("wav or voc file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	f, r, err := openMedia(md.GetArg(0))
	if err != nil {
		return err
	}

	m, d, err := cm.setup()
	if err != nil {
		return err
	}

	if *wav != "" {
		aw, err := wavwriter.New(*wav, m.Mixer.Rate())
		if err != nil {
			return err
		}
		m.Mixer.AddSink(aw)
	} else {
		aud, err := otoaudio.NewAudio(m.Env, m.Mixer.Rate())
		if err != nil {
			return err
		}
		m.Mixer.AddSink(aud)
	}

	if *stats {
		if statsview.Available() {
			stop := statsview.Launch(m.Env, os.Stdout)
			defer stop()
		} else {
			fmt.Println("! stats server not available in this build")
		}
	}

	// playback ends gracefully on ctrl-c
	sync.state <- stateRequest{req: reqNoIntSig}
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	defer signal.Stop(intr)

	ctl := &control{
		intr:   intr,
		output: os.Stdout,
	}

	if easyterm.IsTerminal(os.Stdin) {
		var term easyterm.Terminal
		if err := term.Initialise(os.Stdin, os.Stdout); err != nil {
			return err
		}
		defer term.CleanUp()
		term.CBreakMode()
		ctl.keys = term.Keys()
		fmt.Print("space to pause. s to stop after queued audio. q to quit\r\n")
	}

	fmt.Printf("playing %s as %s\r\n", md.GetArg(0), d.Adapt(f))

	played, err := d.Play(f, r, ctl.check)
	if err != nil {
		return err
	}
	if err := m.Mixer.EndMixing(); err != nil {
		return err
	}

	fmt.Printf("%d blocks played\r\n", played)
	return nil
}

func record(md *modalflag.Modes) error {
	md.NewMode()
	cm := addCommon(md)
	rate := md.AddInt("rate", 22050, "sample rate")
	channels := md.AddInt("channels", 1, "number of channels")
	bits := md.AddInt("bits", 8, "bits per sample: 8, 16")
	duration := md.AddDuration("duration", 5*time.Second, "length of recording")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("wav file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	req := guest.Format{Rate: *rate, Channels: *channels, Bits: *bits}
	if err := req.Validate(); err != nil {
		return err
	}

	_, d, err := cm.setup()
	if err != nil {
		return err
	}

	frames := int(duration.Seconds() * float64(req.Rate))
	f, data, err := d.Record(req, frames)
	if err != nil {
		return err
	}

	if err := saveWAV(md.GetArg(0), f, data); err != nil {
		return err
	}

	fmt.Printf("recorded %d bytes of %s to %s\n", len(data), f, md.GetArg(0))
	return nil
}

// one second of an 8 bit mono tone
func toneData(rate int, freq float64) []byte {
	data := make([]byte, rate)
	for i := range data {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
		data[i] = uint8(128 + int(v*100))
	}
	return data
}

func state(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	cm := addCommon(md)
	at := md.AddInt("at", 20, "number of quanta into the transfer to take the state")
	out := md.AddString("out", "", "write the card state to file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	m, d, err := cm.setup()
	if err != nil {
		return err
	}

	f := guest.Format{Rate: 22050, Channels: 1, Bits: 8}

	var calls int
	var checkpoint int

	taken := func() error {
		rep := report.New("state during transfer")
		rep.Card(m.Card())

		n, err := savestate.Size(m.Card().State())
		if err != nil {
			return err
		}
		rep.Add("savestate", "%d bytes", n)

		if *out != "" {
			fh, err := os.Create(*out)
			if err != nil {
				return err
			}
			if err := savestate.Write(fh, m.Card()); err != nil {
				fh.Close()
				return err
			}
			if err := fh.Close(); err != nil {
				return err
			}
			rep.Add("written", "%s", *out)
		}

		m.Checkpoint()
		_, checkpoint = m.RewindState()

		return rep.Write(output)
	}

	_, err = d.Play(f, bytes.NewReader(toneData(f.Rate, 440)), func() (govern.State, error) {
		calls++
		if calls == *at {
			return govern.Ending, taken()
		}
		return govern.Running, nil
	})
	if err != nil {
		return err
	}
	if calls < *at {
		return fmt.Errorf("transfer ended before the state was taken")
	}

	rep := report.New("state after transfer")
	rep.Card(m.Card())
	if err := rep.Write(output); err != nil {
		return err
	}

	if err := m.Rewind(checkpoint); err != nil {
		return err
	}

	rep = report.New("state after rewind")
	rep.Card(m.Card())
	return rep.Write(output)
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	cm := addCommon(md)
	duration := md.AddDuration("duration", 5*time.Second, "real time to run the emulation for")
	rate := md.AddInt("rate", 44100, "sample rate")
	channels := md.AddInt("channels", 2, "number of channels")
	bits := md.AddInt("bits", 16, "bits per sample: 8, 16")
	profile := md.AddString("profile", "none", "run through profiler: CPU, MEM, TRACE (comma separated)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	f := guest.Format{Rate: *rate, Channels: *channels, Bits: *bits}
	if err := f.Validate(); err != nil {
		return err
	}

	m, d, err := cm.setup()
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "playing %s for %s\n", d.Adapt(f), *duration)
	_, err = performance.Check(output, prf, d, m, f, *duration)
	return err
}
