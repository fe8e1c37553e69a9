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

package blaster

import (
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/gopherblaster/hardware/blaster/adpcm"
	"github.com/jetsetilly/gopherblaster/hardware/dma"
	"github.com/jetsetilly/gopherblaster/logger"
)

// transfer rates are fixed point with this many fractional bits
const rateShift = 14

// the largest number of DMA units moved in one go
const scratchSize = 1024

// stream is the state of a DMA transfer. counts are in units of the DMA
// channel (bytes or words).
type stream struct {
	mode DMAMode

	total int
	left  int

	// the smallest transfer worth scheduling. about three milliseconds of
	// data
	min int

	// units per second and frames per unit (fixed point)
	rate int
	mul  int

	// frame rate of the audio and the rate the card was programmed with
	freq    int
	srcRate int

	// the frame rate is half of the programmed rate. true for transfers
	// started by the older commands when the mixer is in stereo
	halved bool

	// started by the older commands. the mixer's stereo bit applies to the
	// transfer while it runs
	legacy bool

	stereo    bool
	sign      bool
	autoinit  bool
	recording bool

	// data is fetched one frame at a time at the programmed rate. used by
	// software that plays samples by rewriting a tiny DMA buffer
	dacMode bool

	channel uint8

	// channels that the card is listening to
	listening uint8

	// generate() is in progress
	generating bool

	// a partial frame left over from the previous read
	pend []byte

	scratch [scratchSize*2 + 4]byte
	joined  []byte
	words   []int16
	decoded [scratchSize * 4]uint8
	capture [scratchSize * 2]int16
}

func (s *stream) String() string {
	ch := "mono"
	if s.stereo {
		ch = "stereo"
	}
	auto := "single cycle"
	if s.autoinit {
		auto = "auto-init"
	}
	dir := ""
	if s.recording {
		dir = " recording"
	}
	return fmt.Sprintf("%s %s %s%s freq=%d rate=%d left=%d/%d", s.mode, ch, auto, dir, s.freq, s.rate, s.left, s.total)
}

func (s *stream) reset() {
	s.mode = DMANone
	s.left = 0
	s.total = 0
	s.stereo = false
	s.sign = false
	s.autoinit = false
	s.recording = false
	s.dacMode = false
	s.halved = false
	s.legacy = false
	s.generating = false
	s.pend = s.pend[:0]
}

// the DMA channel of the current transfer. can be nil
func (c *Card) boundChannel() *dma.Channel {
	if c.dma.channel == NoChannel {
		return nil
	}
	return c.conn.DMA.Channel(int(c.dma.channel))
}

func (c *Card) registerListener(ch *dma.Channel) {
	c.dma.listening |= 1 << ch.Number
	ch.Register(c.onDMAEvent)
}

func (c *Card) registerE2(ch *dma.Channel) {
	c.dma.listening |= 1 << ch.Number
	ch.Register(c.onE2Event)
}

func (c *Card) unregisterListener() {
	for n := range 8 {
		if c.dma.listening&(1<<n) == 0 {
			continue
		}
		if ch := c.conn.DMA.Channel(n); ch != nil {
			ch.Register(nil)
		}
	}
	c.dma.listening = 0
}

func (c *Card) onDMAEvent(ch *dma.Channel, ev dma.Event) {
	switch ev {
	case dma.Masked:
		if c.mode == ModeDMA {
			if !c.dma.dacMode && !c.dma.generating {
				c.generate(c.dma.min)
			}
			c.toMasked()
			logger.Logf(c.env, "sb dma", "masked. %d units left on channel", ch.Remaining())
		}
	case dma.Unmasked:
		if c.mode == ModeDMAMasked && c.dma.mode != DMANone {
			c.toDMA()
			if !c.dma.dacMode {
				c.checkDMAEnd()
			}
			logger.Logf(c.env, "sb dma", "unmasked. block of %d units", int(ch.BaseCount)+1)
		}
	}
}

// the result of the identification command is written to memory when the
// channel is unmasked
func (c *Card) onE2Event(ch *dma.Channel, ev dma.Event) {
	if ev != dma.Unmasked {
		return
	}
	ch.Register(nil)
	c.dma.listening &^= 1 << ch.Number
	b := [1]uint8{c.e2.value}
	ch.Write(1, b[:])
}

// prepareOld starts a transfer with one of the commands that predate the
// SB16. The rate is set by the time constant and the mixer chooses stereo.
func (c *Card) prepareOld(mode DMAMode, autoinit bool, sign bool, record bool) {
	s := &c.dma

	// repeating the command while the transfer runs only restarts the count
	if c.mode == ModeDMA {
		if !autoinit {
			s.total = c.argLength()
		}
		s.left = s.total
		s.autoinit = autoinit
		return
	}

	highspeed := false
	switch c.dsp.cmd {
	case 0x90, 0x91, 0x98, 0x99:
		if c.variant == SB1 {
			return
		}
		highspeed = true
	}
	c.dsp.highspeed = highspeed

	if c.cfg.SampleRateLimits {
		upper := 23000
		switch {
		case record && highspeed:
			upper = 44100
		case record && c.variant == SB1:
			upper = 13000
		case record:
			upper = 15000
		case mode == DMAADPCM4:
			upper = 12000
		case mode == DMAADPCM3:
			upper = 13000
		case mode == DMAADPCM2:
			upper = 11000
		case highspeed:
			upper = 44100
		}
		c.freq = min(max(c.freq, 4000), upper)
	}

	s.autoinit = autoinit
	s.sign = sign
	s.recording = record
	if !autoinit {
		s.total = c.argLength()
	}
	s.channel = c.hw.DMA8
	s.halved = c.mixer.stereo
	s.legacy = true

	freq := c.freq
	if c.mixer.stereo {
		freq /= 2
	}
	c.beginTransfer(mode, freq, c.mixer.stereo)
}

// prepareNew starts a transfer with the SB16 commands. The length is in
// samples.
func (c *Card) prepareNew(mode DMAMode, length int, autoinit bool, stereo bool, record bool) {
	s := &c.dma
	c.dsp.highspeed = false

	if c.cfg.SampleRateLimits {
		upper := 44100
		if c.cfg.Vibra {
			upper = 48000
		}
		c.freq = min(max(c.freq, 4000), upper)
	}

	s.total = length
	s.autoinit = autoinit
	s.recording = record
	s.halved = false
	s.legacy = false

	if mode == DMAPCM16 {
		switch {
		case c.hw.DMA16 == NoChannel || c.hw.DMA16 == c.hw.DMA8:
			// the length is in words but the channel counts bytes
			s.channel = c.hw.DMA8
			mode = DMAPCM16Aliased
			s.total <<= 1
		case c.hw.DMA16 >= 4:
			s.channel = c.hw.DMA16
		default:
			logger.Logf(c.env, "sb dma", "16 bit transfer on 8 bit channel %d is not possible", c.hw.DMA16)
			s.channel = NoChannel
			return
		}
	} else {
		s.channel = c.hw.DMA8
	}

	c.beginTransfer(mode, c.freq, stereo)
}

func (c *Card) beginTransfer(mode DMAMode, freq int, stereo bool) {
	s := &c.dma
	ch := c.boundChannel()

	c.channel.FillUp()
	c.setMode(ModeDMAMasked)

	s.dacMode = c.cfg.Goldplay && c.freq > 0 && ch != nil && ch.BaseCount < 4 && !s.recording
	s.srcRate = c.freq
	s.freq = freq
	s.left = s.total
	s.mode = mode
	s.stereo = stereo
	s.pend = s.pend[:0]
	c.clearIRQ()

	switch mode {
	case DMAADPCM2:
		s.mul = (1 << rateShift) / 4
	case DMAADPCM3:
		s.mul = (1 << rateShift) / 3
	case DMAADPCM4:
		s.mul = (1 << rateShift) / 2
	case DMAPCM8, DMAPCM16:
		s.mul = 1 << rateShift
	case DMAPCM16Aliased:
		s.mul = (1 << rateShift) * 2
	default:
		logger.Logf(c.env, "sb dma", "illegal transfer mode %d", mode)
		return
	}
	if stereo {
		s.mul *= 2
	}
	s.rate = s.srcRate * s.mul >> rateShift
	s.min = s.rate * 3 / 1000

	if s.dacMode && c.cfg.GoldplayStereo {
		c.channel.SetFreq(s.srcRate)
	} else {
		c.channel.SetFreq(freq)
	}

	c.cancel(evDACDMA)
	c.cancel(evEndDMA)
	if s.dacMode {
		c.schedule(evDACDMA, 1000/float64(s.srcRate), 0)
	}

	if ch != nil {
		c.registerListener(ch)
	} else {
		logger.Log(c.env, "sb dma", "transfer started with no channel assigned")
	}

	logger.Logf(c.env, "sb dma", "transfer %s", s)
}

// rebind moves a running transfer to the channel now assigned for it. The
// transfer stops if no suitable channel is assigned.
func (c *Card) rebind() {
	s := &c.dma
	if s.mode == DMANone {
		return
	}

	want := c.hw.DMA8
	if s.mode == DMAPCM16 {
		want = c.hw.DMA16
		if want < 4 {
			want = NoChannel
		}
	}
	if want == s.channel {
		return
	}

	c.channel.FillUp()
	if ch := c.boundChannel(); ch != nil {
		ch.Request = false
	}
	c.unregisterListener()
	c.cancel(evEndDMA)
	c.cancel(evSilentDMA)
	c.cancel(evDACDMA)

	s.channel = want
	ch := c.boundChannel()
	if ch == nil {
		logger.Logf(c.env, "sb dma", "no channel for %s transfer. stopped", s.mode)
		c.toIdle()
		return
	}
	c.registerListener(ch)
	logger.Logf(c.env, "sb dma", "transfer moved to channel %d", want)

	if s.dacMode {
		c.schedule(evDACDMA, 1000/float64(max(s.srcRate, 1)), 0)
	}

	switch c.mode {
	case ModeDMA:
		if ch.Masked {
			c.toMasked()
		} else if !s.dacMode {
			c.checkDMAEnd()
		}
	case ModeDMAMasked:
		if !ch.Masked {
			c.toDMA()
			if !s.dacMode {
				c.checkDMAEnd()
			}
		}
	}
}

// retune follows a change of time constant during an auto-init transfer
func (c *Card) retune() {
	s := &c.dma
	if c.mode != ModeDMA || !s.autoinit || s.dacMode || s.mode == DMANone {
		return
	}
	c.channel.FillUp()
	s.srcRate = c.freq
	s.rate = s.srcRate * s.mul >> rateShift
	s.min = s.rate * 3 / 1000
	s.freq = c.freq
	if s.halved {
		s.freq /= 2
	}
	c.channel.SetFreq(s.freq)
}

// PullSamples is the handler of the card's audio channel.
func (c *Card) PullSamples(frames int) {
	switch c.mode {
	case ModeNone, ModeDMAPause, ModeDMAMasked, ModeDMARequireIRQAck:
		c.channel.AddSilence()

	case ModeDAC:
		if c.dac.used == 0 {
			c.setMode(ModeNone)
			return
		}
		c.channel.AddStretched(c.dac.data[:c.dac.used])
		c.dac.used = 0

	case ModeDMA:
		if c.dma.dacMode {
			if c.dac.used == 0 {
				c.channel.AddSilence()
				return
			}
			if c.dma.stereo {
				c.channel.AddStretchedStereo(c.dac.data[:c.dac.used])
			} else {
				c.channel.AddStretched(c.dac.data[:c.dac.used])
			}
			c.dac.used = 0
			return
		}

		n := frames * c.dma.mul
		if n&(1<<rateShift-1) != 0 {
			n += 1 << rateShift
		}
		n >>= rateShift
		c.generate(min(n, c.dma.left))
	}
}

// generate transfers size units of the current transfer
func (c *Card) generate(size int) {
	s := &c.dma

	if s.autoinit {
		size = min(size, s.left)
	} else if s.left <= s.min {
		size = s.left
	}
	size = min(size, s.left)

	if s.mode == DMANone {
		logger.Log(c.env, "sb dma", "generate with no transfer")
		c.toIdle()
		return
	}

	ch := c.boundChannel()
	if ch == nil {
		c.channel.AddSilence()
		return
	}

	s.generating = true
	defer func() {
		s.generating = false
	}()

	read := 0
	for read < size {
		n := min(size-read, scratchSize)
		var got int
		if s.recording {
			got = c.captureChunk(ch, n, true)
		} else {
			got = c.playChunk(ch, n)
		}
		read += got
		if got < n {
			break
		}
	}

	s.left -= read
	if s.left == 0 {
		c.endOfDMA()
	}
}

func unitBytes(ch *dma.Channel) int {
	if ch.Is16 {
		return 2
	}
	return 1
}

func (c *Card) playChunk(ch *dma.Channel, n int) int {
	s := &c.dma
	buf := s.scratch[:n*unitBytes(ch)]
	got := ch.Read(n, buf)
	data := buf[:got*unitBytes(ch)]

	if s.mode.isADPCM() {
		bits := adpcm.Bits4
		switch s.mode {
		case DMAADPCM2:
			bits = adpcm.Bits2
		case DMAADPCM3:
			bits = adpcm.Bits3
		}

		out := s.decoded[:0]
		for i, v := range data {
			if i == 0 && c.adpcm.HaveReference {
				c.adpcm.Seed(v)
				continue
			}
			var d [4]uint8
			k, _ := c.adpcm.DecodeByte(bits, v, d[:])
			out = append(out, d[:k]...)
		}
		c.channel.AddSamples8(len(out), out, false, false)
		return got
	}

	c.addPCM(data)
	return got
}

// addPCM sends whole frames to the channel. a partial frame is kept for the
// next call
func (c *Card) addPCM(data []byte) {
	s := &c.dma

	sampleBytes := 1
	if s.mode.is16() {
		sampleBytes = 2
	}
	frameBytes := sampleBytes
	if s.stereo {
		frameBytes *= 2
	}

	s.joined = append(s.joined[:0], s.pend...)
	s.joined = append(s.joined, data...)
	frames := len(s.joined) / frameBytes
	whole := s.joined[:frames*frameBytes]

	if sampleBytes == 1 {
		c.channel.AddSamples8(frames, whole, s.stereo, s.sign)
	} else {
		s.words = s.words[:0]
		for i := 0; i < len(whole); i += 2 {
			s.words = append(s.words, int16(binary.LittleEndian.Uint16(whole[i:])))
		}
		c.channel.AddSamples16(frames, s.words, s.stereo, s.sign)
	}

	s.pend = append(s.pend[:0], s.joined[len(whole):]...)
}

// captureChunk writes n units of audio from the recording source to memory.
// the audio is sent to the channel if output is true
func (c *Card) captureChunk(ch *dma.Channel, n int, output bool) int {
	s := &c.dma

	sampleBytes := 1
	if s.mode.is16() {
		sampleBytes = 2
	}
	chans := 1
	if s.stereo {
		chans = 2
	}
	per := sampleBytes * chans
	frames := (n*unitBytes(ch) + per - 1) / per

	mono := s.capture[:frames]
	if c.conn.Source != nil {
		c.conn.Source.Fill(max(s.freq, 1), mono)
	} else {
		clear(mono)
	}

	out := s.scratch[:0]
	for _, v := range mono {
		for range chans {
			if sampleBytes == 1 {
				b := uint8(uint16(v) >> 8)
				if !s.sign {
					b ^= 0x80
				}
				out = append(out, b)
			} else {
				w := uint16(v)
				if !s.sign {
					w ^= 0x8000
				}
				out = binary.LittleEndian.AppendUint16(out, w)
			}
		}
	}

	got := ch.Write(n, out)

	if output {
		if c.cfg.ListenToRecording {
			c.channel.AddSamples16(frames, mono, false, true)
		} else {
			c.channel.AddSilence()
		}
	}
	return got
}

// directADC returns a single unsigned sample from the recording source
func (c *Card) directADC() uint8 {
	if c.conn.Source == nil {
		return 0x80
	}
	var p [1]int16
	c.conn.Source.Fill(max(c.freq, 1), p[:])
	return uint8(uint16(p[0])>>8) ^ 0x80
}

// move n units without producing audio
func (c *Card) silentChunks(ch *dma.Channel, n int) int {
	s := &c.dma
	read := 0
	for read < n {
		k := min(n-read, scratchSize)
		var got int
		if s.recording {
			got = c.captureChunk(ch, k, false)
		} else {
			got = ch.Read(k, s.scratch[:k*unitBytes(ch)])
		}
		read += got
		if got < k {
			break
		}
	}
	return read
}

// the transfer continues at the correct rate while the speaker is off
func (c *Card) silentTransfer(n int) {
	s := &c.dma
	n = min(n, s.left)

	if ch := c.boundChannel(); ch != nil {
		s.generating = true
		s.left -= c.silentChunks(ch, n)
		s.generating = false
	}

	if s.left == 0 {
		c.raiseIRQ(c.dmaIRQClass())
		if s.autoinit {
			s.left = s.total
		} else {
			c.toIdle()
		}
	}

	// a masked channel restarts the transfer when it is unmasked
	if s.left > 0 && c.mode == ModeDMA {
		c.scheduleSilent()
	}
}

func (c *Card) scheduleSilent() {
	s := &c.dma
	bigger := max(min(s.left, s.min), 1)
	c.schedule(evSilentDMA, float64(bigger)*1000/float64(max(s.rate, 1)), bigger)
}

// fetch a single frame of a transfer in DAC mode
func (c *Card) dacTransfer() {
	s := &c.dma
	if s.mode == DMANone {
		return
	}

	period := 1000 / float64(max(s.srcRate, 1))

	ch := c.boundChannel()
	if ch == nil || ch.Masked {
		c.schedule(evDACDMA, period, 0)
		return
	}

	want := 1
	if s.stereo {
		want = 2
	}
	if s.mode.is16() && !ch.Is16 {
		want *= 2
	}

	var tmp [4]uint8
	read := ch.Read(want, tmp[:])

	var l, r int16
	if s.mode.is16() {
		lw := binary.LittleEndian.Uint16(tmp[0:])
		rw := lw
		if s.stereo {
			rw = binary.LittleEndian.Uint16(tmp[2:])
		}
		if !s.sign {
			lw ^= 0x8000
			rw ^= 0x8000
		}
		l, r = int16(lw), int16(rw)
	} else {
		lb := tmp[0]
		rb := lb
		if s.stereo {
			rb = tmp[1]
		}
		if !s.sign {
			lb ^= 0x80
			rb ^= 0x80
		}
		l, r = int16(uint16(lb)<<8), int16(uint16(rb)<<8)
	}

	if s.stereo {
		c.dac.add(l, r)
	} else {
		c.dac.add(l)
	}

	s.left = max(s.left-read, 0)
	if s.left == 0 {
		c.endOfDMA()
		if s.dacMode && s.mode != DMANone {
			c.schedule(evDACDMA, period, 0)
		}
		return
	}
	c.schedule(evDACDMA, period, 0)
}

// endOfDMA raises the interrupt for a completed block
func (c *Card) endOfDMA() {
	s := &c.dma
	c.cancel(evEndDMA)

	class := c.dmaIRQClass()
	wasPending := c.irq.pending8
	if class == irq16 {
		wasPending = c.irq.pending16
	}
	c.raiseIRQ(class)

	if !s.autoinit {
		c.dsp.highspeed = false
		logger.Log(c.env, "sb dma", "single cycle transfer ended")
		c.toIdle()
		return
	}

	s.left = s.total
	if s.left == 0 {
		logger.Log(c.env, "sb dma", "auto-init transfer with zero length")
		c.dsp.highspeed = false
		c.setMode(ModeNone)
		return
	}

	if c.cfg.RequireIRQAck && wasPending {
		logger.Log(c.env, "sb dma", "block ended before the previous interrupt was acknowledged")
		c.toRequireIRQAck()
	}
}

// checkDMAEnd schedules the events that complete a transfer when the mixer
// won't. the mixer doesn't pull audio from a silent channel and transfers
// shorter than the minimum end between pulls
func (c *Card) checkDMAEnd() {
	s := &c.dma
	if s.left == 0 {
		return
	}
	if !c.speaker && !c.variant.IsSB16() {
		c.scheduleSilent()
		logger.Log(c.env, "sb dma", "silent transfer")
	} else if s.left < s.min {
		c.schedule(evEndDMA, float64(s.left)*1000/float64(max(s.rate, 1)), s.left)
	}
}
