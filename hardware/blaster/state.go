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
	"fmt"

	"github.com/jetsetilly/gopherblaster/hardware/blaster/adpcm"
)

// State is a copy of the card's state. Scheduled events are not part of the
// state. They are recreated by Restore().
type State struct {
	Variant Variant
	HW      HW

	Mode         Mode
	Speaker      bool
	Freq         int
	TimeConstant uint8

	DSP struct {
		State        uint8
		Command      int
		CommandLen   int
		Args         [maxArguments]uint8
		ArgPos       int
		Output       []uint8
		LastVal      uint8
		TestRegister uint8
		WriteBusy    bool
		HighSpeed    bool
		MIDIUART     bool
		MIDIPoll     bool
	}

	DMA struct {
		Mode      DMAMode
		Total     int
		Left      int
		Min       int
		Rate      int
		Mul       int
		Freq      int
		SrcRate   int
		Halved    bool
		Legacy    bool
		Stereo    bool
		Sign      bool
		AutoInit  bool
		Recording bool
		DACMode   bool
		Channel   uint8
		Pending   []uint8
	}

	DAC []int16

	Mixer struct {
		Index    uint8
		Master   [2]uint8
		DAC      [2]uint8
		FM       [2]uint8
		CD       [2]uint8
		Line     [2]uint8
		Mic      uint8
		Stereo   bool
		Filtered bool
		Shadow   [0x100]uint8
	}

	ADPCM adpcm.State

	IRQ8  bool
	IRQ16 bool

	E2Value uint8
	E2Count int

	SC400 uint8

	ESSExtended bool
	ESSRegs     [essLast - essFirst + 1]uint8

	ASPMode  uint8
	ASPInit  bool
	ASPRegs  [256]uint8
	ASPRAM   [aspRAMSize]uint8
	ASPIndex int
}

// State returns a copy of the card's state.
func (c *Card) State() State {
	var st State

	st.Variant = c.variant
	st.HW = c.hw
	st.Mode = c.mode
	st.Speaker = c.speaker
	st.Freq = c.freq
	st.TimeConstant = c.timeConstant

	st.DSP.State = uint8(c.dsp.state)
	st.DSP.Command = c.dsp.cmd
	st.DSP.CommandLen = c.dsp.cmdLen
	st.DSP.Args = c.dsp.in.data
	st.DSP.ArgPos = c.dsp.in.pos
	st.DSP.Output = c.dsp.out.Contents()
	st.DSP.LastVal = c.dsp.lastval
	st.DSP.TestRegister = c.dsp.testRegister
	st.DSP.WriteBusy = c.dsp.writeBusy
	st.DSP.HighSpeed = c.dsp.highspeed
	st.DSP.MIDIUART = c.dsp.midiUART
	st.DSP.MIDIPoll = c.dsp.midiPoll

	s := &c.dma
	st.DMA.Mode = s.mode
	st.DMA.Total = s.total
	st.DMA.Left = s.left
	st.DMA.Min = s.min
	st.DMA.Rate = s.rate
	st.DMA.Mul = s.mul
	st.DMA.Freq = s.freq
	st.DMA.SrcRate = s.srcRate
	st.DMA.Halved = s.halved
	st.DMA.Legacy = s.legacy
	st.DMA.Stereo = s.stereo
	st.DMA.Sign = s.sign
	st.DMA.AutoInit = s.autoinit
	st.DMA.Recording = s.recording
	st.DMA.DACMode = s.dacMode
	st.DMA.Channel = s.channel
	st.DMA.Pending = append([]uint8{}, s.pend...)

	st.DAC = append([]int16{}, c.dac.data[:c.dac.used]...)

	m := &c.mixer
	st.Mixer.Index = m.index
	st.Mixer.Master = m.master
	st.Mixer.DAC = m.dac
	st.Mixer.FM = m.fm
	st.Mixer.CD = m.cda
	st.Mixer.Line = m.lin
	st.Mixer.Mic = m.mic
	st.Mixer.Stereo = m.stereo
	st.Mixer.Filtered = m.filtered
	st.Mixer.Shadow = m.unhandled

	st.ADPCM = c.adpcm
	st.IRQ8 = c.irq.pending8
	st.IRQ16 = c.irq.pending16
	st.E2Value = c.e2.value
	st.E2Count = c.e2.count
	st.SC400 = c.sc400
	st.ESSExtended = c.ess.extended
	st.ESSRegs = c.ess.regs
	st.ASPMode = c.asp.mode
	st.ASPInit = c.asp.initInProgress
	st.ASPRegs = c.asp.regs
	st.ASPRAM = c.asp.ram
	st.ASPIndex = c.asp.index

	return st
}

// Restore the card to a previously saved state. The state must be of the
// same variant of card. The card is not moved if the base address in the
// state is different.
func (c *Card) Restore(st State) error {
	if st.Variant != c.variant {
		return fmt.Errorf("blaster: state is for %s not %s", st.Variant, c.variant)
	}
	if len(st.DSP.Output) > outputSize {
		return fmt.Errorf("blaster: state has %d bytes of output", len(st.DSP.Output))
	}
	if len(st.DAC) > dacSize {
		return fmt.Errorf("blaster: state has %d DAC samples", len(st.DAC))
	}
	if st.DSP.CommandLen > maxArguments || st.DSP.ArgPos > maxArguments || st.DSP.ArgPos < 0 {
		return fmt.Errorf("blaster: state has a malformed command")
	}
	if st.ASPIndex < 0 || st.ASPIndex >= aspRAMSize {
		return fmt.Errorf("blaster: state has a malformed ASP index")
	}

	c.channel.FillUp()
	c.conn.Scheduler.CancelTarget(c)
	c.unregisterListener()
	c.clearIRQ()

	base := c.hw.Base
	c.hw = st.HW
	c.hw.Base = base

	c.mode = st.Mode
	c.speaker = st.Speaker
	c.freq = st.Freq
	c.timeConstant = st.TimeConstant

	c.dsp.state = dspState(st.DSP.State)
	c.dsp.cmd = st.DSP.Command
	c.dsp.cmdLen = st.DSP.CommandLen
	c.dsp.in.data = st.DSP.Args
	c.dsp.in.pos = st.DSP.ArgPos
	c.dsp.out.Clear()
	for _, v := range st.DSP.Output {
		c.dsp.out.Push(v)
	}
	c.dsp.lastval = st.DSP.LastVal
	c.dsp.testRegister = st.DSP.TestRegister
	c.dsp.writeBusy = false
	c.dsp.highspeed = st.DSP.HighSpeed
	c.dsp.midiUART = st.DSP.MIDIUART
	c.dsp.midiPoll = st.DSP.MIDIPoll

	s := &c.dma
	s.mode = st.DMA.Mode
	s.total = st.DMA.Total
	s.left = st.DMA.Left
	s.min = st.DMA.Min
	s.rate = st.DMA.Rate
	s.mul = st.DMA.Mul
	s.freq = st.DMA.Freq
	s.srcRate = st.DMA.SrcRate
	s.halved = st.DMA.Halved
	s.legacy = st.DMA.Legacy
	s.stereo = st.DMA.Stereo
	s.sign = st.DMA.Sign
	s.autoinit = st.DMA.AutoInit
	s.recording = st.DMA.Recording
	s.dacMode = st.DMA.DACMode
	s.channel = st.DMA.Channel
	s.pend = append(s.pend[:0], st.DMA.Pending...)
	s.generating = false

	c.dac.used = copy(c.dac.data[:], st.DAC)

	m := &c.mixer
	m.index = st.Mixer.Index
	m.master = st.Mixer.Master
	m.dac = st.Mixer.DAC
	m.fm = st.Mixer.FM
	m.cda = st.Mixer.CD
	m.lin = st.Mixer.Line
	m.mic = st.Mixer.Mic
	m.stereo = st.Mixer.Stereo
	m.filtered = st.Mixer.Filtered
	m.unhandled = st.Mixer.Shadow

	c.adpcm = st.ADPCM
	c.e2.value = st.E2Value
	c.e2.count = st.E2Count
	c.sc400 = st.SC400
	c.ess.extended = st.ESSExtended
	c.ess.regs = st.ESSRegs
	c.asp.mode = st.ASPMode
	c.asp.initInProgress = st.ASPInit
	c.asp.regs = st.ASPRegs
	c.asp.ram = st.ASPRAM
	c.asp.index = st.ASPIndex

	if st.IRQ8 {
		c.raiseIRQ(irq8)
	}
	if st.IRQ16 {
		c.raiseIRQ(irq16)
	}

	if c.variant.IsSB16() {
		c.channel.Enable(true)
	} else {
		c.channel.Enable(c.speaker)
	}
	c.RecomputeGains()

	switch c.mode {
	case ModeDMA, ModeDMAMasked, ModeDMARequireIRQAck:
		if s.dacMode && c.cfg.GoldplayStereo {
			c.channel.SetFreq(s.srcRate)
		} else {
			c.channel.SetFreq(max(s.freq, 1))
		}
		if ch := c.boundChannel(); ch != nil {
			c.registerListener(ch)
		}
		if s.dacMode {
			c.schedule(evDACDMA, 1000/float64(max(s.srcRate, 1)), 0)
		} else if c.mode == ModeDMA {
			c.cancel(evSilentDMA)
			c.cancel(evEndDMA)
			c.checkDMAEnd()
		}
	default:
		c.channel.SetFreq(max(c.freq, 1))
	}

	// a reset that was released but not yet completed
	if c.dsp.state == dspResetWait {
		c.schedule(evFinishReset, 0.02, 0)
	}

	return nil
}
