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
	"github.com/jetsetilly/gopherblaster/logger"
)

// handlerID identifies the code that executes a DSP command.
type handlerID int

const (
	hUndefined handlerID = iota
	hDSPStatus
	hASPSetMode
	hASPCodec
	hASPVersion
	hASPSetRegister
	hASPGetRegister
	hASPQuery
	hDirectDAC
	hDMA8Single
	hDMA8Auto
	hDMA8HighSpeedSingle
	hDMA8HighSpeedAuto
	hADPCM2
	hADPCM2Ref
	hADPCM2AutoRef
	hADPCM3
	hADPCM3Ref
	hADPCM3AutoRef
	hADPCM4
	hADPCM4Ref
	hADPCM4AutoRef
	hDirectADC
	hADC8Single
	hADC8Auto
	hADC8HighSpeedSingle
	hADC8HighSpeedAuto
	hMIDIReadPoll
	hMIDIUART
	hMIDIWrite
	hTimeConstant
	hSampleRate
	hBlockSize
	hSilence
	hGeneric
	hPause
	hContinue
	hSpeakerOn
	hSpeakerOff
	hSpeakerStatus
	hExitAutoInit
	hIdentify
	hVersion
	hDMAIdentify
	hCopyright
	hWriteTest
	hReadTest
	hIRQ8
	hIRQ16
	hStatusF8
	hESSExtended
	hESSWrite
	hESSRead
	hESSIdentify
	hSC400Write
	hSC400Read
	hSC400Identify
)

// requirement is the variant a command needs.
type requirement int

const (
	anyCard requirement = iota
	sb2Up
	sb16Only
	essOnly
	sc400Only
)

func (r requirement) String() string {
	switch r {
	case sb2Up:
		return "SB2 or above"
	case sb16Only:
		return "SB16"
	case essOnly:
		return "ESS688"
	case sc400Only:
		return "SC400"
	}
	return "any card"
}

func (r requirement) satisfiedBy(v Variant) bool {
	switch r {
	case sb2Up:
		return v != SB1
	case sb16Only:
		return v == SB16
	case essOnly:
		return v == ESS688
	case sc400Only:
		return v == SC400
	}
	return true
}

type command struct {
	handler handlerID
	req     requirement
	length  int
}

// command table for each variant
var commands [SC400 + 1][256]command

func init() {
	var base [256]command

	set := func(h handlerID, req requirement, length int, ops ...uint8) {
		for _, op := range ops {
			base[op] = command{handler: h, req: req, length: length}
		}
	}

	set(hDSPStatus, anyCard, 0, 0x04)
	set(hASPCodec, sb16Only, 0, 0x05)
	set(hASPVersion, sb16Only, 0, 0x08)
	set(hASPSetRegister, sb16Only, 0, 0x0e)
	set(hASPGetRegister, sb16Only, 0, 0x0f)
	set(hASPQuery, sb16Only, 0, 0xf9)
	set(hDirectDAC, anyCard, 1, 0x10)
	set(hDMA8Single, anyCard, 2, 0x14, 0x15)
	set(hDMA8Auto, sb2Up, 0, 0x1c)
	set(hDMA8HighSpeedSingle, anyCard, 0, 0x91)
	set(hDMA8HighSpeedAuto, sb2Up, 0, 0x90)
	set(hADPCM2, anyCard, 2, 0x16)
	set(hADPCM2Ref, anyCard, 2, 0x17)
	set(hADPCM2AutoRef, sb2Up, 0, 0x1f)
	set(hADPCM3, anyCard, 2, 0x76)
	set(hADPCM3Ref, anyCard, 2, 0x77)
	set(hADPCM3AutoRef, sb2Up, 0, 0x7f)
	set(hADPCM4, anyCard, 2, 0x74)
	set(hADPCM4Ref, anyCard, 2, 0x75)
	set(hADPCM4AutoRef, sb2Up, 0, 0x7d)
	set(hDirectADC, anyCard, 0, 0x20)
	set(hADC8Single, anyCard, 2, 0x24)
	set(hADC8Auto, sb2Up, 0, 0x2c)
	set(hADC8HighSpeedSingle, sb2Up, 0, 0x99)
	set(hADC8HighSpeedAuto, sb2Up, 0, 0x98)
	set(hMIDIReadPoll, anyCard, 0, 0x30, 0x31)
	set(hMIDIUART, sb2Up, 0, 0x34, 0x35, 0x36, 0x37)
	set(hMIDIWrite, anyCard, 1, 0x38)
	set(hTimeConstant, anyCard, 1, 0x40)
	set(hSampleRate, sb16Only, 2, 0x41, 0x42)
	set(hBlockSize, sb2Up, 2, 0x48)
	set(hSilence, anyCard, 2, 0x80)
	for op := 0xb0; op <= 0xcf; op++ {
		set(hGeneric, sb16Only, 0, uint8(op))
	}
	set(hPause, anyCard, 0, 0xd0)
	set(hPause, sb16Only, 0, 0xd5)
	set(hContinue, anyCard, 0, 0xd4)
	set(hContinue, sb16Only, 0, 0xd6)
	set(hSpeakerOn, anyCard, 0, 0xd1)
	set(hSpeakerOff, anyCard, 0, 0xd3)
	set(hSpeakerStatus, sb2Up, 0, 0xd8)
	set(hExitAutoInit, sb16Only, 0, 0xd9)
	set(hExitAutoInit, sb2Up, 0, 0xda)
	set(hIdentify, anyCard, 1, 0xe0)
	set(hVersion, anyCard, 0, 0xe1)
	set(hDMAIdentify, anyCard, 1, 0xe2)
	set(hCopyright, anyCard, 0, 0xe3)
	set(hWriteTest, anyCard, 1, 0xe4)
	set(hReadTest, anyCard, 0, 0xe8)
	set(hIRQ8, anyCard, 0, 0xf2)
	set(hIRQ16, sb16Only, 0, 0xf3)
	set(hStatusF8, anyCard, 0, 0xf8)

	// chipset commands are known to every table so that the other
	// variants report them as unsupported
	for op := 0xa0; op <= 0xaf; op++ {
		set(hESSWrite, essOnly, 0, uint8(op))
	}
	set(hESSExtended, essOnly, 0, 0xc6, 0xc7)
	set(hESSIdentify, essOnly, 0, 0xe7)
	set(hSC400Write, sc400Only, 0, 0x88)
	set(hSC400Read, sc400Only, 0, 0x58)
	set(hSC400Identify, sc400Only, 0, 0xe6)

	for _, v := range Variants {
		t := base

		switch v {
		case SB16:
			t[0x04] = command{handler: hASPSetMode, req: sb16Only, length: 1}
			t[0x05].length = 2
			t[0x08].length = 1
			t[0x0e].length = 2
			t[0x0f].length = 1
			t[0xf9].length = 1
			for op := 0xb0; op <= 0xcf; op++ {
				t[op] = command{handler: hGeneric, req: sb16Only, length: 3}
			}
		case ESS688:
			for op := 0xa0; op <= 0xbf; op++ {
				t[op] = command{handler: hESSWrite, req: essOnly, length: 1}
			}
			t[0xc0] = command{handler: hESSRead, req: essOnly, length: 1}
		case SC400:
			t[0x88].length = 1
		}

		commands[v] = t
	}
}

// CommandLength returns the number of argument bytes taken by the opcode on
// the variant.
func CommandLength(v Variant, op uint8) int {
	switch v {
	case SB1, SB2, SBPro1, SBPro2:
		switch op {
		case 0x15:
			op = 0x14
		case 0x11, 0x12, 0x13:
			op = 0x10
		}
	}
	return commands[v][op].length
}

func (c *Card) commandLength(op uint8) int {
	return commands[c.variant][op].length
}

// length argument of the 8 bit commands
func (c *Card) argLength() int {
	return 1 + int(c.dsp.in.data[0]) + int(c.dsp.in.data[1])<<8
}

const copyright = "COPYRIGHT (C) CREATIVE TECHNOLOGY LTD, 1992."

var e2Increments = [4][9]int{
	{0x01, -0x02, -0x04, 0x08, -0x10, 0x20, 0x40, -0x80, -106},
	{-0x01, 0x02, -0x04, 0x08, 0x10, -0x20, 0x40, -0x80, 165},
	{-0x01, 0x02, 0x04, -0x08, 0x10, -0x20, -0x40, 0x80, -151},
	{0x01, -0x02, 0x04, -0x08, -0x10, 0x20, -0x40, 0x80, 90},
}

// doCommand executes the collected command and returns the DSP to waiting
// for an opcode.
func (c *Card) doCommand() {
	op := uint8(c.dsp.cmd)
	cmd := commands[c.variant][op]
	data := c.dsp.in.data

	defer func() {
		c.dsp.cmd = NoCommand
		c.dsp.cmdLen = 0
		c.dsp.in.pos = 0
	}()

	if !cmd.req.satisfiedBy(c.variant) {
		logger.Logf(c.env, "sb dsp", "command %02x requires %s", op, cmd.req)
		return
	}

	switch cmd.handler {
	case hDSPStatus:
		c.flushData()
		switch c.variant {
		case SB2:
			c.addData(0x88)
		case SBPro1, SBPro2:
			c.addData(0x7b)
		default:
			c.addData(0xff)
		}

	case hASPSetMode:
		c.asp.setMode(data[0])
	case hASPCodec:
		c.aspCodec(data[0], data[1])
	case hASPVersion:
		if data[0] == 0x03 {
			c.addData(0x18)
		} else {
			logger.Logf(c.env, "sb asp", "unhandled version request %02x", data[0])
		}
	case hASPSetRegister:
		c.asp.setRegister(data[0], data[1])
	case hASPGetRegister:
		c.addData(c.asp.getRegister(data[0]))
	case hASPQuery:
		c.addData(c.asp.query(data[0]))

	case hDirectDAC:
		c.toDAC()
		v := int16(uint16(data[0]^0x80) << 8)
		c.dac.add(v, v)

	case hDMA8Single, hDMA8HighSpeedSingle:
		c.prepareOld(DMAPCM8, false, false, false)
	case hDMA8Auto, hDMA8HighSpeedAuto:
		c.prepareOld(DMAPCM8, true, false, false)

	case hADPCM2Ref:
		c.adpcm.HaveReference = true
		c.prepareOld(DMAADPCM2, false, false, false)
	case hADPCM2:
		c.prepareOld(DMAADPCM2, false, false, false)
	case hADPCM2AutoRef:
		c.adpcm.HaveReference = true
		c.prepareOld(DMAADPCM2, true, false, false)
	case hADPCM3Ref:
		c.adpcm.HaveReference = true
		c.prepareOld(DMAADPCM3, false, false, false)
	case hADPCM3:
		c.prepareOld(DMAADPCM3, false, false, false)
	case hADPCM3AutoRef:
		c.adpcm.HaveReference = true
		c.prepareOld(DMAADPCM3, true, false, false)
	case hADPCM4Ref:
		c.adpcm.HaveReference = true
		c.prepareOld(DMAADPCM4, false, false, false)
	case hADPCM4:
		c.prepareOld(DMAADPCM4, false, false, false)
	case hADPCM4AutoRef:
		c.adpcm.HaveReference = true
		c.prepareOld(DMAADPCM4, true, false, false)

	case hDirectADC:
		c.addData(c.directADC())
	case hADC8Single, hADC8HighSpeedSingle:
		c.prepareOld(DMAPCM8, false, false, true)
	case hADC8Auto, hADC8HighSpeedAuto:
		c.prepareOld(DMAPCM8, true, false, true)

	case hMIDIReadPoll:
		c.dsp.midiPoll = true
		logger.Logf(c.env, "sb dsp", "midi read mode %02x. there is no midi input", op)
	case hMIDIUART:
		c.dsp.midiUART = true
		logger.Logf(c.env, "sb dsp", "midi uart mode %02x", op)
	case hMIDIWrite:
		c.writeMIDI(data[0])

	case hTimeConstant:
		c.timeConstant = data[0]
		c.freq = 256000000 / (65536 - int(data[0])<<8)
		c.retune()
	case hSampleRate:
		c.freq = int(data[0])<<8 | int(data[1])
	case hBlockSize:
		c.dma.total = c.argLength()

	case hSilence:
		c.schedule(evRaiseIRQ8, 1000*float64(c.argLength())/float64(max(c.freq, 1)), 0)

	case hGeneric:
		c.dma.sign = data[0]&0x10 != 0
		mode := DMAPCM8
		if op&0x10 != 0 {
			mode = DMAPCM16
		}
		length := 1 + int(data[1]) + int(data[2])<<8
		c.prepareNew(mode, length, op&0x04 != 0, data[0]&0x20 != 0, op&0x08 != 0)

	case hPause:
		c.toPause()
		c.cancel(evEndDMA)
		c.cancel(evDACDMA)
		c.cancel(evSilentDMA)
	case hContinue:
		if c.mode == ModeDMAPause {
			c.toMasked()
			if c.dma.dacMode {
				c.schedule(evDACDMA, 1000/float64(max(c.dma.srcRate, 1)), 0)
			}
			if ch := c.boundChannel(); ch != nil {
				c.registerListener(ch)
			}
		}

	case hSpeakerOn:
		c.setSpeaker(true)
	case hSpeakerOff:
		c.setSpeaker(false)
	case hSpeakerStatus:
		c.flushData()
		if c.speaker {
			c.addData(0xff)
		} else {
			c.addData(0x00)
		}

	case hExitAutoInit:
		c.dma.autoinit = false

	case hIdentify:
		c.flushData()
		c.addData(^data[0])
	case hVersion:
		c.flushData()
		major, minor := c.variant.Version()
		c.addData(major)
		c.addData(minor)
	case hDMAIdentify:
		t := e2Increments[c.e2.count%4]
		for i := range 8 {
			if data[0]&(1<<i) != 0 {
				c.e2.value += uint8(t[i])
			}
		}
		c.e2.value += uint8(t[8])
		c.e2.count++
		if ch := c.conn.DMA.Channel(int(c.hw.DMA8)); ch != nil && c.hw.DMA8 != NoChannel {
			c.registerE2(ch)
		} else {
			logger.Log(c.env, "sb dsp", "dma identification with no dma channel")
		}
	case hCopyright:
		c.flushData()
		for i := range len(copyright) {
			c.addData(copyright[i])
		}
		c.addData(0)
	case hWriteTest:
		c.dsp.testRegister = data[0]
	case hReadTest:
		c.flushData()
		c.addData(c.dsp.testRegister)

	case hIRQ8:
		c.raiseIRQ(irq8)
	case hIRQ16:
		c.raiseIRQ(irq16)
	case hStatusF8:
		c.flushData()
		c.addData(0)

	case hESSExtended:
		c.ess.extended = op == 0xc6
		logger.Logf(c.env, "sb ess", "extended mode %v", c.ess.extended)
	case hESSWrite:
		c.essWrite(op, data[0])
	case hESSRead:
		c.addData(c.essRead(data[0]))
	case hESSIdentify:
		c.flushData()
		_, minor := c.variant.Version()
		c.addData(0x68)
		c.addData(0x80 | minor)

	case hSC400Write:
		c.sc400 = data[0]
		logger.Logf(c.env, "sb", "sc400 configuration %02x", data[0])
	case hSC400Read:
		c.addData(c.sc400)
	case hSC400Identify:
		c.flushData()
		c.addData(0x11)

	default:
		logger.Logf(c.env, "sb dsp", "unhandled command %02x", op)
	}
}
