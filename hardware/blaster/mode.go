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

// Mode is the coarse state of the card.
type Mode int

// List of valid Mode values.
const (
	ModeNone Mode = iota
	ModeDAC
	ModeDMA
	ModeDMAPause
	ModeDMAMasked
	ModeDMARequireIRQAck
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeDAC:
		return "dac"
	case ModeDMA:
		return "dma"
	case ModeDMAPause:
		return "dma paused"
	case ModeDMAMasked:
		return "dma masked"
	case ModeDMARequireIRQAck:
		return "dma waiting for irq ack"
	}
	return "unknown mode"
}

// DMAMode is the format of the data being transferred.
type DMAMode int

// List of valid DMAMode values. Modes from DMAPCM16 raise the 16 bit
// interrupt.
const (
	DMANone DMAMode = iota
	DMAADPCM2
	DMAADPCM3
	DMAADPCM4
	DMAPCM8
	DMAPCM16
	DMAPCM16Aliased
)

func (m DMAMode) String() string {
	switch m {
	case DMANone:
		return "none"
	case DMAADPCM2:
		return "2-bit ADPCM"
	case DMAADPCM3:
		return "3-bit ADPCM"
	case DMAADPCM4:
		return "4-bit ADPCM"
	case DMAPCM8:
		return "8-bit PCM"
	case DMAPCM16:
		return "16-bit PCM"
	case DMAPCM16Aliased:
		return "16-bit PCM (aliased)"
	}
	return "unknown dma mode"
}

func (m DMAMode) is16() bool {
	return m >= DMAPCM16
}

func (m DMAMode) isADPCM() bool {
	return m >= DMAADPCM2 && m <= DMAADPCM4
}

// Mode returns the current mode of the card.
func (c *Card) Mode() Mode {
	return c.mode
}

// DMAMode returns the format of the current transfer.
func (c *Card) DMAMode() DMAMode {
	return c.dma.mode
}

// changeMode flushes the audio produced in the current mode before changing
// to the new mode. Must not be called while the mixer is pulling samples.
func (c *Card) changeMode(m Mode) {
	if c.mode == m {
		return
	}
	c.channel.FillUp()
	c.mode = m
}

// setMode changes mode without flushing audio. Used from the paths that run
// while the mixer is pulling samples.
func (c *Card) setMode(m Mode) {
	c.mode = m
}

// the transfer stops at the end of the current block
func (c *Card) toIdle() {
	c.setMode(ModeNone)
	c.dma.mode = DMANone
}

func (c *Card) toDAC() {
	c.changeMode(ModeDAC)
}

func (c *Card) toDMA() {
	c.changeMode(ModeDMA)
}

func (c *Card) toPause() {
	c.changeMode(ModeDMAPause)
}

func (c *Card) toMasked() {
	c.setMode(ModeDMAMasked)
}

func (c *Card) toRequireIRQAck() {
	c.setMode(ModeDMARequireIRQAck)
}
