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

package savestate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jetsetilly/gopherblaster/curated"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
)

// Magic is the tag at the start of every save-state.
const Magic = "SBLASTER"

// Version of the schema written by Write().
const Version = 2

// Sentinel errors.
const (
	BadMagic     = "savestate: not a save-state (%q)"
	BadVersion   = "savestate: unsupported version (%d)"
	BadLength    = "savestate: %s has a length of %d"
	Truncated    = "savestate: truncated: %v"
	RestoreError = "savestate: %v"
)

// upper bound on the length of variable length fields
const maxLength = 4096

var order = binary.LittleEndian

// an int stored as 32 bits
type intField struct {
	name string
	v    *int
}

// a length prefixed byte slice
type bytesField struct {
	name string
	v    *[]uint8
}

// a length prefixed sample slice
type samplesField struct {
	name string
	v    *[]int16
}

// the fields of the state in the order they are stored. fields that are not
// one of the wrapper types must be fixed size values suitable for
// encoding/binary
func fields(st *blaster.State) []any {
	return []any{
		intField{"variant", (*int)(&st.Variant)},
		&st.HW,
		intField{"mode", (*int)(&st.Mode)},
		&st.Speaker,
		intField{"freq", &st.Freq},
		&st.TimeConstant,

		&st.DSP.State,
		intField{"command", &st.DSP.Command},
		intField{"command length", &st.DSP.CommandLen},
		&st.DSP.Args,
		intField{"argument position", &st.DSP.ArgPos},
		bytesField{"output", &st.DSP.Output},
		&st.DSP.LastVal,
		&st.DSP.TestRegister,
		&st.DSP.WriteBusy,
		&st.DSP.HighSpeed,
		&st.DSP.MIDIUART,
		&st.DSP.MIDIPoll,

		intField{"dma mode", (*int)(&st.DMA.Mode)},
		intField{"total", &st.DMA.Total},
		intField{"left", &st.DMA.Left},
		intField{"min", &st.DMA.Min},
		intField{"rate", &st.DMA.Rate},
		intField{"mul", &st.DMA.Mul},
		intField{"dma freq", &st.DMA.Freq},
		intField{"source rate", &st.DMA.SrcRate},
		&st.DMA.Halved,
		&st.DMA.Legacy,
		&st.DMA.Stereo,
		&st.DMA.Sign,
		&st.DMA.AutoInit,
		&st.DMA.Recording,
		&st.DMA.DACMode,
		&st.DMA.Channel,
		bytesField{"partial frame", &st.DMA.Pending},

		samplesField{"dac", &st.DAC},

		&st.Mixer.Index,
		&st.Mixer.Master,
		&st.Mixer.DAC,
		&st.Mixer.FM,
		&st.Mixer.CD,
		&st.Mixer.Line,
		&st.Mixer.Mic,
		&st.Mixer.Stereo,
		&st.Mixer.Filtered,
		&st.Mixer.Shadow,

		&st.ADPCM.Reference,
		intField{"adpcm step", &st.ADPCM.Step},
		&st.ADPCM.HaveReference,

		&st.IRQ8,
		&st.IRQ16,

		&st.E2Value,
		intField{"e2 count", &st.E2Count},

		&st.SC400,

		&st.ESSExtended,
		&st.ESSRegs,

		&st.ASPMode,
		&st.ASPInit,
		&st.ASPRegs,
		&st.ASPRAM,
		intField{"asp index", &st.ASPIndex},
	}
}

// Encode the state to the writer.
func Encode(w io.Writer, st blaster.State) error {
	var b bytes.Buffer
	b.WriteString(Magic)
	b.WriteByte(Version)

	for _, f := range fields(&st) {
		var err error
		switch f := f.(type) {
		case intField:
			err = binary.Write(&b, order, int32(*f.v))
		case bytesField:
			err = binary.Write(&b, order, uint16(len(*f.v)))
			if err == nil {
				_, err = b.Write(*f.v)
			}
		case samplesField:
			err = binary.Write(&b, order, uint16(len(*f.v)))
			if err == nil {
				err = binary.Write(&b, order, *f.v)
			}
		default:
			err = binary.Write(&b, order, f)
		}
		if err != nil {
			return fmt.Errorf("savestate: %w", err)
		}
	}

	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("savestate: %w", err)
	}
	return nil
}

func readLength(r io.Reader, name string) (int, error) {
	var n uint16
	if err := binary.Read(r, order, &n); err != nil {
		return 0, curated.Errorf(Truncated, err)
	}
	if n > maxLength {
		return 0, curated.Errorf(BadLength, name, n)
	}
	return int(n), nil
}

// Decode a state from the reader.
func Decode(r io.Reader) (blaster.State, error) {
	var st blaster.State

	hdr := make([]byte, len(Magic)+1)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return st, curated.Errorf(Truncated, err)
	}
	if string(hdr[:len(Magic)]) != Magic {
		return st, curated.Errorf(BadMagic, hdr[:len(Magic)])
	}
	if hdr[len(Magic)] != Version {
		return st, curated.Errorf(BadVersion, hdr[len(Magic)])
	}

	for _, f := range fields(&st) {
		switch f := f.(type) {
		case intField:
			var v int32
			if err := binary.Read(r, order, &v); err != nil {
				return st, curated.Errorf(Truncated, err)
			}
			*f.v = int(v)
		case bytesField:
			n, err := readLength(r, f.name)
			if err != nil {
				return st, err
			}
			*f.v = make([]uint8, n)
			if _, err := io.ReadFull(r, *f.v); err != nil {
				return st, curated.Errorf(Truncated, err)
			}
		case samplesField:
			n, err := readLength(r, f.name)
			if err != nil {
				return st, err
			}
			*f.v = make([]int16, n)
			if err := binary.Read(r, order, *f.v); err != nil {
				return st, curated.Errorf(Truncated, err)
			}
		default:
			if err := binary.Read(r, order, f); err != nil {
				return st, curated.Errorf(Truncated, err)
			}
		}
	}

	return st, nil
}

// Write the state of the card.
func Write(w io.Writer, c *blaster.Card) error {
	return Encode(w, c.State())
}

// Read a state and restore it to the card. The card is unchanged if the
// state can not be decoded.
func Read(r io.Reader, c *blaster.Card) error {
	st, err := Decode(r)
	if err != nil {
		return err
	}
	if err := c.Restore(st); err != nil {
		return curated.Errorf(RestoreError, err)
	}
	return nil
}

// Size returns the number of bytes used to store the state.
func Size(st blaster.State) (int, error) {
	var b bytes.Buffer
	if err := Encode(&b, st); err != nil {
		return 0, err
	}
	return b.Len(), nil
}
