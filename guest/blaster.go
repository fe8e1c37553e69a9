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

package guest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherblaster/hardware/blaster"
)

// Settings are the resources of the card as found in the BLASTER
// environment string.
type Settings struct {
	Base uint16
	IRQ  uint8
	DMA  uint8
	HDMA uint8

	// the T value. zero if not specified
	Type int
}

func (s Settings) String() string {
	return fmt.Sprintf("base=%#03x irq=%d dma=%d hdma=%d type=%d", s.Base, s.IRQ, s.DMA, s.HDMA, s.Type)
}

// ParseBlaster parses the BLASTER environment string. Only the address is
// required. Unknown fields are ignored.
func ParseBlaster(s string) (Settings, error) {
	st := Settings{
		IRQ:  blaster.NoIRQ,
		DMA:  blaster.NoChannel,
		HDMA: blaster.NoChannel,
	}

	var haveBase bool

	for _, f := range strings.Fields(strings.ToUpper(s)) {
		if len(f) < 2 {
			return st, fmt.Errorf("guest: malformed blaster field (%s)", f)
		}

		val := f[1:]
		switch f[0] {
		case 'A':
			v, err := strconv.ParseUint(val, 16, 16)
			if err != nil {
				return st, fmt.Errorf("guest: blaster address: %w", err)
			}
			st.Base = uint16(v)
			haveBase = true
		case 'I', 'D', 'H', 'T':
			v, err := strconv.ParseUint(val, 10, 8)
			if err != nil {
				return st, fmt.Errorf("guest: blaster %c: %w", f[0], err)
			}
			switch f[0] {
			case 'I':
				st.IRQ = uint8(v)
			case 'D':
				st.DMA = uint8(v)
			case 'H':
				st.HDMA = uint8(v)
			case 'T':
				st.Type = int(v)
			}
		}
	}

	if !haveBase {
		return st, fmt.Errorf("guest: blaster string has no address (%s)", s)
	}

	return st, nil
}
