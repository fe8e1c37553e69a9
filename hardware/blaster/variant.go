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
	"strings"
)

// Variant is the model of Sound Blaster being emulated.
type Variant int

// List of valid Variant values. The order is significant: variants after
// SB1 are "SB2 or above".
const (
	SB1 Variant = iota
	SB2
	SBPro1
	SBPro2
	SB16
	ESS688
	SC400
)

// Variants lists every supported variant.
var Variants = []Variant{SB1, SB2, SBPro1, SBPro2, SB16, ESS688, SC400}

func (v Variant) String() string {
	switch v {
	case SB1:
		return "SB1"
	case SB2:
		return "SB2"
	case SBPro1:
		return "SBPro1"
	case SBPro2:
		return "SBPro2"
	case SB16:
		return "SB16"
	case ESS688:
		return "ESS688"
	case SC400:
		return "SC400"
	}
	return "unknown variant"
}

// ParseVariant returns the Variant named by the string. The match is not
// case sensitive.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	switch strings.ToLower(s) {
	case "sb16vibra":
		return SB16, nil
	case "ess", "ess688":
		return ESS688, nil
	case "reveal", "sc400":
		return SC400, nil
	}
	return SB1, fmt.Errorf("blaster: unknown card type (%s)", s)
}

// IsSB16 returns true for the Sound Blaster 16.
func (v Variant) IsSB16() bool {
	return v == SB16
}

// IsPro returns true for the Sound Blaster Pro models and the clones that
// are based on them.
func (v Variant) IsPro() bool {
	return v == SBPro1 || v == SBPro2 || v == ESS688 || v == SC400
}

// HasMixer returns true if the variant has the mixer ports.
func (v Variant) HasMixer() bool {
	return v != SB1 && v != SB2
}

// HasStereoOPL returns true if the variant decodes the OPL ports at the
// start of its port range.
func (v Variant) HasStereoOPL() bool {
	return v.IsPro() || v.IsSB16()
}

// Aliased returns true if the variant decodes odd ports as the even port
// before them.
func (v Variant) Aliased() bool {
	return v != SB16
}

// HighSpeedNeedsReset returns true if the variant ignores DSP writes while in
// high-speed mode and can only leave high-speed mode through a reset.
func (v Variant) HighSpeedNeedsReset() bool {
	return v != SB16 && v != ESS688 && v != SC400
}

// Version returns the DSP version reported by command 0xe1.
func (v Variant) Version() (major uint8, minor uint8) {
	switch v {
	case SB1:
		return 1, 5
	case SB2:
		return 2, 1
	case SBPro1:
		return 3, 0
	case SBPro2:
		return 3, 2
	case SB16:
		return 4, 5
	case ESS688:
		return 3, 1
	case SC400:
		return 3, 5
	}
	return 0, 0
}

// the T value in the BLASTER environment variable
func (v Variant) blasterType() int {
	switch v {
	case SB1:
		return 1
	case SBPro1:
		return 2
	case SB2:
		return 3
	case SB16:
		return 6
	}
	return 4
}
