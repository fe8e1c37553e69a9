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

package hardware

import (
	"fmt"

	"github.com/jetsetilly/gopherblaster/environment"
	"github.com/jetsetilly/gopherblaster/hardware/audio"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
	"github.com/jetsetilly/gopherblaster/hardware/dma"
	"github.com/jetsetilly/gopherblaster/hardware/iobus"
	"github.com/jetsetilly/gopherblaster/hardware/opl"
	"github.com/jetsetilly/gopherblaster/hardware/pic"
	"github.com/jetsetilly/gopherblaster/hardware/preferences"
	"github.com/jetsetilly/gopherblaster/hardware/scheduler"
	"github.com/jetsetilly/gopherblaster/logger"
)

// MaxCards is the number of cards that can be added to a Machine.
const MaxCards = 2

// AdlibPort is the address of the OPL as seen by Adlib compatible software.
const AdlibPort = 0x388

// Machine is the main container for the emulated components.
type Machine struct {
	Env   *environment.Environment
	Sched *scheduler.Scheduler
	Bus   *iobus.Bus
	PIC   *pic.PIC
	DMA   *dma.Controller
	Mixer *audio.Mixer

	// OPL is nil if the preferences ask for no OPL
	OPL *opl.OPL

	// the first card is created from the preferences
	Cards []*blaster.Card

	source blaster.Source

	rewind *rewind
}

// NewMachine creates a new Machine and everything associated with the
// hardware. The prefs argument can be nil, in which case the default
// preferences are used.
func NewMachine(label environment.Label, prefs *preferences.Preferences) (*Machine, error) {
	var err error

	m := &Machine{}
	m.Sched = scheduler.NewScheduler()
	m.Env = environment.NewEnvironment(label, m.Sched, prefs)
	m.Bus = iobus.NewBus(m.Env)

	m.PIC = pic.NewPIC(m.Env)
	if err := m.PIC.InstallPorts(m.Bus); err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	m.DMA, err = dma.NewController(m.Env, 0)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}
	if err := m.DMA.InstallPorts(m.Bus); err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	m.Mixer = audio.NewMixer(m.Env, m.Sched, audio.DefaultRate)

	cfg, err := blaster.NewConfig(m.Env.Prefs)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	mode, err := OPLMode(m.Env.Prefs.OPLMode.String(), cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}
	if mode != opl.None {
		m.OPL = opl.NewOPL(m.Env, m.Sched, mode)
		if _, err := m.OPL.Install(m.Bus, AdlibPort); err != nil {
			return nil, fmt.Errorf("hardware: %w", err)
		}
		m.Mixer.AddChannel("FM", nil, 49716)
	}

	if _, err := m.AddCard(cfg); err != nil {
		return nil, err
	}

	m.rewind = newRewind(m)

	return m, nil
}

// OPLMode returns the OPL fitted to a card of the variant. The preference
// value "auto" selects the chip that Creative fitted to the variant.
func OPLMode(pref string, v blaster.Variant) (opl.Mode, error) {
	if pref != preferences.Auto {
		return opl.ParseMode(pref)
	}
	switch v {
	case blaster.SB1, blaster.SB2:
		return opl.OPL2, nil
	case blaster.SBPro1:
		return opl.DualOPL2, nil
	}
	return opl.OPL3, nil
}

func (m *Machine) String() string {
	s := fmt.Sprintf("time=%.3fms", m.Sched.NowMs())
	for _, c := range m.Cards {
		s = fmt.Sprintf("%s\n%s", s, c)
	}
	return s
}

// AddCard adds a card to the machine. Only the first card is connected to
// the OPL.
func (m *Machine) AddCard(cfg blaster.Config) (*blaster.Card, error) {
	if len(m.Cards) >= MaxCards {
		return nil, fmt.Errorf("hardware: machine already has %d cards", MaxCards)
	}

	if len(m.Cards) > 0 {
		cfg.Name = fmt.Sprintf("SB%d", len(m.Cards)+1)
	}

	conn := blaster.Connections{
		Bus:       m.Bus,
		IRQ:       m.PIC,
		DMA:       m.DMA,
		Scheduler: m.Sched,
		Mixer:     m.Mixer,
		Source:    m.source,
	}
	if len(m.Cards) == 0 && m.OPL != nil {
		conn.OPL = m.OPL
	}

	c, err := blaster.NewCard(m.Env, cfg, conn)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}
	m.Cards = append(m.Cards, c)

	return c, nil
}

// Card returns the first card.
func (m *Machine) Card() *blaster.Card {
	return m.Cards[0]
}

// AttachSource changes the recording source of every card. A nil source is
// silence.
func (m *Machine) AttachSource(src blaster.Source) {
	m.source = src
	for _, c := range m.Cards {
		c.AttachSource(src)
	}
}

// Reset the machine as though the reset button had been pressed. Memory is
// not cleared and virtual time continues.
func (m *Machine) Reset() {
	m.PIC.Reset()
	m.DMA.Reset()
	if m.OPL != nil {
		m.OPL.Reset()
	}
	for _, c := range m.Cards {
		c.Reset()
	}
	m.Mixer.Reset()
	m.rewind.reset()
	logger.Log(m.Env, "hardware", "reset")
}
