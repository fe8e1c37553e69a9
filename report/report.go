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

// Package report formats information about the emulated hardware for the
// terminal. Colour and other styling is only used when the output is a
// terminal that supports it.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jetsetilly/gopherblaster/hardware/blaster"
)

type styles struct {
	title lipgloss.Style
	key   lipgloss.Style
	value lipgloss.Style
	warn  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)).Padding(0, 1),
		key:   r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		value: r.NewStyle(),
		warn:  r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
	}
}

type row struct {
	key   string
	value string
	warn  bool
}

// Report is a titled list of key/value rows.
type Report struct {
	title string
	rows  []row
}

// New is the preferred method of initialisation for the Report type.
func New(title string) *Report {
	return &Report{title: title}
}

// Add a row to the report.
func (rep *Report) Add(key string, format string, a ...any) {
	rep.rows = append(rep.rows, row{key: key, value: fmt.Sprintf(format, a...)})
}

// Warn adds a row that is highlighted in the report.
func (rep *Report) Warn(key string, format string, a ...any) {
	rep.rows = append(rep.rows, row{key: key, value: fmt.Sprintf(format, a...), warn: true})
}

// Write the report. Keys are aligned in a single column.
func (rep *Report) Write(w io.Writer) error {
	st := newStyles(lipgloss.NewRenderer(w))

	var width int
	for _, r := range rep.rows {
		width = max(width, lipgloss.Width(r.key))
	}
	key := st.key.Width(width + 2)

	lines := []string{st.title.Render(rep.title)}
	for _, r := range rep.rows {
		v := st.value.Render(r.value)
		if r.warn {
			v = st.warn.Render(r.value)
		}
		lines = append(lines, key.Render(r.key)+v)
	}

	s := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Card adds the configuration and current state of the card.
func (rep *Report) Card(c *blaster.Card) {
	rep.Add("card", "%s", c.Variant())
	rep.Add("blaster", "%s", c.Blaster())
	rep.Add("resources", "%s", c.HW())
	rep.Add("mode", "%s (%s)", c.Mode(), c.DMAMode())
	if c.Speaker() {
		rep.Add("speaker", "on")
	} else {
		rep.Add("speaker", "off")
	}
	p8, p16 := c.Pending()
	if p8 || p16 {
		rep.Warn("interrupts", "8 bit=%v 16 bit=%v", p8, p16)
	}
}
