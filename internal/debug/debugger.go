// Package debug implements an interactive terminal step-debugger for the
// CPU/bus core, for use in place of the graphics frontend during bring-up
// of a new ROM.
package debug

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"nescore/internal/bus"
)

var (
	registerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	flagSetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	flagClrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pcStyle       = lipgloss.NewStyle().Reverse(true)
)

type model struct {
	bus      *bus.Bus
	lastPC   uint16
	lastName string
	steps    int
	quitting bool
}

// New builds a step-debugger model over an already-loaded bus.
func New(b *bus.Bus) tea.Model {
	return model{bus: b}
}

// Run starts the interactive debugger; it blocks until the user quits.
func Run(b *bus.Bus) error {
	_, err := tea.NewProgram(New(b)).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "s":
			m.lastPC = m.bus.CPU.PC
			m.lastName, _ = m.bus.CPU.Disassemble(m.bus.CPU.PC)
			m.bus.Step()
			m.steps++
		case "f":
			for before := m.bus.GetFrameCount(); m.bus.GetFrameCount() == before; {
				m.bus.Step()
				m.steps++
			}
		}
	}
	return m, nil
}

func (m model) registers() string {
	return fmt.Sprintf(
		"%s  %s  %s  %s  %s",
		registerStyle.Render(fmt.Sprintf("A=$%02X", m.bus.CPU.A)),
		registerStyle.Render(fmt.Sprintf("X=$%02X", m.bus.CPU.X)),
		registerStyle.Render(fmt.Sprintf("Y=$%02X", m.bus.CPU.Y)),
		registerStyle.Render(fmt.Sprintf("SP=$%02X", m.bus.CPU.SP)),
		registerStyle.Render(fmt.Sprintf("PC=$%04X", m.bus.CPU.PC)),
	)
}

func (m model) flags() string {
	type flag struct {
		name string
		set  bool
	}
	flags := []flag{
		{"N", m.bus.CPU.N}, {"V", m.bus.CPU.V}, {"B", m.bus.CPU.B},
		{"D", m.bus.CPU.D}, {"I", m.bus.CPU.I}, {"Z", m.bus.CPU.Z}, {"C", m.bus.CPU.C},
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		if f.set {
			parts[i] = flagSetStyle.Render(f.name)
		} else {
			parts[i] = flagClrStyle.Render(f.name)
		}
	}
	return strings.Join(parts, " ")
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	last := "-"
	if m.steps > 0 {
		last = fmt.Sprintf("$%04X: %s", m.lastPC, m.lastName)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		pcStyle.Render(fmt.Sprintf(" step %d ", m.steps)),
		m.registers(),
		"flags: "+m.flags(),
		fmt.Sprintf("cycles=%d  frame=%d", m.bus.CPU.Cycles(), m.bus.GetFrameCount()),
		"last: "+last,
		"",
		spew.Sdump(struct {
			A, X, Y, SP uint8
			PC          uint16
		}{m.bus.CPU.A, m.bus.CPU.X, m.bus.CPU.Y, m.bus.CPU.SP, m.bus.CPU.PC}),
		"",
		"[space/s] step  [f] run to next frame  [q] quit",
	)
}
