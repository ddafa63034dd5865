// Package debugger implements an interactive step/trace viewer over a
// system.System, replacing the teacher's ad hoc fmt.Scanf-driven
// BIOS() REPL (console/bus.go, console/machine.go in the teacher
// repo) with a proper bubbletea TUI offering breakpoints, single-step,
// run-to-breakpoint and reset over a register line and a dump of the
// last instruction-boundary snapshot; it has no memory dump or stack
// view. Grounded on hejops-gone/cpu/debugger.go, the one place in the
// retrieval pack that wires bubbletea (and go-spew, for the snapshot
// dump) around a 6502 core.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/jrcoleman/nesemu/cpu"
	"github.com/jrcoleman/nesemu/system"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pcStyle     = lipgloss.NewStyle().Reverse(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type model struct {
	sys  *system.System
	brk  map[uint16]struct{}
	last cpu.Snapshot
	msg  string
}

// New constructs the debugger model for sys, with breakpoint tracking
// starting empty.
func New(sys *system.System) tea.Model {
	return model{sys: sys, brk: map[uint16]struct{}{}}
}

// Run starts the interactive TUI and blocks until the user quits.
func Run(sys *system.System) error {
	_, err := tea.NewProgram(New(sys)).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s", " ":
		m.step()
		m.msg = fmt.Sprintf("stepped to %04X", m.sys.CPU().GetPC())
	case "r":
		m.runToBreakpoint()
	case "b":
		pc := m.sys.CPU().GetPC()
		m.brk[pc] = struct{}{}
		m.msg = fmt.Sprintf("breakpoint set at %04X", pc)
	case "c":
		m.brk = map[uint16]struct{}{}
		m.msg = "breakpoints cleared"
	case "e":
		m.sys.Reset()
		m.msg = "reset"
	}
	return m, nil
}

// step ticks the machine one master tick at a time until the next
// instruction boundary (the CPU reporting Fault, or its in-flight
// instruction completing and the next opcode being decoded), and
// records the instruction-boundary snapshot via System.SetTraceHook.
func (m *model) step() {
	m.sys.SetTraceHook(func(s cpu.Snapshot) { m.last = s })
	startCycles := m.sys.CPU().Cycles()
	for m.sys.Fault() == nil && m.sys.CPU().Fault == nil {
		m.sys.Tick()
		if m.sys.CPU().Cycles() > startCycles && m.last.Cycle > startCycles {
			break
		}
	}
}

// runToBreakpoint ticks until PC lands on an armed breakpoint, a
// fault latches, or a generous iteration cap is hit (protects the TUI
// from a runaway loop on a ROM with no breakpoints set).
func (m *model) runToBreakpoint() {
	const cap = 50_000_000
	for i := 0; i < cap; i++ {
		m.sys.Tick()
		if m.sys.Fault() != nil {
			m.msg = "stopped: bus fault"
			return
		}
		if m.sys.CPU().Fault != nil {
			m.msg = "stopped: CPU fault"
			return
		}
		if _, hit := m.brk[m.sys.CPU().GetPC()]; hit {
			m.msg = fmt.Sprintf("breakpoint hit at %04X", m.sys.CPU().GetPC())
			return
		}
	}
	m.msg = "stopped: iteration cap reached"
}

func (m model) View() string {
	c := m.sys.CPU()
	dot, scanline := m.sys.PPUPosition()

	status := fmt.Sprintf(
		"PC:%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d  PPU:%d,%d",
		c.GetPC(), c.GetA(), c.GetX(), c.GetY(), c.GetP(), c.GetSP(), c.Cycles(), dot, scanline)

	var bps []string
	for addr := range m.brk {
		bps = append(bps, fmt.Sprintf("%04X", addr))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("nesemu debugger"),
		pcStyle.Render(status),
		fmt.Sprintf("breakpoints: %s", strings.Join(bps, " ")),
		m.msg,
		"",
		helpStyle.Render("in-flight snapshot:"),
		spew.Sdump(m.last),
		helpStyle.Render("[s]tep  [r]un  [b]reakpoint-here  [c]lear  r[e]set  [q]uit"),
	)
}
