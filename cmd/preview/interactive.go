package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/canvas-bridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const ratioStep = 0.25

type modelState int

const (
	stateRunning modelState = iota
	stateRatioInput
	stateSelectEntry
	stateEntryInput
)

type frameMsg struct {
	err     error
	hostFPS string
}

type interactiveModel struct {
	ctx      context.Context
	err      error
	session  *session
	entries  []bridge.EntryPoint
	input    textinput.Model
	hostFPS  string
	frames   uint64
	selected int
	state    modelState
}

func newInteractiveModel(ctx context.Context, s *session) *interactiveModel {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 24
	return &interactiveModel{
		ctx:     ctx,
		session: s,
		entries: bridge.EntryPoints(),
		input:   ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.nextFrame()
}

// nextFrame runs one guest frame off the model goroutine; guest calls land
// in the relay and are applied in Update.
func (m *interactiveModel) nextFrame() tea.Cmd {
	if !m.session.inst.HasFrame() {
		return nil
	}
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg {
		err := m.session.frame(m.ctx)
		return frameMsg{err: err, hostFPS: m.session.hostFPS()}
	})
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateRatioInput, stateEntryInput:
			return m.updateInput(msg)
		case stateSelectEntry:
			return m.updateSelect(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "+", "=":
			m.setRatio(m.session.win.DevicePixelRatio() + ratioStep)
		case "-", "_":
			m.setRatio(m.session.win.DevicePixelRatio() - ratioStep)
		case "r":
			m.state = stateRatioInput
			m.input.Placeholder = "device pixel ratio"
			m.input.SetValue("")
			m.input.Focus()
		case "c":
			m.state = stateSelectEntry
		}

	case frameMsg:
		m.session.relay.Drain()
		m.hostFPS = msg.hostFPS
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.frames++
		return m, m.nextFrame()
	}

	return m, nil
}

func (m *interactiveModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.entries)-1 {
			m.selected++
		}
	case "enter":
		e := m.entries[m.selected]
		m.state = stateEntryInput
		m.input.Placeholder = bridge.TypeName(e.Param)
		m.input.SetValue("")
		m.input.Focus()
	case "esc", "q":
		m.state = stateRunning
	}
	return m, nil
}

func (m *interactiveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = stateRunning
		return m, nil
	case "enter":
		m.input.Blur()
		value := strings.TrimSpace(m.input.Value())
		if m.state == stateRatioInput {
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				m.setRatio(v)
			} else {
				m.err = fmt.Errorf("ratio %q: %w", value, err)
			}
		} else {
			m.err = m.invoke(m.entries[m.selected], value)
		}
		m.state = stateRunning
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) invoke(e bridge.EntryPoint, value string) error {
	arg, err := convertArg(value, e.Param)
	if err != nil {
		return err
	}
	if err := e.Invoke(m.session.relay, arg); err != nil {
		return err
	}
	m.session.relay.Drain()
	return nil
}

func (m *interactiveModel) setRatio(v float64) {
	if v < ratioStep {
		v = ratioStep
	}
	m.err = nil
	m.session.win.SetDevicePixelRatio(v)
}

func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.Bool:
		return strconv.ParseBool(value)
	case wit.F64:
		return strconv.ParseFloat(value, 64)
	case wit.String:
		return value, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %s", bridge.TypeName(t))
}

func (m *interactiveModel) View() string {
	st := m.session.state()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Canvas Preview"))
	b.WriteString(" ")
	b.WriteString(m.session.opts.wasmFile)
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-15s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("device ratio", strconv.FormatFloat(st.ratio, 'f', -1, 64))
	row("ratio changes", strconv.FormatUint(st.firings, 10))
	row("canvas width", st.canvasWidth)
	row("canvas height", st.canvasHeight)
	row("backing store", fmt.Sprintf("%.0fx%.0f", st.bounds.Width, st.bounds.Height))
	row("pause overlay", shown(st.pause))
	row("debug overlay", shown(st.debug))
	row("debug text", st.debugText)
	row("fps", st.fps)
	row("host fps", m.hostFPS)
	row("frames", strconv.FormatUint(m.frames, 10))
	if st.failed {
		row("load error", errorStyle.Render(st.fallback))
	}
	b.WriteString("\n")

	switch m.state {
	case stateRatioInput, stateEntryInput:
		if m.state == stateEntryInput {
			b.WriteString(funcStyle.Render(m.entries[m.selected].Name))
			b.WriteString(" ")
		}
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc back"))

	case stateSelectEntry:
		b.WriteString("Call a bridge operation:\n\n")
		for i, e := range m.entries {
			line := e.Name + "(" + bridge.TypeName(e.Param) + ")"
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + funcStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back"))

	default:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("+/- ratio • r set ratio • c call • q quit"))
	}

	return b.String()
}

func runInteractive(ctx context.Context, s *session) error {
	p := tea.NewProgram(newInteractiveModel(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
