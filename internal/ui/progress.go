// Package ui renders live progress for a fuzzing run in the terminal.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bretttully/polyfuzz/internal/fuzz"
)

type fuzzModel struct {
	title   string
	events  <-chan fuzz.Event
	spinner spinner.Model
	prog    progress.Model

	total       int64
	completed   int64
	failures    int
	failedSeeds []int64

	width int
	done  bool
}

type eventMsg fuzz.Event
type doneMsg struct{}

// NewFuzzModel returns a Bubble Tea model that renders fuzzing progress
// from the driver's event channel. The model quits when the channel is
// closed.
func NewFuzzModel(title string, totalSeeds int64, events <-chan fuzz.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &fuzzModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   totalSeeds,
		width:   80,
	}
}

func (m *fuzzModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *fuzzModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.completed++
		if msg.Failed > 0 {
			m.failures += msg.Failed
			m.failedSeeds = append(m.failedSeeds, msg.Seed)
			sort.Slice(m.failedSeeds, func(i, j int) bool { return m.failedSeeds[i] < m.failedSeeds[j] })
		}
		var cmd tea.Cmd
		if m.total > 0 {
			cmd = m.prog.SetPercent(float64(m.completed) / float64(m.total))
		}
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *fuzzModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	counts := fmt.Sprintf("  seeds %d/%d", m.completed, m.total)
	if m.failures > 0 {
		failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		counts += failStyle.Render(fmt.Sprintf("  failures %d", m.failures))
		counts += failStyle.Render("  failing seeds: " + truncate(formatSeeds(m.failedSeeds), m.width-30))
	}
	b.WriteString(counts)
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *fuzzModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func formatSeeds(seeds []int64) string {
	parts := make([]string, len(seeds))
	for i, s := range seeds {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, width int) string {
	if width < 8 {
		width = 8
	}
	return runewidth.Truncate(s, width, "…")
}
