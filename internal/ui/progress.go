// Package ui renders terminal progress for long compilations.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mycompiler/internal/buildpipeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type stageRow struct {
	stage   buildpipeline.Stage
	status  buildpipeline.Status
	elapsed time.Duration
	err     error
}

type progressModel struct {
	title   string
	file    string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []stageRow
	width   int
	done    bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model with one row per stage.
// The model quits when events is closed.
func NewProgressModel(title, file string, stages []buildpipeline.Stage, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]stageRow, 0, len(stages))
	for _, st := range stages {
		rows = append(rows, stageRow{stage: st, status: buildpipeline.StatusQueued})
	}
	return &progressModel{
		title:   title,
		file:    file,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		width:   80,
	}
}

// Stages lists the rows shown for a backend.
func Stages(be buildpipeline.Backend) []buildpipeline.Stage {
	if be == buildpipeline.BackendGo {
		return []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageLower, buildpipeline.StageBuild}
	}
	return []buildpipeline.Stage{buildpipeline.StageParse, buildpipeline.StageLower, buildpipeline.StageCheck}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listen())
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
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder
	header := m.title
	if m.file != "" {
		header = fmt.Sprintf("%s %s", header, truncate(m.file, m.width-runewidth.StringWidth(header)-4))
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		label := fmt.Sprintf("%-8s", row.stage)
		state := fmt.Sprintf("%10s", statusText(row))
		line := fmt.Sprintf("  %s %s", label, styleFor(row.status).Render(state))
		if row.status == buildpipeline.StatusDone && row.elapsed > 0 {
			line += idleStyle.Render(fmt.Sprintf("  %.1fms", float64(row.elapsed.Microseconds())/1000))
		}
		if row.err != nil {
			line += "  " + errorStyle.Render(truncate(row.err.Error(), m.width-30))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply обновляет строку стадии; события по файлам дублируют общие и пропускаются.
func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File != "" {
		return nil
	}
	for i := range m.rows {
		if m.rows[i].stage != ev.Stage {
			continue
		}
		m.rows[i].status = ev.Status
		m.rows[i].err = ev.Err
		if ev.Elapsed > 0 {
			m.rows[i].elapsed = ev.Elapsed
		}
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.rows {
		switch row.status {
		case buildpipeline.StatusDone, buildpipeline.StatusError:
			total += 1
		case buildpipeline.StatusWorking:
			total += 0.5
		}
	}
	return total / float64(len(m.rows))
}

func statusText(row stageRow) string {
	switch row.status {
	case buildpipeline.StatusWorking:
		switch row.stage {
		case buildpipeline.StageParse:
			return "parsing"
		case buildpipeline.StageLower:
			return "lowering"
		case buildpipeline.StageCheck:
			return "checking"
		case buildpipeline.StageBuild:
			return "building"
		}
		return "working"
	case "":
		return "queued"
	}
	return string(row.status)
}

func styleFor(status buildpipeline.Status) lipgloss.Style {
	switch status {
	case buildpipeline.StatusDone:
		return doneStyle
	case buildpipeline.StatusError:
		return errorStyle
	case buildpipeline.StatusWorking:
		return workingStyle
	}
	return idleStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= 3 {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
