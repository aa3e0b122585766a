package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/blocksim/internal/dynamo"
)

const (
	frameRate = 30
	maxSpeed  = 64
)

type TickMsg time.Time

// Model replays a finished result frame by frame.
type Model struct {
	res      *dynamo.Result
	name     string
	head     int
	speed    int
	running  bool
	theme    Theme
	styles   styles
	showHelp bool
	width    int
	height   int
}

func NewModel(res *dynamo.Result, name string, theme Theme) Model {
	return Model{
		res:     res,
		name:    name,
		speed:   1,
		running: true,
		theme:   theme,
		styles:  newStyles(theme),
		width:   60,
		height:  12,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
			m.running = true
		case "[":
			m.running = false
			m.seek(-1)
		case "]":
			m.running = false
			m.seek(1)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(20, msg.Width-40)
		m.height = max(5, msg.Height-12)
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) seek(n int) {
	last := m.res.Len() - 1
	m.head = max(0, min(m.head+n, last))
}

func (m Model) done() bool {
	return m.head >= m.res.Len()-1
}

// Head returns the index of the frame on screen.
func (m Model) Head() int { return m.head }

func (m Model) View() string {
	st := m.styles
	if m.res.Len() == 0 {
		return st.muted.Render("no samples") + "\n"
	}

	chart := plotValues(m.res.Outputs[:m.head+1], m.width, m.height, "")
	chartView := st.chart.Render(chart)

	var s strings.Builder
	s.WriteString(st.title.Render(m.name) + "\n")
	s.WriteString(st.label.Render("t") + st.value.Render(fmt.Sprintf("%.4f s", m.res.Times[m.head])) + "\n")
	s.WriteString(st.label.Render("y") + st.value.Render(fmt.Sprintf("%.6f", m.res.Outputs[m.head])) + "\n")
	s.WriteString(st.label.Render("speed") + st.value.Render(fmt.Sprintf("x%d", m.speed)) + "\n")
	status := "playing"
	switch {
	case m.done():
		status = "done"
	case !m.running:
		status = "paused"
	}
	s.WriteString(st.label.Render("status") + st.status.Render(status) + "\n\n")

	frac := 1.0
	if n := m.res.Len() - 1; n > 0 {
		frac = float64(m.head) / float64(n)
	}
	s.WriteString(st.progressBar(frac, 24) + "\n")

	view := lipgloss.JoinHorizontal(lipgloss.Top, chartView, st.panel.Render(s.String()))
	if m.showHelp {
		view += "\n" + st.muted.Render("space pause  r restart  [ ] step  +/- speed  t theme  q quit")
	} else {
		view += "\n" + st.muted.Render("? help")
	}
	return view + "\n"
}

// Play runs the playback until the user quits.
func Play(res *dynamo.Result, name string, theme Theme) error {
	_, err := tea.NewProgram(NewModel(res, name, theme), tea.WithAltScreen()).Run()
	return err
}
