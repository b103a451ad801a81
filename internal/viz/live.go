package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pixmorph/internal/anim"
	"github.com/san-kum/pixmorph/internal/histogram"
	"github.com/san-kum/pixmorph/internal/metrics"
)

const (
	defaultCols     = 96
	defaultRows     = 40
	historyCapacity = 120
	histBins        = 32
)

type TickMsg time.Time

type Options struct {
	Title string
	FPS   int
	Theme string
	// Metrics, when set, observes every frame the player renders.
	Metrics *metrics.Set
}

// Model drives an anim.Player from bubbletea ticks.
type Model struct {
	player    *anim.Player
	opts      Options
	interval  time.Duration
	canvas    *Canvas
	theme     Theme
	st        styles
	frame     anim.Frame
	running   bool
	showHist  bool
	showHelp  bool
	collHist  []float64
	lastFrame time.Time
	fps       float64
}

func NewModel(p *anim.Player, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		player:   p,
		opts:     opts,
		interval: time.Second / time.Duration(opts.FPS),
		canvas:   NewCanvas(defaultCols, defaultRows),
		theme:    theme,
		st:       newStyles(theme),
		running:  true,
		collHist: make([]float64, 0, historyCapacity),
	}
	m.step()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
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
			m.player.Seek(0)
			m.collHist = m.collHist[:0]
			m.step()
		case "[":
			m.running = false
			m.player.Seek(m.frame.Index - 1)
			m.step()
		case "]":
			m.running = false
			m.step()
		case "h":
			m.showHist = !m.showHist
		case "t":
			m.theme = nextTheme(m.theme.Name)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := msg.Width - 60
		rows := msg.Height - 2
		if cols > 8 && rows > 4 {
			m.canvas = NewCanvas(cols, rows)
		}
	case TickMsg:
		if m.running {
			now := time.Time(msg)
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 0.9*m.fps + 0.1/dt
				}
			}
			m.lastFrame = now
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.frame = m.player.Step()
	if m.opts.Metrics != nil {
		m.opts.Metrics.OnFrame(m.frame.Stats)
	}
	m.collHist = append(m.collHist, float64(m.frame.Stats.Collisions))
	if len(m.collHist) > historyCapacity {
		m.collHist = m.collHist[1:]
	}
}

func (m Model) status() string {
	switch {
	case !m.running:
		return m.st.paused.Render("PAUSED")
	case m.frame.Index >= m.player.Frames():
		return m.st.running.Render("HOLD")
	default:
		return m.st.running.Render("PLAYING")
	}
}

func (m Model) row(label, value string) string {
	return m.st.label.Render(label) + m.st.value.Render(value) + "\n"
}

func (m Model) View() string {
	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "pixmorph"
	}
	s.WriteString(m.st.title.Render(GradientText(strings.ToUpper(title), m.theme.Primary, m.theme.Secondary)) + "\n")
	s.WriteString(m.status() + "\n\n")

	fs := m.frame.Stats
	s.WriteString(m.row("Frame", fmt.Sprintf("%d/%d", m.frame.Index+1, m.player.Len())))
	s.WriteString(m.row("t", fmt.Sprintf("%.3f", m.frame.T)))
	s.WriteString(ProgressBar(m.frame.T, 30) + "\n")
	s.WriteString(m.row("Version", fmt.Sprintf("%d", fs.Version)))
	s.WriteString(m.row("Pixels", fmt.Sprintf("%d", m.player.Engine().Len())))
	s.WriteString(m.row("Filled", fmt.Sprintf("%d", fs.Filled)))
	s.WriteString(m.row("Empty", fmt.Sprintf("%d", fs.Empty)))
	s.WriteString(m.row("Collisions", fmt.Sprintf("%d (+%d merged)", fs.Collisions, fs.Merged)))
	if fs.OutOfBounds > 0 {
		s.WriteString(m.st.label.Render("Dropped") + m.st.warn.Render(fmt.Sprintf("%d", fs.OutOfBounds)) + "\n")
	}
	if m.fps > 0 {
		s.WriteString(m.row("FPS", fmt.Sprintf("%.1f", m.fps)))
	}
	s.WriteString("\n" + m.st.Sparkline(m.collHist, 30) + "\n")

	if m.showHist && m.frame.Grid != nil {
		if h, err := histogram.Compute(m.frame.Grid, histBins); err == nil {
			s.WriteString("\n" + histogram.Plot(h, 30, 5) + "\n")
		}
	}

	s.WriteString(m.st.hint.Render("SP:Pause R:Restart Q:Quit\n[ ]:Step H:Histogram T:Theme ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(m.frame.Grid), "  ", m.st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart from the source  ║
║  [        - Step back one frame      ║
║  ]        - Step forward one frame   ║
║  H        - Toggle histogram         ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the full-screen player and blocks until the user quits.
func Run(p *anim.Player, opts Options) error {
	prog := tea.NewProgram(NewModel(p, opts), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
