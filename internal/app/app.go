package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"thunder.klederson.com/internal/config"
	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/panel"
	"thunder.klederson.com/internal/station"
	"thunder.klederson.com/internal/ui"
)

const (
	panelRows = 24
	panelCols = config.TerminalWidth
)

// shared holds state common to every copy of the Bubble Tea model.
type shared struct {
	station *station.Station
	source  lightning.Source
	screen  *ui.Screen
	render  *panel.Renderer
}

// AppModel previews the front panel in the local terminal.
type AppModel struct {
	width  int
	height int

	layout panel.Layout
	demo   bool

	shared *shared

	// Cached snapshot, painted into shared.screen by Update
	stats lightning.Stats
	mode  panel.Mode
}

// New creates a preview model for st. When source is non-nil it is started
// by StartSource and its events are fed to st.
func New(st *station.Station, layout panel.Layout, build panel.BuildInfo, source lightning.Source) AppModel {
	screen := ui.NewScreen(panelRows, panelCols)
	m := AppModel{
		layout: layout,
		demo:   source != nil,
		shared: &shared{
			station: st,
			source:  source,
			screen:  screen,
			render:  panel.NewRenderer(screen, layout, build),
		},
	}
	m.refresh()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case EventMsg:
		m.shared.station.Record(msg.Event)
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		m.shared.station.Apply(station.CmdRedraw)
	default:
		if len(msg.Runes) == 1 && msg.Runes[0] < 0x80 {
			m.shared.station.Apply(station.ParseKey(byte(msg.Runes[0])))
		}
	}
	m.refresh()
	return m, nil
}

// refresh takes a new station snapshot and repaints the panel screen.
func (m *AppModel) refresh() {
	m.stats = m.shared.station.Stats()
	m.mode = m.shared.station.Mode()
	m.shared.render.Redraw(station.ReadingFrom(m.stats), m.mode)
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing Thunder panel..."
	}

	menuBar := ui.RenderMenuBar(m.width, m.layout.Name, m.mode)
	statusBar := ui.RenderStatusBar(m.width, m.stats, m.demo)

	return ui.ComposeLayout(menuBar, m.shared.screen.View(), statusBar)
}

// StartSource starts the event source, if any, forwarding events to p.
// Must be called before p.Run().
func (m *AppModel) StartSource(p *tea.Program) error {
	if m.shared.source == nil {
		return nil
	}
	return m.shared.source.Start(func(ev lightning.Event) {
		p.Send(EventMsg{Event: ev})
	})
}

// StopSource halts the event source. Call it after p.Run() returns; the
// source may be blocked sending to the program until then.
func (m AppModel) StopSource() {
	if m.shared.source != nil {
		m.shared.source.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
