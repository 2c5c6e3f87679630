package viz

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	particleRadius  = 1
	gifPath         = "springsim.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a simulator from the Bubble Tea event loop. Steps, clicks and
// key presses all run on the program goroutine, so the simulator is never
// shared.
type Model struct {
	sim    *sim.Simulator
	name   string
	canvas *Canvas
	view   Viewport
	theme  Theme
	styles Styles

	running  bool
	showHelp bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	energyHistory []float64
	rejected      int
	status        string
	statusErr     bool
	recorder      *Recorder
}

func NewModel(s *sim.Simulator, name string) Model {
	params := s.GetParams()
	initial := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		initial[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		sim:           s,
		name:          name,
		canvas:        NewCanvas(width, height),
		view:          UnitViewport,
		theme:         Themes[0],
		styles:        NewStyles(Themes[0]),
		running:       true,
		params:        params,
		initialParams: initial,
		paramKeys:     keys,
		energyHistory: make([]float64, 0, historyCapacity),
		status:        "click inside the canvas to add a particle",
	}
}

// Run opens the live view full screen with mouse reporting enabled.
func Run(s *sim.Simulator, name string) error {
	p := tea.NewProgram(NewModel(s, name), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recorder != nil {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s", "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = NewRecorder(m.theme)
				m.setStatus("recording")
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.showHelp {
			m.click(msg.X, msg.Y)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recorder != nil {
			m.draw()
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// click appends a particle under the pointer. x and y are terminal cells.
func (m *Model) click(x, y int) {
	col := x - canvasStyle.GetPaddingLeft()
	row := y - canvasStyle.GetPaddingTop()
	p, ok := m.view.CellToWorld(m.canvas, col, row)
	if !ok {
		return
	}

	if err := m.sim.RequestAppend(p); err != nil {
		m.rejected++
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("added particle %d at (%.2f, %.2f)", m.sim.ActiveCount()-1, p.X, p.Y))
}

func (m *Model) step() {
	if err := m.sim.Step(); err != nil {
		m.running = false
		m.setError(err)
		return
	}

	m.energyHistory = append(m.energyHistory, m.sim.Potential()+m.sim.Kinetic())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// reset restores the initial particles and parameters.
func (m *Model) reset() {
	for _, k := range m.paramKeys {
		v := m.initialParams[k]
		if err := m.sim.SetParam(k, v); err != nil {
			m.setError(err)
			return
		}
		m.params[k] = v
	}
	if err := m.sim.Reset(); err != nil {
		m.setError(err)
		return
	}
	m.energyHistory = m.energyHistory[:0]
	m.rejected = 0
	m.running = true
	m.setStatus("reset")
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 && factor > 1 {
		val = 0.1
	}
	if err := m.sim.SetParam(key, val); err != nil {
		m.setError(err)
		return
	}
	m.params[key] = val
}

func (m *Model) stopRecording() {
	n := m.recorder.Len()
	err := m.recorder.Save(gifPath)
	m.recorder = nil
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("saved %d frames to %s", n, gifPath))
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	log.Printf("live: %v", err)
	m.status, m.statusErr = err.Error(), true
	if errors.Is(err, dynamo.ErrCapacityExceeded) {
		m.status = fmt.Sprintf("capacity reached: %v", err)
	}
}

// draw renders ground, springs and particles onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()

	w, _ := m.canvas.PixelSize()
	ground := m.sim.Config().GroundHeight
	_, gy := m.view.ToPixel(m.canvas, dynamo.V(m.view.MinX, ground))
	for x := 0; x < w; x += 2 {
		m.canvas.Set(x, gy)
	}

	for e := range m.sim.Edges() {
		a, okA := m.sim.Position(e.I)
		b, okB := m.sim.Position(e.J)
		if !okA || !okB {
			continue
		}
		x0, y0 := m.view.ToPixel(m.canvas, a)
		x1, y1 := m.view.ToPixel(m.canvas, b)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for i := range m.sim.ActiveCount() {
		p, _ := m.sim.Position(i)
		x, y := m.view.ToPixel(m.canvas, p)
		m.canvas.FillDisc(x, y, particleRadius)
	}
}

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	if m.showHelp {
		return helpText
	}

	m.draw()
	st := m.styles
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.recorder != nil:
		s.WriteString(st.Recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len())))
	case m.running:
		s.WriteString(st.Running.Render("RUNNING"))
	default:
		s.WriteString(st.Paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.Graph.Render(chart) + "\n\n")
	}

	cfg := m.sim.Config()
	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	row("Integrator", m.sim.Integrator())
	row("Particles", fmt.Sprintf("%d/%d ", m.sim.ActiveCount(), cfg.Capacity)+
		st.CapacityBar(m.sim.ActiveCount(), cfg.Capacity, 10))
	row("Potential", fmt.Sprintf("%.3f", m.sim.Potential()))
	row("Kinetic", fmt.Sprintf("%.3f", m.sim.Kinetic()))
	row("Contacts", fmt.Sprintf("%d", m.sim.Contacts()))
	row("Rejected", fmt.Sprintf("%d", m.rejected))

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-12s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(st.ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.Label.Render(line) + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n")
		if m.statusErr {
			s.WriteString(st.Error.Render(m.status))
		} else {
			s.WriteString(st.Value.Render(m.status))
		}
		s.WriteString("\n")
	}

	s.WriteString(st.Help.Render("─────────────────────\nCLICK:Add SP:Pause S:Step\nR:Reset T:Theme G:Record\nTAB ↑↓:Tune ?:Help Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Stats.Render(s.String()))
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Click    - Add a particle           ║
║  Space    - Pause/Resume simulation  ║
║  S        - Single step when paused  ║
║  R        - Reset simulation         ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`
