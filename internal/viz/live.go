package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nozzleflow/internal/config"
	"github.com/san-kum/nozzleflow/internal/geometry"
	"github.com/san-kum/nozzleflow/internal/shock"
	"github.com/san-kum/nozzleflow/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	tickDt          = 1.0 / 60
	dragStep        = 8.0 // duct units per keypress
	historyCapacity = 240
)

var paramNames = []string{"sound speed", "injection vel", "time scale %"}

type TickMsg time.Time

// Model is the interactive bubbletea view: the duct on a Braille
// canvas, tracers streaming through it, and a sidebar for parameter
// tuning and control-point dragging.
type Model struct {
	engine *sim.Engine
	cfg    *config.Config

	canvas   *Canvas
	running  bool
	showHelp bool

	selectedPoint int
	selectedParam int
	initialParams [3]float64

	machHistory []float64
	frame       sim.Frame
}

func NewModel(cfg *config.Config) (Model, error) {
	engine, err := sim.New(cfg.SimConfig())
	if err != nil {
		return Model{}, err
	}
	return Model{
		engine:  engine,
		cfg:     cfg,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
		initialParams: [3]float64{
			cfg.SoundSpeed, cfg.InjectionVelocity, cfg.TimeScalePercent,
		},
		machHistory: make([]float64, 0, historyCapacity),
	}, nil
}

// RunLive starts the interactive session and blocks until quit.
func RunLive(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
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
			m.reset()
		case "?":
			m.showHelp = !m.showHelp
		case "tab":
			m.selectedPoint = (m.selectedPoint + 1) % m.engine.Duct().Bottom.NumPoints()
		case "p":
			m.selectedParam = (m.selectedParam + 1) % len(paramNames)
		case "+", "=":
			m.adjustParam(1.05)
		case "-", "_":
			m.adjustParam(0.95)
		case "up", "k":
			m.dragSelected(0, -dragStep)
		case "down", "j":
			m.dragSelected(0, dragStep)
		case "left", "h":
			m.dragSelected(-dragStep, 0)
		case "right", "l":
			m.dragSelected(dragStep, 0)
		}
	case TickMsg:
		now := time.Time(msg)
		if m.running {
			m.engine.Tick(now, tickDt)
		}
		m.frame = m.engine.Frame(now)
		m.recordMach()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// dragSelected queues a drag of the selected bottom-wall control point;
// the engine applies it, with the mirror rule, at the next tick.
func (m *Model) dragSelected(dx, dy float64) {
	pts := m.engine.Duct().Bottom.Points()
	if m.selectedPoint < 0 || m.selectedPoint >= len(pts) {
		return
	}
	p := pts[m.selectedPoint]
	m.engine.QueueDrag(geometry.BottomWall, m.selectedPoint, p.X+dx, p.Y+dy)
}

func (m *Model) adjustParam(factor float64) {
	p := m.engine.Params()
	switch m.selectedParam {
	case 0:
		m.cfg.SoundSpeed *= factor
		p.SoundSpeed = m.cfg.SoundSpeed
	case 1:
		m.cfg.InjectionVelocity *= factor
		p.InjectionVelocity = m.cfg.InjectionVelocity
	case 2:
		m.cfg.TimeScalePercent *= factor
		p.TimeScale = m.cfg.TimeScalePercent / 100
	}
	m.engine.SetParams(p)
}

func (m *Model) reset() {
	m.cfg.SoundSpeed = m.initialParams[0]
	m.cfg.InjectionVelocity = m.initialParams[1]
	m.cfg.TimeScalePercent = m.initialParams[2]
	engine, err := sim.New(m.cfg.SimConfig())
	if err != nil {
		return
	}
	m.engine = engine
	m.machHistory = m.machHistory[:0]
}

// recordMach keeps a sparkline history of the fastest live tracer.
func (m *Model) recordMach() {
	maxMach := 0.0
	p := m.engine.Params()
	for _, pv := range m.frame.Particles {
		if mach := p.Mach(pv.Vel); mach > maxMach {
			maxMach = mach
		}
	}
	m.machHistory = append(m.machHistory, maxMach)
	if len(m.machHistory) > historyCapacity {
		m.machHistory = m.machHistory[1:]
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("NOZZLE FLOW") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Particles") +
		valueStyle.Render(fmt.Sprintf("%d", len(m.frame.Particles))) + "\n")
	super := 0
	for _, p := range m.frame.Particles {
		if p.Supersonic {
			super++
		}
	}
	s.WriteString(labelStyle.Render("Supersonic") + supersonicStyle.Render(fmt.Sprintf("%d", super)) + "\n")
	s.WriteString(labelStyle.Render("Subsonic") + subsonicStyle.Render(fmt.Sprintf("%d", len(m.frame.Particles)-super)) + "\n")

	if len(m.machHistory) > 1 {
		chart := asciigraph.Plot(m.machHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("peak Mach"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	values := []float64{m.cfg.SoundSpeed, m.cfg.InjectionVelocity, m.cfg.TimeScalePercent}
	for i, name := range paramNames {
		line := fmt.Sprintf("%-14s %s %.2f", name, tuneBar(values[i], m.initialParams[i], 10), values[i])
		if i == m.selectedParam {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString("\nSTATIONS (avg velocity)\n")
	for i, st := range m.frame.Stations {
		line := fmt.Sprintf("#%d x=%4.0f  %6.1f m/s", i, st.X, st.AvgVelocity)
		if i == m.selectedPoint {
			s.WriteString(activePointStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if len(m.frame.Markers) > 0 {
		s.WriteString("\nSHOCKS\n")
		for _, mk := range m.frame.Markers {
			style := supersonicStyle
			if mk.Dir == shock.SubsonicEntry {
				style = subsonicStyle
			}
			s.WriteString("  " + style.Render(fmt.Sprintf("x=%4.0f %s", mk.X, opacityBar(mk.Opacity, 10))) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n──────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Point ←↑↓→:Drag\nP:Param +/-:Tune ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset duct and params    ║
║  Q        - Quit                     ║
║  Tab      - Cycle control points     ║
║  Arrows   - Drag selected point      ║
║             (opposite wall mirrors)  ║
║  P        - Cycle parameters         ║
║  + / -    - Adjust parameter (±5%)   ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// draw rasterizes the current frame onto the Braille canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.frame.Width == 0 || m.frame.Height == 0 {
		return
	}
	sx := float64(canvasWidth*2-1) / m.frame.Width
	sy := float64(canvasHeight*4-1) / m.frame.Height

	m.drawWall(m.frame.TopWall, sx, sy)
	m.drawWall(m.frame.BottomWall, sx, sy)

	for i, st := range m.frame.Stations {
		radius := 1
		if i == m.selectedPoint {
			radius = 2
		}
		m.canvas.DrawBlock(int(st.X*sx), int(st.BottomY*sy), radius)
		m.canvas.DrawBlock(int(st.X*sx), int(st.TopY*sy), radius)
	}

	for _, mk := range m.frame.Markers {
		// Fainter markers render as sparser dashes.
		step := 1 + int((1-mk.Opacity)*3)
		m.canvas.DrawVertical(int(mk.X*sx), int(mk.TopY*sy), int(mk.BottomY*sy), step)
	}

	for _, p := range m.frame.Particles {
		x, y := int(p.X*sx), int(p.Y*sy)
		m.canvas.Set(x, y)
		if p.Supersonic {
			// Supersonic tracers get a double dot so the regime reads
			// on a monochrome canvas.
			m.canvas.Set(x+1, y)
		}
	}
}

func (m *Model) drawWall(pts []geometry.ControlPoint, sx, sy float64) {
	for i := 1; i < len(pts); i++ {
		m.canvas.DrawLine(
			int(pts[i-1].X*sx), int(pts[i-1].Y*sy),
			int(pts[i].X*sx), int(pts[i].Y*sy),
		)
	}
}
