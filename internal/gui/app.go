package gui

import (
	"errors"
	"fmt"
	"log"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSpring  = rl.NewColor(90, 90, 90, 255)
	ColGround  = rl.NewColor(70, 70, 70, 255)
	ColError   = rl.NewColor(230, 80, 80, 255)
)

const (
	windowSize     = 1024
	particleRadius = 6
	maxTelemetry   = 200
)

type App struct {
	Sim       *sim.Simulator
	Name      string
	Presets   []string
	Selected  int
	InMenu    bool
	Running   bool
	Params    map[string]float64
	ParamKeys []string
	initial   map[string]float64
	ParamSel  int
	Telemetry []float64 // total energy per step
	Status    string
	StatusErr bool
	Rejected  int
	quit      bool
}

// initWindow opens the square window the unit world square is drawn into.
func initWindow() {
	rl.InitWindow(windowSize, windowSize, "springsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp starts on the preset menu when s is nil, otherwise straight in the
// simulation.
func NewApp(s *sim.Simulator, name string) *App {
	app := &App{
		Presets:   config.ListPresets(),
		InMenu:    s == nil,
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	if s != nil {
		app.attach(s, name)
	}
	return app
}

// Run opens the window on s and blocks until it is closed.
func Run(s *sim.Simulator, name string) {
	initWindow()
	defer rl.CloseWindow()
	NewApp(s, name).RunLoop()
}

// RunInteractive opens the window on the preset menu.
func RunInteractive() {
	initWindow()
	defer rl.CloseWindow()
	NewApp(nil, "").RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) attach(s *sim.Simulator, name string) {
	a.Sim = s
	a.Name = name
	a.Running = true
	a.InMenu = false
	a.Rejected = 0
	a.Telemetry = a.Telemetry[:0]
	a.Params = s.GetParams()
	a.initial = make(map[string]float64, len(a.Params))
	a.ParamKeys = make([]string, 0, len(a.Params))
	for k, v := range a.Params {
		a.initial[k] = v
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)
	a.ParamSel = 0
	a.setStatus("click to add a particle")
}

func (a *App) loadPreset(name string) {
	s, err := sim.New(config.GetPreset(name).Simulation())
	if err != nil {
		a.setError(err)
		return
	}
	a.attach(s, name)
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		a.click(rl.GetMousePosition())
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) && len(a.ParamKeys) > 0 {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		a.adjustParam(1.05)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		a.adjustParam(0.95)
	}

	if a.Running || rl.IsKeyPressed(rl.KeyS) {
		a.step()
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected = (a.Selected - 1 + len(a.Presets)) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.loadPreset(a.Presets[a.Selected])
	}
}

func (a *App) click(pos rl.Vector2) {
	p := ScreenToWorld(pos.X, pos.Y, windowSize)
	if err := a.Sim.RequestAppend(p); err != nil {
		a.Rejected++
		a.setError(err)
		return
	}
	a.setStatus(fmt.Sprintf("added particle %d at (%.3f, %.3f)", a.Sim.ActiveCount()-1, p.X, p.Y))
}

func (a *App) step() {
	if err := a.Sim.Step(); err != nil {
		a.Running = false
		a.setError(err)
		return
	}

	a.Telemetry = append(a.Telemetry, a.Sim.Potential()+a.Sim.Kinetic())
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

// reset restores the initial particles and parameters.
func (a *App) reset() {
	for _, k := range a.ParamKeys {
		if err := a.Sim.SetParam(k, a.initial[k]); err != nil {
			a.setError(err)
			return
		}
	}
	if err := a.Sim.Reset(); err != nil {
		a.setError(err)
		return
	}
	a.Params = a.Sim.GetParams()
	a.Telemetry = a.Telemetry[:0]
	a.Rejected = 0
	a.Running = true
	a.setStatus("reset")
}

func (a *App) adjustParam(factor float64) {
	if len(a.ParamKeys) == 0 {
		return
	}
	key := a.ParamKeys[a.ParamSel]
	val := a.Params[key] * factor
	if val == 0 && factor > 1 {
		val = 0.1
	}
	if err := a.Sim.SetParam(key, val); err != nil {
		a.setError(err)
		return
	}
	a.Params[key] = val
}

func (a *App) setStatus(s string) {
	a.Status, a.StatusErr = s, false
}

func (a *App) setError(err error) {
	log.Printf("gui: %v", err)
	a.Status, a.StatusErr = err.Error(), true
	if errors.Is(err, dynamo.ErrCapacityExceeded) {
		a.Status = "capacity reached: " + err.Error()
	}
}

// ScreenToWorld maps window pixels to world coordinates. The window shows
// the unit square with y pointing up.
func ScreenToWorld(x, y float32, size int) dynamo.Vec2 {
	return dynamo.V(float64(x)/float64(size), 1-float64(y)/float64(size))
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(p dynamo.Vec2, size int) rl.Vector2 {
	return rl.NewVector2(float32(p.X*float64(size)), float32((1-p.Y)*float64(size)))
}
