package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

// drawSim draws the ground line, then springs, then particles on top.
func (a *App) drawSim() {
	cfg := a.Sim.Config()
	gy := float32((1 - cfg.GroundHeight) * windowSize)
	rl.DrawLineEx(rl.NewVector2(0, gy), rl.NewVector2(windowSize, gy), 2, ColGround)

	for e := range a.Sim.Edges() {
		p, okP := a.Sim.Position(e.I)
		q, okQ := a.Sim.Position(e.J)
		if !okP || !okQ {
			continue
		}
		rl.DrawLineEx(WorldToScreen(p, windowSize), WorldToScreen(q, windowSize), 2, ColSpring)
	}

	for i := range a.Sim.ActiveCount() {
		p, _ := a.Sim.Position(i)
		rl.DrawCircleV(WorldToScreen(p, windowSize), particleRadius, ColSelect)
	}
}

func (a *App) DrawHUD() {
	rl.DrawText("springsim", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Name), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, windowSize-120, 30, 16, col)

	cfg := a.Sim.Config()
	lines := []string{
		fmt.Sprintf("t        %.2fs", a.Sim.Time()),
		fmt.Sprintf("steps    %d", a.Sim.Steps()),
		fmt.Sprintf("particles %d/%d", a.Sim.ActiveCount(), cfg.Capacity),
		fmt.Sprintf("rejected %d", a.Rejected),
		"integrator " + a.Sim.Integrator(),
	}
	for i, l := range lines {
		rl.DrawText(l, 30, int32(70+i*20), 14, ColText)
	}

	for i, k := range a.ParamKeys {
		text := fmt.Sprintf("  %-12s %.4g", k, a.Params[k])
		col := ColTextDim
		if i == a.ParamSel {
			text, col = fmt.Sprintf("> %-12s %.4g", k, a.Params[k]), ColAccent
		}
		rl.DrawText(text, windowSize-260, int32(70+i*20), 14, col)
	}

	a.DrawTelemetry()

	if a.Status != "" {
		col := ColText
		if a.StatusErr {
			col = ColError
		}
		rl.DrawText(a.Status, 30, windowSize-70, 16, col)
	}

	rl.DrawText("[CLICK] ADD  [SPACE] PAUSE  [S] STEP  [R] RESET  [TAB/UP/DOWN] TUNE  [ESC] MENU  [Q] QUIT", 30, windowSize-30, 12, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), windowSize-80, windowSize-30, 12, ColTextDim)
}

// DrawTelemetry plots the recent total energy as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 200
	width, height := 300, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("E: %.3e", a.Telemetry[len(a.Telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}

func (a *App) drawMenu() {
	rl.DrawText("springsim", 50, 50, 40, ColSelect)
	rl.DrawText("Select Preset", 50, 100, 16, ColTextDim)

	y := int32(160)
	for i, name := range a.Presets {
		if i == a.Selected {
			rl.DrawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			rl.DrawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	if a.StatusErr {
		rl.DrawText(a.Status, 50, y+20, 16, ColError)
	}
	rl.DrawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, windowSize-30, 14, ColTextDim)
}
