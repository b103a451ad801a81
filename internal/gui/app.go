package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pixmorph/internal/anim"
	"github.com/san-kum/pixmorph/internal/metrics"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWarn    = rl.NewColor(230, 90, 70, 255)
)

const (
	windowW      = 1280
	windowH      = 720
	hudH         = 110
	maxTelemetry = 240
)

type Options struct {
	Title   string
	FPS     int
	Metrics *metrics.Set
}

type App struct {
	Player    *anim.Player
	Opts      Options
	Running   bool
	Frame     anim.Frame
	Telemetry []float64
	Font      rl.Font

	screen *Screen
}

// initWindow opens a resizable window at the requested frame rate and
// disables the default exit key so Q and window close are the only exits.
func initWindow(title string, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(windowW, windowH, title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(p *anim.Player, opts Options) *App {
	a := &App{
		Player:    p,
		Opts:      opts,
		Running:   true,
		Font:      rl.GetFontDefault(),
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	w, h := p.Engine().Size()
	a.screen = NewScreen(w, h)
	a.step()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(p *anim.Player, opts Options) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Title == "" {
		opts.Title = "pixmorph"
	}
	initWindow(opts.Title, opts.FPS)
	defer rl.CloseWindow()

	app := NewApp(p, opts)
	defer app.screen.Unload()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) step() {
	a.Frame = a.Player.Step()
	if a.Opts.Metrics != nil {
		a.Opts.Metrics.OnFrame(a.Frame.Stats)
	}
	a.Telemetry = append(a.Telemetry, float64(a.Frame.Stats.Collisions))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.screen.Upload(a.Frame.Grid)
}

// Update handles input and advances the animation. It reports whether the
// user asked to quit.
func (a *App) Update() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Player.Seek(0)
		a.Telemetry = a.Telemetry[:0]
		a.step()
		return false
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		a.Running = false
		a.Player.Seek(a.Frame.Index - 1)
		a.step()
		return false
	case rl.IsKeyPressed(rl.KeyRightBracket):
		a.Running = false
		a.step()
		return false
	}
	if a.Running {
		a.step()
	}
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	a.screen.Draw(Fit(a.screen.Width, a.screen.Height, w, h-hudH))
	a.DrawHUD(w, h)

	rl.EndDrawing()
}

func (a *App) DrawHUD(w, h int) {
	a.drawText(a.Opts.Title, 30, 20, 24, ColSelect)

	status := "PLAYING"
	col := ColSelect
	switch {
	case !a.Running:
		status = "PAUSED"
		col = ColTextDim
	case a.Frame.Index >= a.Player.Frames():
		status = "HOLD"
	}
	a.drawText(status, w-130, 20, 16, col)

	fs := a.Frame.Stats
	y := h - hudH + 20
	a.drawText(fmt.Sprintf("frame %d/%d  t=%.3f  v%d", a.Frame.Index+1, a.Player.Len(), a.Frame.T, fs.Version), 30, y, 16, ColText)
	a.drawText(fmt.Sprintf("filled %d  empty %d  collisions %d (+%d)", fs.Filled, fs.Empty, fs.Collisions, fs.Merged), 30, y+24, 16, ColText)
	if fs.OutOfBounds > 0 {
		a.drawText(fmt.Sprintf("dropped %d", fs.OutOfBounds), 30, y+48, 16, ColWarn)
	}

	a.DrawTelemetry(w-430, y, 400, 50)

	a.drawText("[SPACE] PAUSE  [R] RESTART  [ ] STEP  [Q] QUIT", 30, h-20, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), w-90, h-20, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the collision count history as a line strip.
func (a *App) DrawTelemetry(rectX, rectY, width, height int) {
	if len(a.Telemetry) < 2 {
		return
	}

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
	a.drawText(fmt.Sprintf("C: %.0f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
