// Package gui runs the simulation in a desktop window.
//
// Frames are painted by the software raster and uploaded to a raylib
// texture, so the window shows exactly what the headless renderer writes
// to disk.
package gui

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/control"
	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/surface"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	lengthStep = 10.0
	massStep   = 1.0
	zoomFactor = 1.25
)

type App struct {
	cfg    *config.Config
	drv    *driver.Driver
	surf   *surface.Manager
	raster *surface.Raster
	panel  *control.Panel
	logger *slog.Logger

	token   driver.Token
	tex     rl.Texture2D
	texW    int
	texH    int
	pixels  []color.RGBA
	zoom    float64
	fitZoom float64
	status  string
	quit    bool
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "pendulab")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed. drv must paint on
// raster.
func Run(cfg *config.Config, drv *driver.Driver, raster *surface.Raster, logger *slog.Logger) {
	initWindow(max(cfg.FPS, 1))
	defer rl.CloseWindow()

	app := NewApp(cfg, drv, raster, logger)
	defer app.unload()
	app.RunLoop()
}

func NewApp(cfg *config.Config, drv *driver.Driver, raster *surface.Raster, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:     cfg,
		drv:     drv,
		surf:    drv.Surface(),
		raster:  raster,
		panel:   control.NewPanel(drv, cfg.RestartOnEdit, logger, nil),
		logger:  logger,
		zoom:    cfg.Zoom,
		fitZoom: 1,
	}
}

func (a *App) RunLoop() {
	a.resize()
	a.token = a.drv.Start()
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) unload() {
	if a.texW > 0 {
		rl.UnloadTexture(a.tex)
	}
}

// resize follows the window. With high DPI enabled the screen size is in
// logical points and the scale factor gives the device pixel ratio.
func (a *App) resize() {
	dpr := float64(rl.GetWindowScaleDPI().X)
	if a.cfg.DPR > 0 {
		dpr = a.cfg.DPR
	}
	a.surf.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), dpr)
	a.refit()
}

func (a *App) refit() {
	a.fitZoom = a.panel.FitZoom(a.surf.LogicalSize())
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.resize()
	}
	a.handleKeys()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.zoom *= math.Pow(zoomFactor, float64(wheel))
		a.zoom = math.Max(driver.MinZoom, math.Min(a.zoom, driver.MaxZoom))
	}
	a.drv.SetZoom(a.fitZoom * a.zoom)
	a.token, _ = a.drv.Tick(a.token)
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.drv.Toggle()
	case rl.IsKeyPressed(rl.KeyR):
		a.token = a.panel.Restart()
	case rl.IsKeyPressed(rl.KeyA):
		a.report(a.panel.Add())
		a.refit()
	case rl.IsKeyPressed(rl.KeyX):
		a.panel.Remove()
		a.refit()
	case rl.IsKeyPressed(rl.KeyS):
		tok, err := a.panel.Sync()
		a.token = tok
		a.report("", err)
	case rl.IsKeyPressed(rl.KeyTab):
		a.panel.SelectNext()
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.zoom = math.Min(a.zoom*zoomFactor, driver.MaxZoom)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.zoom = math.Max(a.zoom/zoomFactor, driver.MinZoom)
	case rl.IsKeyPressed(rl.KeyLeft):
		a.edit(func(p *physics.Params) { p.L1 -= lengthStep })
	case rl.IsKeyPressed(rl.KeyRight):
		a.edit(func(p *physics.Params) { p.L1 += lengthStep })
	case rl.IsKeyPressed(rl.KeyUp):
		a.edit(func(p *physics.Params) { p.M1 += massStep })
	case rl.IsKeyPressed(rl.KeyDown):
		a.edit(func(p *physics.Params) { p.M1 -= massStep })
	case rl.IsKeyPressed(rl.KeyH):
		a.edit(func(p *physics.Params) { p.L2 -= lengthStep })
	case rl.IsKeyPressed(rl.KeyL):
		a.edit(func(p *physics.Params) { p.L2 += lengthStep })
	case rl.IsKeyPressed(rl.KeyJ):
		a.edit(func(p *physics.Params) { p.M2 -= massStep })
	case rl.IsKeyPressed(rl.KeyK):
		a.edit(func(p *physics.Params) { p.M2 += massStep })
	}
}

func (a *App) edit(fn func(*physics.Params)) {
	tok, _, err := a.panel.Edit(fn)
	a.token = tok
	a.report("", err)
	a.refit()
}

func (a *App) report(_ string, err error) {
	if err != nil {
		a.status = err.Error()
		a.logger.Warn("command failed", "err", err)
		return
	}
	a.status = ""
}

// upload copies the raster into the window texture, recreating it when the
// physical size changed.
func (a *App) upload() {
	img := a.raster.Image()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w != a.texW || h != a.texH {
		if a.texW > 0 {
			rl.UnloadTexture(a.tex)
		}
		rimg := rl.NewImageFromImage(img)
		a.tex = rl.LoadTextureFromImage(rimg)
		rl.UnloadImage(rimg)
		rl.SetTextureFilter(a.tex, rl.FilterBilinear)
		a.texW, a.texH = w, h
		return
	}
	a.pixels = rgbaPixels(img, a.pixels)
	rl.UpdateTexture(a.tex, a.pixels)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.upload()
	src := rl.NewRectangle(0, 0, float32(a.texW), float32(a.texH))
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.DrawTexturePro(a.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("pendulab", 30, 30, 24, ColSelect)

	status, col := "RUNNING", ColSelect
	if a.drv.State() == driver.Paused {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, int32(rl.GetScreenWidth())-130, 30, 16, col)

	y := int32(70)
	for _, line := range hudLines(a.panel, a.drv) {
		rl.DrawText(line, 30, y, 14, ColText)
		y += 18
	}
	if a.status != "" {
		rl.DrawText(a.status, 30, y+8, 14, rl.Red)
	}

	bottom := int32(rl.GetScreenHeight()) - 40
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, bottom, 14, ColTextDim)
	rl.DrawText("[SPACE] PAUSE  [R] RESET  [A/X] ADD/DEL  [S] SYNC  [TAB] SELECT  [+/-] ZOOM  [Q] QUIT",
		140, bottom, 14, ColTextDim)
}
