package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/levels"
	"github.com/milk9111/ride/script"
	"github.com/milk9111/ride/sim"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	cameraEase = 0.15
)

type keyBinding struct {
	input string
	key   ebiten.Key
}

type Game struct {
	cfg    common.Config
	logger *log.Logger
	driver *sim.Driver

	levelName  string
	scriptName string
	script     *script.Runner

	watcher *levels.Watcher
	keys    []keyBinding
	cam     camera

	pause  *ebitenui.UI
	paused bool
	quit   bool

	clipboard bool
	status    string
}

func NewGame(levelName, scriptName string, cfg common.Config, logger *log.Logger) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		logger:     logger,
		driver:     sim.New(cfg, logger.WithPrefix("sim")),
		levelName:  levelName,
		scriptName: scriptName,
		cam:        camera{width: baseWidth, height: baseHeight, scale: baseHeight / cfg.CameraHeight},
	}
	g.pause = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboard = true
	}

	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

// Watch reloads the level whenever a file under dir changes.
func (g *Game) Watch(dir string) error {
	w, err := levels.NewWatcher(dir, filepath.Join(dir, "scripts"))
	if err != nil {
		w, err = levels.NewWatcher(dir)
		if err != nil {
			return err
		}
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.driver.Unload()
}

func (g *Game) load() error {
	desc, err := levels.LoadLevel(g.levelName)
	if err != nil {
		return err
	}
	if err := g.driver.Load(desc); err != nil {
		return err
	}

	g.script = nil
	if g.scriptName != "" {
		src, err := levels.LoadScript(g.scriptName)
		if err != nil {
			return err
		}
		runner, err := script.Compile(g.scriptName, src, g.logger.WithPrefix("script"))
		if err != nil {
			return err
		}
		g.script = runner
	}

	g.bindKeys()
	if focus, ok := g.driver.CameraFocus(); ok {
		g.cam.center = cp.Vector{X: focus.X, Y: focus.Y}
	} else {
		start := g.driver.Start()
		g.cam.center = cp.Vector{X: start.X, Y: start.Y}
	}
	g.status = fmt.Sprintf("loaded %s", desc.Name)
	return nil
}

// reload keeps the previous level running when the new one fails.
func (g *Game) reload() {
	prev := g.driver.Level()
	if err := g.load(); err != nil {
		g.logger.Error("reload failed", "level", g.levelName, "err", err)
		g.status = "reload failed: " + err.Error()
		if prev != nil && g.driver.State() == sim.Idle {
			if err := g.driver.Load(prev); err == nil {
				g.bindKeys()
			}
		}
	}
}

// bindKeys maps every input the level uses onto the ebiten key of the same
// name ("space", "left", "a", ...).
func (g *Game) bindKeys() {
	g.keys = g.keys[:0]
	for _, input := range g.driver.Inputs() {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(strings.ToLower(input))); err != nil {
			g.logger.Warn("no key for input", "input", input)
			continue
		}
		g.keys = append(g.keys, keyBinding{input: input, key: key})
	}
	slices.SortFunc(g.keys, func(a, b keyBinding) int { return strings.Compare(a.input, b.input) })
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case file, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Info("file changed", "file", file)
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("watcher", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pause.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		if focus, ok := g.driver.CameraFocus(); ok {
			g.copyPoint(cp.Vector{X: focus.X, Y: focus.Y})
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		g.copyPoint(g.cam.toWorld(float64(x), float64(y)))
	}

	if g.script != nil {
		// replay is tick locked: one script step, one tick
		if err := g.script.Step(context.Background(), g.driver.Ticks(), g.driver.Tick(), g.driver); err != nil {
			g.logger.Error("script failed", "err", err)
			g.script = nil
		}
		g.driver.Advance(g.driver.Tick())
	} else {
		for _, kb := range g.keys {
			if inpututil.IsKeyJustPressed(kb.key) {
				g.driver.Press(kb.input)
			}
			if inpututil.IsKeyJustReleased(kb.key) {
				g.driver.Release(kb.input)
			}
		}
		g.driver.Advance(1 / float64(ebiten.TPS()))
	}

	if focus, ok := g.driver.CameraFocus(); ok {
		g.cam.follow(cp.Vector{X: focus.X, Y: focus.Y}, cameraEase)
	}
	return nil
}

func (g *Game) copyPoint(p cp.Vector) {
	text := fmt.Sprintf("[%.3f, %.3f]", p.X, p.Y)
	g.status = "point " + text
	if g.clipboard {
		clipboard.Write(clipboard.FmtText, []byte(text))
		g.status += " copied"
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	if w := g.driver.World(); w != nil {
		cp.DrawSpace(w.Space(), &spaceDrawer{screen: screen, cam: g.cam, debug: g.cfg.Debug})
		for _, s := range g.driver.Springs() {
			a, b := s.Anchors()
			g.cam.zigzag(screen, a, b)
		}
		start, goal := g.driver.Start(), g.driver.Goal()
		g.cam.marker(screen, cp.Vector{X: start.X, Y: start.Y}, colornames.Limegreen)
		g.cam.marker(screen, cp.Vector{X: goal.X, Y: goal.Y}, colornames.Orangered)
	}

	hud := fmt.Sprintf("%s  tick %d  FPS %.1f", g.levelName, g.driver.Ticks(), ebiten.ActualFPS())
	if len(g.keys) > 0 {
		names := make([]string, len(g.keys))
		for i, kb := range g.keys {
			names[i] = kb.input
		}
		hud += "\nkeys: " + strings.Join(names, " ")
	}
	if g.script != nil {
		hud += "\nscript: " + g.script.Name()
	}
	if g.status != "" {
		hud += "\n" + g.status
	}
	ebitenutil.DebugPrint(screen, hud)

	if g.paused {
		g.pause.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
