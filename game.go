package main

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/common"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/obj"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
	"github.com/milk9111/fibers/render"
)

var background = color.RGBA{R: 0x1b, G: 0x1d, B: 0x2a, A: 0xff}

type Game struct {
	frames int
	paused bool
	debug  bool

	level    *levels.Map
	world    *physics.World
	registry *obj.Registry
	props    []obj.Interactable
	tiles    *obj.TileMap
	input    *obj.Input
	player   *obj.Player
	camera   *obj.Camera

	tuning  *prefabs.Tuning
	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI
}

// NewGame loads the level and builds the scene. A level path that exists
// on disk wins over the embedded map of the same name.
func NewGame(levelName string, debug, watch bool) (*Game, error) {
	if levelName == "" {
		levelName = "test"
	}
	lvl, err := loadLevel(levelName)
	if err != nil {
		return nil, err
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return nil, fmt.Errorf("load prefabs: %w", err)
	}

	world := physics.NewWorld(lvl)
	registry := obj.NewRegistry()
	props, err := obj.SpawnProps(world.Space(), registry, lvl, tuning)
	if err != nil {
		return nil, err
	}

	input := obj.NewInput()
	spawnX, spawnY := lvl.Spawn()
	player, err := obj.NewPlayer(world, input, cp.Vector{X: spawnX, Y: spawnY}, tuning.Player)
	if err != nil {
		return nil, err
	}

	camera := obj.NewCameraFromSpec(common.BaseWidth, common.BaseHeight, tuning.Camera)
	camera.SetWorldBounds(lvl.PixelSize())
	camera.SnapTo(spawnX, spawnY)

	g := &Game{
		debug:    debug,
		level:    lvl,
		world:    world,
		registry: registry,
		props:    props,
		tiles:    obj.NewTileMap(lvl),
		input:    input,
		player:   player,
		camera:   camera,
		tuning:   tuning,
	}
	g.pauseUI = NewPauseUI(g)

	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("watch prefabs: %v", err)
		} else {
			g.watcher = w
		}
	}
	log.Printf("level %s: %d props", levelName, len(props))
	return g, nil
}

func loadLevel(name string) (*levels.Map, error) {
	if _, err := os.Stat(name); err == nil {
		return levels.LoadFile(name)
	}
	return levels.Load(name)
}

func (g *Game) Update() error {
	g.frames++

	g.input.Update()
	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.input.DebugPressed {
		g.debug = !g.debug
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.player.Update()
	g.world.BeginStep()
	g.world.Step(1.0 / float64(common.TPS))
	g.player.OnPhysics()

	pos := g.player.Position()
	g.camera.Update(pos.X, pos.Y)

	g.registry.Touch(g.player.Shape())
	g.player.Build(g.registry)

	g.reloadChanged()
	return nil
}

// reloadChanged applies prefab and script edits picked up by the watcher.
func (g *Game) reloadChanged() {
	changed := g.watcher.Drain()
	if len(changed) == 0 {
		return
	}
	scripts, retune := false, false
	for _, name := range changed {
		if filepath.Ext(name) == ".tengo" {
			scripts = true
			continue
		}
		if err := g.tuning.Reload(name); err != nil {
			if !errors.Is(err, prefabs.ErrUnknownSpec) {
				log.Printf("reload %s: %v", name, err)
			}
			continue
		}
		log.Printf("reloaded %s", name)
		retune = true
	}
	if retune {
		obj.RetuneProps(g.props, g.tuning)
		g.player.Retune(g.tuning.Player)
		g.camera.SetZoom(g.tuning.Camera.Zoom)
		g.camera.SetSmooth(g.tuning.Camera.Smoothness)
	}
	if scripts {
		obj.ReloadScripts(g.props)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	offset := g.camera.Offset()
	g.camera.Render(screen, func(view *ebiten.Image) {
		canvas := render.NewScreenCanvas(view)
		bounds := view.Bounds()
		g.tiles.Draw(canvas, offset, float64(bounds.Dx()), float64(bounds.Dy()))
		for _, p := range g.props {
			p.Draw(canvas, offset)
		}
		g.player.Draw(canvas, offset)
		if g.debug {
			g.world.DebugDraw(view, offset)
		}
	})

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  %s", ebiten.ActualFPS(), g.player.State()))
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// Close stops the prefab watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
