package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/fibers/common"
)

func main() {
	debug := flag.Bool("debug", false, "start with the physics overlay on")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional) or a path on disk")
	watch := flag.Bool("watch", false, "reload prefabs and scripts when they change on disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth*3, common.BaseHeight*3)
	ebiten.SetWindowTitle("fibers")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(*levelName, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}
	err = ebiten.RunGame(game)
	_ = game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
