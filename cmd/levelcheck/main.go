package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/obj"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
)

// levelcheck loads levels headlessly and spawns their props, reporting the
// first error per level. With no arguments it checks every embedded level.
func main() {
	verbose := flag.Bool("v", false, "print a line per prop")
	flag.Parse()

	tuning, err := prefabs.LoadTuning()
	if err != nil {
		log.Fatalf("load prefabs: %v", err)
	}

	names := flag.Args()
	if len(names) == 0 {
		names, err = fs.Glob(levels.LevelsFS, "*.json")
		if err != nil {
			log.Fatal(err)
		}
	}

	failed := 0
	for _, name := range names {
		if err := check(name, tuning, *verbose); err != nil {
			fmt.Printf("FAIL %s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func check(name string, tuning *prefabs.Tuning, verbose bool) error {
	var (
		m   *levels.Map
		err error
	)
	if _, statErr := os.Stat(name); statErr == nil {
		m, err = levels.LoadFile(name)
	} else {
		m, err = levels.Load(name)
	}
	if err != nil {
		return err
	}

	world := physics.NewWorld(m)
	registry := obj.NewRegistry()
	props, err := obj.SpawnProps(world.Space(), registry, m, tuning)
	if err != nil {
		return err
	}

	w, h := m.PixelSize()
	x, y := m.Spawn()
	fmt.Printf("ok   %s: %vx%v px, spawn (%v, %v), %d props\n", name, w, h, x, y, len(props))
	if verbose {
		for _, p := range props {
			fmt.Printf("     %s\n", describe(p))
		}
	}
	return nil
}

func describe(p obj.Interactable) string {
	switch v := p.(type) {
	case *obj.Chain:
		return fmt.Sprintf("chain %s: %vx%v", v.Name, v.Width(), v.Height())
	case *obj.KnitCube:
		return fmt.Sprintf("knitcube %s: %v", v.Name, v.Dimension())
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", p), "*obj.")
}
