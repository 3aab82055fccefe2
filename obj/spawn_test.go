package obj

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/prefabs"
)

func TestSpawnPropsFromEmbeddedLevel(t *testing.T) {
	m, err := levels.Load("test")
	if err != nil {
		t.Fatalf("levels.Load: %v", err)
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}

	registry := NewRegistry()
	props, err := SpawnProps(cp.NewSpace(), registry, m, tuning)
	if err != nil {
		t.Fatalf("SpawnProps: %v", err)
	}
	if len(props) != 3 || len(registry.All()) != 3 {
		t.Fatalf("expected 3 props, got %d spawned and %d registered", len(props), len(registry.All()))
	}

	var chains, cubes int
	for _, p := range props {
		switch v := p.(type) {
		case *Chain:
			chains++
			if v.Name == "second-chain" && (v.Height() != 16 || v.Width() != 6) {
				t.Fatalf("second-chain is %vx%v, want 6x16", v.Width(), v.Height())
			}
		case *KnitCube:
			cubes++
			if v.growth.Max != 32 {
				t.Fatalf("cube max %v, want 32", v.growth.Max)
			}
		}
	}
	if chains != 2 || cubes != 1 {
		t.Fatalf("spawned %d chains and %d cubes", chains, cubes)
	}
}

func TestSpawnPropsReportsBadObject(t *testing.T) {
	m, err := levels.Parse([]byte(`{"width":4,"height":4,"tilewidth":16,"tileheight":16,"layers":[
		{"type":"objectgroup","objects":[
			{"id":1,"type":"spawn","x":0,"y":0,"width":16,"height":16},
			{"id":2,"name":"broken","type":"chain","x":16,"y":16,"width":16,"height":16,
			 "properties":{"maxHeight":"20","initHeight":"0","minHeight":"0"}}
		]}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tuning := &prefabs.Tuning{Chain: testChainSpec(), KnitCube: testCubeSpec()}

	_, err = SpawnProps(cp.NewSpace(), NewRegistry(), m, tuning)
	if err == nil || !strings.Contains(err.Error(), "spawn broken") {
		t.Fatalf("expected error naming the object, got %v", err)
	}
	if !errors.Is(err, levels.ErrMissingProperty) {
		t.Fatalf("expected ErrMissingProperty, got %v", err)
	}

	if _, err := SpawnProps(cp.NewSpace(), NewRegistry(), m, nil); err == nil {
		t.Fatalf("expected error for nil tuning")
	}
}

func TestRetuneProps(t *testing.T) {
	space := cp.NewSpace()
	c := scenarioChain(t, space, true)
	k := scenarioCube(t, space, false)

	spec := testChainSpec()
	spec.GrowSpeed = 5
	retuned := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	spec.MaterialColor = &prefabs.YAMLColor{Color: retuned}
	cube := testCubeSpec()
	cube.GrowSpeed = 3

	RetuneProps([]Interactable{c, k}, &prefabs.Tuning{Chain: spec, KnitCube: cube})

	c.BuildUp()
	if c.Height() != 5 {
		t.Fatalf("chain grew to %v, want 5", c.Height())
	}
	if c.construct.Sprite.Color != retuned {
		t.Fatalf("material color not retuned: %v", c.construct.Sprite.Color)
	}
	if c.base.Sprite.Color != testNeedleColor {
		t.Fatalf("needle color changed without a configured color")
	}
	k.BuildUp()
	if k.Dimension() != 3 {
		t.Fatalf("cube grew to %v, want 3", k.Dimension())
	}
}
