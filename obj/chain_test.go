package obj

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/physics"
)

func TestChainScenario(t *testing.T) {
	space := cp.NewSpace()
	c := scenarioChain(t, space, true)

	for i := 0; i < 11; i++ {
		c.BuildUp()
	}
	if c.Height() != 20 {
		t.Fatalf("after 11 BuildUp: height %v, want 20", c.Height())
	}
	c.BuildUp()
	if c.Height() != 20 {
		t.Fatalf("BuildUp at max changed height to %v", c.Height())
	}
	for i := 0; i < 10; i++ {
		c.BuildDown()
	}
	if c.Height() != 0 {
		t.Fatalf("after 10 BuildDown: height %v, want 0", c.Height())
	}
	c.BuildDown()
	if c.Height() != 0 {
		t.Fatalf("BuildDown at min changed height to %v", c.Height())
	}
}

func TestChainRebuildsMaterialShape(t *testing.T) {
	space := cp.NewSpace()
	c := scenarioChain(t, space, true)

	before := c.MaterialShape()
	for step := 1; step <= 3; step++ {
		c.BuildUp()
		shape := c.MaterialShape()
		if shape == nil {
			t.Fatalf("step %d: material body lost its single shape", step)
		}
		if shape == before {
			t.Fatalf("step %d: shape was not replaced", step)
		}
		before = shape
		if space.ContainsShape(shape) != true {
			t.Fatalf("step %d: new shape not in space", step)
		}
		bb := shape.CacheBB()
		wantH := float64(step * 2)
		if bb.L != 98 || bb.R != 102 || bb.B != 50 || bb.T != 50+wantH {
			t.Fatalf("step %d: bounds %v, want 4x%v from (98, 50)", step, bb, wantH)
		}
		if shape.Filter.Categories != physics.CategoryMaterial || shape.Filter.Mask != physics.MaskNone {
			t.Fatalf("step %d: unexpected filter %+v", step, shape.Filter)
		}
	}
}

func TestChainWithoutCollisionGrowth(t *testing.T) {
	space := cp.NewSpace()
	c := scenarioChain(t, space, false)
	shape := c.MaterialShape()

	c.BuildUp()
	c.BuildUp()
	if c.MaterialShape() != shape {
		t.Fatalf("shape replaced although collision growth is off")
	}
	if c.construct.Sprite.Height() != 4 {
		t.Fatalf("sprite height %v, want 4", c.construct.Sprite.Height())
	}
}

func TestChainDrawOrder(t *testing.T) {
	space := cp.NewSpace()
	c := scenarioChain(t, space, true)
	offset := cp.Vector{X: 10, Y: 20}

	canvas := &recordingCanvas{}
	c.Draw(canvas, offset)
	if len(canvas.calls) != 1 {
		t.Fatalf("empty chain: expected only the needles, got %d draws", len(canvas.calls))
	}
	if canvas.calls[0].Color != testNeedleColor {
		t.Fatalf("first draw is not the needles")
	}

	c.BuildUp()
	canvas = &recordingCanvas{}
	c.Draw(canvas, offset)
	if len(canvas.calls) != 2 {
		t.Fatalf("expected needles and material, got %d draws", len(canvas.calls))
	}
	needles, material := canvas.calls[0], canvas.calls[1]
	if needles.Color != testNeedleColor || material.Color != testMaterialColor {
		t.Fatalf("draw order is not needles then material: %+v", canvas.calls)
	}
	if material.Width != 4 || material.Height != 2 {
		t.Fatalf("material drawn %vx%v, want 4x2", material.Width, material.Height)
	}
	if material.X != 90 || material.Y != 30 {
		t.Fatalf("material drawn at (%v, %v), want (90, 30)", material.X, material.Y)
	}
}

func TestChainRotationFollowsOptions(t *testing.T) {
	space := cp.NewSpace()
	c, err := NewChain(space, ChainOptions{
		MaxHeight: 10, InitHeight: 4, Width: 2, GrowSpeed: 1, Rotation: 1.25,
		Needle: needleFilter, Material: chainMaterial,
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	canvas := &recordingCanvas{}
	c.Draw(canvas, cp.Vector{})
	if len(canvas.calls) != 2 || canvas.calls[1].Rotation != 1.25 {
		t.Fatalf("material rotation not applied: %+v", canvas.calls)
	}
}

func TestChainShapeCountViolationPanics(t *testing.T) {
	space := cp.NewSpace()
	c := scenarioChain(t, space, true)
	extra := physics.PolygonShape(c.construct.Body, physics.PolygonOptions{Vertices: physics.BoxVertices(1, 1)})
	space.AddShape(extra)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, "chain: rebuild shape") {
			t.Fatalf("unexpected panic %v", r)
		}
		if physics.ShapeCount(c.construct.Body) != 2 {
			t.Fatalf("body shapes changed during failed rebuild")
		}
	}()
	c.BuildUp()
}

func TestChainFromObject(t *testing.T) {
	space := cp.NewSpace()
	registry := NewRegistry()
	obj := tileObject(3, "chain", levels.Properties{
		"maxHeight":  "112",
		"initHeight": "16",
		"minHeight":  "0",
		"width":      4,
		"rotation":   "0",
	})

	c, err := ChainFromObject(space, registry, obj, testChainSpec())
	if err != nil {
		t.Fatalf("ChainFromObject: %v", err)
	}
	if c.Height() != 16 || c.Width() != 4 {
		t.Fatalf("chain %vx%v, want 4x16", c.Width(), c.Height())
	}
	if c.Name != "chain#3" {
		t.Fatalf("Name = %q", c.Name)
	}
	if all := registry.All(); len(all) != 1 || all[0] != Interactable(c) {
		t.Fatalf("chain not registered: %v", all)
	}

	needle := c.BuildableShape()
	if needle == nil {
		t.Fatalf("no buildable shape")
	}
	bb := needle.CacheBB()
	if bb.L != 64 || bb.R != 80 || bb.B != 32 || bb.T != 48 {
		t.Fatalf("needle bounds %v, want the object rectangle", bb)
	}
	if needle.Filter.Categories != physics.CategoryNeedles || needle.Filter.Mask != physics.MaskNone {
		t.Fatalf("needle filter %+v", needle.Filter)
	}
}

func TestChainFromObjectErrors(t *testing.T) {
	valid := func() levels.Properties {
		return levels.Properties{"maxHeight": "20", "initHeight": "0", "minHeight": "0", "width": "4"}
	}
	cases := []struct {
		name     string
		mutate   func(levels.Properties)
		property string
		want     error
	}{
		{"malformed_max", func(p levels.Properties) { p["maxHeight"] = "tall" }, "maxHeight", levels.ErrInvalidNumber},
		{"missing_width", func(p levels.Properties) { delete(p, "width") }, "width", levels.ErrMissingProperty},
		{"missing_init", func(p levels.Properties) { delete(p, "initHeight") }, "initHeight", levels.ErrMissingProperty},
		{"malformed_rotation", func(p levels.Properties) { p["rotation"] = "left" }, "rotation", levels.ErrInvalidNumber},
		{"init_above_max", func(p levels.Properties) { p["initHeight"] = "30" }, "", ErrInitOutOfRange},
		{"min_above_max", func(p levels.Properties) { p["minHeight"] = "40"; p["initHeight"] = "40" }, "", ErrInvalidRange},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			props := valid()
			c.mutate(props)
			registry := NewRegistry()
			_, err := ChainFromObject(cp.NewSpace(), registry, tileObject(9, "chain", props), testChainSpec())
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
			if c.property != "" {
				var mpe *levels.MalformedPropertyError
				if !errors.As(err, &mpe) || mpe.Property != c.property {
					t.Fatalf("expected MalformedPropertyError for %s, got %v", c.property, err)
				}
			}
			if len(registry.All()) != 0 {
				t.Fatalf("failed chain was registered")
			}
		})
	}
}

func TestChainFromObjectOverrides(t *testing.T) {
	props := func(extra levels.Properties) levels.Properties {
		p := levels.Properties{"maxHeight": "20", "initHeight": "0", "minHeight": "0", "width": "4"}
		for k, v := range extra {
			p[k] = v
		}
		return p
	}

	c, err := ChainFromObject(cp.NewSpace(), nil, tileObject(1, "chain", props(levels.Properties{
		"growsCollision": "false",
		"script":         "overlap.tengo",
	})), testChainSpec())
	if err != nil {
		t.Fatalf("ChainFromObject: %v", err)
	}
	if c.growsCollision {
		t.Fatalf("growsCollision property did not override the prefab")
	}
	if c.hook == nil || c.scriptName != "overlap.tengo" {
		t.Fatalf("script property not loaded: %q", c.scriptName)
	}

	_, err = ChainFromObject(cp.NewSpace(), nil, tileObject(2, "chain", props(levels.Properties{"growsCollision": "maybe"})), testChainSpec())
	var mpe *levels.MalformedPropertyError
	if !errors.As(err, &mpe) || mpe.Property != "growsCollision" {
		t.Fatalf("expected malformed growsCollision, got %v", err)
	}

	if _, err := ChainFromObject(cp.NewSpace(), nil, tileObject(3, "chain", props(levels.Properties{"script": "missing.tengo"})), testChainSpec()); err == nil {
		t.Fatalf("expected error for a missing script")
	}
}

func TestNewChainRejectsNonFinite(t *testing.T) {
	base := ChainOptions{
		Name:      "bad",
		MaxHeight: 20,
		Width:     4,
		GrowSpeed: 2,
		Needle:    needleFilter,
		Material:  chainMaterial,
	}
	cases := []struct {
		name string
		edit func(*ChainOptions)
	}{
		{"nan_width", func(o *ChainOptions) { o.Width = math.NaN() }},
		{"inf_width", func(o *ChainOptions) { o.Width = math.Inf(1) }},
		{"nan_max", func(o *ChainOptions) { o.MaxHeight = math.NaN() }},
		{"inf_speed", func(o *ChainOptions) { o.GrowSpeed = math.Inf(1) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := base
			c.edit(&opts)
			if _, err := NewChain(cp.NewSpace(), opts); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
