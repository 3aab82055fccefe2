package obj

import (
	"image/color"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
	"github.com/milk9111/fibers/render"
)

type drawCall struct {
	X, Y          float64
	Width, Height float64
	Rotation      float64
	Color         color.Color
}

// recordingCanvas copies every submitted sprite.
type recordingCanvas struct {
	calls []drawCall
}

func (c *recordingCanvas) DrawSprite(s *render.Sprite) {
	c.calls = append(c.calls, drawCall{
		X:        s.X,
		Y:        s.Y,
		Width:    s.Width(),
		Height:   s.Height(),
		Rotation: s.Rotation,
		Color:    s.Color,
	})
}

var (
	needleFilter      = prefabs.FilterSpec{Category: physics.CategoryNeedles, Mask: physics.MaskNone}
	chainMaterial     = prefabs.FilterSpec{Category: physics.CategoryMaterial, Mask: physics.MaskNone}
	cubeMaterial      = prefabs.FilterSpec{Category: physics.CategoryMaterial, Mask: 13}
	testNeedleColor   = color.RGBA{R: 255, A: 255}
	testMaterialColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func testChainSpec() prefabs.ChainSpec {
	return prefabs.ChainSpec{
		Name:           "chain",
		GrowSpeed:      2,
		Width:          4,
		MaxHeight:      20,
		GrowsCollision: true,
		Needle:         needleFilter,
		Material:       chainMaterial,
	}
}

func testCubeSpec() prefabs.KnitCubeSpec {
	return prefabs.KnitCubeSpec{
		Name:         "knit_cube",
		GrowSpeed:    2,
		MaxDimension: 10,
		Base:         needleFilter,
		Material:     cubeMaterial,
	}
}

func scenarioChain(t *testing.T, space *cp.Space, growsCollision bool) *Chain {
	t.Helper()
	c, err := NewChain(space, ChainOptions{
		Name:           "scenario",
		InitialPos:     cp.Vector{X: 100, Y: 50},
		MaxHeight:      20,
		MinHeight:      0,
		InitHeight:     0,
		Width:          4,
		GrowSpeed:      2,
		GrowsCollision: growsCollision,
		NeedleColor:    testNeedleColor,
		MaterialColor:  testMaterialColor,
		Needle:         needleFilter,
		Material:       chainMaterial,
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c
}

func scenarioCube(t *testing.T, space *cp.Space, growsCollision bool) *KnitCube {
	t.Helper()
	k, err := NewKnitCube(space, KnitCubeOptions{
		Name:           "scenario",
		InitialPos:     cp.Vector{X: 40, Y: 80},
		MaxDimension:   10,
		MinDimension:   0,
		GrowSpeed:      2,
		GrowsCollision: growsCollision,
		BaseColor:      testNeedleColor,
		MaterialColor:  testMaterialColor,
		BaseFilter:     needleFilter,
		Material:       cubeMaterial,
	})
	if err != nil {
		t.Fatalf("NewKnitCube: %v", err)
	}
	return k
}

func tileObject(id int, objType string, props levels.Properties) levels.Object {
	return levels.Object{
		ID:         id,
		Type:       objType,
		X:          64,
		Y:          32,
		Width:      16,
		Height:     16,
		Properties: props,
	}
}
