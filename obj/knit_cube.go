package obj

import (
	"fmt"
	"image/color"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/common"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
	"github.com/milk9111/fibers/render"
	"github.com/milk9111/fibers/script"
	"golang.org/x/image/colornames"
)

// KnitCubeOptions configures a knit cube. The cube grows right and up from
// its corner at InitialPos.
type KnitCubeOptions struct {
	Name         string
	InitialPos   cp.Vector
	MaxDimension float64
	MinDimension float64
	GrowSpeed    float64

	// GrowsCollision gives the body a square of the current dimension on
	// every step. When false the body keeps its initial region.
	GrowsCollision bool

	BaseColor     color.Color
	MaterialColor color.Color
	BaseFilter    prefabs.FilterSpec
	Material      prefabs.FilterSpec
	Script        string

	Base *Construct
}

func DefaultKnitCubeOptions(spec prefabs.KnitCubeSpec) KnitCubeOptions {
	return KnitCubeOptions{
		Name:           spec.Name,
		MaxDimension:   spec.MaxDimension,
		MinDimension:   spec.MinDimension,
		GrowSpeed:      spec.GrowSpeed,
		GrowsCollision: spec.GrowsCollision,
		BaseColor:      spec.BaseColor.ColorOr(colornames.Firebrick),
		MaterialColor:  spec.MaterialColor.ColorOr(colornames.Wheat),
		BaseFilter:     spec.Base,
		Material:       spec.Material,
		Script:         spec.Script,
	}
}

func (o KnitCubeOptions) growth() Growth {
	return Growth{
		Min:    o.MinDimension,
		Max:    o.MaxDimension,
		Step:   o.GrowSpeed,
		Strict: true,
	}
}

func (o KnitCubeOptions) validate() error {
	g := o.growth()
	if err := g.Validate(); err != nil {
		return fmt.Errorf("knitcube %s: %w", o.Name, err)
	}
	return nil
}

// KnitCube is a square of material that grows uniformly. A step is only
// taken when the result stays strictly inside (min, max).
type KnitCube struct {
	Name string

	space     physics.Space
	base      *Construct
	construct *Construct
	growth    Growth

	growsCollision bool
	filter         prefabs.FilterSpec

	scriptName string
	hook       *script.Hook
}

func NewKnitCube(space physics.Space, opts KnitCubeOptions) (*KnitCube, error) {
	if space == nil {
		return nil, fmt.Errorf("knitcube: nil space")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	hook, err := script.Load(opts.Script)
	if err != nil {
		return nil, fmt.Errorf("knitcube %s: %w", opts.Name, err)
	}

	base := opts.Base
	if base == nil {
		base = newBase(space, opts.InitialPos, common.TileSize, common.TileSize, opts.BaseFilter, opts.BaseColor)
	}

	k := &KnitCube{
		Name:           opts.Name,
		space:          space,
		base:           base,
		growth:         opts.growth(),
		growsCollision: opts.GrowsCollision,
		filter:         opts.Material,
		scriptName:     opts.Script,
		hook:           hook,
	}

	// The body starts with the full region the cube may grow into. When
	// collision follows the dimension that region is inert until the first
	// step replaces it.
	body := space.AddBody(cp.NewKinematicBody())
	mask := k.filter.Mask
	if k.growsCollision {
		mask = physics.MaskNone
	}
	space.AddShape(k.squareShape(body, opts.MaxDimension, mask))

	sprite := render.NewSprite(render.SpriteOptions{
		Origin: &[2]float64{0, 0},
		Color:  opts.MaterialColor,
	})
	k.construct = NewConstruct(sprite, body, opts.InitialPos)
	return k, nil
}

// KnitCubeFromObject builds a cube from a tile-map object and registers
// it. maxDimension, minDimension, growsCollision and script fall back to
// the prefab values.
func KnitCubeFromObject(space physics.Space, registry *Registry, obj levels.Object, spec prefabs.KnitCubeSpec) (*KnitCube, error) {
	opts := DefaultKnitCubeOptions(spec)
	opts.Name = obj.Label()

	var err error
	if opts.MaxDimension, err = levels.ObjectFloatOr(obj, "maxDimension", opts.MaxDimension); err != nil {
		return nil, err
	}
	if opts.MinDimension, err = levels.ObjectFloatOr(obj, "minDimension", opts.MinDimension); err != nil {
		return nil, err
	}
	if opts.GrowsCollision, err = levels.ObjectBoolOr(obj, "growsCollision", opts.GrowsCollision); err != nil {
		return nil, err
	}
	if name, ok := obj.Properties.String("script"); ok {
		opts.Script = name
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.Base, opts.InitialPos = baseFromObject(space, obj, opts.BaseFilter, opts.BaseColor)

	k, err := NewKnitCube(space, opts)
	if err != nil {
		return nil, err
	}
	if registry != nil {
		registry.Push(k)
	}
	return k, nil
}

// squareShape is a d by d square with its bottom-left corner on the body.
func (k *KnitCube) squareShape(body *cp.Body, d float64, mask uint) *cp.Shape {
	return physics.PolygonShape(body, physics.PolygonOptions{
		Vertices: []cp.Vector{{X: 0, Y: 0}, {X: d, Y: 0}, {X: d, Y: -d}, {X: 0, Y: -d}},
		Material: physics.Slippery,
		Category: k.filter.Category,
		Mask:     mask,
	})
}

func (k *KnitCube) Dimension() float64 { return k.growth.Current }

func (k *KnitCube) BuildUp() {
	if k.growth.Up() {
		k.remake()
	}
}

func (k *KnitCube) BuildDown() {
	if k.growth.Down() {
		k.remake()
	}
}

func (k *KnitCube) remake() {
	d := k.growth.Current
	k.construct.Body.SetPosition(k.base.Position())
	k.construct.SetSize(d, d)
	k.construct.Sprite.OriginX, k.construct.Sprite.OriginY = 0, d
	// a square with no area cannot be a cp polygon
	if !k.growsCollision || d <= 0 {
		return
	}
	body := k.construct.Body
	if _, err := physics.ReplaceShape(k.space, body, k.squareShape(body, d, k.filter.Mask)); err != nil {
		panic("knitcube: rebuild shape: " + err.Error())
	}
}

// BuildableShape is the base's shape.
func (k *KnitCube) BuildableShape() *cp.Shape {
	return baseShape(k.base)
}

// MaterialShape is the shape currently on the cube's body.
func (k *KnitCube) MaterialShape() *cp.Shape {
	shape, err := physics.SoleShape(k.construct.Body)
	if err != nil {
		return nil
	}
	return shape
}

func (k *KnitCube) PlayerCollideCallback() {
	log.Printf("knitcube: %s intersecting with player", k.Name)
	pos := k.base.Position()
	if err := k.hook.Run(script.Event{Kind: "knitcube", Name: k.Name, X: pos.X, Y: pos.Y, Dimension: k.growth.Current}); err != nil {
		log.Printf("knitcube: %s: %v", k.Name, err)
	}
}

// Draw submits the material first so the base renders on top of it.
func (k *KnitCube) Draw(canvas render.Canvas, offset cp.Vector) {
	k.construct.Draw(canvas, offset)
	k.base.Draw(canvas, offset)
}

func (k *KnitCube) Retune(spec prefabs.KnitCubeSpec) {
	if spec.GrowSpeed > 0 {
		k.growth.Step = spec.GrowSpeed
	}
	k.base.Sprite.Color = spec.BaseColor.ColorOr(k.base.Sprite.Color)
	k.construct.Sprite.Color = spec.MaterialColor.ColorOr(k.construct.Sprite.Color)
	if spec.Script != k.scriptName {
		k.scriptName = spec.Script
		k.ReloadScript()
	}
}

func (k *KnitCube) ReloadScript() {
	hook, err := script.Load(k.scriptName)
	if err != nil {
		log.Printf("knitcube: %s: reload script: %v", k.Name, err)
		return
	}
	k.hook = hook
}
