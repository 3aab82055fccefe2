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

// ChainOptions configures a chain. The material hangs from the needles
// along the body's local +Y axis, rotated by Rotation radians.
type ChainOptions struct {
	Name       string
	InitialPos cp.Vector
	MaxHeight  float64
	MinHeight  float64
	InitHeight float64
	Width      float64
	Rotation   float64
	GrowSpeed  float64

	// GrowsCollision rebuilds the material's shape on every step. When
	// false only the sprite follows the height.
	GrowsCollision bool

	NeedleColor   color.Color
	MaterialColor color.Color
	Needle        prefabs.FilterSpec
	Material      prefabs.FilterSpec
	Script        string

	// Base is the needle construct. A tile-sized one is built at
	// InitialPos when nil.
	Base *Construct
}

// DefaultChainOptions fills options from the chain prefab.
func DefaultChainOptions(spec prefabs.ChainSpec) ChainOptions {
	return ChainOptions{
		Name:           spec.Name,
		MaxHeight:      spec.MaxHeight,
		MinHeight:      spec.MinHeight,
		InitHeight:     spec.InitHeight,
		Width:          spec.Width,
		GrowSpeed:      spec.GrowSpeed,
		GrowsCollision: spec.GrowsCollision,
		NeedleColor:    spec.NeedleColor.ColorOr(colornames.Red),
		MaterialColor:  spec.MaterialColor.ColorOr(colornames.White),
		Needle:         spec.Needle,
		Material:       spec.Material,
		Script:         spec.Script,
	}
}

func (o ChainOptions) growth() Growth {
	return Growth{
		Current: o.InitHeight,
		Min:     o.MinHeight,
		Max:     o.MaxHeight,
		Step:    o.GrowSpeed,
	}
}

func (o ChainOptions) validate() error {
	g := o.growth()
	if err := g.Validate(); err != nil {
		return fmt.Errorf("chain %s: %w", o.Name, err)
	}
	if !(o.Width > 0) || !finite(o.Width) {
		return fmt.Errorf("chain %s: width must be positive, got %v", o.Name, o.Width)
	}
	return nil
}

// Chain is a column of knitted material that grows from its needles.
type Chain struct {
	Name string

	space     physics.Space
	base      *Construct
	construct *Construct
	growth    Growth

	width          float64
	rotation       float64
	growsCollision bool
	filter         prefabs.FilterSpec

	scriptName string
	hook       *script.Hook
}

func NewChain(space physics.Space, opts ChainOptions) (*Chain, error) {
	if space == nil {
		return nil, fmt.Errorf("chain: nil space")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	growth := opts.growth()

	hook, err := script.Load(opts.Script)
	if err != nil {
		return nil, fmt.Errorf("chain %s: %w", opts.Name, err)
	}

	base := opts.Base
	if base == nil {
		base = newBase(space, opts.InitialPos, common.TileSize, common.TileSize, opts.Needle, opts.NeedleColor)
	}

	c := &Chain{
		Name:           opts.Name,
		space:          space,
		base:           base,
		growth:         growth,
		width:          opts.Width,
		rotation:       opts.Rotation,
		growsCollision: opts.GrowsCollision,
		filter:         opts.Material,
		scriptName:     opts.Script,
		hook:           hook,
	}

	body := space.AddBody(cp.NewKinematicBody())
	space.AddShape(c.materialShape(body))
	body.SetAngle(opts.Rotation)

	sprite := render.NewSprite(render.SpriteOptions{
		Width:  c.width,
		Height: growth.Current,
		Origin: &[2]float64{c.width / 2, 0},
		Color:  opts.MaterialColor,
	})
	c.construct = NewConstruct(sprite, body, opts.InitialPos)
	return c, nil
}

// ChainFromObject builds a chain from a tile-map object and registers it.
// The object's maxHeight, initHeight, minHeight and width properties are
// required; rotation defaults to 0. growsCollision and script override the
// prefab.
func ChainFromObject(space physics.Space, registry *Registry, obj levels.Object, spec prefabs.ChainSpec) (*Chain, error) {
	opts := DefaultChainOptions(spec)
	opts.Name = obj.Label()

	var err error
	if opts.MaxHeight, err = levels.ObjectFloat(obj, "maxHeight"); err != nil {
		return nil, err
	}
	if opts.InitHeight, err = levels.ObjectFloat(obj, "initHeight"); err != nil {
		return nil, err
	}
	if opts.MinHeight, err = levels.ObjectFloat(obj, "minHeight"); err != nil {
		return nil, err
	}
	if opts.Width, err = levels.ObjectFloat(obj, "width"); err != nil {
		return nil, err
	}
	if opts.Rotation, err = levels.ObjectFloatOr(obj, "rotation", 0); err != nil {
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
	opts.Base, opts.InitialPos = baseFromObject(space, obj, opts.Needle, opts.NeedleColor)

	c, err := NewChain(space, opts)
	if err != nil {
		return nil, err
	}
	if registry != nil {
		registry.Push(c)
	}
	return c, nil
}

func (c *Chain) materialShape(body *cp.Body) *cp.Shape {
	return physics.PolygonShape(body, physics.PolygonOptions{
		Vertices: physics.RectangleVertices(-c.width/2, 0, c.width/2, c.growth.Current),
		Material: physics.Slippery,
		Category: c.filter.Category,
		Mask:     c.filter.Mask,
	})
}

// Height is the current material height.
func (c *Chain) Height() float64 { return c.growth.Current }

func (c *Chain) Width() float64 { return c.width }

func (c *Chain) BuildUp() {
	if c.growth.Up() {
		c.rebuild()
	}
}

func (c *Chain) BuildDown() {
	if c.growth.Down() {
		c.rebuild()
	}
}

func (c *Chain) rebuild() {
	c.construct.SetSize(c.width, c.growth.Current)
	if !c.growsCollision {
		return
	}
	body := c.construct.Body
	if _, err := physics.ReplaceShape(c.space, body, c.materialShape(body)); err != nil {
		panic("chain: rebuild shape: " + err.Error())
	}
}

// BuildableShape is the needles' shape.
func (c *Chain) BuildableShape() *cp.Shape {
	return baseShape(c.base)
}

// MaterialShape is the shape currently on the material body.
func (c *Chain) MaterialShape() *cp.Shape {
	shape, err := physics.SoleShape(c.construct.Body)
	if err != nil {
		return nil
	}
	return shape
}

func (c *Chain) PlayerCollideCallback() {
	log.Printf("chain: %s intersecting with player", c.Name)
	pos := c.base.Position()
	if err := c.hook.Run(script.Event{Kind: "chain", Name: c.Name, X: pos.X, Y: pos.Y, Dimension: c.growth.Current}); err != nil {
		log.Printf("chain: %s: %v", c.Name, err)
	}
}

// Draw submits the needles, then the material when it has any height.
func (c *Chain) Draw(canvas render.Canvas, offset cp.Vector) {
	c.base.Draw(canvas, offset)
	if c.growth.Current <= 0 {
		return
	}
	c.construct.SetSize(c.width, c.growth.Current)
	c.construct.Body.SetPosition(c.base.Position())
	c.construct.Body.SetAngle(c.rotation)
	c.construct.Draw(canvas, offset)
}

// Retune applies a reloaded prefab to the live chain.
func (c *Chain) Retune(spec prefabs.ChainSpec) {
	if spec.GrowSpeed > 0 {
		c.growth.Step = spec.GrowSpeed
	}
	c.base.Sprite.Color = spec.NeedleColor.ColorOr(c.base.Sprite.Color)
	c.construct.Sprite.Color = spec.MaterialColor.ColorOr(c.construct.Sprite.Color)
	if spec.Script != c.scriptName {
		c.scriptName = spec.Script
		c.ReloadScript()
	}
}

// ReloadScript recompiles the overlap script. The old hook is kept when
// the new source fails to load.
func (c *Chain) ReloadScript() {
	hook, err := script.Load(c.scriptName)
	if err != nil {
		log.Printf("chain: %s: reload script: %v", c.Name, err)
		return
	}
	c.hook = hook
}
