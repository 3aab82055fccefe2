package obj

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
	"github.com/milk9111/fibers/render"
)

// newBase builds the inert marker a prop is knitted from: a kinematic body
// centered on pos with a single w by h box.
func newBase(space physics.Space, pos cp.Vector, w, h float64, filter prefabs.FilterSpec, col color.Color) *Construct {
	body := space.AddBody(cp.NewKinematicBody())
	shape := physics.PolygonShape(body, physics.PolygonOptions{
		Vertices: physics.BoxVertices(w, h),
		Material: physics.Slippery,
		Category: filter.Category,
		Mask:     filter.Mask,
	})
	space.AddShape(shape)
	sprite := render.NewSprite(render.SpriteOptions{Width: w, Height: h, Color: col})
	return NewConstruct(sprite, body, pos)
}

// baseFromObject builds a prop base covering a tile-map object.
func baseFromObject(space physics.Space, obj levels.Object, filter prefabs.FilterSpec, col color.Color) (*Construct, cp.Vector) {
	center := cp.Vector{X: obj.X + obj.Width/2, Y: obj.Y + obj.Height/2}
	return newBase(space, center, obj.Width, obj.Height, filter, col), center
}

// baseShape returns the base's buildable shape, or nil when the base does
// not carry exactly one shape.
func baseShape(base *Construct) *cp.Shape {
	if base == nil {
		return nil
	}
	shape, err := physics.SoleShape(base.Body)
	if err != nil {
		return nil
	}
	return shape
}
