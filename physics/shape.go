package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

// Collision categories. A shape's category and mask follow the
// group/mask pairing used by the level data: two shapes touch only when
// each one's category is present in the other's mask.
const (
	CategoryWorld    uint = 1
	CategoryNeedles  uint = 2
	CategoryMaterial uint = 4

	// MaskNone makes a shape inert.
	MaskNone uint = 0
	MaskAll  uint = ^uint(0)
)

var ErrInvalidShapeCount = errors.New("physics: body must carry exactly one shape")

// InvalidShapeCountError reports a shape replacement on a body that does
// not carry exactly one shape.
type InvalidShapeCountError struct {
	Count int
}

func (e *InvalidShapeCountError) Error() string {
	return fmt.Sprintf("physics: body must carry exactly one shape, found %d", e.Count)
}

func (e *InvalidShapeCountError) Is(target error) bool {
	return target == ErrInvalidShapeCount
}

// Space is the part of the physics engine that scene objects touch.
// *cp.Space satisfies it.
type Space interface {
	AddBody(body *cp.Body) *cp.Body
	AddShape(shape *cp.Shape) *cp.Shape
	RemoveShape(shape *cp.Shape)
}

// Material mirrors the surface parameters level props are built with.
type Material struct {
	Elasticity      float64
	StaticFriction  float64
	DynamicFriction float64
}

// Slippery has no bounce and no friction.
var Slippery = Material{}

// Apply copies the material onto a shape. cp models a single friction
// coefficient, so the dynamic one is used.
func (m Material) Apply(shape *cp.Shape) {
	if shape == nil {
		return
	}
	shape.SetElasticity(m.Elasticity)
	shape.SetFriction(m.DynamicFriction)
}

// Filter builds a cp filter from a category/mask pair.
func Filter(category, mask uint) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, category, mask)
}

// RectangleVertices returns the corners of the axis-aligned rectangle
// spanning (x1, y1) to (x2, y2).
func RectangleVertices(x1, y1, x2, y2 float64) []cp.Vector {
	l, r := x1, x2
	if r < l {
		l, r = r, l
	}
	b, t := y1, y2
	if t < b {
		b, t = t, b
	}
	return []cp.Vector{
		{X: r, Y: b},
		{X: r, Y: t},
		{X: l, Y: t},
		{X: l, Y: b},
	}
}

// BoxVertices returns a w by h rectangle centered on the origin.
func BoxVertices(w, h float64) []cp.Vector {
	return RectangleVertices(-w/2, -h/2, w/2, h/2)
}

type PolygonOptions struct {
	Vertices      []cp.Vector
	Material      Material
	Category      uint
	Mask          uint
	Sensor        bool
	CollisionType cp.CollisionType
}

// PolygonShape creates a polygon on body. The shape is not added to any
// space. Clockwise vertex lists are reversed since cp expects the other
// winding.
func PolygonShape(body *cp.Body, opts PolygonOptions) *cp.Shape {
	verts := append([]cp.Vector(nil), opts.Vertices...)
	if signedArea(verts) < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}
	shape := cp.NewPolyShapeRaw(body, len(verts), verts, 0)
	opts.Material.Apply(shape)
	shape.SetFilter(Filter(opts.Category, opts.Mask))
	if opts.Sensor {
		shape.SetSensor(true)
	}
	if opts.CollisionType != 0 {
		shape.SetCollisionType(opts.CollisionType)
	}
	return shape
}

func signedArea(verts []cp.Vector) float64 {
	var sum float64
	for i := range verts {
		j := (i + 1) % len(verts)
		sum += verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
	}
	return sum / 2
}

// ShapeCount returns how many shapes are attached to body.
func ShapeCount(body *cp.Body) int {
	if body == nil {
		return 0
	}
	n := 0
	body.EachShape(func(*cp.Shape) { n++ })
	return n
}

// SoleShape returns the only shape on body.
func SoleShape(body *cp.Body) (*cp.Shape, error) {
	var found *cp.Shape
	n := 0
	if body != nil {
		body.EachShape(func(s *cp.Shape) {
			found = s
			n++
		})
	}
	if n != 1 {
		return nil, &InvalidShapeCountError{Count: n}
	}
	return found, nil
}

// ReplaceShape swaps the single shape on body for shape. The new shape is
// added before the old one is removed so the body is never left without
// geometry. The body is left untouched when it does not carry exactly one
// shape.
func ReplaceShape(space Space, body *cp.Body, shape *cp.Shape) (*cp.Shape, error) {
	if space == nil || body == nil || shape == nil {
		return nil, fmt.Errorf("physics: replace shape: nil argument")
	}
	if shape.Body() != body {
		return nil, fmt.Errorf("physics: replace shape: shape belongs to another body")
	}
	old, err := SoleShape(body)
	if err != nil {
		return nil, err
	}
	space.AddShape(shape)
	space.RemoveShape(old)
	return old, nil
}
