package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/common"
	"github.com/milk9111/fibers/levels"
)

const (
	CollisionTypePlayer cp.CollisionType = iota + 1
	CollisionTypePlayerGround
	CollisionTypeSolid
)

type WallSide int

const (
	WallNone WallSide = iota
	WallLeft
	WallRight
)

const groundGraceFrames = 6

// World owns the chipmunk space for a scene: static tile geometry, world
// bounds, and the player's body with its ground sensor.
type World struct {
	level *levels.Map
	space *cp.Space

	playerBody  *cp.Body
	playerShape *cp.Shape
	groundShape *cp.Shape

	grounded    bool
	wall        WallSide
	groundGrace int

	handlersReady bool
}

func NewWorld(level *levels.Map) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	w := &World{level: level, space: space}
	w.buildStaticShapes()
	return w
}

// Space returns the underlying chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// solidGrid flattens every solid tile layer into one occupancy grid.
func (w *World) solidGrid() []bool {
	lvl := w.level
	grid := make([]bool, lvl.Width*lvl.Height)
	for _, layer := range lvl.TileLayers() {
		if !layer.Solid() || len(layer.Data) != len(grid) {
			continue
		}
		for i, v := range layer.Data {
			if v != 0 {
				grid[i] = true
			}
		}
	}
	return grid
}

func (w *World) buildStaticShapes() {
	if w == nil || w.space == nil || w.level == nil {
		return
	}
	lvl := w.level
	tw := float64(lvl.TileWidth)
	th := float64(lvl.TileHeight)

	solid := w.solidGrid()
	// Merge contiguous solid tiles into larger rectangles so the space
	// holds a few boxes instead of one per tile.
	processed := make([]bool, len(solid))
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			idx := y*lvl.Width + x
			if processed[idx] {
				continue
			}
			if !solid[idx] {
				processed[idx] = true
				continue
			}

			width := 1
			for x+width < lvl.Width {
				idx2 := y*lvl.Width + (x + width)
				if processed[idx2] || !solid[idx2] {
					break
				}
				width++
			}

			height := 1
		heightLoop:
			for y+height < lvl.Height {
				for xi := x; xi < x+width; xi++ {
					idx2 := (y+height)*lvl.Width + xi
					if processed[idx2] || !solid[idx2] {
						break heightLoop
					}
				}
				height++
			}

			x0 := float64(x) * tw
			y0 := float64(y) * th
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(width)*tw, T: y0 + float64(height)*th}
			shape := cp.NewBox2(w.space.StaticBody, bb, 0)
			shape.SetFriction(0.8)
			shape.SetCollisionType(CollisionTypeSolid)
			shape.SetFilter(Filter(CategoryWorld, MaskAll))
			w.space.AddShape(shape)

			for yy := y; yy < y+height; yy++ {
				for xx := x; xx < x+width; xx++ {
					processed[yy*lvl.Width+xx] = true
				}
			}
		}
	}

	worldW, worldH := lvl.PixelSize()
	if worldW > 0 && worldH > 0 {
		thickness := 1.0
		segments := []struct {
			a cp.Vector
			b cp.Vector
		}{
			{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},           // top
			{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}}, // bottom
			{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},           // left
			{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}}, // right
		}
		for _, seg := range segments {
			shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, thickness)
			shape.SetFriction(0.8)
			shape.SetCollisionType(CollisionTypeSolid)
			shape.SetFilter(Filter(CategoryWorld, MaskAll))
			w.space.AddShape(shape)
		}
	}
}

// AttachPlayer creates the player's dynamic body centered on pos. Calling
// it again returns the existing body.
func (w *World) AttachPlayer(width, height float64, pos cp.Vector) (*cp.Body, *cp.Shape) {
	if w == nil || w.space == nil {
		return nil, nil
	}
	if w.playerBody != nil {
		return w.playerBody, w.playerShape
	}

	mass := 1.0
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(pos)
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(CollisionTypePlayer)
	shape.SetFilter(Filter(CategoryWorld, MaskAll))

	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(CollisionTypePlayerGround)
	groundShape.SetFilter(Filter(CategoryWorld, MaskAll))

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.space.AddShape(groundShape)

	w.playerBody = body
	w.playerShape = shape
	w.groundShape = groundShape

	w.setupHandlers()
	return body, shape
}

func (w *World) setupHandlers() {
	if w.handlersReady || w.space == nil {
		return
	}
	handler := w.space.NewCollisionHandler(CollisionTypePlayer, CollisionTypeSolid)
	handler.UserData = w
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		if world.playerShape == nil || (shapeA != world.playerShape && shapeB != world.playerShape) {
			return true
		}
		n := arb.Normal()
		if shapeA != world.playerShape {
			n = n.Neg()
		}
		if n.X < -0.5 {
			world.wall = WallLeft
		} else if n.X > 0.5 {
			world.wall = WallRight
		}
		return true
	}

	groundHandler := w.space.NewCollisionHandler(CollisionTypePlayerGround, CollisionTypeSolid)
	groundHandler.UserData = w
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		world.grounded = true
		world.groundGrace = groundGraceFrames
		return true
	}

	w.handlersReady = true
}

// BeginStep clears per-step contact state. Call once before Step.
func (w *World) BeginStep() {
	if w == nil {
		return
	}
	if w.groundGrace > 0 {
		w.groundGrace--
	}
	w.grounded = false
	w.wall = WallNone
}

func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(dt)
}

// Grounded reports whether the player's ground sensor touched solid
// geometry recently.
func (w *World) Grounded() bool {
	if w == nil {
		return false
	}
	return w.grounded || w.groundGrace > 0
}

// Wall returns which side of the player is against a wall.
func (w *World) Wall() WallSide {
	if w == nil {
		return WallNone
	}
	return w.wall
}

// Overlaps reports whether the bounding boxes of two shapes intersect.
// Filters are ignored, so inert marker shapes can still be queried.
func Overlaps(a, b *cp.Shape) bool {
	if a == nil || b == nil || a.Body() == nil || b.Body() == nil {
		return false
	}
	return a.CacheBB().Intersects(b.CacheBB())
}
