package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/common"
	"github.com/milk9111/fibers/prefabs"
)

// Camera follows a world point and clamps its view to the world bounds.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	zoom    float64
	off     *ebiten.Image

	// smoothing factor (0..1). higher -> faster follow
	smooth float64
	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

// NewCamera creates a camera with the given logical screen size and zoom.
func NewCamera(screenW, screenH int, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	c := &Camera{screenW: screenW, screenH: screenH, zoom: zoom, smooth: 0.15}
	c.PosX = float64(screenW) / 2.0
	c.PosY = float64(screenH) / 2.0
	return c
}

func NewCameraFromSpec(screenW, screenH int, spec prefabs.CameraSpec) *Camera {
	c := NewCamera(screenW, screenH, spec.Zoom)
	c.SetSmooth(spec.Smoothness)
	return c
}

func (c *Camera) SetZoom(z float64) {
	if z <= 0 || z == c.zoom {
		return
	}
	c.zoom = z
	c.off = nil
}

func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW = w
	c.worldH = h
}

func (c *Camera) SetSmooth(f float64) {
	c.smooth = common.Clamp(f, 0, 1)
}

func (c *Camera) Zoom() float64 {
	return c.zoom
}

func (c *Camera) viewSize() (float64, float64) {
	return float64(c.screenW) / c.zoom, float64(c.screenH) / c.zoom
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	viewW, viewH := c.viewSize()
	return c.PosX - viewW/2.0, c.PosY - viewH/2.0
}

// Offset is the draw offset props subtract from world positions.
func (c *Camera) Offset() cp.Vector {
	x, y := c.ViewTopLeft()
	return cp.Vector{X: x, Y: y}
}

// Update moves the camera toward the target. Call from the fixed-rate
// update loop so smoothing is frame-rate independent.
func (c *Camera) Update(targetX, targetY float64) {
	if c.smooth <= 0 || c.smooth >= 1 {
		c.PosX = targetX
		c.PosY = targetY
	} else {
		c.PosX = common.Lerp(c.PosX, targetX, c.smooth)
		c.PosY = common.Lerp(c.PosY, targetY, c.smooth)
	}
	c.settle()
}

// SnapTo places the camera without smoothing, e.g. after a level load.
func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.settle()
}

// settle snaps the position to the pixel grid and clamps it to the world.
func (c *Camera) settle() {
	c.PosX = math.Round(c.PosX*c.zoom) / c.zoom
	c.PosY = math.Round(c.PosY*c.zoom) / c.zoom

	viewW, viewH := c.viewSize()
	c.PosX = clampAxis(c.PosX, viewW/2.0, c.worldW)
	c.PosY = clampAxis(c.PosY, viewH/2.0, c.worldH)
}

func clampAxis(pos, half, world float64) float64 {
	if world <= 0 {
		return pos
	}
	lo, hi := half, world-half
	if hi < lo {
		// world smaller than view: center on world
		return world / 2.0
	}
	return common.Clamp(pos, lo, hi)
}

// Render lets drawWorld paint an unscaled view of the world, then scales
// it by the zoom onto screen.
func (c *Camera) Render(screen *ebiten.Image, drawWorld func(world *ebiten.Image)) {
	viewW, viewH := c.viewSize()
	if c.off == nil {
		c.off = ebiten.NewImage(int(math.Ceil(viewW)), int(math.Ceil(viewH)))
	}

	c.off.Clear()
	if drawWorld != nil {
		drawWorld(c.off)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(c.zoom, c.zoom)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(c.off, op)
}
