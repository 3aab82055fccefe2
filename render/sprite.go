package render

import (
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is a solid colored rectangle. X and Y are screen coordinates of
// the origin point; the rectangle is rotated about it.
type Sprite struct {
	X, Y     float64
	OriginX  float64
	OriginY  float64
	Rotation float64
	Color    color.Color

	width  float64
	height float64
}

type SpriteOptions struct {
	Width, Height float64
	// Origin defaults to the sprite's center.
	Origin *[2]float64
	Color  color.Color
}

func NewSprite(opts SpriteOptions) *Sprite {
	s := &Sprite{Color: opts.Color}
	if s.Color == nil {
		s.Color = color.White
	}
	s.SetWidth(opts.Width)
	s.SetHeight(opts.Height)
	if opts.Origin != nil {
		s.OriginX, s.OriginY = opts.Origin[0], opts.Origin[1]
	} else {
		s.OriginX, s.OriginY = s.width/2, s.height/2
	}
	return s
}

func (s *Sprite) Width() float64  { return s.width }
func (s *Sprite) Height() float64 { return s.height }

// SetWidth changes the width. Negative and NaN values become 0.
func (s *Sprite) SetWidth(w float64) {
	if w < 0 || math.IsNaN(w) {
		w = 0
	}
	s.width = w
}

// SetHeight changes the height. Negative and NaN values become 0.
func (s *Sprite) SetHeight(h float64) {
	if h < 0 || math.IsNaN(h) {
		h = 0
	}
	s.height = h
}

// Empty reports whether the sprite has no area to draw.
func (s *Sprite) Empty() bool {
	return s == nil || s.width <= 0 || s.height <= 0
}

// Canvas accepts sprite draws for the current frame.
type Canvas interface {
	DrawSprite(s *Sprite)
}

var (
	pixelOnce sync.Once
	pixel     *ebiten.Image
)

func whitePixel() *ebiten.Image {
	pixelOnce.Do(func() {
		pixel = ebiten.NewImage(1, 1)
		pixel.Fill(color.White)
	})
	return pixel
}

// ScreenCanvas draws sprites onto an ebiten image.
type ScreenCanvas struct {
	Screen *ebiten.Image
}

func NewScreenCanvas(screen *ebiten.Image) *ScreenCanvas {
	return &ScreenCanvas{Screen: screen}
}

func (c *ScreenCanvas) DrawSprite(s *Sprite) {
	if c == nil || c.Screen == nil || s.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s.width, s.height)
	op.GeoM.Translate(-s.OriginX, -s.OriginY)
	op.GeoM.Rotate(s.Rotation)
	op.GeoM.Translate(math.Round(s.X), math.Round(s.Y))
	op.ColorScale.ScaleWithColor(s.Color)
	c.Screen.DrawImage(whitePixel(), op)
}
