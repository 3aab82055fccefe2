package obj

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/render"
)

// Construct pairs a collision body with the sprite that shows it. The body
// is borrowed; the sprite is owned.
type Construct struct {
	Sprite *render.Sprite
	Body   *cp.Body
}

func NewConstruct(sprite *render.Sprite, body *cp.Body, pos cp.Vector) *Construct {
	c := &Construct{Sprite: sprite, Body: body}
	if body != nil {
		body.SetPosition(pos)
	}
	if sprite != nil {
		sprite.X, sprite.Y = pos.X, pos.Y
	}
	return c
}

// Position returns the body's world position.
func (c *Construct) Position() cp.Vector {
	if c == nil || c.Body == nil {
		return cp.Vector{}
	}
	return c.Body.Position()
}

// SetSize applies the logical size to the sprite.
func (c *Construct) SetSize(w, h float64) {
	if c == nil || c.Sprite == nil {
		return
	}
	c.Sprite.SetWidth(w)
	c.Sprite.SetHeight(h)
}

// Draw moves the sprite to the body's position relative to offset and
// submits it. Empty sprites are skipped. Reports whether a draw was issued.
func (c *Construct) Draw(canvas render.Canvas, offset cp.Vector) bool {
	if c == nil || c.Sprite == nil || canvas == nil {
		return false
	}
	pos := c.Position()
	c.Sprite.X = pos.X - offset.X
	c.Sprite.Y = pos.Y - offset.Y
	if c.Body != nil {
		c.Sprite.Rotation = c.Body.Angle()
	}
	if c.Sprite.Empty() {
		return false
	}
	canvas.DrawSprite(c.Sprite)
	return true
}
