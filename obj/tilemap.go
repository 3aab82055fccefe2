package obj

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/common"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/render"
	"golang.org/x/image/colornames"
)

var tilePalette = []color.Color{
	colornames.Sienna,
	colornames.Olivedrab,
	colornames.Slategray,
	colornames.Darkkhaki,
	colornames.Peru,
	colornames.Cadetblue,
}

// TileMap draws a map's tile layers as colored squares.
type TileMap struct {
	level  *levels.Map
	sprite *render.Sprite
}

func NewTileMap(level *levels.Map) *TileMap {
	tw, th := float64(common.TileSize), float64(common.TileSize)
	if level != nil {
		tw, th = float64(level.TileWidth), float64(level.TileHeight)
	}
	return &TileMap{
		level:  level,
		sprite: render.NewSprite(render.SpriteOptions{Width: tw, Height: th, Origin: &[2]float64{0, 0}}),
	}
}

// TileColor picks the color for a tile GID. Non-solid layers are dimmed.
func TileColor(gid int, solid bool) color.Color {
	c := color.RGBAModel.Convert(tilePalette[(gid-1)%len(tilePalette)]).(color.RGBA)
	if !solid {
		c.A = 0x80
		c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
	}
	return c
}

// Draw submits every visible, non-empty tile that falls inside the view
// of size viewW by viewH at offset.
func (t *TileMap) Draw(canvas render.Canvas, offset cp.Vector, viewW, viewH float64) int {
	if t == nil || t.level == nil || canvas == nil {
		return 0
	}
	lvl := t.level
	tw, th := float64(lvl.TileWidth), float64(lvl.TileHeight)

	x0 := max(int(offset.X/tw), 0)
	y0 := max(int(offset.Y/th), 0)
	x1 := min(int((offset.X+viewW)/tw)+1, lvl.Width)
	y1 := min(int((offset.Y+viewH)/th)+1, lvl.Height)

	drawn := 0
	for _, layer := range lvl.TileLayers() {
		solid := layer.Solid()
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				gid := layer.Data[y*lvl.Width+x]
				if gid <= 0 {
					continue
				}
				t.sprite.X = float64(x)*tw - offset.X
				t.sprite.Y = float64(y)*th - offset.Y
				t.sprite.Color = TileColor(gid, solid)
				canvas.DrawSprite(t.sprite)
				drawn++
			}
		}
	}
	return drawn
}
