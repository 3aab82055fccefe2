package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

const (
	LayerTypeTiles   = "tilelayer"
	LayerTypeObjects = "objectgroup"
)

// Map is a tile map in the Tiled JSON layout.
type Map struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	TileWidth  int     `json:"tilewidth"`
	TileHeight int     `json:"tileheight"`
	Layers     []Layer `json:"layers"`
}

type Layer struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Visible    *bool      `json:"visible,omitempty"`
	Data       []int      `json:"data,omitempty"`
	Objects    []Object   `json:"objects,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// Object is a per-object descriptor from an object layer.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	GID        int        `json:"gid,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// Label names the object in error messages.
func (o Object) Label() string {
	if o.Name != "" {
		return o.Name
	}
	if o.Type != "" {
		return fmt.Sprintf("%s#%d", o.Type, o.ID)
	}
	return fmt.Sprintf("object#%d", o.ID)
}

// Load reads an embedded map by name. The .json extension is optional.
func Load(name string) (*Map, error) {
	clean := cleanLevelPath(name)
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", clean, err)
	}
	return m, nil
}

// LoadFile reads a map from disk.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal map: %w", err)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions: %dx%d", m.Width, m.Height)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile size: %dx%d", m.TileWidth, m.TileHeight)
	}
	for i, layer := range m.Layers {
		if layer.Type != LayerTypeTiles {
			continue
		}
		if len(layer.Data) != m.Width*m.Height {
			return nil, fmt.Errorf("layer %d (%s): expected %d tiles, got %d", i, layer.Name, m.Width*m.Height, len(layer.Data))
		}
		if _, err := layer.Properties.Bool("solid"); err != nil && !errors.Is(err, ErrMissingProperty) {
			return nil, &MalformedPropertyError{Object: "layer " + layer.Name, Property: "solid", Value: layer.Properties["solid"], Err: err}
		}
	}
	return &m, nil
}

// TileLayers returns the visible tile layers in draw order.
func (m *Map) TileLayers() []*Layer {
	if m == nil {
		return nil
	}
	var out []*Layer
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Type != LayerTypeTiles {
			continue
		}
		if l.Visible != nil && !*l.Visible {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Objects returns every object of the given type across object layers.
// An empty type matches all objects.
func (m *Map) Objects(objType string) []Object {
	if m == nil {
		return nil
	}
	var out []Object
	for _, l := range m.Layers {
		if l.Type != LayerTypeObjects {
			continue
		}
		for _, o := range l.Objects {
			if objType == "" || strings.EqualFold(o.Type, objType) {
				out = append(out, o)
			}
		}
	}
	return out
}

// PixelSize returns the map size in pixels.
func (m *Map) PixelSize() (float64, float64) {
	if m == nil {
		return 0, 0
	}
	return float64(m.Width * m.TileWidth), float64(m.Height * m.TileHeight)
}

// Solid reports whether the layer's tiles take part in collision. Layers
// are solid unless they carry a "solid" property set to false.
func (l *Layer) Solid() bool {
	if l == nil || l.Type != LayerTypeTiles {
		return false
	}
	solid, err := l.Properties.Bool("solid")
	if err != nil {
		return true
	}
	return solid
}

// Spawn returns the player spawn point: the center of the first "spawn"
// object, or the map center when none exists.
func (m *Map) Spawn() (float64, float64) {
	if m == nil {
		return 0, 0
	}
	if spawns := m.Objects("spawn"); len(spawns) > 0 {
		s := spawns[0]
		return s.X + s.Width/2, s.Y + s.Height/2
	}
	w, h := m.PixelSize()
	return w / 2, h / 2
}

func cleanLevelPath(name string) string {
	s := strings.TrimPrefix(filepath.ToSlash(name), "levels/")
	if !strings.HasSuffix(strings.ToLower(s), ".json") {
		s += ".json"
	}
	return s
}
