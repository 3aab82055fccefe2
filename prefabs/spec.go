package prefabs

import (
	"fmt"
	"image/color"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ChainFile    = "chain.yaml"
	KnitCubeFile = "knit_cube.yaml"
	PlayerFile   = "player.yaml"
	CameraFile   = "camera.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// FilterSpec is a collision category and the categories it collides with.
type FilterSpec struct {
	Category uint `yaml:"category"`
	Mask     uint `yaml:"mask"`
}

type ChainSpec struct {
	Name           string     `yaml:"name"`
	GrowSpeed      float64    `yaml:"grow_speed"`
	Width          float64    `yaml:"width"`
	MaxHeight      float64    `yaml:"max_height"`
	MinHeight      float64    `yaml:"min_height"`
	InitHeight     float64    `yaml:"init_height"`
	GrowsCollision bool       `yaml:"grows_collision"`
	NeedleColor    *YAMLColor `yaml:"needle_color"`
	MaterialColor  *YAMLColor `yaml:"material_color"`
	Needle         FilterSpec `yaml:"needle"`
	Material       FilterSpec `yaml:"material"`
	Script         string     `yaml:"script"`
}

type KnitCubeSpec struct {
	Name           string     `yaml:"name"`
	GrowSpeed      float64    `yaml:"grow_speed"`
	MaxDimension   float64    `yaml:"max_dimension"`
	MinDimension   float64    `yaml:"min_dimension"`
	GrowsCollision bool       `yaml:"grows_collision"`
	BaseColor      *YAMLColor `yaml:"base_color"`
	MaterialColor  *YAMLColor `yaml:"material_color"`
	Base           FilterSpec `yaml:"base"`
	Material       FilterSpec `yaml:"material"`
	Script         string     `yaml:"script"`
}

type PlayerSpec struct {
	Name                string     `yaml:"name"`
	Width               float64    `yaml:"width"`
	Height              float64    `yaml:"height"`
	MoveSpeed           float64    `yaml:"move_speed"`
	JumpSpeed           float64    `yaml:"jump_speed"`
	BuildCooldownFrames int        `yaml:"build_cooldown_frames"`
	Color               *YAMLColor `yaml:"color"`
}

type CameraSpec struct {
	Name       string  `yaml:"name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

// Tuning is every gameplay spec the scene reads at startup.
type Tuning struct {
	Chain    ChainSpec
	KnitCube KnitCubeSpec
	Player   PlayerSpec
	Camera   CameraSpec
}

func LoadTuning() (*Tuning, error) {
	t := &Tuning{}
	for _, name := range []string{ChainFile, KnitCubeFile, PlayerFile, CameraFile} {
		if err := t.Reload(name); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Reload re-reads the tuning stored in the named file. Files that hold no
// tuning return ErrUnknownSpec.
func (t *Tuning) Reload(name string) error {
	switch path.Base(cleanPrefabPath(name)) {
	case ChainFile:
		return reloadInto(&t.Chain, ChainFile)
	case KnitCubeFile:
		return reloadInto(&t.KnitCube, KnitCubeFile)
	case PlayerFile:
		return reloadInto(&t.Player, PlayerFile)
	case CameraFile:
		return reloadInto(&t.Camera, CameraFile)
	}
	return fmt.Errorf("prefabs: %w: %s", ErrUnknownSpec, name)
}

// reloadInto replaces *dst only when the file decodes, so a bad edit keeps
// the live values.
func reloadInto[T any](dst *T, filename string) error {
	spec, err := LoadSpec[T](filename)
	if err != nil {
		return err
	}
	*dst = spec
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i*2 < len(s); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return fmt.Errorf("invalid color format: %s: %w", value.Value, err)
		}
		rgba[i] = uint8(v)
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

// ColorOr returns the decoded color, or def when none was configured.
func (c *YAMLColor) ColorOr(def color.Color) color.Color {
	if c == nil || c.Color == nil {
		return def
	}
	return c.Color
}
