package obj

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
)

const floorMap = `{"width":10,"height":6,"tilewidth":16,"tileheight":16,"layers":[
	{"name":"ground","type":"tilelayer","data":[
		0,0,0,0,0,0,0,0,0,0,
		0,0,0,0,0,0,0,0,0,0,
		0,0,0,0,0,0,0,0,0,0,
		0,0,0,0,0,0,0,0,0,0,
		0,0,0,0,0,0,0,0,0,0,
		1,1,1,1,1,1,1,1,1,1]}
]}`

func testPlayerSpec(cooldown int) prefabs.PlayerSpec {
	return prefabs.PlayerSpec{
		Name:                "player",
		Width:               10,
		Height:              14,
		MoveSpeed:           90,
		JumpSpeed:           260,
		BuildCooldownFrames: cooldown,
	}
}

func newTestPlayer(t *testing.T, cooldown int) (*Player, *physics.World) {
	t.Helper()
	m, err := levels.Parse([]byte(floorMap))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	world := physics.NewWorld(m)
	p, err := NewPlayer(world, nil, cp.Vector{X: 80, Y: 60}, testPlayerSpec(cooldown))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	return p, world
}

// frame runs one fixed update the way the scene does.
func frame(p *Player, w *physics.World) {
	p.Update()
	w.BeginStep()
	w.Step(1.0 / 60.0)
	p.OnPhysics()
}

func TestPlayerLandsAndIdles(t *testing.T) {
	p, w := newTestPlayer(t, 0)
	if p.State() != "falling" {
		t.Fatalf("initial state %q, want falling", p.State())
	}
	for i := 0; i < 90; i++ {
		frame(p, w)
	}
	if p.State() != "idle" {
		t.Fatalf("state %q after landing, want idle", p.State())
	}
	// floor top is y=80 and the player is 14 tall
	if y := p.Position().Y; math.Abs(y-73) > 1 {
		t.Fatalf("player rests at y=%v, want about 73", y)
	}
}

func TestPlayerRunsAndJumps(t *testing.T) {
	p, w := newTestPlayer(t, 0)
	for i := 0; i < 90; i++ {
		frame(p, w)
	}

	p.Input.MoveX = 1
	startX := p.Position().X
	for i := 0; i < 10; i++ {
		frame(p, w)
	}
	if p.State() != "running" {
		t.Fatalf("state %q while moving, want running", p.State())
	}
	if vx := p.body().Velocity().X; vx != 90 {
		t.Fatalf("vx = %v, want 90", vx)
	}
	if p.Position().X <= startX {
		t.Fatalf("player did not move right")
	}

	p.Input.MoveX = 0
	p.Input.JumpPressed = true
	frame(p, w)
	p.Input.JumpPressed = false
	if p.State() != "jumping" {
		t.Fatalf("state %q after jump, want jumping", p.State())
	}
	if vy := p.body().Velocity().Y; vy >= 0 {
		t.Fatalf("vy = %v after jump, want upward", vy)
	}

	for i := 0; i < 120; i++ {
		frame(p, w)
	}
	if p.State() != "idle" {
		t.Fatalf("state %q after jump settles, want idle", p.State())
	}
}

func TestPlayerBuildCooldown(t *testing.T) {
	p, w := newTestPlayer(t, 4)
	prop := newFakeProp(w.Space(), p.Position())
	registry := NewRegistry()
	registry.Push(prop)

	p.Input.BuildUp = true
	want := []int{1, 0, 0, 0, 0, 1}
	for i, n := range want {
		if got := p.Build(registry); got != n {
			t.Fatalf("frame %d: Build reached %d props, want %d", i, got, n)
		}
	}
	if prop.ups != 2 || prop.downs != 0 {
		t.Fatalf("prop built up %d and down %d times", prop.ups, prop.downs)
	}
}

func TestPlayerBuildDirection(t *testing.T) {
	cases := []struct {
		name      string
		up, down  bool
		wantUps   int
		wantDowns int
	}{
		{"none", false, false, 0, 0},
		{"both", true, true, 0, 0},
		{"up", true, false, 1, 0},
		{"down", false, true, 0, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, w := newTestPlayer(t, 0)
			near := newFakeProp(w.Space(), p.Position())
			far := newFakeProp(w.Space(), cp.Vector{X: 150, Y: 20})
			registry := NewRegistry()
			registry.Push(near)
			registry.Push(far)

			p.Input.BuildUp, p.Input.BuildDown = c.up, c.down
			p.Build(registry)
			if near.ups != c.wantUps || near.downs != c.wantDowns {
				t.Fatalf("near prop built up %d, down %d", near.ups, near.downs)
			}
			if far.ups != 0 || far.downs != 0 {
				t.Fatalf("far prop was built")
			}
		})
	}
}

func TestNewPlayerRejectsBadInput(t *testing.T) {
	if _, err := NewPlayer(nil, nil, cp.Vector{}, testPlayerSpec(0)); err == nil {
		t.Fatalf("expected error for nil world")
	}
	m, _ := levels.Parse([]byte(floorMap))
	spec := testPlayerSpec(0)
	spec.Width = 0
	if _, err := NewPlayer(physics.NewWorld(m), nil, cp.Vector{}, spec); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestPlayerStopsPushingIntoWall(t *testing.T) {
	p, w := newTestPlayer(t, 0)
	for i := 0; i < 90; i++ {
		frame(p, w)
	}

	p.Input.MoveX = 1
	touched := false
	for i := 0; i < 120 && !touched; i++ {
		frame(p, w)
		touched = w.Wall() == physics.WallRight
	}
	if !touched {
		t.Fatalf("player never reached the right bound, x=%v", p.Position().X)
	}

	p.Update()
	if vx := p.body().Velocity().X; vx != 0 {
		t.Fatalf("vx = %v while pushing into the wall, want 0", vx)
	}

	p.Input.MoveX = -1
	p.Update()
	if vx := p.body().Velocity().X; vx != -90 {
		t.Fatalf("vx = %v moving away from the wall, want -90", vx)
	}
}
