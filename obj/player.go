package obj

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
	"github.com/milk9111/fibers/render"
	"golang.org/x/image/colornames"
)

// playerState is the interface each concrete player state implements.
type playerState interface {
	Enter(p *Player)
	HandleInput(p *Player)
	OnPhysics(p *Player)
	Name() string
}

func (p *Player) setState(s playerState) {
	p.state = s
	p.state.Enter(p)
}

type idleState struct{}

func (idleState) Name() string    { return "idle" }
func (idleState) Enter(p *Player) {}
func (idleState) HandleInput(p *Player) {
	if p.Input.JumpPressed && p.world.Grounded() {
		p.setState(stateJumping)
		return
	}
	if p.Input.MoveX != 0 {
		p.setState(stateRunning)
	}
}
func (idleState) OnPhysics(p *Player) {
	if !p.world.Grounded() {
		p.setState(stateFalling)
	}
}

type runningState struct{}

func (runningState) Name() string    { return "running" }
func (runningState) Enter(p *Player) {}
func (runningState) HandleInput(p *Player) {
	if p.Input.JumpPressed && p.world.Grounded() {
		p.setState(stateJumping)
		return
	}
	if p.Input.MoveX == 0 {
		p.setState(stateIdle)
	}
}
func (runningState) OnPhysics(p *Player) {
	if !p.world.Grounded() {
		p.setState(stateFalling)
	}
}

type jumpingState struct{}

func (jumpingState) Name() string { return "jumping" }
func (jumpingState) Enter(p *Player) {
	v := p.body().Velocity()
	p.body().SetVelocity(v.X, -p.jumpSpeed)
}
func (jumpingState) HandleInput(p *Player) {}
func (jumpingState) OnPhysics(p *Player) {
	if p.body().Velocity().Y > 0 {
		p.setState(stateFalling)
	}
}

type fallingState struct{}

func (fallingState) Name() string          { return "falling" }
func (fallingState) Enter(p *Player)       {}
func (fallingState) HandleInput(p *Player) {}
func (fallingState) OnPhysics(p *Player) {
	if p.world.Grounded() {
		if p.Input.MoveX != 0 {
			p.setState(stateRunning)
		} else {
			p.setState(stateIdle)
		}
	}
}

var (
	stateIdle    playerState = &idleState{}
	stateRunning playerState = &runningState{}
	stateJumping playerState = &jumpingState{}
	stateFalling playerState = &fallingState{}
)

// Player walks, jumps, and knits props it overlaps.
type Player struct {
	Input *Input

	world     *physics.World
	construct *Construct
	shape     *cp.Shape
	state     playerState

	moveSpeed      float64
	jumpSpeed      float64
	cooldownFrames int
	buildCooldown  int
}

func NewPlayer(world *physics.World, input *Input, spawn cp.Vector, spec prefabs.PlayerSpec) (*Player, error) {
	if world == nil {
		return nil, fmt.Errorf("player: nil world")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("player: invalid size %vx%v", spec.Width, spec.Height)
	}
	if input == nil {
		input = NewInput()
	}

	body, shape := world.AttachPlayer(spec.Width, spec.Height, spawn)
	sprite := render.NewSprite(render.SpriteOptions{
		Width:  spec.Width,
		Height: spec.Height,
		Color:  spec.Color.ColorOr(colornames.Steelblue),
	})
	p := &Player{
		Input:          input,
		world:          world,
		construct:      NewConstruct(sprite, body, spawn),
		shape:          shape,
		state:          stateFalling,
		moveSpeed:      spec.MoveSpeed,
		jumpSpeed:      spec.JumpSpeed,
		cooldownFrames: spec.BuildCooldownFrames,
	}
	return p, nil
}

func (p *Player) body() *cp.Body { return p.construct.Body }

// Update applies this frame's input. Call before stepping the world.
func (p *Player) Update() {
	p.state.HandleInput(p)
	v := p.body().Velocity()
	vx := p.Input.MoveX * p.moveSpeed
	if p.pushingWall() {
		vx = 0
	}
	p.body().SetVelocity(vx, v.Y)
}

// pushingWall reports whether input points into the wall the player
// touched during the last step.
func (p *Player) pushingWall() bool {
	switch p.world.Wall() {
	case physics.WallLeft:
		return p.Input.MoveX < 0
	case physics.WallRight:
		return p.Input.MoveX > 0
	}
	return false
}

// OnPhysics advances state transitions that depend on the last step.
func (p *Player) OnPhysics() {
	p.state.OnPhysics(p)
}

// Build knits every overlapped prop up or down, at most once per cooldown
// window while a knit key is held. It returns how many props it reached.
func (p *Player) Build(registry *Registry) int {
	if p.buildCooldown > 0 {
		p.buildCooldown--
		return 0
	}
	up, down := p.Input.BuildUp, p.Input.BuildDown
	if up == down {
		return 0
	}
	targets := registry.Overlapping(p.shape)
	for _, t := range targets {
		if up {
			t.BuildUp()
		} else {
			t.BuildDown()
		}
	}
	if len(targets) > 0 {
		p.buildCooldown = p.cooldownFrames
	}
	return len(targets)
}

func (p *Player) State() string { return p.state.Name() }

func (p *Player) Position() cp.Vector { return p.construct.Position() }

func (p *Player) Shape() *cp.Shape { return p.shape }

func (p *Player) Draw(canvas render.Canvas, offset cp.Vector) {
	p.construct.Draw(canvas, offset)
}

// Retune applies a reloaded player spec. Size changes need a new level.
func (p *Player) Retune(spec prefabs.PlayerSpec) {
	p.moveSpeed = spec.MoveSpeed
	p.jumpSpeed = spec.JumpSpeed
	p.cooldownFrames = spec.BuildCooldownFrames
	p.construct.Sprite.Color = spec.Color.ColorOr(p.construct.Sprite.Color)
}
