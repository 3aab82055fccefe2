package obj

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the actions polled this frame.
type Input struct {
	// MoveX is -1 for left, 0 for none, +1 for right.
	MoveX float64
	// JumpPressed is true on the frame the jump key is pressed.
	JumpPressed bool
	// BuildUp and BuildDown are true while the knit keys are held.
	BuildUp   bool
	BuildDown bool
	// PausePressed toggles the pause menu.
	PausePressed bool
	// DebugPressed toggles the physics overlay.
	DebugPressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls keyboard and the first gamepad.
func (i *Input) Update() {
	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}

	var gpJump, gpUp, gpDown, gpPause bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 {
			moveX = -1
		} else if leftX > 0.3 {
			moveX = 1
		}
		gpJump = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpUp = ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
		gpDown = ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomLeft)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.MoveX = moveX
	i.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || gpJump
	i.BuildUp = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) || gpUp
	i.BuildDown = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) || gpDown
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF3)
}
