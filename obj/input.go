package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs/component"
)

const stickDeadZone = 0.3

// Input polls keyboard, mouse and the first gamepad into a normalized
// intent.
type Input struct {
	camera *Camera

	// Quit is true on the frame the quit key was pressed.
	Quit bool
	// Reload is true on the frame the reload key was pressed.
	Reload bool
}

func NewInput(camera *Camera) *Input {
	return &Input{camera: camera}
}

// Poll reads the devices for this tick. origin is the player position used
// to turn the cursor into an aim direction.
func (i *Input) Poll(origin cp.Vector) component.Intent {
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyF12)
	i.Reload = inpututil.IsKeyJustPressed(ebiten.KeyF5)

	var intent component.Intent
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		intent.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		intent.MoveX += 1
	}
	intent.Run = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	intent.Jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	intent.Fire = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	intent.Secondary = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	if i.camera != nil {
		mx, my := ebiten.CursorPosition()
		aim := i.camera.ScreenToWorld(float64(mx), float64(my)).Sub(origin)
		if aim.Length() > 0 {
			aim = aim.Normalize()
			intent.AimX, intent.AimY = aim.X, aim.Y
		}
	}

	ids := ebiten.GamepadIDs()
	if len(ids) == 0 {
		return intent
	}
	gid := ids[0]

	leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
	if leftX < -stickDeadZone {
		intent.MoveX = -1
	} else if leftX > stickDeadZone {
		intent.MoveX = 1
	}
	intent.Jump = intent.Jump || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	intent.Run = intent.Run || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightLeft)
	intent.Fire = intent.Fire || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
	intent.Secondary = intent.Secondary || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomLeft)

	// right stick aims; screen y points down
	rx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickHorizontal)
	ry := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickVertical)
	if mag := math.Hypot(rx, ry); mag > stickDeadZone {
		intent.AimX, intent.AimY = rx/mag, -ry/mag
	}
	return intent
}
