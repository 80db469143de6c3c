package obj

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs/system"
)

// Camera maps the y-up world onto the screen and carries out the director's
// stage commands. Positions are world units.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	scale   float64

	// smoothing factor (0..1). higher -> faster follow. e.g. 0.15
	smooth float64

	mode         system.CameraMode
	panTarget    cp.Vector
	runnerBounds bool
	scrolling    bool
	speed        float64

	// horizontal world bounds (minX == maxX means unbounded)
	minX float64
	maxX float64
}

var _ system.Stage = (*Camera)(nil)

// NewCamera creates a camera for a logical screen size and a pixels per
// world unit scale.
func NewCamera(screenW, screenH int, scale float64) *Camera {
	if scale <= 0 {
		scale = 1
	}
	return &Camera{screenW: screenW, screenH: screenH, scale: scale, smooth: 0.15}
}

// SetWorldBounds clamps the follow camera to [minX, maxX] horizontally.
func (c *Camera) SetWorldBounds(minX, maxX float64) {
	c.minX = minX
	c.maxX = maxX
}

func (c *Camera) SetSmooth(f float64) {
	if f < 0 {
		f = 0
	}
	c.smooth = f
}

// SetPanTarget is where the scripted camera pans to.
func (c *Camera) SetPanTarget(target cp.Vector) {
	c.panTarget = target
}

func (c *Camera) SetCameraMode(mode system.CameraMode) { c.mode = mode }
func (c *Camera) SetRunnerBounds(enabled bool)         { c.runnerBounds = enabled }
func (c *Camera) SetScrolling(enabled bool)            { c.scrolling = enabled }
func (c *Camera) SetCameraSpeed(speed float64)         { c.speed = speed }

func (c *Camera) Mode() system.CameraMode { return c.mode }

// CameraHalfWidth is half the visible width in world units.
func (c *Camera) CameraHalfWidth() float64 {
	return float64(c.screenW) / c.scale / 2
}

// Update moves the camera for one fixed tick. Follow mode tracks target,
// scripted mode pans to the pan target and runner mode scrolls right at the
// camera speed.
func (c *Camera) Update(target cp.Vector, dt float64) {
	switch c.mode {
	case system.CameraFollow:
		c.approach(target)
	case system.CameraScripted:
		c.approach(c.panTarget)
	case system.CameraRunner:
		if c.scrolling {
			c.PosX += c.speed * dt
		}
		c.PosY += (target.Y - c.PosY) * c.smooth
	}

	// runner bounds free the right edge
	if c.maxX > c.minX && !c.runnerBounds {
		half := c.CameraHalfWidth()
		lo, hi := c.minX+half, c.maxX-half
		if hi < lo {
			c.PosX = (c.minX + c.maxX) / 2
		} else {
			c.PosX = math.Max(lo, math.Min(hi, c.PosX))
		}
	}
}

func (c *Camera) approach(target cp.Vector) {
	if c.smooth <= 0 {
		c.PosX = target.X
		c.PosY = target.Y
		return
	}
	c.PosX += (target.X - c.PosX) * c.smooth
	c.PosY += (target.Y - c.PosY) * c.smooth
}

// SnapTo immediately centers the camera on p.
func (c *Camera) SnapTo(p cp.Vector) {
	c.PosX = p.X
	c.PosY = p.Y
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera) WorldToScreen(p cp.Vector) (float64, float64) {
	x := (p.X-c.PosX)*c.scale + float64(c.screenW)/2
	y := float64(c.screenH)/2 - (p.Y-c.PosY)*c.scale
	return x, y
}

// ScreenToWorld converts screen pixels to a world point.
func (c *Camera) ScreenToWorld(x, y float64) cp.Vector {
	return cp.Vector{
		X: c.PosX + (x-float64(c.screenW)/2)/c.scale,
		Y: c.PosY - (y-float64(c.screenH)/2)/c.scale,
	}
}

func (c *Camera) Scale() float64 { return c.scale }
