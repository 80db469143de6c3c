package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
)

// ActorFactory instantiates actors by kind name: an enemy archetype, a
// powerup kind or "microchip".
type ActorFactory interface {
	Spawn(w *ecs.World, kind string, position cp.Vector) (ecs.Entity, error)
}

// Mover resolves a displacement against level geometry and reports whether
// the body ended the move standing on ground.
type Mover interface {
	Move(position, size, displacement cp.Vector, mask uint) (cp.Vector, bool)
}

// Probe reports whether solid geometry occupies point.
type Probe interface {
	Query(point cp.Vector, mask uint) bool
}

// Clock reports the elapsed encounter time in seconds.
type Clock interface {
	Elapsed() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Elapsed() float64 { return f() }

// WorldClock reads the simulation clock of w.
func WorldClock(w *ecs.World) Clock {
	return ClockFunc(func() float64 { return w.Time().Now })
}

// CameraMode selects how the stage camera moves.
type CameraMode int

const (
	CameraFollow CameraMode = iota
	CameraScripted
	CameraRunner
)

// Stage receives camera, bounds and scrolling commands from the director.
type Stage interface {
	SetCameraMode(mode CameraMode)
	SetRunnerBounds(enabled bool)
	SetScrolling(enabled bool)
	SetCameraSpeed(speed float64)
	CameraHalfWidth() float64
}

// NopStage ignores every command.
type NopStage struct {
	HalfWidth float64
}

func (NopStage) SetCameraMode(CameraMode)   {}
func (NopStage) SetRunnerBounds(bool)       {}
func (NopStage) SetScrolling(bool)          {}
func (NopStage) SetCameraSpeed(float64)     {}
func (s NopStage) CameraHalfWidth() float64 { return s.HalfWidth }

// openGround is the fallback used when no geometry is wired: nothing blocks
// and nothing counts as ground.
type openGround struct{}

func (openGround) Move(position, _, displacement cp.Vector, _ uint) (cp.Vector, bool) {
	return position.Add(displacement), false
}

func (openGround) Query(cp.Vector, uint) bool { return false }
