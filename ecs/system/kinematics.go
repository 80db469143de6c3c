package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// Integrate advances body velocity by one tick and returns the displacement
// to hand to the mover. intent is clamped to [-1, 1].
func Integrate(body *component.Body, motion *component.Motion, intent float64, grounded bool, dt float64) cp.Vector {
	if body == nil || motion == nil || dt <= 0 {
		return cp.Vector{}
	}

	if body.Override {
		body.Override = false
		return body.Velocity.Mult(dt)
	}

	damping := motion.InAirDamping
	if grounded {
		damping = motion.GroundDamping
	}
	multiplier := motion.SpeedMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	target := common.Clamp(intent, -1, 1) * motion.TargetSpeed * multiplier
	body.Velocity.X = common.Lerp(body.Velocity.X, target, common.Clamp01(damping*dt))

	body.Velocity.Y += motion.Gravity * dt
	if grounded {
		body.Velocity.Y = 0
	}

	return body.Velocity.Mult(dt)
}

const blockEpsilon = 1e-6

// KinematicsSystem integrates every body with motion tuning and moves it
// through the mover. Bodies without intent integrate with zero intent.
type KinematicsSystem struct {
	mover Mover
}

func NewKinematicsSystem(mover Mover) *KinematicsSystem {
	if mover == nil {
		mover = openGround{}
	}
	return &KinematicsSystem{mover: mover}
}

func (s *KinematicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.MotionComponent.Kind(), func(e ecs.Entity, body *component.Body, motion *component.Motion) {
		intent := 0.0
		if in, ok := ecs.Get(w, e, component.IntentComponent.Kind()); ok {
			intent = in.MoveX
		}
		displacement := Integrate(body, motion, intent, body.Grounded, dt)
		wanted := body.Position.Add(displacement)
		body.Position, body.Grounded = s.mover.Move(body.Position, body.Size, displacement, body.Mask)

		// Blocked axes lose their speed.
		if math.Abs(body.Position.X-wanted.X) > blockEpsilon {
			body.Velocity.X = 0
		}
		if math.Abs(body.Position.Y-wanted.Y) > blockEpsilon {
			body.Velocity.Y = 0
		}
	})
}
