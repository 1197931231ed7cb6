package vessel

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/dualpose/spatialmath"
	"go.viam.com/dualpose/utils"
)

// aimTolerance bounds how close a target may sit to the mount, or to straight behind the barrel,
// before aiming is refused.
const aimTolerance = 1e-9

var barrel = spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: 20})

// Gun is a turret fixed to a ship at Mount. Aim is the turret rotation relative to the mount.
type Gun struct {
	Mount spatialmath.DualQuaternion
	Aim   spatialmath.DualQuaternion
}

// NewGun mounts an unrotated gun at the given offset from the ship origin.
func NewGun(mount r3.Vector) Gun {
	return Gun{
		Mount: spatialmath.NewDualQuaternionFromTranslation(mount),
		Aim:   spatialmath.IdentityDualQuaternion(),
	}
}

// Base returns the world pose of the mount.
func (g Gun) Base(ship Ship) spatialmath.DualQuaternion {
	return ship.Pose.Mul(g.Mount)
}

// WorldPose returns the world pose of the rotated turret.
func (g Gun) WorldPose(ship Ship) spatialmath.DualQuaternion {
	return g.Base(ship).Mul(g.Aim)
}

// AimAt rotates the turret so the barrel points at target, a world point. It reports false and keeps
// the previous aim when the target is at the mount or straight behind the mount's forward axis, where
// the rotation is undefined.
func (g Gun) AimAt(ship Ship, target r3.Vector) (Gun, bool) {
	rel := spatialmath.RelativePose(g.Base(ship), spatialmath.NewDualQuaternionFromTranslation(target)).Vector()
	if !utils.IsFinite(rel.X, rel.Y, rel.Z) || rel.Norm() < aimTolerance {
		return g, false
	}
	along := barrel.Vector()
	if math.Abs(along.Normalize().Dot(rel.Normalize())+1) < aimTolerance {
		return g, false
	}

	rot := spatialmath.NewQuaternionBetweenVectors(along, rel)
	return Gun{Mount: g.Mount, Aim: spatialmath.NewDualQuaternionFromRotation(rot)}, true
}

// Segment returns the world positions of the barrel base and tip.
func (g Gun) Segment(ship Ship) (base, tip r3.Vector) {
	world := g.WorldPose(ship)
	return world.Vector(), world.Mul(barrel).Vector()
}
