// Package vessel steers a ship with a turret gun by composing dual quaternion poses one tick at a time.
package vessel

import (
	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/dualpose/spatialmath"
	"go.viam.com/dualpose/utils"
)

// InputState is the operator input sampled for one tick. Pointer, when set, is a world point the gun
// should aim at.
type InputState struct {
	Left     bool
	Right    bool
	Forward  bool
	Backward bool
	Pointer  *r3.Vector
}

var (
	turnLeft  = spatialmath.NewDualQuaternionFromEulerVector(utils.DegToRad(1), 0, 0, r3.Vector{})
	turnRight = spatialmath.NewDualQuaternionFromEulerVector(utils.DegToRad(-1), 0, 0, r3.Vector{})
	moveAhead = spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: 1})
	moveBack  = spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: -1})

	// hull corners in the ship frame, in drawing order, closed back on the first corner
	hull = []spatialmath.DualQuaternion{
		spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: -15, Z: -10}),
		spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: 15, Z: -10}),
		spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: 30}),
		spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: 15, Z: 10}),
		spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: -15, Z: 10}),
		spatialmath.NewDualQuaternionFromTranslation(r3.Vector{X: -15, Z: -10}),
	}
)

// Ship is a hull at a world pose. Motion is applied in the ship's own frame.
type Ship struct {
	Pose spatialmath.DualQuaternion
}

// NewShip places a ship at the given pose.
func NewShip(pose spatialmath.DualQuaternion) Ship {
	return Ship{Pose: pose}
}

// Step turns by one degree and moves by one unit per held key, in the order left, right, forward, backward.
func (s Ship) Step(in InputState) Ship {
	pose := s.Pose
	if in.Left {
		pose = pose.Mul(turnLeft)
	}
	if in.Right {
		pose = pose.Mul(turnRight)
	}
	if in.Forward {
		pose = pose.Mul(moveAhead)
	}
	if in.Backward {
		pose = pose.Mul(moveBack)
	}
	return Ship{Pose: pose}
}

// Outline returns the closed hull polyline in world coordinates.
func (s Ship) Outline() []r3.Vector {
	return lo.Map(hull, func(corner spatialmath.DualQuaternion, _ int) r3.Vector {
		return s.Pose.Mul(corner).Vector()
	})
}
