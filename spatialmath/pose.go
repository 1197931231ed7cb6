package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/dualpose/utils"
)

// Pose is the human readable payload of a rigid transform: an orientation and a position.
type Pose struct {
	Orientation EulerAngles `json:"orientation"`
	Point       r3.Vector   `json:"point"`
}

// NewPose returns a pose with the given orientation and position.
func NewPose(point r3.Vector, orientation EulerAngles) Pose {
	return Pose{Orientation: orientation, Point: point}
}

// NewPoseFromEulerVector unpacks [yaw, pitch, roll, x, y, z].
func NewPoseFromEulerVector(ev [6]float64) Pose {
	return Pose{
		Orientation: EulerAngles{Yaw: ev[0], Pitch: ev[1], Roll: ev[2]},
		Point:       r3.Vector{X: ev[3], Y: ev[4], Z: ev[5]},
	}
}

// DualQuaternion encodes the pose.
func (p Pose) DualQuaternion() DualQuaternion {
	return NewDualQuaternionFromPose(p)
}

// EulerVector packs the pose as [yaw, pitch, roll, x, y, z].
func (p Pose) EulerVector() [6]float64 {
	return [6]float64{
		p.Orientation.Yaw, p.Orientation.Pitch, p.Orientation.Roll,
		p.Point.X, p.Point.Y, p.Point.Z,
	}
}

func (p Pose) String() string {
	deg := p.Orientation.Degrees()
	return fmt.Sprintf("{yaw: %.2f, pitch: %.2f, roll: %.2f, x: %.2f, y: %.2f, z: %.2f}",
		deg.Yaw, deg.Pitch, deg.Roll, p.Point.X, p.Point.Y, p.Point.Z)
}

// PoseAlmostEqual compares the angles and points of two poses within tol.
func PoseAlmostEqual(a, b Pose, tol float64) bool {
	return a.Orientation.AlmostEqual(b.Orientation, tol) && R3VectorAlmostEqual(a.Point, b.Point, tol)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if all elements are approximately equal.
func R3VectorAlmostEqual(a, b r3.Vector, tol float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, tol) &&
		utils.Float64AlmostEqual(a.Y, b.Y, tol) &&
		utils.Float64AlmostEqual(a.Z, b.Z, tol)
}
