package spatialmath

import (
	"go.viam.com/dualpose/utils"
)

// EulerAngles are three sequential body-fixed rotations in radians, applied yaw first (about Y, up),
// then pitch (about Z), then roll (about X, forward).
// This order is not the common roll/pitch/yaw convention, so angles are not interchangeable with
// angles produced by other libraries.
type EulerAngles struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// NewEulerAnglesDegrees builds EulerAngles from degrees.
func NewEulerAnglesDegrees(yaw, pitch, roll float64) EulerAngles {
	return EulerAngles{
		Yaw:   utils.DegToRad(yaw),
		Pitch: utils.DegToRad(pitch),
		Roll:  utils.DegToRad(roll),
	}
}

// Quaternion returns the unit quaternion for these angles.
func (ea EulerAngles) Quaternion() Quaternion {
	return NewQuaternionFromEuler(ea.Yaw, ea.Pitch, ea.Roll)
}

// Degrees returns a copy of the angles converted to degrees, for display.
func (ea EulerAngles) Degrees() EulerAngles {
	return EulerAngles{
		Yaw:   utils.RadToDeg(ea.Yaw),
		Pitch: utils.RadToDeg(ea.Pitch),
		Roll:  utils.RadToDeg(ea.Roll),
	}
}

// AlmostEqual compares each angle within tol. It does not account for wraparound at +/- pi.
func (ea EulerAngles) AlmostEqual(other EulerAngles, tol float64) bool {
	return utils.Float64AlmostEqual(ea.Yaw, other.Yaw, tol) &&
		utils.Float64AlmostEqual(ea.Pitch, other.Pitch, tol) &&
		utils.Float64AlmostEqual(ea.Roll, other.Roll, tol)
}
