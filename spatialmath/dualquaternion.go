// Package spatialmath defines quaternion and dual quaternion algebra for composing 3D rotations and
// rigid transforms.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dual"
	"gonum.org/v1/gonum/num/dualquat"
)

// DualQuaternion is an immutable pair (real, dual) of quaternions. A proper one encodes a rigid transform:
// the real part is the unit rotation, and the dual part is 0.5 * t * real for the translation t.
type DualQuaternion struct {
	num dualquat.Number
}

// NewDualQuaternion packs two quaternions as given. Nothing couples them, so the result is only a proper
// rigid transform if the caller ensures it; prefer NewDualQuaternionFromEulerVector.
func NewDualQuaternion(r, d Quaternion) DualQuaternion {
	return DualQuaternion{dualquat.Number{Real: r.num, Dual: d.num}}
}

// NewDualQuaternionFromNumber wraps a gonum dual quaternion.
func NewDualQuaternionFromNumber(dq dualquat.Number) DualQuaternion {
	return DualQuaternion{dq}
}

// IdentityDualQuaternion returns (1, 0, 0, 0, 0, 0, 0, 0), no rotation and no translation.
// The zero value of DualQuaternion is all zeroes and is not a transform, so use this instead.
func IdentityDualQuaternion() DualQuaternion {
	return NewDualQuaternion(IdentityQuaternion(), Quaternion{})
}

// NewDualQuaternionFromEulerVector returns the proper dual quaternion rotating by yaw, pitch and roll
// (radians, see EulerAngles for the order) and translating by t.
func NewDualQuaternionFromEulerVector(yaw, pitch, roll float64, t r3.Vector) DualQuaternion {
	rot := NewQuaternionFromEuler(yaw, pitch, roll)
	return NewDualQuaternion(rot, NewQuaternion(0, t.X, t.Y, t.Z).Mul(rot).Scale(0.5))
}

// NewDualQuaternionFromPose is NewDualQuaternionFromEulerVector for a Pose.
func NewDualQuaternionFromPose(p Pose) DualQuaternion {
	return NewDualQuaternionFromEulerVector(p.Orientation.Yaw, p.Orientation.Pitch, p.Orientation.Roll, p.Point)
}

// NewDualQuaternionFromRotation returns a rotation with no translation. It is proper when q is a unit quaternion.
func NewDualQuaternionFromRotation(q Quaternion) DualQuaternion {
	return NewDualQuaternion(q, Quaternion{})
}

// NewDualQuaternionFromTranslation returns a pure translation by t.
func NewDualQuaternionFromTranslation(t r3.Vector) DualQuaternion {
	return NewDualQuaternionFromEulerVector(0, 0, 0, t)
}

// Real returns the rotation part.
func (dq DualQuaternion) Real() Quaternion {
	return Quaternion{dq.num.Real}
}

// Dual returns the dual part.
func (dq DualQuaternion) Dual() Quaternion {
	return Quaternion{dq.num.Dual}
}

// Number returns the dual quaternion as a gonum dualquat.Number.
func (dq DualQuaternion) Number() dualquat.Number {
	return dq.num
}

// Components returns the eight components, real part first.
func (dq DualQuaternion) Components() [8]float64 {
	r, d := dq.num.Real, dq.num.Dual
	return [8]float64{r.Real, r.Imag, r.Jmag, r.Kmag, d.Real, d.Imag, d.Jmag, d.Kmag}
}

// Pose recovers the orientation from the real part and the translation as the vector part of 2 * dual * real'.
func (dq DualQuaternion) Pose() Pose {
	rot := dq.Real()
	return Pose{
		Orientation: rot.EulerAngles(),
		Point:       dq.Dual().Scale(2).Mul(rot.Conjugate()).Vector(),
	}
}

// EulerVector returns [yaw, pitch, roll, x, y, z].
func (dq DualQuaternion) EulerVector() [6]float64 {
	return dq.Pose().EulerVector()
}

// Vector returns only the translation.
func (dq DualQuaternion) Vector() r3.Vector {
	return dq.Pose().Point
}

// Norm returns the dual number |real|^2 + 2 * dot(real, dual) e. The dual (Emag) part is the cross term,
// not |dual|^2, and must not be discarded when the value is used further.
func (dq DualQuaternion) Norm() dual.Number {
	rot := dq.Real()
	return dual.Number{
		Real: rot.Norm(),
		Emag: 2 * rot.Dot(dq.Dual()),
	}
}

// Mod returns the dual square root of Norm, (sqrt(n0), n1 / (2 sqrt(n0))).
// It is non-finite when the real part is zero.
func (dq DualQuaternion) Mod() dual.Number {
	return dual.Sqrt(dq.Norm())
}

// Conjugate negates the vector parts of both quaternions: (w0, -x0, -y0, -z0, w1, -x1, -y1, -z1).
func (dq DualQuaternion) Conjugate() DualQuaternion {
	return NewDualQuaternion(dq.Real().Conjugate(), dq.Dual().Conjugate())
}

// CombinedConjugate is the quaternion conjugate combined with the dual conjugate, real' - dual' e.
// Sandwiching a point between a proper dual quaternion and its combined conjugate transforms the point.
func (dq DualQuaternion) CombinedConjugate() DualQuaternion {
	return NewDualQuaternion(dq.Real().Conjugate(), dq.Dual().Conjugate().Scale(-1))
}

// Scale multiplies by the dual number a + b e: (a + b e)(r + d e) = a r + (a d + b r) e.
func (dq DualQuaternion) Scale(by dual.Number) DualQuaternion {
	r, d := dq.Real(), dq.Dual()
	return NewDualQuaternion(
		r.Scale(by.Real),
		d.Scale(by.Real).Add(r.Scale(by.Emag)),
	)
}

// Inverse returns the dual number reciprocal of Norm applied to Conjugate. For a proper dual quaternion
// this equals Conjugate, but any dual quaternion with a nonzero real part inverts correctly.
// A zero real part yields non-finite components.
func (dq DualQuaternion) Inverse() DualQuaternion {
	return dq.Conjugate().Scale(dual.Inv(dq.Norm()))
}

// Mul returns the product dq * other: real = r1 r2, dual = r1 d2 + d1 r2. The product is not commutative;
// a.Mul(b) is the transform b expressed inside the frame of a, so the relative pose of b seen from a
// is a.Inverse().Mul(b).
func (dq DualQuaternion) Mul(other DualQuaternion) DualQuaternion {
	r1, d1 := dq.Real(), dq.Dual()
	r2, d2 := other.Real(), other.Dual()
	return NewDualQuaternion(
		r1.Mul(r2),
		r1.Mul(d2).Add(d1.Mul(r2)),
	)
}

// TransformVector rotates and then translates v by this transform, computing
// dq * (1 + v e) * dq^, where dq^ is the combined conjugate, and returning the dual vector part.
func (dq DualQuaternion) TransformVector(v r3.Vector) r3.Vector {
	point := NewDualQuaternion(IdentityQuaternion(), NewQuaternion(0, v.X, v.Y, v.Z))
	return dq.Mul(point).Mul(dq.CombinedConjugate()).Dual().Vector()
}

// Matrix returns the homogeneous transform matrix, translation applied after rotation.
func (dq DualQuaternion) Matrix() mgl64.Mat4 {
	t := dq.Vector()
	return mgl64.Translate3D(t.X, t.Y, t.Z).Mul4(dq.Real().RotationMatrix())
}

// IsProper reports whether the real part has unit norm and real * dual' + dual * real' vanishes, both within tol.
func (dq DualQuaternion) IsProper(tol float64) bool {
	r, d := dq.Real(), dq.Dual()
	if math.Abs(r.Norm()-1) > tol {
		return false
	}
	orth := r.Mul(d.Conjugate()).Add(d.Mul(r.Conjugate()))
	return orth.AlmostEqual(Quaternion{}, tol)
}

// IsFinite reports whether all eight components are finite.
func (dq DualQuaternion) IsFinite() bool {
	return dq.Real().IsFinite() && dq.Dual().IsFinite()
}

// AlmostEqual compares all eight components within tol.
func (dq DualQuaternion) AlmostEqual(other DualQuaternion, tol float64) bool {
	return dq.Real().AlmostEqual(other.Real(), tol) && dq.Dual().AlmostEqual(other.Dual(), tol)
}

func (dq DualQuaternion) String() string {
	return fmt.Sprintf("[%v, %v]", dq.Real(), dq.Dual())
}

// RelativePose returns the pose of b expressed in the frame of a, a^-1 * b.
func RelativePose(a, b DualQuaternion) DualQuaternion {
	return a.Inverse().Mul(b)
}

// Compose chains transforms left to right, Compose(a, b, c) = a * b * c.
func Compose(dqs ...DualQuaternion) DualQuaternion {
	out := IdentityDualQuaternion()
	for _, dq := range dqs {
		out = out.Mul(dq)
	}
	return out
}
