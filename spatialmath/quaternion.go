package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is an immutable w + xi + yj + zk. Restricted to unit norm it represents a rotation.
// Every operation returns a new value; nothing mutates the receiver.
type Quaternion struct {
	num quat.Number
}

// NewQuaternion returns the quaternion w + xi + yj + zk.
func NewQuaternion(w, x, y, z float64) Quaternion {
	return Quaternion{quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}
}

// NewQuaternionFromNumber wraps a gonum quaternion.
func NewQuaternionFromNumber(q quat.Number) Quaternion {
	return Quaternion{q}
}

// IdentityQuaternion returns (1, 0, 0, 0), the rotation that does nothing.
func IdentityQuaternion() Quaternion {
	return Quaternion{quat.Number{Real: 1}}
}

// NewQuaternionFromEuler returns the unit quaternion for the given yaw, pitch and roll in radians.
// The rotations are applied in the body-fixed order Y (yaw, about the up axis), then Z (pitch),
// then X (roll, about the forward axis). The result is q_yaw * q_pitch * q_roll.
func NewQuaternionFromEuler(yaw, pitch, roll float64) Quaternion {
	sPsi, cPsi := math.Sincos(yaw * 0.5)
	sTheta, cTheta := math.Sincos(pitch * 0.5)
	sGamma, cGamma := math.Sincos(roll * 0.5)

	return NewQuaternion(
		cPsi*cTheta*cGamma-sPsi*sTheta*sGamma,
		cPsi*cTheta*sGamma+sPsi*sTheta*cGamma,
		cPsi*sTheta*sGamma+sPsi*cTheta*cGamma,
		cPsi*sTheta*cGamma-sPsi*cTheta*sGamma,
	)
}

// NewQuaternionBetweenVectors returns the unit quaternion rotating the direction of u onto the
// direction of v, built from the half-way construction w = dot + sqrt(dot^2 + |cross|^2).
// The result is undefined when u and v point in exactly opposite directions, since the rotation
// axis is then underdetermined; callers that can produce such input must check for it first.
func NewQuaternionBetweenVectors(u, v r3.Vector) Quaternion {
	dot := u.Dot(v)
	cross := u.Cross(v)
	return NewQuaternion(
		dot+math.Sqrt(dot*dot+cross.Norm2()),
		cross.X,
		cross.Y,
		cross.Z,
	).Normalize()
}

// W returns the scalar part.
func (q Quaternion) W() float64 { return q.num.Real }

// X returns the i component.
func (q Quaternion) X() float64 { return q.num.Imag }

// Y returns the j component.
func (q Quaternion) Y() float64 { return q.num.Jmag }

// Z returns the k component.
func (q Quaternion) Z() float64 { return q.num.Kmag }

// Number returns the quaternion as a gonum quat.Number.
func (q Quaternion) Number() quat.Number {
	return q.num
}

// Vector returns the vector (imaginary) part.
func (q Quaternion) Vector() r3.Vector {
	return r3.Vector{X: q.num.Imag, Y: q.num.Jmag, Z: q.num.Kmag}
}

// EulerAngles converts a unit quaternion back to yaw, pitch and roll using the same Y-Z-X order as
// NewQuaternionFromEuler. Near gimbal lock the pitch argument can drift outside [-1, 1], so it is
// clamped and pitch saturates at +/- pi/2.
func (q Quaternion) EulerAngles() EulerAngles {
	w, x, y, z := q.num.Real, q.num.Imag, q.num.Jmag, q.num.Kmag

	sinPsi := -2 * (x*z - w*y)
	cosPsi := w*w + x*x - y*y - z*z

	sinTheta := clamp(2*(x*y+w*z), -1, 1)

	sinGamma := -2 * (y*z - w*x)
	cosGamma := w*w - x*x + y*y - z*z

	return EulerAngles{
		Yaw:   math.Atan2(sinPsi, cosPsi),
		Pitch: math.Asin(sinTheta),
		Roll:  math.Atan2(sinGamma, cosGamma),
	}
}

// Mul returns the Hamilton product q * other. The product is not commutative.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{quat.Mul(q.num, other.num)}
}

// Add returns the componentwise sum.
func (q Quaternion) Add(other Quaternion) Quaternion {
	return Quaternion{quat.Add(q.num, other.num)}
}

// Scale multiplies every component by f.
func (q Quaternion) Scale(f float64) Quaternion {
	return Quaternion{quat.Scale(f, q.num)}
}

// Conjugate negates the vector part and keeps the scalar.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{quat.Conj(q.num)}
}

// Norm returns the sum of squares of all four components. Note this is the squared length,
// use Mod for the length itself.
func (q Quaternion) Norm() float64 {
	return q.num.Real*q.num.Real + q.num.Imag*q.num.Imag + q.num.Jmag*q.num.Jmag + q.num.Kmag*q.num.Kmag
}

// Mod returns the length of the quaternion, sqrt(Norm()).
func (q Quaternion) Mod() float64 {
	return math.Sqrt(q.Norm())
}

// Normalize divides every component by Mod. The zero quaternion yields NaN components.
func (q Quaternion) Normalize() Quaternion {
	m := q.Mod()
	return NewQuaternion(q.num.Real/m, q.num.Imag/m, q.num.Jmag/m, q.num.Kmag/m)
}

// Inverse returns Conjugate() / Norm(), so that q * q^-1 = q^-1 * q = 1 for any nonzero q.
// The zero quaternion yields non-finite components.
func (q Quaternion) Inverse() Quaternion {
	n := q.Norm()
	return NewQuaternion(q.num.Real/n, -q.num.Imag/n, -q.num.Jmag/n, -q.num.Kmag/n)
}

// Dot returns the four dimensional dot product of q and other.
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.num.Real*other.num.Real + q.num.Imag*other.num.Imag + q.num.Jmag*other.num.Jmag + q.num.Kmag*other.num.Kmag
}

// RotateVector computes q * (0, v) * q' and returns the vector part.
// q must be a unit quaternion for this to be a rigid rotation; it is not renormalized here.
func (q Quaternion) RotateVector(v r3.Vector) r3.Vector {
	pure := NewQuaternion(0, v.X, v.Y, v.Z)
	return q.Mul(pure).Mul(q.Conjugate()).Vector()
}

// RotationMatrix returns the homogeneous rotation matrix of a unit quaternion.
func (q Quaternion) RotationMatrix() mgl64.Mat4 {
	return mgl64.Quat{W: q.num.Real, V: mgl64.Vec3{q.num.Imag, q.num.Jmag, q.num.Kmag}}.Mat4()
}

// IsFinite reports whether every component is neither NaN nor infinite. Singular inputs to
// Normalize and Inverse propagate as non-finite values, which this detects.
func (q Quaternion) IsFinite() bool {
	return !quat.IsNaN(q.num) && !quat.IsInf(q.num)
}

// AlmostEqual compares componentwise within tol.
func (q Quaternion) AlmostEqual(other Quaternion, tol float64) bool {
	return QuaternionAlmostEqual(q.num, other.num, tol)
}

func (q Quaternion) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", q.num.Real, q.num.Imag, q.num.Jmag, q.num.Kmag)
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double coverage,
// q and -q represent the same rotation, but this compares components only.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) <= tol &&
		math.Abs(a.Imag-b.Imag) <= tol &&
		math.Abs(a.Jmag-b.Jmag) <= tol &&
		math.Abs(a.Kmag-b.Kmag) <= tol
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
