package geometry

import "github.com/go-gl/mathgl/mgl64"

// Transform is a local-to-world placement: scale, then rotate, then translate.
type Transform struct {
	Position Vector3
	Rotation mgl64.Quat
	Scale    Vector3
}

// IdentityTransform returns a transform that leaves points unchanged
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    NewVector3(1, 1, 1),
	}
}

// NewTransform creates a transform from position, rotation and scale
func NewTransform(position Vector3, rotation mgl64.Quat, scale Vector3) Transform {
	return Transform{Position: position, Rotation: rotation.Normalize(), Scale: scale}
}

// rotation returns the normalized rotation, treating the zero value as identity
func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation.Normalize()
}

// scale returns the scale, treating the zero value as unit scale
func (t Transform) scale() Vector3 {
	if t.Scale == (Vector3{}) {
		return NewVector3(1, 1, 1)
	}
	return t.Scale
}

// TransformPoint converts a local-space point to world space
func (t Transform) TransformPoint(p Vector3) Vector3 {
	scaled := p.Scale(t.scale())
	return FromVec3(t.rotation().Rotate(scaled.Vec3())).Add(t.Position)
}

// InverseTransformPoint converts a world-space point to local space
func (t Transform) InverseTransformPoint(p Vector3) Vector3 {
	s := t.scale()
	local := FromVec3(t.rotation().Inverse().Rotate(p.Sub(t.Position).Vec3()))
	return Vector3{X: local.X / s.X, Y: local.Y / s.Y, Z: local.Z / s.Z}
}

// TransformDirection rotates a local-space direction into world space.
// Scale and translation do not apply to directions.
func (t Transform) TransformDirection(d Vector3) Vector3 {
	return FromVec3(t.rotation().Rotate(d.Vec3()))
}

// Matrix returns the transform as a 4x4 matrix
func (t Transform) Matrix() mgl64.Mat4 {
	s := t.scale()
	return mgl64.Translate3D(t.Position.X, t.Position.Y, t.Position.Z).
		Mul4(t.rotation().Mat4()).
		Mul4(mgl64.Scale3D(s.X, s.Y, s.Z))
}

// Vec3 converts the vector to an mgl64 vector
func (v Vector3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromVec3 converts an mgl64 vector
func FromVec3(v mgl64.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}
