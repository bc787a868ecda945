package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an object in world space. Object ops take the composed
// matrix, so this is a convenience for callers building scenes.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Scale:    Splat(1),
	}
}

// Model returns T * R * S.
func (t Transform) Model() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// Inverse returns the inverse of Model without a general matrix inversion.
// Rotation must be a unit quaternion.
func (t Transform) Inverse() mgl32.Mat4 {
	inv := CompDiv(Splat(1), t.Scale)
	return mgl32.Scale3D(inv.X(), inv.Y(), inv.Z()).
		Mul4(t.Rotation.Conjugate().Mat4()).
		Mul4(mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z()))
}

// Translation returns the translation column of a model matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// CompMul multiplies two vectors component-wise.
func CompMul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// CompDiv divides two vectors component-wise.
func CompDiv(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] / b[0], a[1] / b[1], a[2] / b[2]}
}

func Splat(v float32) mgl32.Vec3 {
	return mgl32.Vec3{v, v, v}
}
