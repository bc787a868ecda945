package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one of the six cubemap capture directions
// (right, left, back, front, top, bottom).
type Face int8

const FaceCount = 6

var faceRotations = func() [FaceCount]mgl32.Mat4 {
	half := float32(math.Pi * 0.5)
	full := float32(math.Pi)
	return [FaceCount]mgl32.Mat4{
		mgl32.HomogRotate3DZ(-half).Mul4(mgl32.HomogRotate3DX(half)),
		mgl32.HomogRotate3DZ(half).Mul4(mgl32.HomogRotate3DX(half)),
		mgl32.HomogRotate3DZ(full).Mul4(mgl32.HomogRotate3DX(half)),
		mgl32.HomogRotate3DX(half),
		mgl32.HomogRotate3DX(full),
		mgl32.Ident4(),
	}
}()

// FaceRotation returns the rotation that maps the canonical -Z capture plane onto face f.
func FaceRotation(f Face) mgl32.Mat4 {
	if f < 0 || f >= FaceCount {
		panic(fmt.Sprintf("FaceRotation: invalid face %d", f))
	}
	return faceRotations[f]
}

// FaceAxes returns the camera-space X and Y axes for face f.
func FaceAxes(f Face) (mgl32.Vec3, mgl32.Vec3) {
	switch f {
	case 0:
		return mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, 1}
	case 1:
		return mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}
	case 2:
		return mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}
	case 3:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}
	case 4:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}
	case 5:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
	panic(fmt.Sprintf("FaceAxes: invalid face %d", f))
}

// FaceForward is the viewing direction of face f: -(x cross y).
func FaceForward(f Face) mgl32.Vec3 {
	x, y := FaceAxes(f)
	return x.Cross(y).Mul(-1)
}

// RotationBetween returns the rotation taking the frame (a1, b1) onto (a2, b2).
func RotationBetween(a1, b1, a2, b2 mgl32.Vec3) mgl32.Mat4 {
	if a1 == a2 && b1 == b2 {
		return mgl32.Ident4()
	}
	a1, b1 = a1.Normalize(), b1.Normalize()
	a2, b2 = a2.Normalize(), b2.Normalize()

	before := mgl32.Mat3FromCols(a1, b1, a1.Cross(b1))
	after := mgl32.Mat3FromCols(a2, b2, a2.Cross(b2))
	return after.Mul3(before.Inv()).Mat4()
}
