package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective look-at camera. Fovy is in radians.
type Camera struct {
	Pos    mgl32.Vec3
	Look   mgl32.Vec3
	Up     mgl32.Vec3
	Fovy   float32
	Aspect float32
	Near   float32
	Far    float32
}

func NewCamera(pos, look, up mgl32.Vec3, fovy, aspect, near, far float32) Camera {
	return Camera{
		Pos:    pos,
		Look:   look,
		Up:     up,
		Fovy:   fovy,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.Fovy, c.Aspect, c.Near, c.Far)
}

func (c Camera) View() mgl32.Mat4 {
	up := c.Up.Normalize()
	forward := c.Look.Sub(c.Pos).Normalize()
	// Nudge a degenerate up vector off the view axis.
	if math.Abs(float64(up.Dot(forward))) > 0.9999 {
		up = mgl32.Vec3{up.X() + 0.1, up.Y(), up.Z() + 0.1}.Normalize()
	}
	return mgl32.LookAtV(c.Pos, c.Look, up)
}

func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Frustum extracts the 6 planes of the camera frustum.
func (c Camera) Frustum() [6]mgl32.Vec4 {
	return ExtractFrustum(c.ViewProjection())
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with the normal pointing inside.
func ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	row3 := vp.Row(3)
	for i := 0; i < 3; i++ {
		row := vp.Row(i)
		planes[2*i] = row3.Add(row)
		planes[2*i+1] = row3.Sub(row)
	}

	for i := 0; i < 6; i++ {
		length := float32(math.Sqrt(float64(planes[i][0]*planes[i][0] + planes[i][1]*planes[i][1] + planes[i][2]*planes[i][2])))
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// PointInFrustum reports whether p lies on the inner side of all planes.
func PointInFrustum(p mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		if plane[0]*p[0]+plane[1]*p[1]+plane[2]*p[2]+plane[3] < 0 {
			return false
		}
	}
	return true
}

// AABBInFrustum checks if an AABB is at least partially inside the frustum.
func AABBInFrustum(aabb [2]mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		// Most-inside corner along the plane normal.
		var p mgl32.Vec3
		for k := 0; k < 3; k++ {
			if plane[k] > 0 {
				p[k] = aabb[1][k]
			} else {
				p[k] = aabb[0][k]
			}
		}
		if plane[0]*p[0]+plane[1]*p[1]+plane[2]*p[2]+plane[3] < 0 {
			return false
		}
	}
	return true
}

// ProjectNDC transforms a world position by vp and applies the perspective divide.
func ProjectNDC(vp mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	h := vp.Mul4x1(p.Vec4(1))
	return mgl32.Vec3{h.X() / h.W(), h.Y() / h.W(), h.Z() / h.W()}
}
