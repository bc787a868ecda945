package probe

import "github.com/gekko3d/lumen/rt/core"

// Cursor walks every (face, probe) pair of a grid: face fastest, then X,
// then Y, then Z.
type Cursor struct {
	Index core.Vec3i
	Face  core.Face
}

// Complete reports whether the current probe has all six faces captured
// once the current face is written.
func (c Cursor) Complete() bool {
	return c.Face == core.FaceCount-1
}

// Advance moves to the next pair of a grid of size number and reports
// whether it wrapped back to the origin.
func (c *Cursor) Advance(number core.Vec3i) (wrapped bool) {
	next, ok := core.NextCounter4(
		[4]int{int(c.Face), c.Index[0], c.Index[1], c.Index[2]},
		[4]int{core.FaceCount, number[0], number[1], number[2]},
	)
	c.Face = core.Face(next[0])
	c.Index = core.Vec3i{next[1], next[2], next[3]}
	return !ok
}
