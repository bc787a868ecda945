package core

import "fmt"

// Vec3i is an integer grid coordinate or extent.
type Vec3i [3]int

func (v Vec3i) X() int { return v[0] }
func (v Vec3i) Y() int { return v[1] }
func (v Vec3i) Z() int { return v[2] }

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Volume is the number of cells in an extent.
func (v Vec3i) Volume() int {
	return v[0] * v[1] * v[2]
}

// Grid3 flattens 3D coordinates with X as the slowest-varying axis.
type Grid3 struct {
	Size Vec3i
}

func (g Grid3) Len() int {
	return g.Size.Volume()
}

func (g Grid3) Contains(p Vec3i) bool {
	for i := 0; i < 3; i++ {
		if p[i] < 0 || p[i] >= g.Size[i] {
			return false
		}
	}
	return true
}

func (g Grid3) Index(p Vec3i) int {
	if !g.Contains(p) {
		panic(fmt.Sprintf("Grid3: %v out of range %v", p, g.Size))
	}
	return p[0]*g.Size[1]*g.Size[2] + p[1]*g.Size[2] + p[2]
}

// Each3 visits every coordinate of size with X varying fastest.
func Each3(size Vec3i, fn func(p Vec3i)) {
	for z := 0; z < size[2]; z++ {
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				fn(Vec3i{x, y, z})
			}
		}
	}
}

// Each2 visits every (a, b) pair with a varying fastest.
func Each2(na, nb int, fn func(a, b int)) {
	for b := 0; b < nb; b++ {
		for a := 0; a < na; a++ {
			fn(a, b)
		}
	}
}

// NextCounter4 advances a mixed-radix counter whose first digit varies fastest.
// It returns false, with cur reset to zero, once every combination has been visited.
func NextCounter4(cur, size [4]int) ([4]int, bool) {
	for i := 0; i < 4; i++ {
		if cur[i] == size[i]-1 {
			cur[i] = 0
			continue
		}
		cur[i]++
		return cur, true
	}
	return cur, false
}
