package kernel

// Coordinate addresses a process in the lattice.
// Immutable value type; valid iff every component is within [0, dimension).
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Space is the fixed, bounded 3D index space addressing processes.
// Dimensions are set at kernel construction and never change.
type Space struct {
	Width  int
	Height int
	Depth  int
}

// Contains reports whether c is inside the grid.
func (s Space) Contains(c Coordinate) bool {
	return c.X >= 0 && c.X < s.Width &&
		c.Y >= 0 && c.Y < s.Height &&
		c.Z >= 0 && c.Z < s.Depth
}

// Flatten maps a valid coordinate to its dense table index in
// [0, Width*Height*Depth). The mapping is a bijection: x-major, then y,
// then z, matching the lattice node numbering of the native kernel.
//
// Callers must validate c with Contains first; Flatten performs no checks.
func (s Space) Flatten(c Coordinate) int {
	return (c.X*s.Height+c.Y)*s.Depth + c.Z
}

// Unflatten inverts Flatten.
func (s Space) Unflatten(idx int) Coordinate {
	return Coordinate{
		X: idx / (s.Height * s.Depth),
		Y: (idx / s.Depth) % s.Height,
		Z: idx % s.Depth,
	}
}

// Size returns the number of addressable cells.
func (s Space) Size() int {
	return s.Width * s.Height * s.Depth
}
