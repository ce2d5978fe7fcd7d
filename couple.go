package railway

import "math"

// Couple is an ordered pair of IEEE-754 binary32 values, the single value
// type used throughout the VM: points, vectors, size pairs and packed color
// channels are all Couples.
type Couple struct {
	X, Y float32
}

// NewCouple creates a Couple from two float32-representable values.
func NewCouple(x, y float64) Couple {
	return Couple{X: float32(x), Y: float32(y)}
}

// Add returns the sum of two couples.
func (c Couple) Add(o Couple) Couple {
	return Couple{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns the difference of two couples.
func (c Couple) Sub(o Couple) Couple {
	return Couple{X: c.X - o.X, Y: c.Y - o.Y}
}

// Mul returns the couple scaled by a scalar.
func (c Couple) Mul(s float64) Couple {
	return Couple{X: float32(float64(c.X) * s), Y: float32(float64(c.Y) * s)}
}

// Div returns the couple divided by a scalar.
func (c Couple) Div(s float64) Couple {
	return Couple{X: float32(float64(c.X) / s), Y: float32(float64(c.Y) / s)}
}

// Dot returns the dot product of two couples read as vectors.
func (c Couple) Dot(o Couple) float64 {
	return float64(c.X)*float64(o.X) + float64(c.Y)*float64(o.Y)
}

// Cross returns the 2D cross product (scalar) of two couples read as vectors.
func (c Couple) Cross(o Couple) float64 {
	return float64(c.X)*float64(o.Y) - float64(c.Y)*float64(o.X)
}

// Length returns the Euclidean length of the couple read as a vector.
func (c Couple) Length() float64 {
	return math.Hypot(float64(c.X), float64(c.Y))
}

// Distance returns the distance between two couples read as points.
func (c Couple) Distance(o Couple) float64 {
	return c.Sub(o).Length()
}

// Normalize returns a unit-length couple in the same direction.
// Returns the zero couple if the length is zero.
func (c Couple) Normalize() Couple {
	l := c.Length()
	if l == 0 {
		return Couple{}
	}
	return c.Div(l)
}

// Lerp performs linear interpolation between two couples.
// t=0 returns c, t=1 returns o.
func (c Couple) Lerp(o Couple, t float64) Couple {
	return Couple{
		X: float32(float64(c.X) + (float64(o.X)-float64(c.X))*t),
		Y: float32(float64(c.Y) + (float64(o.Y)-float64(c.Y))*t),
	}
}

// Perp returns the couple rotated 90 degrees counter-clockwise.
func (c Couple) Perp() Couple {
	return Couple{X: -c.Y, Y: c.X}
}

// Atan2 returns atan2(Y, X) in radians.
func (c Couple) Atan2() float64 {
	return math.Atan2(float64(c.Y), float64(c.X))
}

// IsZero reports whether both components are zero.
func (c Couple) IsZero() bool {
	return c.X == 0 && c.Y == 0
}

// Finite reports whether both components are finite (not NaN or Inf).
// The evaluator lets NaN/Inf propagate through computation; the flattener
// uses this to filter degenerate geometry before rasterization.
func (c Couple) Finite() bool {
	return isFinite32(c.X) && isFinite32(c.Y)
}

func isFinite32(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}
