package railway

import (
	"math"
	"sort"
)

// Rect is an axis-aligned bounding box in canvas pixel space, used by
// Render to skip paths whose extent lies entirely outside the canvas.
type Rect struct {
	Min, Max Couple
}

// NewRect creates a rectangle from two corner couples, normalized so
// Min <= Max component-wise.
func NewRect(a, b Couple) Rect {
	return Rect{
		Min: Couple{X: float32(math.Min(float64(a.X), float64(b.X))), Y: float32(math.Min(float64(a.Y), float64(b.Y)))},
		Max: Couple{X: float32(math.Max(float64(a.X), float64(b.X))), Y: float32(math.Max(float64(a.Y), float64(b.Y)))},
	}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Couple{X: minf32(r.Min.X, other.Min.X), Y: minf32(r.Min.Y, other.Min.Y)},
		Max: Couple{X: maxf32(r.Max.X, other.Max.X), Y: maxf32(r.Max.Y, other.Max.Y)},
	}
}

// intersectsCanvas reports whether r overlaps the pixel rectangle
// [0, w) x [0, h), used to cull a path whose bounding box falls entirely
// outside the canvas before it is flattened.
func (r Rect) intersectsCanvas(w, h int) bool {
	return float64(r.Min.X) < float64(w) && float64(r.Max.X) > 0 &&
		float64(r.Min.Y) < float64(h) && float64(r.Max.Y) > 0
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Line is a straight segment from P0 to P1.
type Line struct {
	P0, P1 Couple
}

// Eval evaluates the line at parameter t in [0,1].
func (l Line) Eval(t float64) Couple {
	return l.P0.Lerp(l.P1, t)
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	return l.P0.Distance(l.P1)
}

// BoundingBox returns the segment's axis-aligned bounding box.
func (l Line) BoundingBox() Rect {
	return NewRect(l.P0, l.P1)
}

// QuadBez is a quadratic Bezier curve: P0 start, P1 control, P2 end.
type QuadBez struct {
	P0, P1, P2 Couple
}

// Eval evaluates the curve at parameter t from its Bernstein polynomial form.
func (q QuadBez) Eval(t float64) Couple {
	mt := 1.0 - t
	x := mt*mt*float64(q.P0.X) + 2*mt*t*float64(q.P1.X) + t*t*float64(q.P2.X)
	y := mt*mt*float64(q.P0.Y) + 2*mt*t*float64(q.P1.Y) + t*t*float64(q.P2.Y)
	return NewCouple(x, y)
}

// Subdivide splits the curve at t=0.5 into two halves using de Casteljau.
func (q QuadBez) Subdivide() (QuadBez, QuadBez) {
	mid := q.Eval(0.5)
	return QuadBez{P0: q.P0, P1: q.P0.Lerp(q.P1, 0.5), P2: mid},
		QuadBez{P0: mid, P1: q.P1.Lerp(q.P2, 0.5), P2: q.P2}
}

// FlatEnough reports whether the control polygon's deviation from the
// P0-P2 chord is within tolerance, the termination test for adaptive
// de Casteljau subdivision.
func (q QuadBez) FlatEnough(tolerance float64) bool {
	return pointLineDistance(q.P1, q.P0, q.P2) <= tolerance
}

// BoundingBox returns the axis-aligned bounding box of the curve's control
// hull, which always contains the curve itself but is not tight around
// interior extrema the way CubicBez.BoundingBox is.
func (q QuadBez) BoundingBox() Rect {
	return NewRect(q.P0, q.P1).Union(NewRect(q.P2, q.P2))
}

// Raise elevates the quadratic to an exactly equivalent cubic Bezier.
func (q QuadBez) Raise() CubicBez {
	return CubicBez{
		P0: q.P0,
		P1: q.P0.Add(q.P1.Sub(q.P0).Mul(2.0 / 3.0)),
		P2: q.P2.Add(q.P1.Sub(q.P2).Mul(2.0 / 3.0)),
		P3: q.P2,
	}
}

// CubicBez is a cubic Bezier curve: P0 start, P1/P2 control, P3 end.
type CubicBez struct {
	P0, P1, P2, P3 Couple
}

// Eval evaluates the curve at parameter t from its Bernstein polynomial form.
func (c CubicBez) Eval(t float64) Couple {
	mt := 1.0 - t
	mt2, mt3 := mt*mt, mt*mt*mt
	t2, t3 := t*t, t*t*t
	x := mt3*float64(c.P0.X) + 3*mt2*t*float64(c.P1.X) + 3*mt*t2*float64(c.P2.X) + t3*float64(c.P3.X)
	y := mt3*float64(c.P0.Y) + 3*mt2*t*float64(c.P1.Y) + 3*mt*t2*float64(c.P2.Y) + t3*float64(c.P3.Y)
	return NewCouple(x, y)
}

// Subdivide splits the curve at t=0.5 into two halves using de Casteljau.
func (c CubicBez) Subdivide() (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, 0.5)
	p12 := c.P1.Lerp(c.P2, 0.5)
	p23 := c.P2.Lerp(c.P3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)
	return CubicBez{P0: c.P0, P1: p01, P2: p012, P3: mid},
		CubicBez{P0: mid, P1: p123, P2: p23, P3: c.P3}
}

// FlatEnough reports whether both control points deviate from the P0-P3
// chord by no more than tolerance, the termination test for adaptive
// de Casteljau subdivision.
func (c CubicBez) FlatEnough(tolerance float64) bool {
	return pointLineDistance(c.P1, c.P0, c.P3) <= tolerance &&
		pointLineDistance(c.P2, c.P0, c.P3) <= tolerance
}

// BoundingBox returns the tight axis-aligned bounding box of the curve,
// including interior extrema.
func (c CubicBez) BoundingBox() Rect {
	bbox := NewRect(c.P0, c.P3)
	for _, t := range c.extrema() {
		p := c.Eval(t)
		bbox = bbox.Union(NewRect(p, p))
	}
	return bbox
}

// extrema returns parameter values in [0,1] where the derivative of X or Y
// is zero.
func (c CubicBez) extrema() []float64 {
	result := make([]float64, 0, 4)

	d0x, d0y := float64(c.P1.X-c.P0.X), float64(c.P1.Y-c.P0.Y)
	d1x, d1y := float64(c.P2.X-c.P1.X), float64(c.P2.Y-c.P1.Y)
	d2x, d2y := float64(c.P3.X-c.P2.X), float64(c.P3.Y-c.P2.Y)

	ax := d0x - 2*d1x + d2x
	bx := 2 * (d1x - d0x)
	cx := d0x
	result = append(result, SolveQuadraticInUnitInterval(ax, bx, cx)...)

	ay := d0y - 2*d1y + d2y
	by := 2 * (d1y - d0y)
	cy := d0y
	result = append(result, SolveQuadraticInUnitInterval(ay, by, cy)...)

	sort.Float64s(result)
	return result
}

// pointLineDistance returns the perpendicular distance from p to the
// infinite line through a and b (or the distance to a, if a == b).
func pointLineDistance(p, a, b Couple) float64 {
	ab := b.Sub(a)
	length := ab.Length()
	if length == 0 {
		return p.Distance(a)
	}
	return math.Abs(p.Sub(a).Cross(ab)) / length
}
