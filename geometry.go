package railway

import "math"

// StepKind tags the kind of segment a Step refers to.
type StepKind uint32

const (
	StepArc StepKind = iota
	StepCubic
	StepQuad
	StepLine

	stepKindCount
)

// Step is one element of a path: a step type tag plus an index into the
// matching segment table (arcs, cubic curves, quadratic curves, or lines).
type Step struct {
	Kind  StepKind
	Index int
}

// PathRef is a contiguous range within the global step table. Flattened,
// it forms a closed polygon.
type PathRef struct {
	FirstStep int
	StepCount int
}

// ArcRef references the three stack positions (start point, center,
// deltas) that describe an elliptical arc segment.
type ArcRef struct {
	StartPoint int
	Center     int
	Deltas     int
}

// CubicRef references the four stack positions of a cubic Bezier segment.
type CubicRef struct {
	Points [4]int
}

// QuadRef references the three stack positions of a quadratic Bezier
// segment.
type QuadRef struct {
	Points [3]int
}

// LineRef references the two stack positions of a straight segment.
type LineRef struct {
	Points [2]int
}

// TriangleRef references three point stack positions and, per vertex, the
// two stack positions packing its RGBA color (rg, ba).
type TriangleRef struct {
	Points [3]int
	Colors [3][2]int
}

// StrokerRef references the stack positions describing an outline style:
// pattern (x=dash length, y=gap length), width (x+y of the referenced
// couple), and rg/ba color.
type StrokerRef struct {
	Pattern int
	Width   int
	ColorRG int
	ColorBA int
}

// BackgroundRef is a contiguous range within the global triangle-index
// table, defining a Gouraud-shaded fill source.
type BackgroundRef struct {
	FirstTriangleIndex int
	Count              int
}

// RenderStepKind distinguishes a clip rendering step from a stroke one.
type RenderStepKind uint32

const (
	RenderClip RenderStepKind = iota
	RenderStroke

	renderStepKindCount
)

// RenderStep is one draw operation in Z-order: a path plus either a
// background (for clip) or a stroker (for stroke), selected by Kind.
type RenderStep struct {
	Kind RenderStepKind
	Path int
	// Arg is the background index (Kind == RenderClip) or the stroker
	// index (Kind == RenderStroke).
	Arg int
}

// flattenLine appends the endpoint of a straight step.
func flattenLine(stack []Couple, l LineRef) Couple {
	return stack[l.Points[1]]
}

// flattenQuadInto adaptively subdivides a quadratic Bezier step and
// appends each subsegment's endpoint, terminating a branch once its
// control point deviates from the chord by no more than tolerance.
func flattenQuadInto(dst []Couple, q QuadBez, tolerance float64, depth int) []Couple {
	if depth >= maxFlattenDepth || q.FlatEnough(tolerance) {
		return append(dst, q.P2)
	}
	lo, hi := q.Subdivide()
	dst = flattenQuadInto(dst, lo, tolerance, depth+1)
	dst = flattenQuadInto(dst, hi, tolerance, depth+1)
	return dst
}

// flattenCubicInto adaptively subdivides a cubic Bezier step and appends
// each subsegment's endpoint.
func flattenCubicInto(dst []Couple, c CubicBez, tolerance float64, depth int) []Couple {
	if depth >= maxFlattenDepth || c.FlatEnough(tolerance) {
		return append(dst, c.P3)
	}
	lo, hi := c.Subdivide()
	dst = flattenCubicInto(dst, lo, tolerance, depth+1)
	dst = flattenCubicInto(dst, hi, tolerance, depth+1)
	return dst
}

// maxFlattenDepth bounds recursive curve subdivision so a degenerate
// (zero-length or NaN-poisoned) curve cannot recurse forever.
const maxFlattenDepth = 24

// flattenArcInto appends the subdivision points of an elliptical arc step.
//
// The radius is always |start-center| (SPEC_FULL.md, SUPPLEMENTED FEATURES
// item 3); deltas.x
// and deltas.y are read as the nominal start/end angles. When
// deltas.x < deltas.y the sweep runs counter-clockwise from the arc's
// actual start angle (atan2 of start-center) through the full nominal
// span, taken modulo a full turn (a span of whole turns sweeps one full
// turn); otherwise the sweep takes the shorter
// (at most half-turn) direction between the actual start angle and
// deltas.y. A degenerate zero-radius arc emits a single point.
func flattenArcInto(dst []Couple, stack []Couple, a ArcRef, tolerance float64) []Couple {
	center := stack[a.Center]
	start := stack[a.StartPoint]
	deltas := stack[a.Deltas]

	r := start.Distance(center)
	if r == 0 || !isFinite32(deltas.X) || !isFinite32(deltas.Y) {
		return append(dst, start)
	}

	theta0 := float64(deltas.X)
	theta1 := float64(deltas.Y)
	startAngle := math.Atan2(float64(start.Y-center.Y), float64(start.X-center.X))

	var sweep float64
	if theta0 < theta1 {
		// deltas are float32, so a span of whole turns only comes within
		// float32 rounding of a multiple of 2*pi, never exactly onto one.
		sweep = math.Mod(theta1-theta0, 2*math.Pi)
		if sweep <= 1e-6*math.Max(1, theta1-theta0) {
			sweep += 2 * math.Pi
		}
	} else {
		d := math.Mod(theta1-startAngle, 2*math.Pi)
		if d > math.Pi {
			d -= 2 * math.Pi
		} else if d < -math.Pi {
			d += 2 * math.Pi
		}
		sweep = d
	}

	if sweep == 0 {
		return append(dst, start)
	}

	// Largest half-angle whose sagitta (r * (1 - cos(halfAngle))) stays
	// within tolerance; segmentAngle is twice that.
	ratio := 1.0
	if r > 0 {
		ratio = 1 - tolerance/r
	}
	if ratio < -1 {
		ratio = -1
	}
	if ratio > 1 {
		ratio = 1
	}
	halfAngle := math.Acos(ratio)
	if halfAngle <= 0 {
		halfAngle = math.Pi / 90 // 2 degrees, avoids a division by zero for tiny tolerances
	}
	segmentAngle := 2 * halfAngle

	steps := int(math.Ceil(math.Abs(sweep) / segmentAngle))
	if steps < 1 {
		steps = 1
	}

	for i := 1; i <= steps; i++ {
		angle := startAngle + sweep*(float64(i)/float64(steps))
		s, c := math.Sincos(angle)
		dst = append(dst, NewCouple(float64(center.X)+r*c, float64(center.Y)+r*s))
	}
	return dst
}

// stepBoundingBox returns a safe (possibly loose) axis-aligned bounding box
// for one path step, without flattening it: exact for a line, tight for a
// cubic (via its extrema), a control-hull bound for a quadratic, and the
// full circle extent for an arc. Render uses this to decide whether a path
// can possibly paint anything onto the canvas before paying for adaptive
// subdivision.
func stepBoundingBox(stack []Couple, step Step, arcs []ArcRef, cubics []CubicRef, quads []QuadRef, lines []LineRef) Rect {
	switch step.Kind {
	case StepLine:
		l := lines[step.Index]
		return NewRect(stack[l.Points[0]], stack[l.Points[1]])
	case StepQuad:
		q := quads[step.Index]
		bez := QuadBez{P0: stack[q.Points[0]], P1: stack[q.Points[1]], P2: stack[q.Points[2]]}
		return bez.BoundingBox()
	case StepCubic:
		c := cubics[step.Index]
		bez := CubicBez{P0: stack[c.Points[0]], P1: stack[c.Points[1]], P2: stack[c.Points[2]], P3: stack[c.Points[3]]}
		return bez.BoundingBox()
	case StepArc:
		a := arcs[step.Index]
		center, start := stack[a.Center], stack[a.StartPoint]
		r := start.Distance(center)
		return NewRect(
			NewCouple(float64(center.X)-r, float64(center.Y)-r),
			NewCouple(float64(center.X)+r, float64(center.Y)+r),
		)
	default:
		return Rect{}
	}
}

// polygonFinite reports whether every point of points has finite X and Y.
// A NaN or Inf argument can push a flattened coordinate to a non-finite
// value; such a polygon must never reach the rasterizer.
func polygonFinite(points []Couple) bool {
	for _, p := range points {
		if !p.Finite() {
			return false
		}
	}
	return true
}

// nearZeroArea reports whether the closed polygon points encloses
// negligible area — all its vertices collinear or coincident — and so
// would paint nothing worth rasterizing even though it has enough points.
func nearZeroArea(points []Couple) bool {
	const epsilon = 1e-9
	var twiceArea float64
	n := len(points)
	for i := 0; i < n; i++ {
		p0, p1 := points[i], points[(i+1)%n]
		twiceArea += float64(p0.X)*float64(p1.Y) - float64(p1.X)*float64(p0.Y)
	}
	if twiceArea < 0 {
		twiceArea = -twiceArea
	}
	return twiceArea < epsilon
}

// FlattenStep appends the flattened points of one path step to dst.
func FlattenStep(dst []Couple, stack []Couple, step Step, arcs []ArcRef, cubics []CubicRef, quads []QuadRef, lines []LineRef, tolerance float64) []Couple {
	switch step.Kind {
	case StepLine:
		return append(dst, flattenLine(stack, lines[step.Index]))
	case StepQuad:
		q := quads[step.Index]
		bez := QuadBez{P0: stack[q.Points[0]], P1: stack[q.Points[1]], P2: stack[q.Points[2]]}
		return flattenQuadInto(dst, bez, tolerance, 0)
	case StepCubic:
		c := cubics[step.Index]
		bez := CubicBez{P0: stack[c.Points[0]], P1: stack[c.Points[1]], P2: stack[c.Points[2]], P3: stack[c.Points[3]]}
		return flattenCubicInto(dst, bez, tolerance, 0)
	case StepArc:
		return flattenArcInto(dst, stack, arcs[step.Index], tolerance)
	default:
		return dst
	}
}
