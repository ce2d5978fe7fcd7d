package railway

import (
	"math"
	"testing"
)

func TestNewRectNormalizes(t *testing.T) {
	r := NewRect(NewCouple(5, -2), NewCouple(1, 3))
	if r.Min != NewCouple(1, -2) || r.Max != NewCouple(5, 3) {
		t.Errorf("NewRect = %+v, want Min=(1,-2) Max=(5,3)", r)
	}
}

func TestRectUnion(t *testing.T) {
	a := NewRect(NewCouple(0, 0), NewCouple(1, 1))
	b := NewRect(NewCouple(2, -1), NewCouple(3, 0.5))
	u := a.Union(b)
	if u.Min != NewCouple(0, -1) || u.Max != NewCouple(3, 1) {
		t.Errorf("Union = %+v, want Min=(0,-1) Max=(3,1)", u)
	}
}

func TestLineEval(t *testing.T) {
	l := Line{P0: NewCouple(0, 0), P1: NewCouple(10, 0)}
	got := l.Eval(0.25)
	if math.Abs(float64(got.X)-2.5) > 1e-4 || got.Y != 0 {
		t.Errorf("Eval(0.25) = %+v, want (2.5, 0)", got)
	}
}

func TestLineLength(t *testing.T) {
	l := Line{P0: NewCouple(0, 0), P1: NewCouple(3, 4)}
	if got := l.Length(); math.Abs(got-5) > 1e-6 {
		t.Errorf("Length() = %v, want 5", got)
	}
}

func TestQuadBezEvalEndpoints(t *testing.T) {
	q := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(5, 10), P2: NewCouple(10, 0)}
	if got := q.Eval(0); got != q.P0 {
		t.Errorf("Eval(0) = %+v, want P0 %+v", got, q.P0)
	}
	if got := q.Eval(1); got != q.P2 {
		t.Errorf("Eval(1) = %+v, want P2 %+v", got, q.P2)
	}
}

func TestQuadBezEvalMidpoint(t *testing.T) {
	q := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(10, 10), P2: NewCouple(20, 0)}
	got := q.Eval(0.5)
	// B(0.5) = 0.25*P0 + 0.5*P1 + 0.25*P2
	want := NewCouple(10, 5)
	if math.Abs(float64(got.X-want.X)) > 1e-4 || math.Abs(float64(got.Y-want.Y)) > 1e-4 {
		t.Errorf("Eval(0.5) = %+v, want %+v", got, want)
	}
}

func TestQuadBezSubdivideMatchesEval(t *testing.T) {
	q := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(6, 12), P2: NewCouple(12, 0)}
	lo, hi := q.Subdivide()

	if lo.P0 != q.P0 {
		t.Errorf("lo.P0 = %+v, want %+v", lo.P0, q.P0)
	}
	if hi.P2 != q.P2 {
		t.Errorf("hi.P2 = %+v, want %+v", hi.P2, q.P2)
	}
	if lo.P2 != hi.P0 {
		t.Errorf("subdivision halves do not meet: lo.P2=%+v hi.P0=%+v", lo.P2, hi.P0)
	}
	mid := q.Eval(0.5)
	if lo.P2.Distance(mid) > 1e-3 {
		t.Errorf("subdivision midpoint %+v does not match Eval(0.5) %+v", lo.P2, mid)
	}
}

func TestQuadBezFlatEnough(t *testing.T) {
	straight := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(5, 0), P2: NewCouple(10, 0)}
	if !straight.FlatEnough(0.01) {
		t.Error("collinear control point should be flat enough at any tolerance")
	}

	curved := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(5, 100), P2: NewCouple(10, 0)}
	if curved.FlatEnough(1) {
		t.Error("sharply curved control point should not be flat enough at tolerance 1")
	}
}

func TestQuadBezRaise(t *testing.T) {
	q := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(5, 10), P2: NewCouple(10, 0)}
	c := q.Raise()

	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
		qp := q.Eval(tt)
		cp := c.Eval(tt)
		if qp.Distance(cp) > 1e-3 {
			t.Errorf("Raise() diverges from original at t=%v: quad=%+v cubic=%+v", tt, qp, cp)
		}
	}
}

func TestCubicBezEvalEndpoints(t *testing.T) {
	c := CubicBez{P0: NewCouple(0, 0), P1: NewCouple(3, 10), P2: NewCouple(7, 10), P3: NewCouple(10, 0)}
	if got := c.Eval(0); got != c.P0 {
		t.Errorf("Eval(0) = %+v, want P0 %+v", got, c.P0)
	}
	if got := c.Eval(1); got != c.P3 {
		t.Errorf("Eval(1) = %+v, want P3 %+v", got, c.P3)
	}
}

func TestCubicBezSubdivideMatchesEval(t *testing.T) {
	c := CubicBez{P0: NewCouple(0, 0), P1: NewCouple(3, 10), P2: NewCouple(7, 10), P3: NewCouple(10, 0)}
	lo, hi := c.Subdivide()

	if lo.P0 != c.P0 {
		t.Errorf("lo.P0 = %+v, want %+v", lo.P0, c.P0)
	}
	if hi.P3 != c.P3 {
		t.Errorf("hi.P3 = %+v, want %+v", hi.P3, c.P3)
	}
	if lo.P3 != hi.P0 {
		t.Errorf("subdivision halves do not meet: lo.P3=%+v hi.P0=%+v", lo.P3, hi.P0)
	}
	mid := c.Eval(0.5)
	if lo.P3.Distance(mid) > 1e-3 {
		t.Errorf("subdivision midpoint %+v does not match Eval(0.5) %+v", lo.P3, mid)
	}
}

func TestCubicBezFlatEnough(t *testing.T) {
	straight := CubicBez{P0: NewCouple(0, 0), P1: NewCouple(3, 0), P2: NewCouple(7, 0), P3: NewCouple(10, 0)}
	if !straight.FlatEnough(0.01) {
		t.Error("collinear control points should be flat enough at any tolerance")
	}

	curved := CubicBez{P0: NewCouple(0, 0), P1: NewCouple(3, 100), P2: NewCouple(7, -100), P3: NewCouple(10, 0)}
	if curved.FlatEnough(1) {
		t.Error("sharply curved control points should not be flat enough at tolerance 1")
	}
}

func TestCubicBezBoundingBoxIncludesExtrema(t *testing.T) {
	// A symmetric arch bulging to y > 0, well past both endpoints.
	c := CubicBez{P0: NewCouple(0, 0), P1: NewCouple(0, 20), P2: NewCouple(10, 20), P3: NewCouple(10, 0)}
	bbox := c.BoundingBox()

	if bbox.Max.Y <= 0 {
		t.Errorf("BoundingBox().Max.Y = %v, want > 0 (curve bulges upward past its endpoints)", bbox.Max.Y)
	}
	if bbox.Min.X > 0 || bbox.Max.X < 10 {
		t.Errorf("BoundingBox() x range %v..%v does not contain endpoints", bbox.Min.X, bbox.Max.X)
	}
}

func TestPointLineDistance(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Couple
		want    float64
	}{
		{"on line", NewCouple(5, 0), NewCouple(0, 0), NewCouple(10, 0), 0},
		{"perpendicular", NewCouple(5, 3), NewCouple(0, 0), NewCouple(10, 0), 3},
		{"degenerate segment", NewCouple(3, 4), NewCouple(0, 0), NewCouple(0, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pointLineDistance(tt.p, tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("pointLineDistance() = %v, want %v", got, tt.want)
			}
		})
	}
}
