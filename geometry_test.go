package railway

import (
	"math"
	"testing"
)

func TestFlattenLineEmitsEndpoint(t *testing.T) {
	stack := []Couple{NewCouple(0, 0), NewCouple(5, 5)}
	got := flattenLine(stack, LineRef{Points: [2]int{0, 1}})
	if got != stack[1] {
		t.Errorf("flattenLine = %+v, want endpoint %+v", got, stack[1])
	}
}

func TestFlattenTriangleFromLines(t *testing.T) {
	// Three Line steps forming a closed triangle; each step should emit
	// only its own endpoint, yielding exactly the 3 vertices.
	stack := []Couple{
		NewCouple(0, 0), NewCouple(10, 0), NewCouple(5, 10),
	}
	lines := []LineRef{
		{Points: [2]int{0, 1}},
		{Points: [2]int{1, 2}},
		{Points: [2]int{2, 0}},
	}
	steps := []Step{{Kind: StepLine, Index: 0}, {Kind: StepLine, Index: 1}, {Kind: StepLine, Index: 2}}

	var poly []Couple
	for _, s := range steps {
		poly = FlattenStep(poly, stack, s, nil, nil, nil, lines, 0.25)
	}

	want := []Couple{stack[1], stack[2], stack[0]}
	if len(poly) != 3 {
		t.Fatalf("len(poly) = %d, want 3", len(poly))
	}
	for i := range want {
		if poly[i] != want[i] {
			t.Errorf("poly[%d] = %+v, want %+v", i, poly[i], want[i])
		}
	}
}

func TestFlattenQuadEndpointsOnly(t *testing.T) {
	q := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(5, 0), P2: NewCouple(10, 0)}
	got := flattenQuadInto(nil, q, 0.1, 0)
	if len(got) != 1 || got[0] != q.P2 {
		t.Errorf("flattening a straight quad = %+v, want single endpoint %+v", got, q.P2)
	}
}

func TestFlattenQuadSubdividesCurvedSegment(t *testing.T) {
	q := QuadBez{P0: NewCouple(0, 0), P1: NewCouple(5, 50), P2: NewCouple(10, 0)}
	got := flattenQuadInto(nil, q, 0.1, 0)
	if len(got) < 2 {
		t.Errorf("sharply curved quad flattened to %d points, want > 1", len(got))
	}
	if got[len(got)-1] != q.P2 {
		t.Errorf("last flattened point = %+v, want endpoint %+v", got[len(got)-1], q.P2)
	}
}

func TestFlattenCubicSubdividesCurvedSegment(t *testing.T) {
	c := CubicBez{P0: NewCouple(0, 0), P1: NewCouple(0, 50), P2: NewCouple(10, 50), P3: NewCouple(10, 0)}
	got := flattenCubicInto(nil, c, 0.1, 0)
	if len(got) < 2 {
		t.Errorf("sharply curved cubic flattened to %d points, want > 1", len(got))
	}
	if got[len(got)-1] != c.P3 {
		t.Errorf("last flattened point = %+v, want endpoint %+v", got[len(got)-1], c.P3)
	}
}

func TestFlattenArcFullCircleCCW(t *testing.T) {
	stack := []Couple{
		NewCouple(10, 0), // start
		NewCouple(0, 0),  // center
		NewCouple(0, 2*math.Pi), // deltas: theta0=0 < theta1=2pi -> CCW full nominal span
	}
	arc := ArcRef{StartPoint: 0, Center: 1, Deltas: 2}
	got := flattenArcInto(nil, stack, arc, 0.1)

	if len(got) < 8 {
		t.Fatalf("full circle flattened to %d points, want several", len(got))
	}
	last := got[len(got)-1]
	if last.Distance(stack[0]) > 0.5 {
		t.Errorf("last point of full-circle sweep %+v should be near the start point %+v", last, stack[0])
	}
	for _, p := range got {
		r := p.Distance(stack[1])
		if math.Abs(r-10) > 0.5 {
			t.Errorf("arc point %+v has radius %v, want ~10", p, r)
		}
	}
}

func TestFlattenArcZeroRadiusEmitsStart(t *testing.T) {
	stack := []Couple{NewCouple(5, 5), NewCouple(5, 5), NewCouple(0, 1)}
	arc := ArcRef{StartPoint: 0, Center: 1, Deltas: 2}
	got := flattenArcInto(nil, stack, arc, 0.1)
	if len(got) != 1 || got[0] != stack[0] {
		t.Errorf("zero-radius arc = %+v, want single start point %+v", got, stack[0])
	}
}

func TestFlattenArcShortestDirection(t *testing.T) {
	// theta0=pi (>=theta1=0), so this should sweep the shorter, clockwise
	// direction from the actual start angle rather than the full turn.
	stack := []Couple{
		NewCouple(0, 5), // start, angle = pi/2 from center
		NewCouple(0, 0), // center
		NewCouple(math.Pi, 0), // deltas: theta0=pi >= theta1=0
	}
	arc := ArcRef{StartPoint: 0, Center: 1, Deltas: 2}
	got := flattenArcInto(nil, stack, arc, 0.1)
	if len(got) == 0 {
		t.Fatal("expected at least one flattened point")
	}
	// Should not sweep nearly a full turn: the last point should be
	// reasonably close to the start, not on the opposite side.
	last := got[len(got)-1]
	if last.Distance(stack[0]) > 15 {
		t.Errorf("shortest-direction sweep traveled too far: last=%+v start=%+v", last, stack[0])
	}
}
