package railway

// ResolvedStroker is a Stroker with its stack references already resolved
// to concrete values for one render call: pattern (x=dash length,
// y=gap length), width, and solid color.
type ResolvedStroker struct {
	Pattern Couple
	Width   float64
	Color   RGBA
}

// resolveStroker reads a StrokerRef's stack positions into concrete values.
// Width is the sum of x and y of the referenced couple, per §3.
func resolveStroker(stack []Couple, s StrokerRef) ResolvedStroker {
	width := stack[s.Width]
	rg := stack[s.ColorRG]
	ba := stack[s.ColorBA]
	return ResolvedStroker{
		Pattern: stack[s.Pattern],
		Width:   float64(width.X) + float64(width.Y),
		Color: RGBA{
			R: clamp01(float64(rg.X)),
			G: clamp01(float64(rg.Y)),
			B: clamp01(float64(ba.X)),
			A: clamp01(float64(ba.Y)),
		},
	}
}

// maxDashSegments bounds dash/gap iteration over the whole polygon so a
// pathological pattern (a gap length many orders of magnitude smaller than
// the perimeter) cannot spin forever.
const maxDashSegments = 1 << 16

// StrokePolygon traces the outline of the closed polygon with the given
// dash pattern, width, and color.
//
// A solid outline emits one square-capped rectangle per polygon edge,
// independently extended by half the stroke width at both ends; on a
// closed shape the overlap between adjacent edges' extensions is what
// covers each corner's joint.
//
// A dashed outline instead measures each "on" run continuously along the
// whole polygon perimeter, independent of where the polygon's own vertices
// fall. A run that spans more than one edge is still emitted as one
// rectangle per edge it crosses, but the half-width cap extension is
// applied only at the run's own true start and end, never at the interior
// edge crossings a run happens to straddle — so a nominal length-L dash
// always paints length L, not L plus one extension per vertex it crosses.
//
// Width <= 0 is a no-op. A pattern whose dash and gap lengths are both
// zero, or a gap length of zero, draws the whole outline solid.
func StrokePolygon(canvas Canvas, polygon []Couple, stroker ResolvedStroker, tolerance float64) {
	if stroker.Width <= 0 || len(polygon) < 2 {
		return
	}

	shader := solidShader(stroker.Color)

	dash := NewDash(float64(stroker.Pattern.X), float64(stroker.Pattern.Y))
	solid := dash == nil || !dash.IsDashed()
	var dashLen, cycle float64
	if !solid {
		pattern := dash.effectiveArray()
		dashLen, cycle = pattern[0], dash.PatternLength()
		if cycle <= 0 || pattern[1] <= 0 {
			solid = true
		}
	}

	if solid {
		n := len(polygon)
		for i := 0; i < n; i++ {
			emitSquareRect(canvas, polygon[i], polygon[(i+1)%n], stroker.Width, shader, tolerance, true, true)
		}
		return
	}

	n := len(polygon)
	edgeStart := make([]float64, n)
	edgeLength := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		l := polygon[i].Distance(polygon[(i+1)%n])
		edgeStart[i] = total
		edgeLength[i] = l
		total += l
	}
	if total == 0 {
		return
	}

	t := 0.0
	for iter := 0; t < total && iter < maxDashSegments; iter++ {
		local := mod(t, cycle)
		on := local < dashLen
		var next float64
		if on {
			next = t + (dashLen - local)
		} else {
			next = t + (cycle - local)
		}
		segEnd := next
		if segEnd > total {
			segEnd = total
		}
		if on && segEnd > t {
			emitDashRun(canvas, polygon, edgeStart, edgeLength, t, segEnd, stroker.Width, shader, tolerance)
		}
		t = segEnd
	}
}

func mod(a, b float64) float64 {
	m := a
	for m >= b {
		m -= b
	}
	for m < 0 {
		m += b
	}
	return m
}

// pointAtDistance locates the point d units along the polygon's perimeter
// (edgeStart/edgeLength give each edge's [start, start+length) range),
// interpolating within the edge d falls in.
func pointAtDistance(polygon []Couple, edgeStart, edgeLength []float64, d float64) Couple {
	i := locateEdge(edgeStart, d)
	l := edgeLength[i]
	if l == 0 {
		return polygon[i]
	}
	t := (d - edgeStart[i]) / l
	return polygon[i].Lerp(polygon[(i+1)%len(polygon)], t)
}

// locateEdge returns the index of the edge containing distance d, i.e. the
// largest i with edgeStart[i] <= d.
func locateEdge(edgeStart []float64, d float64) int {
	lo, hi := 0, len(edgeStart)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if edgeStart[mid] <= d {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// emitDashRun paints one continuous "on" run of the dash pattern, spanning
// perimeter distance [start, end). It is split into one rectangle per
// polygon edge the run crosses; only the first rectangle's leading edge and
// the last rectangle's trailing edge receive the half-width square-cap
// extension, since those are the run's true ends.
func emitDashRun(canvas Canvas, polygon []Couple, edgeStart, edgeLength []float64, start, end, width float64, shader Shader, tolerance float64) {
	cursor := start
	for cursor < end {
		i := locateEdge(edgeStart, cursor)
		edgeEnd := edgeStart[i] + edgeLength[i]
		segEnd := edgeEnd
		if segEnd > end {
			segEnd = end
		}
		if segEnd <= cursor {
			cursor = edgeEnd
			continue
		}
		a := pointAtDistance(polygon, edgeStart, edgeLength, cursor)
		b := pointAtDistance(polygon, edgeStart, edgeLength, segEnd)
		emitSquareRect(canvas, a, b, width, shader, tolerance, cursor == start, segEnd == end)
		cursor = segEnd
	}
}

// emitSquareRect fills the thin rectangle of the given width running from a
// to b, extending a backward along the a->b direction when extendStart is
// set and b forward when extendEnd is set, then composites it via shader.
func emitSquareRect(canvas Canvas, a, b Couple, width float64, shader Shader, tolerance float64, extendStart, extendEnd bool) {
	dir := b.Sub(a).Normalize()
	if dir.IsZero() {
		return
	}
	half := width / 2
	perp := dir.Perp().Mul(half)
	if extendStart {
		a = a.Sub(dir.Mul(half))
	}
	if extendEnd {
		b = b.Add(dir.Mul(half))
	}

	corners := []Couple{
		a.Add(perp),
		b.Add(perp),
		b.Sub(perp),
		a.Sub(perp),
	}
	canvas.FillPolygon(corners, shader, tolerance)
}

// solidShader returns a Shader that paints c uniformly everywhere.
func solidShader(c RGBA) Shader {
	return func(float64, float64) RGBA { return c }
}
