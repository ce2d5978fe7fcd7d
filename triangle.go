package railway

// shadedTriangle is a resolved, render-ready Gouraud triangle: three
// vertex positions, three vertex colors, and the barycentric basis vectors
// needed to weight an arbitrary point against it.
//
// Grounded on the wizdraw-backed reference renderer's Triangle type (which
// precomputes the same two basis vectors so per-pixel weighting is two
// dot products rather than a 3x3 solve) and on the dirty-flag renderer's
// solid-color fast path.
type shadedTriangle struct {
	p     [3]Couple
	color [3]RGBA
	v0, v1 Couple
	denom  float64
	solid  bool
}

// newShadedTriangle resolves a TriangleRef against the stack into a
// render-ready triangle, unpacking each vertex's color from its rg/ba
// couples and clamping channels to [0,1] as required by §4.4.
func newShadedTriangle(stack []Couple, t TriangleRef) shadedTriangle {
	p := [3]Couple{stack[t.Points[0]], stack[t.Points[1]], stack[t.Points[2]]}
	var color [3]RGBA
	for i := 0; i < 3; i++ {
		rg := stack[t.Colors[i][0]]
		ba := stack[t.Colors[i][1]]
		color[i] = RGBA{
			R: clamp01(float64(rg.X)),
			G: clamp01(float64(rg.Y)),
			B: clamp01(float64(ba.X)),
			A: clamp01(float64(ba.Y)),
		}
	}

	v0 := p[1].Sub(p[0])
	v1 := p[2].Sub(p[0])
	denom := v0.X64()*v1.Y64() - v1.X64()*v0.Y64()

	solid := color[0] == color[1] && color[1] == color[2]

	return shadedTriangle{p: p, color: color, v0: v0, v1: v1, denom: denom, solid: solid}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// weights returns the barycentric weights of pt against the triangle, and
// whether pt lies inside it (all weights non-negative).
func (t shadedTriangle) weights(pt Couple) (u, v, w float64, inside bool) {
	if t.denom == 0 {
		return 0, 0, 0, false
	}
	d := 1.0 / t.denom
	v2x := pt.X64() - t.p[0].X64()
	v2y := pt.Y64() - t.p[0].Y64()
	vv := (v2x*t.v1.Y64() - v2y*t.v1.X64()) * d
	ww := (v2y*t.v0.X64() - v2x*t.v0.Y64()) * d
	uu := 1 - vv - ww
	return uu, vv, ww, uu >= 0 && vv >= 0 && ww >= 0
}

// colorAt returns the Gouraud-interpolated color at pt, and whether pt
// lies inside the triangle at all.
func (t shadedTriangle) colorAt(pt Couple) (RGBA, bool) {
	u, v, w, inside := t.weights(pt)
	if !inside {
		return RGBA{}, false
	}
	if t.solid {
		return t.color[0], true
	}
	return RGBA{
		R: t.color[0].R*u + t.color[1].R*v + t.color[2].R*w,
		G: t.color[0].G*u + t.color[1].G*v + t.color[2].G*w,
		B: t.color[0].B*u + t.color[1].B*v + t.color[2].B*w,
		A: t.color[0].A*u + t.color[1].A*v + t.color[2].A*w,
	}, true
}

// X64 and Y64 read a Couple's components widened to float64, used in the
// few hot paths (barycentric weighting) where avoiding repeated float32
// truncation keeps accumulation error down across a frame of triangles.
func (c Couple) X64() float64 { return float64(c.X) }
func (c Couple) Y64() float64 { return float64(c.Y) }
