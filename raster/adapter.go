// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides the in-repo default Canvas: a CPU rasterizer
// built on a scanline active-edge-table, filling into a railway.Pixmap.
package raster

import (
	"math"

	"github.com/railwayfmt/railway"
)

// DefaultSupersamples is the number of sub-scanlines sampled per pixel row
// when no explicit sample count is set via WithSupersamples.
const DefaultSupersamples = 4

// Adapter is a railway.Canvas backed by a Pixmap and a scanline fill using
// the non-zero winding rule, anti-aliased by supersampling each scanline
// and accumulating fractional horizontal span coverage per pixel.
//
// The points FillPolygon receives are assumed already flattened to line
// segments (the core flattens curves before calling Canvas); tolerance is
// accepted for interface compliance but does not drive Adapter's sampling
// density, which is fixed at construction.
type Adapter struct {
	pix  *railway.Pixmap
	ssaa int

	edges EdgeList
	aet   SimpleAET
	cover []float64
}

// NewAdapter returns an Adapter painting into pix.
func NewAdapter(pix *railway.Pixmap) *Adapter {
	return &Adapter{pix: pix, ssaa: DefaultSupersamples}
}

// WithSupersamples sets the number of vertical samples per pixel row used
// for anti-aliasing and returns the Adapter for chaining.
func (a *Adapter) WithSupersamples(n int) *Adapter {
	if n > 0 {
		a.ssaa = n
	}
	return a
}

// Size implements railway.Canvas.
func (a *Adapter) Size() (int, int) {
	return a.pix.Width(), a.pix.Height()
}

// FillPolygon implements railway.Canvas.
func (a *Adapter) FillPolygon(points []railway.Couple, shader railway.Shader, _ float64) {
	if len(points) < 3 {
		return
	}

	a.edges.Reset()
	n := len(points)
	for i := 0; i < n; i++ {
		p0 := points[i]
		p1 := points[(i+1)%n]
		a.edges.AddLine(float32(p0.X), float32(p0.Y), float32(p1.X), float32(p1.Y))
	}
	if a.edges.Len() == 0 {
		return
	}
	a.edges.SortByYMin()

	minX, minY, maxX, maxY := a.edges.Bounds()
	w, h := a.pix.Width(), a.pix.Height()

	y0 := clampInt(int(math.Floor(float64(minY))), 0, h)
	y1 := clampInt(int(math.Ceil(float64(maxY))), 0, h)
	x0 := clampInt(int(math.Floor(float64(minX))), 0, w)
	x1 := clampInt(int(math.Ceil(float64(maxX))), 0, w)
	if y0 >= y1 || x0 >= x1 {
		return
	}

	if cap(a.cover) < x1-x0 {
		a.cover = make([]float64, x1-x0)
	}
	cover := a.cover[:x1-x0]

	weight := 1.0 / float64(a.ssaa)
	for py := y0; py < y1; py++ {
		for i := range cover {
			cover[i] = 0
		}
		for s := 0; s < a.ssaa; s++ {
			sy := float32(py) + (float32(s)+0.5)/float32(a.ssaa)
			a.aet.Reset()
			for i := range a.edges.Edges() {
				e := &a.edges.Edges()[i]
				if e.IsActiveAt(sy) {
					a.aet.InsertEdge(e, sy)
				}
			}
			a.aet.SortByX()
			active := a.aet.Active()
			winding := 0
			for i := 0; i+1 < len(active); i++ {
				winding += int(active[i].Edge.Winding)
				if winding != 0 {
					addSpan(cover, x0, active[i].X, active[i+1].X, weight)
				}
			}
		}

		for px := x0; px < x1; px++ {
			c := cover[px-x0]
			if c <= 0 {
				continue
			}
			if c > 1 {
				c = 1
			}
			src := shader(float64(px)+0.5, float64(py)+0.5)
			if src.A <= 0 {
				continue
			}
			a.blendPixel(px, py, src, c)
		}
	}
}

// blendPixel composites src over the destination pixel using source-over
// blending scaled by coverage, grounded on the reference renderer's
// blend_pixel.
func (a *Adapter) blendPixel(x, y int, src railway.RGBA, coverage float64) {
	alpha := src.A * coverage
	if alpha <= 0 {
		return
	}
	dst := a.pix.GetPixel(x, y)
	out := railway.RGBA{
		R: src.R*alpha + dst.R*(1-alpha),
		G: src.G*alpha + dst.G*(1-alpha),
		B: src.B*alpha + dst.B*(1-alpha),
		A: alpha + dst.A*(1-alpha),
	}
	a.pix.SetPixel(x, y, out)
}

// addSpan distributes weight across the pixels cover[originX:] that the
// horizontal span [xa, xb) overlaps, proportional to the overlap length.
func addSpan(cover []float64, originX int, xa, xb float32, weight float64) {
	if xb <= xa {
		return
	}
	start := int(math.Floor(float64(xa)))
	end := int(math.Floor(float64(xb)))

	add := func(px int, frac float64) {
		idx := px - originX
		if idx >= 0 && idx < len(cover) && frac > 0 {
			cover[idx] += weight * frac
		}
	}

	if start == end {
		add(start, float64(xb-xa))
		return
	}
	add(start, float64(start+1)-float64(xa))
	for px := start + 1; px < end; px++ {
		add(px, 1)
	}
	add(end, float64(xb)-float64(end))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
