package railway

// Shader returns the RGBA color a filled polygon should paint at pixel
// coordinates (x, y). An alpha of zero means "leave the destination pixel
// untouched" — the clip rasterizer uses this for pixels no background
// triangle covers.
type Shader func(x, y float64) RGBA

// Canvas is the narrow sink the core rasterizer draws through. Callers
// supply an implementation; an in-repo default backed by a CPU
// active-edge-table fill lives in the raster subpackage.
//
// FillPolygon rasterizes the closed polygon described by points (the
// rasterizer implicitly closes it — the last point need not equal the
// first), computing per-pixel coverage alpha with the given flattening
// tolerance and compositing shader(x, y) scaled by that alpha over the
// current buffer content using source-over blending.
//
// Size reports the canvas dimensions, used by the core for culling and to
// interpret tolerance in pixel units.
type Canvas interface {
	FillPolygon(points []Couple, shader Shader, tolerance float64)
	Size() (width, height int)
}
