// Package railway decodes and runs Railway container files: compact,
// parametrically-animated 2D pictures built from a small stack program and
// a Gouraud-shaded triangle mesh.
//
// # Quick Start
//
//	prog, err := railway.Decode(data)
//	stack := prog.NewStack()
//	prog.SetArgument(stack, "t", railway.NewCouple(0.5, 0))
//	prog.Compute(stack)
//
//	pix := railway.NewPixmap(512, 512)
//	canvas := raster.NewAdapter(pix)
//	prog.Render(stack, canvas)
//
// # Architecture
//
// A Program is immutable once decoded; Decode validates every
// cross-reference the format allows (stack addresses, string offsets,
// table ranges) so later stages never bounds-check again. Compute runs the
// stack machine; Render flattens each rendering step's path and either
// fills it with a background's triangles or traces it with a stroker,
// through the caller-supplied Canvas.
//
// The raster subpackage provides the in-repo default Canvas, a CPU
// scanline fill built on an active-edge table.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians, 0 along +X, increasing counter-clockwise
package railway
