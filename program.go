package railway

// Program is a decoded Railway file: a parametric stack program plus the
// drawing tables it feeds. It is immutable once Decode returns — including
// pathDeps and bgDeps, derived once from the decode-time tables — so a
// single Program is safe to share read-only across goroutines. All mutable
// per-evaluation state (argument values, computed results, and any render
// cache) lives in caller-owned values: a stack slice and, optionally, a
// *RenderCache, one of each per rendering thread.
type Program struct {
	args         []argument
	instructions []instruction
	outputs      []output

	triangles []TriangleRef
	arcs      []ArcRef
	cubics    []CubicRef
	quads     []QuadRef
	lines     []LineRef
	strokers  []StrokerRef

	steps           []Step
	paths           []PathRef
	triangleIndexes []int
	backgrounds     []BackgroundRef
	renderingSteps  []RenderStep

	strings []byte

	// pathDeps[i] and bgDeps[i] list every stack position that feeds path i
	// or background i, respectively. They are computed once in Decode and
	// read-only thereafter; a RenderCache uses them to tell which cached
	// polygons and shaded triangles a stack write invalidates.
	pathDeps [][]int
	bgDeps   [][]int
}

func stepDeps(step Step, arcs []ArcRef, cubics []CubicRef, quads []QuadRef, lines []LineRef) []int {
	switch step.Kind {
	case StepArc:
		a := arcs[step.Index]
		return []int{a.StartPoint, a.Center, a.Deltas}
	case StepCubic:
		return cubics[step.Index].Points[:]
	case StepQuad:
		return quads[step.Index].Points[:]
	case StepLine:
		return lines[step.Index].Points[:]
	default:
		return nil
	}
}

// computeRenderDeps derives, for every path and every background, the stack
// positions its flattening or shading reads. Called once from Decode.
func computeRenderDeps(p *Program) (pathDeps, bgDeps [][]int) {
	pathDeps = make([][]int, len(p.paths))
	for i, path := range p.paths {
		var deps []int
		for s := 0; s < path.StepCount; s++ {
			deps = append(deps, stepDeps(p.steps[path.FirstStep+s], p.arcs, p.cubics, p.quads, p.lines)...)
		}
		pathDeps[i] = deps
	}

	bgDeps = make([][]int, len(p.backgrounds))
	for i, bg := range p.backgrounds {
		var deps []int
		for j := 0; j < bg.Count; j++ {
			tri := p.triangles[p.triangleIndexes[bg.FirstTriangleIndex+j]]
			deps = append(deps, tri.Points[:]...)
			for _, pair := range tri.Colors {
				deps = append(deps, pair[:]...)
			}
		}
		bgDeps[i] = deps
	}
	return pathDeps, bgDeps
}

// RenderCache holds the mutable state Render needs to skip re-flattening a
// path, or re-deriving a background's shaded triangles, when none of the
// stack slots it reads changed since the previous Render call on the same
// Program. It belongs to the caller, not the Program: each rendering thread
// that wants caching constructs its own RenderCache and reuses it across
// frames, exactly as it reuses its own stack and canvas.
//
// A RenderCache is only ever valid against the Program it was built from;
// using one with a different Program produces nonsense results (the index
// spaces don't correspond) rather than a detectable error.
type RenderCache struct {
	lastStack []Couple
	changed   []bool
	pathValid []bool
	bgValid   []bool
	poly      [][]Couple
	tris      [][]shadedTriangle
}

// NewRenderCache allocates a RenderCache sized for p, with every entry
// marked invalid so the first Render call using it rebuilds everything.
// All buffers a steady-state Render call writes into are pre-sized here;
// Render itself performs no allocation beyond what a path's own polygon
// growth demands when a curve is flattened finer than it was last frame.
func NewRenderCache(p *Program) *RenderCache {
	c := &RenderCache{
		changed:   make([]bool, p.StackSize()),
		pathValid: make([]bool, len(p.paths)),
		bgValid:   make([]bool, len(p.bgDeps)),
		poly:      make([][]Couple, len(p.paths)),
		tris:      make([][]shadedTriangle, len(p.backgrounds)),
	}
	for i, bg := range p.backgrounds {
		c.tris[i] = make([]shadedTriangle, bg.Count)
	}
	return c
}

// invalidate compares stack against the copy from the previous call and
// clears pathValid/bgValid for every path or background whose dependencies
// touched a changed slot. The first call after construction invalidates
// everything, since lastStack starts nil.
func (c *RenderCache) invalidate(p *Program, stack []Couple) {
	if c.lastStack == nil {
		for i := range c.changed {
			c.changed[i] = true
		}
	} else {
		for i, v := range stack {
			c.changed[i] = v != c.lastStack[i]
		}
	}

	anyChanged := func(deps []int) bool {
		for _, d := range deps {
			if c.changed[d] {
				return true
			}
		}
		return false
	}
	for i, deps := range p.pathDeps {
		if anyChanged(deps) {
			c.pathValid[i] = false
		}
	}
	for i, deps := range p.bgDeps {
		if anyChanged(deps) {
			c.bgValid[i] = false
		}
	}

	c.lastStack = append(c.lastStack[:0], stack...)
}

// StackSize is the number of Couples NewStack allocates: one slot per
// argument followed by one slot per instruction, in file order.
func (p *Program) StackSize() int {
	return len(p.args) + len(p.instructions)
}

// Parameter describes one entry of Parameters(): its name, default value,
// and inclusive clamp range.
type Parameter struct {
	Name    string
	Default Couple
	Min     Couple
	Max     Couple
}

// Parameters returns every argument the program accepts, in file order.
func (p *Program) Parameters() ([]Parameter, error) {
	out := make([]Parameter, len(p.args))
	for i, a := range p.args {
		name, err := stringAt(p.strings, a.NameOffset)
		if err != nil {
			return nil, err
		}
		out[i] = Parameter{Name: name, Default: a.Default, Min: a.Min, Max: a.Max}
	}
	return out, nil
}

// Output names one addressable result: a name and the stack position
// holding its value once Compute has run.
type Output struct {
	Name  string
	Index int
}

// Outputs returns every named output the program declares, in file order.
func (p *Program) Outputs() ([]Output, error) {
	out := make([]Output, len(p.outputs))
	for i, o := range p.outputs {
		name, err := stringAt(p.strings, o.NameOffset)
		if err != nil {
			return nil, err
		}
		out[i] = Output{Name: name, Index: int(o.Index)}
	}
	return out, nil
}

// NewStack allocates a stack sized for this program and seeds every
// argument slot with its declared default.
func (p *Program) NewStack() []Couple {
	stack := make([]Couple, p.StackSize())
	for i, a := range p.args {
		stack[i] = a.Default
	}
	return stack
}

// SetArgument writes value into the first argument slot named name,
// clamping it to that argument's declared range. It returns
// *UnknownArgumentError if no argument carries the name.
func (p *Program) SetArgument(stack []Couple, name string, value Couple) error {
	for i, a := range p.args {
		argName, err := stringAt(p.strings, a.NameOffset)
		if err != nil {
			return err
		}
		if argName != name {
			continue
		}
		stack[i] = Couple{
			X: clampf32(value.X, minf32(a.Min.X, a.Max.X), maxf32(a.Min.X, a.Max.X)),
			Y: clampf32(value.Y, minf32(a.Min.Y, a.Max.Y), maxf32(a.Min.Y, a.Max.Y)),
		}
		return nil
	}
	return &UnknownArgumentError{Name: name}
}

// ReadOutput returns the current value of the named output. It returns
// *UnknownOutputError if no output carries the name.
func (p *Program) ReadOutput(stack []Couple, name string) (Couple, error) {
	for _, o := range p.outputs {
		outName, err := stringAt(p.strings, o.NameOffset)
		if err != nil {
			return Couple{}, err
		}
		if outName == name {
			return stack[o.Index], nil
		}
	}
	return Couple{}, &UnknownOutputError{Name: name}
}

// Compute runs every instruction in file order, writing each result at
// stack position len(args)+i. Operand addresses were validated at decode
// time to precede their own write position, so this pass never reads an
// unwritten slot.
func (p *Program) Compute(stack []Couple) {
	base := len(p.args)
	for i, inst := range p.instructions {
		a := stack[inst.Operands[0]]
		b := stack[inst.Operands[1]]
		c := stack[inst.Operands[2]]
		stack[base+i] = Opcode(inst.Opcode).apply(a, b, c)
	}
}

// RenderOptions controls how Render turns the drawing tables into pixels.
type RenderOptions struct {
	// Tolerance is the maximum pixel-space deviation curve flattening and
	// arc subdivision may introduce. Zero selects DefaultTolerance.
	Tolerance float64

	cache *RenderCache
}

// RenderOption configures a RenderOptions value.
type RenderOption func(*RenderOptions)

// DefaultTolerance is used when no tolerance is supplied to Render.
const DefaultTolerance = 0.25

// WithTolerance overrides the flattening tolerance, in pixels.
func WithTolerance(t float64) RenderOption {
	return func(o *RenderOptions) { o.Tolerance = t }
}

// WithCache makes Render reuse cache across calls, skipping the rebuild for
// any path or background whose referenced stack slots are unchanged since
// the cache's previous use. cache must have been built with NewRenderCache
// against this same Program. Omitting WithCache makes Render recompute
// every path and background from scratch, which is always correct but does
// no caching across calls — the right choice for a one-off render, or for
// code that does not want to own a RenderCache.
func WithCache(cache *RenderCache) RenderOption {
	return func(o *RenderOptions) { o.cache = cache }
}

// Render executes every rendering step in file order (Z-order), flattening
// each step's path and either filling it with its background's
// Gouraud-shaded triangles (clip) or tracing it with its stroker (stroke).
// A step whose flattened polygon has any point with a non-finite
// coordinate, and a fill whose flattened polygon has negligible area, is
// skipped whole before it reaches canvas — flattening a
// path that referenced an argument pushed to NaN or Inf must not hand the
// rasterizer garbage bounds.
//
// Passing WithCache(cache) lets Render skip rebuilding a path's flattened
// polygon or a background's shaded triangles when the stack slots they
// read are unchanged since cache's last use — the common case when only a
// few arguments move between frames of an animation. Without it, Render
// recomputes everything and allocates fresh working buffers each call.
func (p *Program) Render(stack []Couple, canvas Canvas, opts ...RenderOption) {
	ro := RenderOptions{Tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&ro)
	}
	tolerance := ro.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	canvasW, canvasH := canvas.Size()

	if ro.cache != nil {
		p.renderCached(stack, canvas, ro.cache, tolerance, canvasW, canvasH)
		return
	}

	var poly []Couple
	for _, rs := range p.renderingSteps {
		path := p.paths[rs.Path]
		poly = poly[:0]
		if path.StepCount > 0 && p.pathVisible(stack, rs, path, canvasW, canvasH) {
			for s := 0; s < path.StepCount; s++ {
				step := p.steps[path.FirstStep+s]
				poly = FlattenStep(poly, stack, step, p.arcs, p.cubics, p.quads, p.lines, tolerance)
			}
		}
		var tris []shadedTriangle
		if rs.Kind == RenderClip {
			bg := p.backgrounds[rs.Arg]
			tris = make([]shadedTriangle, bg.Count)
			for i := 0; i < bg.Count; i++ {
				triIdx := p.triangleIndexes[bg.FirstTriangleIndex+i]
				tris[i] = newShadedTriangle(stack, p.triangles[triIdx])
			}
		}
		p.paint(stack, rs, poly, tris, canvas, tolerance)
	}
}

func (p *Program) renderCached(stack []Couple, canvas Canvas, cache *RenderCache, tolerance float64, canvasW, canvasH int) {
	cache.invalidate(p, stack)

	for _, rs := range p.renderingSteps {
		path := p.paths[rs.Path]
		if !cache.pathValid[rs.Path] {
			poly := cache.poly[rs.Path][:0]
			if path.StepCount > 0 && p.pathVisible(stack, rs, path, canvasW, canvasH) {
				for s := 0; s < path.StepCount; s++ {
					step := p.steps[path.FirstStep+s]
					poly = FlattenStep(poly, stack, step, p.arcs, p.cubics, p.quads, p.lines, tolerance)
				}
			}
			cache.poly[rs.Path] = poly
			cache.pathValid[rs.Path] = true
		}

		var tris []shadedTriangle
		if rs.Kind == RenderClip {
			if !cache.bgValid[rs.Arg] {
				bg := p.backgrounds[rs.Arg]
				for i := 0; i < bg.Count; i++ {
					triIdx := p.triangleIndexes[bg.FirstTriangleIndex+i]
					cache.tris[rs.Arg][i] = newShadedTriangle(stack, p.triangles[triIdx])
				}
				cache.bgValid[rs.Arg] = true
			}
			tris = cache.tris[rs.Arg]
		}
		p.paint(stack, rs, cache.poly[rs.Path], tris, canvas, tolerance)
	}
}

// pathVisible reports whether path's bounding box — padded by half the
// stroker's width, for a stroke step — can possibly overlap the canvas,
// letting Render skip flattening (and its curve subdivision) for a path
// that would paint nothing visible anyway.
func (p *Program) pathVisible(stack []Couple, rs RenderStep, path PathRef, canvasW, canvasH int) bool {
	box := stepBoundingBox(stack, p.steps[path.FirstStep], p.arcs, p.cubics, p.quads, p.lines)
	for s := 1; s < path.StepCount; s++ {
		box = box.Union(stepBoundingBox(stack, p.steps[path.FirstStep+s], p.arcs, p.cubics, p.quads, p.lines))
	}
	if rs.Kind == RenderStroke {
		half := resolveStroker(stack, p.strokers[rs.Arg]).Width / 2
		box.Min = NewCouple(float64(box.Min.X)-half, float64(box.Min.Y)-half)
		box.Max = NewCouple(float64(box.Max.X)+half, float64(box.Max.Y)+half)
	}
	return box.intersectsCanvas(canvasW, canvasH)
}

// paint fills or strokes one rendering step's flattened polygon, filtering
// out non-finite coordinates and negligible-area fills before they reach
// canvas. tris is ignored for a RenderStroke step.
func (p *Program) paint(stack []Couple, rs RenderStep, poly []Couple, tris []shadedTriangle, canvas Canvas, tolerance float64) {
	if len(poly) < 2 || !polygonFinite(poly) {
		return
	}
	switch rs.Kind {
	case RenderClip:
		if nearZeroArea(poly) {
			return
		}
		canvas.FillPolygon(poly, backgroundShader(tris), tolerance)
	case RenderStroke:
		stroker := resolveStroker(stack, p.strokers[rs.Arg])
		StrokePolygon(canvas, poly, stroker, tolerance)
	}
}

// backgroundShader returns a Shader sampling the first of tris covering
// (x, y); pixels no triangle covers are left untouched (alpha zero).
func backgroundShader(tris []shadedTriangle) Shader {
	return func(x, y float64) RGBA {
		pt := NewCouple(x, y)
		for i := range tris {
			if c, ok := tris[i].colorAt(pt); ok {
				return c
			}
		}
		return RGBA{}
	}
}
