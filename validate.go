package railway

// validate performs the post-decode invariant pass every Decode call runs
// before handing back a Program: every stack address, string offset, and
// table range the format allows must fall within bounds, and instruction
// operands must not forward-reference a slot not yet written.
func (p *Program) validate() error {
	stackSize := p.StackSize()

	checkStack := func(table string, idx int) error {
		if idx < 0 || idx >= stackSize {
			return &IndexOutOfRangeError{Table: table, Index: idx, Bound: stackSize}
		}
		return nil
	}

	for i, a := range p.args {
		if _, err := stringAt(p.strings, a.NameOffset); err != nil {
			return decodeErrorf(err, "arguments[%d].name", i)
		}
	}

	base := len(p.args)
	for i, inst := range p.instructions {
		if !validOpcode(inst.Opcode) {
			return decodeErrorf(ErrBadOpcode, "instructions[%d]", i)
		}
		writePos := base + i
		for _, operand := range inst.Operands {
			if int(operand) >= writePos {
				return decodeErrorf(ErrForwardReference, "instructions[%d]", i)
			}
			if err := checkStack("instructions", int(operand)); err != nil {
				return err
			}
		}
	}

	for i, o := range p.outputs {
		if _, err := stringAt(p.strings, o.NameOffset); err != nil {
			return decodeErrorf(err, "outputs[%d].name", i)
		}
		if err := checkStack("outputs", int(o.Index)); err != nil {
			return err
		}
	}

	for i, t := range p.triangles {
		for _, idx := range t.Points {
			if err := checkStack("triangles", idx); err != nil {
				return decodeErrorf(err, "triangles[%d]", i)
			}
		}
		for _, pair := range t.Colors {
			for _, idx := range pair {
				if err := checkStack("triangles", idx); err != nil {
					return decodeErrorf(err, "triangles[%d]", i)
				}
			}
		}
	}

	for i, a := range p.arcs {
		for _, idx := range []int{a.StartPoint, a.Center, a.Deltas} {
			if err := checkStack("arcs", idx); err != nil {
				return decodeErrorf(err, "arcs[%d]", i)
			}
		}
	}

	for i, c := range p.cubics {
		for _, idx := range c.Points {
			if err := checkStack("cubic_curves", idx); err != nil {
				return decodeErrorf(err, "cubic_curves[%d]", i)
			}
		}
	}

	for i, q := range p.quads {
		for _, idx := range q.Points {
			if err := checkStack("quadratic_curves", idx); err != nil {
				return decodeErrorf(err, "quadratic_curves[%d]", i)
			}
		}
	}

	for i, l := range p.lines {
		for _, idx := range l.Points {
			if err := checkStack("lines", idx); err != nil {
				return decodeErrorf(err, "lines[%d]", i)
			}
		}
	}

	for i, s := range p.strokers {
		for _, idx := range []int{s.Pattern, s.Width, s.ColorRG, s.ColorBA} {
			if err := checkStack("strokers", idx); err != nil {
				return decodeErrorf(err, "strokers[%d]", i)
			}
		}
	}

	for i, s := range p.steps {
		var bound int
		switch s.Kind {
		case StepArc:
			bound = len(p.arcs)
		case StepCubic:
			bound = len(p.cubics)
		case StepQuad:
			bound = len(p.quads)
		case StepLine:
			bound = len(p.lines)
		default:
			return decodeErrorf(ErrBadStepType, "steps[%d]", i)
		}
		if s.Index < 0 || s.Index >= bound {
			return decodeErrorf(&IndexOutOfRangeError{Table: "steps", Index: s.Index, Bound: bound}, "steps[%d]", i)
		}
	}

	for i, path := range p.paths {
		if path.FirstStep < 0 || path.StepCount < 0 || path.FirstStep+path.StepCount > len(p.steps) {
			return decodeErrorf(&IndexOutOfRangeError{Table: "paths", Index: path.FirstStep + path.StepCount, Bound: len(p.steps)}, "paths[%d]", i)
		}
	}

	for i, idx := range p.triangleIndexes {
		if idx < 0 || idx >= len(p.triangles) {
			return decodeErrorf(&IndexOutOfRangeError{Table: "triangle_indexes", Index: idx, Bound: len(p.triangles)}, "triangle_indexes[%d]", i)
		}
	}

	for i, bg := range p.backgrounds {
		if bg.FirstTriangleIndex < 0 || bg.Count < 0 || bg.FirstTriangleIndex+bg.Count > len(p.triangleIndexes) {
			return decodeErrorf(&IndexOutOfRangeError{Table: "backgrounds", Index: bg.FirstTriangleIndex + bg.Count, Bound: len(p.triangleIndexes)}, "backgrounds[%d]", i)
		}
	}

	for i, rs := range p.renderingSteps {
		if rs.Path < 0 || rs.Path >= len(p.paths) {
			return decodeErrorf(&IndexOutOfRangeError{Table: "rendering_steps.path", Index: rs.Path, Bound: len(p.paths)}, "rendering_steps[%d]", i)
		}
		switch rs.Kind {
		case RenderClip:
			if rs.Arg < 0 || rs.Arg >= len(p.backgrounds) {
				return decodeErrorf(&IndexOutOfRangeError{Table: "rendering_steps.background", Index: rs.Arg, Bound: len(p.backgrounds)}, "rendering_steps[%d]", i)
			}
		case RenderStroke:
			if rs.Arg < 0 || rs.Arg >= len(p.strokers) {
				return decodeErrorf(&IndexOutOfRangeError{Table: "rendering_steps.stroker", Index: rs.Arg, Bound: len(p.strokers)}, "rendering_steps[%d]", i)
			}
		default:
			return decodeErrorf(ErrBadRenderStepKind, "rendering_steps[%d]", i)
		}
	}

	return nil
}
