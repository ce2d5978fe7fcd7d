package railway

import (
	"encoding/binary"
	"math"
)

// magic is the four-byte identifier every Railway file begins with.
var magic = [4]byte{'R', 'W', 'Y', '0'}

// Decode parses a Railway container from data, validating every section in
// file order and every cross-reference the format allows (stack operand
// addresses, string offsets, step/path/background/triangle-index ranges,
// step and rendering-step type tags). It never returns a partially built
// Program: any error aborts decoding entirely.
func Decode(data []byte) (*Program, error) {
	r := &reader{data: data}

	if err := r.readMagic(); err != nil {
		return nil, err
	}

	args, err := readTable(r, "arguments", readArgument)
	if err != nil {
		return nil, err
	}
	instructions, err := readTable(r, "instructions", readInstruction)
	if err != nil {
		return nil, err
	}
	outputs, err := readTable(r, "outputs", readOutput)
	if err != nil {
		return nil, err
	}
	triangles, err := readTable(r, "triangles", readTriangle)
	if err != nil {
		return nil, err
	}
	arcs, err := readTable(r, "arcs", readArc)
	if err != nil {
		return nil, err
	}
	cubics, err := readTable(r, "cubic_curves", readCubic)
	if err != nil {
		return nil, err
	}
	quads, err := readTable(r, "quadratic_curves", readQuad)
	if err != nil {
		return nil, err
	}
	lines, err := readTable(r, "lines", readLine)
	if err != nil {
		return nil, err
	}
	strokers, err := readTable(r, "strokers", readStroker)
	if err != nil {
		return nil, err
	}
	steps, err := readTable(r, "steps", readStep)
	if err != nil {
		return nil, err
	}
	paths, err := readTable(r, "paths", readPath)
	if err != nil {
		return nil, err
	}
	triangleIndexes, err := readTable(r, "triangle_indexes", readTriangleIndex)
	if err != nil {
		return nil, err
	}
	backgrounds, err := readTable(r, "backgrounds", readBackground)
	if err != nil {
		return nil, err
	}
	renderingSteps, err := readTable(r, "rendering_steps", readRenderingStep)
	if err != nil {
		return nil, err
	}
	strings, err := r.readStringBytes()
	if err != nil {
		return nil, err
	}

	p := &Program{
		args:            args,
		instructions:    instructions,
		outputs:         outputs,
		triangles:       triangles,
		arcs:            arcs,
		cubics:          cubics,
		quads:           quads,
		lines:           lines,
		strokers:        strokers,
		steps:           steps,
		paths:           paths,
		triangleIndexes: triangleIndexes,
		backgrounds:     backgrounds,
		renderingSteps:  renderingSteps,
		strings:         strings,
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	p.pathDeps, p.bgDeps = computeRenderDeps(p)
	return p, nil
}

// reader walks data sequentially, tracking a single cursor. Every read
// method returns ErrTruncated the instant a read would cross the end of
// the buffer.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) readMagic() error {
	if len(r.data) < 4 {
		return decodeErrorf(ErrTruncated, "magic")
	}
	var got [4]byte
	copy(got[:], r.data[:4])
	if got != magic {
		return decodeErrorf(ErrBadMagic, "magic")
	}
	r.pos = 4
	return nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, decodeErrorf(ErrTruncated, "u32 at offset %d", r.pos)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) f32() (float32, error) {
	bits, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (r *reader) couple() (Couple, error) {
	x, err := r.f32()
	if err != nil {
		return Couple{}, err
	}
	y, err := r.f32()
	if err != nil {
		return Couple{}, err
	}
	return Couple{X: x, Y: y}, nil
}

func (r *reader) byte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, decodeErrorf(ErrTruncated, "byte at offset %d", r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// readTable reads a u32 record count followed by that many records decoded
// by elem, and is the shape every one of the format's 14 tables shares.
func readTable[T any](r *reader, section string, elem func(*reader) (T, error)) ([]T, error) {
	count, err := r.u32()
	if err != nil {
		return nil, decodeErrorf(ErrTruncated, "%s: count", section)
	}
	out := make([]T, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, decodeErrorf(err, "%s[%d]", section, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// argument is a decoded, not-yet-validated Parameters() entry: name offset,
// default value, and inclusive range.
type argument struct {
	NameOffset uint32
	Default    Couple
	Min        Couple
	Max        Couple
}

func readArgument(r *reader) (argument, error) {
	nameOffset, err := r.u32()
	if err != nil {
		return argument{}, err
	}
	def, err := r.couple()
	if err != nil {
		return argument{}, err
	}
	min, err := r.couple()
	if err != nil {
		return argument{}, err
	}
	max, err := r.couple()
	if err != nil {
		return argument{}, err
	}
	return argument{NameOffset: nameOffset, Default: def, Min: min, Max: max}, nil
}

type instruction struct {
	Opcode   uint32
	Operands [3]uint32
}

func readInstruction(r *reader) (instruction, error) {
	op, err := r.u32()
	if err != nil {
		return instruction{}, err
	}
	var operands [3]uint32
	for i := range operands {
		operands[i], err = r.u32()
		if err != nil {
			return instruction{}, err
		}
	}
	return instruction{Opcode: op, Operands: operands}, nil
}

type output struct {
	NameOffset uint32
	Index      uint32
}

func readOutput(r *reader) (output, error) {
	nameOffset, err := r.u32()
	if err != nil {
		return output{}, err
	}
	index, err := r.u32()
	if err != nil {
		return output{}, err
	}
	return output{NameOffset: nameOffset, Index: index}, nil
}

func readTriangle(r *reader) (TriangleRef, error) {
	var t TriangleRef
	for i := range t.Points {
		v, err := r.u32()
		if err != nil {
			return t, err
		}
		t.Points[i] = int(v)
	}
	for i := range t.Colors {
		for j := range t.Colors[i] {
			v, err := r.u32()
			if err != nil {
				return t, err
			}
			t.Colors[i][j] = int(v)
		}
	}
	return t, nil
}

func readArc(r *reader) (ArcRef, error) {
	start, err := r.u32()
	if err != nil {
		return ArcRef{}, err
	}
	center, err := r.u32()
	if err != nil {
		return ArcRef{}, err
	}
	deltas, err := r.u32()
	if err != nil {
		return ArcRef{}, err
	}
	return ArcRef{StartPoint: int(start), Center: int(center), Deltas: int(deltas)}, nil
}

func readCubic(r *reader) (CubicRef, error) {
	var c CubicRef
	for i := range c.Points {
		v, err := r.u32()
		if err != nil {
			return c, err
		}
		c.Points[i] = int(v)
	}
	return c, nil
}

func readQuad(r *reader) (QuadRef, error) {
	var q QuadRef
	for i := range q.Points {
		v, err := r.u32()
		if err != nil {
			return q, err
		}
		q.Points[i] = int(v)
	}
	return q, nil
}

func readLine(r *reader) (LineRef, error) {
	var l LineRef
	for i := range l.Points {
		v, err := r.u32()
		if err != nil {
			return l, err
		}
		l.Points[i] = int(v)
	}
	return l, nil
}

func readStroker(r *reader) (StrokerRef, error) {
	pattern, err := r.u32()
	if err != nil {
		return StrokerRef{}, err
	}
	width, err := r.u32()
	if err != nil {
		return StrokerRef{}, err
	}
	rg, err := r.u32()
	if err != nil {
		return StrokerRef{}, err
	}
	ba, err := r.u32()
	if err != nil {
		return StrokerRef{}, err
	}
	return StrokerRef{Pattern: int(pattern), Width: int(width), ColorRG: int(rg), ColorBA: int(ba)}, nil
}

func readStep(r *reader) (Step, error) {
	kind, err := r.u32()
	if err != nil {
		return Step{}, err
	}
	if kind >= uint32(stepKindCount) {
		return Step{}, ErrBadStepType
	}
	index, err := r.u32()
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepKind(kind), Index: int(index)}, nil
}

func readPath(r *reader) (PathRef, error) {
	first, err := r.u32()
	if err != nil {
		return PathRef{}, err
	}
	count, err := r.u32()
	if err != nil {
		return PathRef{}, err
	}
	return PathRef{FirstStep: int(first), StepCount: int(count)}, nil
}

func readTriangleIndex(r *reader) (int, error) {
	v, err := r.u32()
	return int(v), err
}

func readBackground(r *reader) (BackgroundRef, error) {
	first, err := r.u32()
	if err != nil {
		return BackgroundRef{}, err
	}
	count, err := r.u32()
	if err != nil {
		return BackgroundRef{}, err
	}
	return BackgroundRef{FirstTriangleIndex: int(first), Count: int(count)}, nil
}

func readRenderingStep(r *reader) (RenderStep, error) {
	kind, err := r.u32()
	if err != nil {
		return RenderStep{}, err
	}
	if kind >= uint32(renderStepKindCount) {
		return RenderStep{}, ErrBadRenderStepKind
	}
	path, err := r.u32()
	if err != nil {
		return RenderStep{}, err
	}
	arg, err := r.u32()
	if err != nil {
		return RenderStep{}, err
	}
	return RenderStep{Kind: RenderStepKind(kind), Path: int(path), Arg: int(arg)}, nil
}

// readStringBytes reads the trailing string_bytes section: a u32 byte
// count followed by that many raw bytes, the blob that name offsets index
// into. Unlike every other section this one is byte-granular, not
// record-granular.
func (r *reader) readStringBytes() ([]byte, error) {
	count, err := r.u32()
	if err != nil {
		return nil, decodeErrorf(ErrTruncated, "string_bytes: count")
	}
	if r.pos+int(count) > len(r.data) {
		return nil, decodeErrorf(ErrTruncated, "string_bytes")
	}
	buf := make([]byte, count)
	copy(buf, r.data[r.pos:r.pos+int(count)])
	r.pos += int(count)
	return buf, nil
}

// stringAt reads a NUL-terminated name starting at offset within strings.
func stringAt(strings []byte, offset uint32) (string, error) {
	if int(offset) > len(strings) {
		return "", &IndexOutOfRangeError{Table: "string_bytes", Index: int(offset), Bound: len(strings)}
	}
	for i := int(offset); i < len(strings); i++ {
		if strings[i] == 0 {
			return string(strings[offset:i]), nil
		}
	}
	return "", ErrStringUnterminated
}
