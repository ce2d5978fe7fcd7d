package railway

import "math"

// Opcode identifies the operation an Instruction performs. Values are
// assigned sequentially in the order the operations are documented; the
// mapping is internal to this implementation, not a wire-format constant
// carried in the file beyond the raw integer written by the encoder that
// produced it.
type Opcode uint32

const (
	OpConstant Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpAbs
	OpMin
	OpMax
	OpSqrt
	OpSin
	OpCos
	OpTan
	OpAtan2
	OpHypot
	OpLerp
	OpClamp
	OpSelect
	OpSwap
	OpSplat

	opcodeCount
)

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "Unknown"
}

var opcodeNames = [...]string{
	OpConstant: "Constant",
	OpAdd:      "Add",
	OpSub:      "Sub",
	OpMul:      "Mul",
	OpDiv:      "Div",
	OpNeg:      "Neg",
	OpAbs:      "Abs",
	OpMin:      "Min",
	OpMax:      "Max",
	OpSqrt:     "Sqrt",
	OpSin:      "Sin",
	OpCos:      "Cos",
	OpTan:      "Tan",
	OpAtan2:    "Atan2",
	OpHypot:    "Hypot",
	OpLerp:     "Lerp",
	OpClamp:    "Clamp",
	OpSelect:   "Select",
	OpSwap:     "Swap",
	OpSplat:    "Splat",
}

// validOpcode reports whether op falls within the known table.
func validOpcode(op uint32) bool {
	return op < uint32(opcodeCount)
}

// apply executes the opcode against its (up to three) operands and returns
// the resulting Couple. All three operand slots are always supplied by the
// caller (the wire format carries three operand addresses per instruction
// unconditionally); opcodes with fewer logical inputs simply ignore the
// unused slots. NaN and Inf propagate; they are never trapped here.
func (op Opcode) apply(a, b, c Couple) Couple {
	switch op {
	case OpConstant:
		// Literal values are expressed as anonymous arguments, not
		// instructions; a Constant instruction, if one appears, passes
		// its first operand through unchanged.
		return a
	case OpAdd:
		return a.Add(b)
	case OpSub:
		return a.Sub(b)
	case OpMul:
		return Couple{X: a.X * b.X, Y: a.Y * b.Y}
	case OpDiv:
		return Couple{X: a.X / b.X, Y: a.Y / b.Y}
	case OpNeg:
		return Couple{X: -a.X, Y: -a.Y}
	case OpAbs:
		return Couple{X: float32(math.Abs(float64(a.X))), Y: float32(math.Abs(float64(a.Y)))}
	case OpMin:
		return Couple{X: minf32(a.X, b.X), Y: minf32(a.Y, b.Y)}
	case OpMax:
		return Couple{X: maxf32(a.X, b.X), Y: maxf32(a.Y, b.Y)}
	case OpSqrt:
		return Couple{X: float32(math.Sqrt(float64(a.X))), Y: float32(math.Sqrt(float64(a.Y)))}
	case OpSin:
		return Couple{X: float32(math.Sin(float64(a.X))), Y: float32(math.Sin(float64(a.Y)))}
	case OpCos:
		return Couple{X: float32(math.Cos(float64(a.X))), Y: float32(math.Cos(float64(a.Y)))}
	case OpTan:
		return Couple{X: float32(math.Tan(float64(a.X))), Y: float32(math.Tan(float64(a.Y)))}
	case OpAtan2:
		return Couple{X: float32(math.Atan2(float64(a.Y), float64(a.X))), Y: 0}
	case OpHypot:
		return Couple{X: float32(math.Hypot(float64(a.X), float64(a.Y))), Y: 0}
	case OpLerp:
		return a.Lerp(b, float64(c.X))
	case OpClamp:
		return Couple{X: clampf32(a.X, b.X, c.X), Y: clampf32(a.Y, b.Y, c.Y)}
	case OpSelect:
		return Couple{X: selectf32(a.X, b.X, c.X), Y: selectf32(a.Y, b.Y, c.Y)}
	case OpSwap:
		return Couple{X: a.Y, Y: a.X}
	case OpSplat:
		return Couple{X: a.X, Y: a.X}
	default:
		return Couple{}
	}
}

func clampf32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func selectf32(cond, a, b float32) float32 {
	if cond > 0 {
		return a
	}
	return b
}
