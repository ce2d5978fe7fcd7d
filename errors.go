package railway

import (
	"errors"
	"fmt"
)

// Decode errors. All are fatal: the reader never returns a partial Program.
var (
	// ErrTruncated is returned when a section's declared count would read
	// past the end of the buffer.
	ErrTruncated = errors.New("railway: truncated file")

	// ErrBadMagic is returned when the file does not begin with the
	// four-byte "RWY0" identifier.
	ErrBadMagic = errors.New("railway: bad magic bytes")

	// ErrBadStepType is returned when a path step's type tag is outside
	// {arc, cubic, quad, line}.
	ErrBadStepType = errors.New("railway: bad step type")

	// ErrBadRenderStepKind is returned when a rendering step's kind tag is
	// outside {clip, stroke}.
	ErrBadRenderStepKind = errors.New("railway: bad rendering step kind")

	// ErrStringUnterminated is returned when a name offset does not reach
	// a NUL terminator before the end of the string blob.
	ErrStringUnterminated = errors.New("railway: unterminated string")

	// ErrBadOpcode is returned when an instruction's opcode falls outside
	// the known opcode table.
	ErrBadOpcode = errors.New("railway: bad opcode")

	// ErrForwardReference is returned when an instruction operand refers
	// to a stack position at or after its own, which decode forbids.
	ErrForwardReference = errors.New("railway: forward reference in instruction operand")
)

// IndexOutOfRangeError reports an address that fell outside the bounds of
// the table it indexes into. The Table field names the offending table so
// callers can assert on it directly.
type IndexOutOfRangeError struct {
	Table string
	Index int
	Bound int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("railway: index %d out of range for %s (bound %d)", e.Index, e.Table, e.Bound)
}

// UnknownArgumentError is returned by SetArgument when no argument in the
// Program carries the requested name.
type UnknownArgumentError struct {
	Name string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("railway: unknown argument %q", e.Name)
}

// UnknownOutputError is returned by ReadOutput when no output in the
// Program carries the requested name.
type UnknownOutputError struct {
	Name string
}

func (e *UnknownOutputError) Error() string {
	return fmt.Sprintf("railway: unknown output %q", e.Name)
}

// decodeErrorf wraps a sentinel decode error with the section under decode,
// so error messages name the offending table.
func decodeErrorf(sentinel error, section string, args ...any) error {
	msg := section
	if len(args) > 0 {
		msg = fmt.Sprintf(section, args...)
	}
	return fmt.Errorf("railway: %s: %w", msg, sentinel)
}
