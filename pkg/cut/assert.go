package cut

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/srg/cut/internal/compare"
)

// Epsilon is the relative tolerance used by AssertDouble.
const Epsilon = compare.Epsilon

// Location is the source position an assertion is reported at.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// callerLocation returns the position skip frames above its caller.
func callerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{File: "???", Line: 0}
	}
	return Location{File: filepath.Base(file), Line: line}
}

// Here returns the location of its caller, for hosts that report assertions
// through AssertAt or AssertionResult.
func Here() Location {
	return callerLocation(1)
}

// AssertionResult records one assertion outcome. It is the only place that
// counts assertions and prints per-assertion lines; every Assert helper ends
// here. Invalid results are recorded as ERROR.
func (s *Session) AssertionResult(loc Location, r Result, msg string) Result {
	if !r.Valid() {
		r = Error
	}

	s.counts.Assertions[r]++
	if r == Fail || r == Error {
		if s.active != nil {
			s.active.failed = true
		}
		s.recap.add(Failure{Location: loc, Result: r, Message: msg, Test: s.currentName()})
	}

	if s.verbosity.Cases.Has(r) {
		s.printer.assertion(loc, r, msg)
	}
	return r
}

// AssertAt classifies cond: PASS when true, otherwise FAIL inside a running
// test body and ERROR anywhere else (init, exit, outside a run).
func (s *Session) AssertAt(loc Location, cond bool, msg string) Result {
	r := Pass
	if !cond {
		r = Error
		if s.active != nil {
			r = Fail
		}
	}
	return s.AssertionResult(loc, r, msg)
}

func (s *Session) assertCompare(ok bool, msg string) Result {
	return s.AssertAt(callerLocation(2), ok, msg)
}

// Assert checks a condition and reports msg as its description.
func (s *Session) Assert(cond bool, msg string) Result {
	return s.AssertAt(callerLocation(1), cond, msg)
}

// Assertf is Assert with a formatted message.
func (s *Session) Assertf(cond bool, format string, args ...any) Result {
	return s.AssertAt(callerLocation(1), cond, fmt.Sprintf(format, args...))
}

func (s *Session) AssertInt(proper, actual int64) Result {
	return s.assertCompare(compare.Int(proper, actual))
}

// AssertIntIn passes when actual is in [lo, hi), or equals lo when lo == hi.
func (s *Session) AssertIntIn(lo, hi, actual int64) Result {
	return s.assertCompare(compare.IntIn(lo, hi, actual))
}

// AssertDouble compares with the default relative tolerance Epsilon.
func (s *Session) AssertDouble(proper, actual float64) Result {
	return s.assertCompare(compare.DoubleNear(proper, actual, Epsilon))
}

func (s *Session) AssertDoubleNear(proper, actual, eps float64) Result {
	return s.assertCompare(compare.DoubleNear(proper, actual, eps))
}

func (s *Session) AssertDoubleIn(lo, hi, actual float64) Result {
	return s.assertCompare(compare.DoubleIn(lo, hi, actual))
}

func (s *Session) AssertDoubleExact(proper, actual float64) Result {
	return s.assertCompare(compare.DoubleNear(proper, actual, 0))
}

func (s *Session) AssertString(proper, actual string) Result {
	return s.assertCompare(compare.String(proper, actual))
}

// AssertStringPtr is AssertString for values that may be absent.
func (s *Session) AssertStringPtr(proper, actual *string) Result {
	return s.assertCompare(compare.NullableString(proper, actual))
}

// AssertMemory compares the first n bytes of two buffers; nil buffers are absent.
func (s *Session) AssertMemory(proper, actual []byte, n int) Result {
	return s.assertCompare(compare.Memory(proper, actual, n))
}

// AssertPointer passes when both values refer to the same object.
func (s *Session) AssertPointer(proper, actual any) Result {
	return s.assertCompare(compare.Pointer(proper, actual))
}

func (s *Session) AssertNil(actual any) Result {
	return s.AssertAt(callerLocation(1), isNil(actual), "value is nil")
}

func (s *Session) AssertNotNil(actual any) Result {
	return s.AssertAt(callerLocation(1), !isNil(actual), "value is not nil")
}

// TextOption tunes AssertText.
type TextOption = compare.TextOption

// Text normalization options for AssertText.
var (
	IgnoreTrailingWhitespace = compare.WithIgnoreTrailingWhitespace
	IgnoreEmptyLines         = compare.WithIgnoreEmptyLines
	TrimSpace                = compare.WithTrimSpace
)

// AssertText compares multi-line text and reports a unified diff on mismatch.
func (s *Session) AssertText(proper, actual string, opts ...TextOption) Result {
	opts = append([]TextOption{compare.WithColor(s.printer.color)}, opts...)
	return s.assertCompare(compare.Text(proper, actual, opts...))
}

// AssertJSON compares two JSON documents ignoring formatting and key order.
func (s *Session) AssertJSON(proper, actual []byte) Result {
	return s.assertCompare(compare.JSON(proper, actual))
}

// EndTest records the explicit end of a test body and returns r, so bodies
// can write "return s.EndTest(cut.Skip)".
func (s *Session) EndTest(r Result) Result {
	return s.AssertionResult(callerLocation(1), r, "end test: "+r.String())
}

func (s *Session) Pass() Result {
	return s.AssertionResult(callerLocation(1), Pass, "end test: PASS")
}

func (s *Session) Skip() Result {
	return s.AssertionResult(callerLocation(1), Skip, "end test: SKIP")
}

func (s *Session) Fail() Result {
	return s.AssertionResult(callerLocation(1), Fail, "end test: FAIL")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	ok, _ := compare.Pointer(nil, v)
	return ok
}
