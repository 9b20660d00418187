package cut

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Wrapper decides how the run loop invokes suite and test callbacks. It is
// installed once per session. A Wrapper that catches failures must report them
// through the session (for example with AssertAt) and must not let them escape.
type Wrapper interface {
	WrapInit(s *Session, init func() Result) Result
	WrapTest(s *Session, body func() Result) Result
	WrapExit(s *Session, exit func())
}

// directWrapper calls straight through; a panic propagates to the caller of Run.
type directWrapper struct{}

func (directWrapper) WrapInit(_ *Session, init func() Result) Result { return init() }
func (directWrapper) WrapTest(_ *Session, body func() Result) Result { return body() }
func (directWrapper) WrapExit(_ *Session, exit func())               { exit() }

// PanicAdapter recovers panics from init, test and exit callbacks and records
// each one as a failed assertion located at the panicking statement. A panic
// during init or the test body turns the test into ERROR or FAIL respectively;
// a panic during exit is reported but leaves the test result unchanged.
type PanicAdapter struct{}

func (PanicAdapter) WrapInit(s *Session, init func() Result) (result Result) {
	defer func() {
		if v := recover(); v != nil {
			result = s.AssertAt(panicLocation(), false, describePanic("test initialization", v))
		}
	}()
	return init()
}

func (PanicAdapter) WrapTest(s *Session, body func() Result) (result Result) {
	defer func() {
		if v := recover(); v != nil {
			result = s.AssertAt(panicLocation(), false, describePanic("test", v))
		}
	}()
	return body()
}

func (PanicAdapter) WrapExit(s *Session, exit func()) {
	defer func() {
		if v := recover(); v != nil {
			s.AssertAt(panicLocation(), false, describePanic("test finalization", v))
		}
	}()
	exit()
}

// AssertPanics passes when fn panics.
func (s *Session) AssertPanics(fn func()) Result {
	loc := callerLocation(1)
	v, panicked := catchPanic(fn)
	if !panicked {
		return s.AssertAt(loc, false, "expected a panic, none occurred")
	}
	return s.AssertAt(loc, true, fmt.Sprintf("panicked: %v", v))
}

// AssertNoPanic passes when fn returns normally.
func (s *Session) AssertNoPanic(fn func()) Result {
	loc := callerLocation(1)
	v, panicked := catchPanic(fn)
	if panicked {
		return s.AssertAt(loc, false, fmt.Sprintf("unexpected panic: %v", v))
	}
	return s.AssertAt(loc, true, "no panic")
}

func catchPanic(fn func()) (v any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			v, panicked = r, true
		}
	}()
	fn()
	return nil, false
}

func describePanic(phase string, v any) string {
	switch e := v.(type) {
	case runtime.Error:
		return fmt.Sprintf("runtime error panic during %s: %s", phase, strings.TrimPrefix(e.Error(), "runtime error: "))
	case error:
		return fmt.Sprintf("error panic during %s: %s", phase, e.Error())
	}
	return fmt.Sprintf("panic during %s: %v", phase, v)
}

// panicLocation finds the frame that raised the panic being recovered. It must
// be called from the deferred function that recovers.
func panicLocation() Location {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	seenPanic := false
	for {
		frame, more := frames.Next()
		if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return Location{File: filepath.Base(frame.File), Line: frame.Line}
		}
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		}
		if !more {
			break
		}
	}
	return Location{File: "???", Line: 0}
}
