package luahost

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/srg/cut/pkg/cut"
)

// ScriptError describes a Lua failure while loading or installing a script.
type ScriptError struct {
	Type       string // "syntax", "runtime", "api"
	Message    string
	Line       int
	Source     string
	Underlying error
}

func (e *ScriptError) Error() string {
	var parts []string
	if e.Source != "" {
		parts = append(parts, "in "+e.Source)
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}

	prefix := "Lua " + e.Type + " error"
	if len(parts) > 0 {
		prefix += " (" + strings.Join(parts, ", ") + ")"
	}
	return prefix + ": " + e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Underlying
}

// Is matches another *ScriptError of the same Type.
func (e *ScriptError) Is(target error) bool {
	var other *ScriptError
	if errors.As(target, &other) {
		return e.Type == other.Type
	}
	return false
}

// splitLocation separates the "source:line:" prefix Lua puts on error
// messages. ok is false when msg carries no position.
func splitLocation(msg string) (loc cut.Location, rest string, ok bool) {
	first, tail, _ := strings.Cut(msg, "\n")
	parts := strings.SplitN(first, ":", 3)
	if len(parts) < 3 {
		return cut.Location{}, msg, false
	}
	line, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return cut.Location{}, msg, false
	}

	rest = strings.TrimSpace(parts[2])
	if tail != "" {
		rest += "\n" + tail
	}
	return cut.Location{File: parts[0], Line: line}, rest, true
}

func newScriptError(errType, source string, err error) *ScriptError {
	msg := err.Error()
	se := &ScriptError{Type: errType, Message: msg, Source: source, Underlying: err}
	if loc, rest, ok := splitLocation(msg); ok {
		se.Line, se.Message = loc.Line, rest
	}
	return se
}
