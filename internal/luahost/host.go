// Package luahost lets test suites be written in Lua. A script registers
// suites and tests through the global "cut" table; the tests then run in the
// same Session as Go suites. Lua errors raised by a test body, init or exit
// are reported as failed assertions at the position Lua gives for them.
package luahost

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/aarzilli/golua/lua"
	"github.com/sirupsen/logrus"
	"github.com/smallnest/ringbuffer"

	"github.com/srg/cut/pkg/cut"
)

//go:embed prelude.lua
var prelude string

// DefaultOutputCap bounds the Lua print output buffered between flushes.
const DefaultOutputCap = 64 * 1024

// Host owns one Lua state bound to a Session. It must be used from the
// goroutine that runs the session.
type Host struct {
	session *cut.Session
	state   *lua.State
	logger  *logrus.Entry
	output  *ringbuffer.RingBuffer

	truncated bool

	// suites configured with cut.config during the current script
	configured map[string]bool
	current    string
}

// luaState is the fixture of a Lua suite: a registry reference to the table
// handed to init, the test body and exit.
type luaState struct {
	table int
}

// New creates a Lua state with the standard libraries and the cut API.
func New(session *cut.Session, logger *logrus.Logger) (*Host, error) {
	if logger == nil {
		logger = session.Logger()
	}

	h := &Host{
		session:    session,
		state:      lua.NewState(),
		logger:     logger.WithField("component", "luahost").WithField("run", session.RunID()),
		output:     ringbuffer.New(DefaultOutputCap),
		configured: make(map[string]bool),
	}

	h.state.OpenLibs()
	h.registerPrint()
	h.registerAPI()

	if err := h.state.DoString(prelude); err != nil {
		h.state.Close()
		return nil, newScriptError("api", "prelude", err)
	}
	return h, nil
}

// Close releases the Lua state. Tests registered by this host must not run
// afterwards.
func (h *Host) Close() {
	if h.state == nil {
		return
	}
	h.state.Close()
	h.state = nil
}

// LoadFile runs a Lua script that installs suites.
func (h *Host) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return h.LoadString(string(content), path)
}

// LoadString runs script under the given chunk name. Suites and tests it
// registers are added to the session.
func (h *Host) LoadString(script, name string) error {
	if script == "" {
		return &ScriptError{Type: "api", Message: "empty script", Source: name}
	}
	if h.state == nil {
		return &ScriptError{Type: "api", Message: "host is closed", Source: name}
	}

	L := h.state
	top := L.GetTop()
	defer L.SetTop(top)

	L.GetGlobal("_cut_load")
	L.PushString(script)
	L.PushString("@" + name)
	if err := L.Call(2, 2); err != nil {
		return newScriptError("api", name, err)
	}
	if L.IsNil(-2) {
		return newScriptError("syntax", name, errors.New(L.ToString(-1)))
	}
	L.Pop(1)

	h.logger.WithField("script", name).Debug("Loading Lua suites")
	err := L.Call(0, 0)
	h.flushOutput()
	if err != nil {
		return newScriptError("runtime", name, err)
	}
	return nil
}

// Define sets a global visible to scripts loaded afterwards. Supported values
// are nil, bool, string, integers and float64.
func (h *Host) Define(name string, value any) error {
	L := h.state
	if L == nil {
		return &ScriptError{Type: "api", Message: "host is closed"}
	}

	switch v := value.(type) {
	case nil:
		L.PushNil()
	case bool:
		L.PushBoolean(v)
	case string:
		L.PushString(v)
	case int:
		L.PushInteger(int64(v))
	case int64:
		L.PushInteger(v)
	case float64:
		L.PushNumber(v)
	default:
		return fmt.Errorf("%w: cannot define %s as %T", cut.ErrInvalidArgument, name, value)
	}
	L.SetGlobal(name)
	return nil
}

// ref stores the value at idx in the registry.
func (h *Host) ref(idx int) int {
	h.state.PushValue(idx)
	return h.state.Ref(lua.LUA_REGISTRYINDEX)
}

// call invokes the function behind ref with the given state table (0 for
// none) and returns its single result as a Result. Lua errors are returned as
// err, with the result left at Pass.
func (h *Host) call(fnRef, tableRef int) (cut.Result, error) {
	L := h.state
	if L == nil {
		return cut.Error, errors.New("Lua host is closed")
	}

	top := L.GetTop()
	defer L.SetTop(top)
	defer h.flushOutput()

	L.RawGeti(lua.LUA_REGISTRYINDEX, fnRef)
	nargs := 0
	if tableRef != 0 {
		L.RawGeti(lua.LUA_REGISTRYINDEX, tableRef)
		nargs = 1
	}
	if err := L.Call(nargs, 1); err != nil {
		return cut.Pass, err
	}
	return h.resultAt(-1), nil
}

// resultAt converts a Lua return value: nothing or true is PASS, false is
// FAIL, numbers are result codes and strings are result names.
func (h *Host) resultAt(idx int) cut.Result {
	L := h.state
	switch {
	case L.IsNil(idx):
		return cut.Pass
	case L.IsBoolean(idx):
		if L.ToBoolean(idx) {
			return cut.Pass
		}
		return cut.Fail
	case L.Type(idx) == lua.LUA_TSTRING:
		r, err := cut.ParseResult(L.ToString(idx))
		if err != nil {
			return cut.Error
		}
		return r
	case L.IsNumber(idx):
		return cut.Result(L.ToInteger(idx))
	}
	return cut.Error
}

// reportError records a Lua error as an assertion at the position named in
// its message.
func (h *Host) reportError(phase string, err error) cut.Result {
	msg := err.Error()
	loc, rest, ok := splitLocation(msg)
	if !ok {
		loc = cut.Location{File: "[lua]", Line: 0}
	}
	return h.session.AssertAt(loc, false, fmt.Sprintf("Lua error during %s: %s", phase, rest))
}
