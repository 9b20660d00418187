package luahost

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aarzilli/golua/lua"
	"github.com/smallnest/ringbuffer"

	"github.com/srg/cut/internal/compare"
	"github.com/srg/cut/pkg/cut"
)

// registerPrint replaces print so script output goes through the session
// printer instead of interleaving with test lines.
func (h *Host) registerPrint() {
	L := h.state
	L.PushGoFunction(func(L *lua.State) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, h.toDisplay(i))
		}
		h.writeOutput(strings.Join(parts, "\t") + "\n")
		return 0
	})
	L.SetGlobal("print")
}

func (h *Host) toDisplay(i int) string {
	L := h.state
	switch {
	case L.IsNil(i):
		return "nil"
	case L.IsBoolean(i):
		if L.ToBoolean(i) {
			return "true"
		}
		return "false"
	case L.Type(i) == lua.LUA_TSTRING:
		return L.ToString(i)
	case L.IsNumber(i):
		return fmt.Sprintf("%v", L.ToNumber(i))
	}

	L.GetGlobal("tostring")
	L.PushValue(i)
	if err := L.Call(1, 1); err != nil {
		return "?"
	}
	s := L.ToString(-1)
	L.Pop(1)
	return s
}

func (h *Host) writeOutput(s string) {
	if _, err := h.output.Write([]byte(s)); err != nil {
		h.truncated = true
		if !errors.Is(err, ringbuffer.ErrIsFull) {
			h.logger.WithError(err).Debug("Lua output dropped")
		}
	}
}

// flushOutput forwards buffered print output to the session.
func (h *Host) flushOutput() {
	buf := make([]byte, 4096)
	var out strings.Builder
	for {
		n, err := h.output.TryRead(buf)
		out.Write(buf[:n])
		if err != nil || n == 0 {
			if err != nil && !errors.Is(err, ringbuffer.ErrIsEmpty) {
				h.logger.WithError(err).Warn("Failed to read Lua output")
			}
			break
		}
	}

	if out.Len() > 0 {
		h.session.Printf("%s", out.String())
	}
	if h.truncated {
		h.session.Printf("[lua output truncated]\n")
		h.truncated = false
	}
}

func (h *Host) registerAPI() {
	L := h.state
	L.NewTable()

	for _, r := range []cut.Result{cut.Pass, cut.Fail, cut.Skip, cut.Error} {
		L.PushString(r.String())
		L.PushInteger(int64(r))
		L.SetTable(-3)
	}
	L.PushString("EPSILON")
	L.PushNumber(compare.Epsilon)
	L.SetTable(-3)

	fns := map[string]func(*lua.State) int{
		"suite":   h.luaSuite,
		"test":    h.luaTest,
		"config":  h.luaConfig,
		"include": h.luaInclude,

		"assert": h.located(func(L *lua.State) (bool, string) {
			msg := "assertion"
			if L.GetTop() >= 4 && !L.IsNil(4) {
				msg = L.ToString(4)
			}
			return L.ToBoolean(3), msg
		}),
		"assert_int": h.located(func(L *lua.State) (bool, string) {
			return compare.Int(int64(L.ToInteger(3)), int64(L.ToInteger(4)))
		}),
		"assert_int_in": h.located(func(L *lua.State) (bool, string) {
			return compare.IntIn(int64(L.ToInteger(3)), int64(L.ToInteger(4)), int64(L.ToInteger(5)))
		}),
		"assert_double": h.located(func(L *lua.State) (bool, string) {
			return compare.DoubleNear(L.ToNumber(3), L.ToNumber(4), compare.Epsilon)
		}),
		"assert_double_near": h.located(func(L *lua.State) (bool, string) {
			return compare.DoubleNear(L.ToNumber(3), L.ToNumber(4), L.ToNumber(5))
		}),
		"assert_double_in": h.located(func(L *lua.State) (bool, string) {
			return compare.DoubleIn(L.ToNumber(3), L.ToNumber(4), L.ToNumber(5))
		}),
		"assert_double_exact": h.located(func(L *lua.State) (bool, string) {
			return compare.DoubleNear(L.ToNumber(3), L.ToNumber(4), 0)
		}),
		"assert_string": h.located(func(L *lua.State) (bool, string) {
			return compare.NullableString(h.optString(3), h.optString(4))
		}),
		"assert_text": h.located(func(L *lua.State) (bool, string) {
			return compare.Text(L.ToString(3), L.ToString(4))
		}),
		"assert_json": h.located(func(L *lua.State) (bool, string) {
			return compare.JSON([]byte(L.ToString(3)), []byte(L.ToString(4)))
		}),

		"end_test": h.ending(func(L *lua.State) cut.Result { return h.resultAt(3) }),
		"pass":     h.ending(func(*lua.State) cut.Result { return cut.Pass }),
		"skip":     h.ending(func(*lua.State) cut.Result { return cut.Skip }),
		"fail":     h.ending(func(*lua.State) cut.Result { return cut.Fail }),
	}

	for name, fn := range fns {
		L.PushString(name)
		L.PushGoFunction(fn)
		L.SetTable(-3)
	}

	L.SetGlobal("_cut_raw")
}

func (h *Host) optString(i int) *string {
	if h.state.IsNil(i) {
		return nil
	}
	s := h.state.ToString(i)
	return &s
}

func location(L *lua.State) cut.Location {
	return cut.Location{File: L.ToString(1), Line: L.ToInteger(2)}
}

// located adapts a comparison to a Lua function taking (file, line, ...).
func (h *Host) located(check func(L *lua.State) (bool, string)) func(*lua.State) int {
	return func(L *lua.State) int {
		ok, msg := check(L)
		r := h.session.AssertAt(location(L), ok, msg)
		L.PushInteger(int64(r))
		return 1
	}
}

func (h *Host) ending(result func(L *lua.State) cut.Result) func(*lua.State) int {
	return func(L *lua.State) int {
		r := result(L)
		r = h.session.AssertionResult(location(L), r, "end test: "+r.String())
		L.PushInteger(int64(r))
		return 1
	}
}

// cut.suite(name, installer)
func (h *Host) luaSuite(L *lua.State) int {
	if L.Type(1) != lua.LUA_TSTRING || !L.IsFunction(2) {
		L.RaiseError("cut.suite(name, installer) expects a string and a function")
		return 0
	}
	name := L.ToString(1)
	installer := h.ref(2)

	prev := h.current
	h.current = name
	var installErr error
	err := h.session.InstallSuite(name, func() {
		if _, err := h.call(installer, 0); err != nil {
			installErr = err
		}
	})
	h.current = prev
	h.state.Unref(lua.LUA_REGISTRYINDEX, installer)

	switch {
	case err != nil:
		L.RaiseError("cut.suite: " + err.Error())
	case installErr != nil:
		L.RaiseError(installErr.Error())
	}
	return 0
}

// cut.config(init, exit): either may be nil. The suite's tests then receive
// a fresh table that init, the test body and exit share.
func (h *Host) luaConfig(L *lua.State) int {
	if h.current == "" {
		L.RaiseError("cut.config must be called inside a suite installer")
		return 0
	}

	initRef, exitRef := 0, 0
	if L.IsFunction(1) {
		initRef = h.ref(1)
	}
	if L.IsFunction(2) {
		exitRef = h.ref(2)
	}

	fx := cut.NewFixture(
		func(st *luaState) cut.Result {
			h.state.NewTable()
			st.table = h.state.Ref(lua.LUA_REGISTRYINDEX)
			if initRef == 0 {
				return cut.Pass
			}
			r, err := h.call(initRef, st.table)
			if err != nil {
				return h.reportError("test initialization", err)
			}
			return r
		},
		func(st *luaState) {
			if exitRef != 0 && st.table != 0 {
				if _, err := h.call(exitRef, st.table); err != nil {
					h.reportError("test finalization", err)
				}
			}
			if st.table != 0 && h.state != nil {
				h.state.Unref(lua.LUA_REGISTRYINDEX, st.table)
			}
		},
	)

	if err := h.session.ConfigureSuite(fx); err != nil {
		L.RaiseError("cut.config: " + err.Error())
		return 0
	}
	h.configured[h.current] = true
	return 0
}

// cut.test(name, body); a nil body registers a skipped test.
func (h *Host) luaTest(L *lua.State) int {
	if L.Type(1) != lua.LUA_TSTRING {
		L.RaiseError("cut.test(name, body) expects a string name")
		return 0
	}
	name := L.ToString(1)

	var err error
	switch {
	case !L.IsFunction(2):
		err = h.session.AddTest(name, nil)
	case h.configured[h.current]:
		body := h.ref(2)
		err = cut.AddStateTest(h.session, name, func(st *luaState) cut.Result {
			return h.runBody(body, st.table)
		})
	default:
		body := h.ref(2)
		err = h.session.AddTest(name, func() cut.Result {
			return h.runBody(body, 0)
		})
	}

	if err != nil {
		L.RaiseError("cut.test: " + err.Error())
	}
	return 0
}

func (h *Host) runBody(fnRef, tableRef int) cut.Result {
	r, err := h.call(fnRef, tableRef)
	if err != nil {
		return h.reportError("test", err)
	}
	return r
}

// cut.include(substring) -> bool
func (h *Host) luaInclude(L *lua.State) int {
	L.PushBoolean(h.session.IncludeTest(L.ToString(1)))
	return 1
}
