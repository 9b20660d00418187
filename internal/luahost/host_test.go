package luahost

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/srg/cut/pkg/cut"
)

type HostTestSuite struct {
	suite.Suite
	out     *bytes.Buffer
	session *cut.Session
	host    *Host
}

func (s *HostTestSuite) SetupTest() {
	s.out = &bytes.Buffer{}
	s.session = cut.NewSession(cut.WithOutput(s.out))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	host, err := New(s.session, logger)
	s.Require().NoError(err)
	s.host = host
}

func (s *HostTestSuite) TearDownTest() {
	s.host.Close()
}

// reset gives a subtest its own session and host.
func (s *HostTestSuite) reset() {
	s.TearDownTest()
	s.SetupTest()
}

func (s *HostTestSuite) load(script string) {
	s.Require().NoError(s.host.LoadString(script, "smoke.lua"))
}

func (s *HostTestSuite) run() cut.Result {
	return s.session.Run(context.Background(), false)
}

func (s *HostTestSuite) TestRegistersAndRunsSuites() {
	s.Run("passing tests", func() {
		s.reset()
		s.load(`
cut.suite("lua", function()
  cut.test("ints", function() cut.assert_int(4, 2 + 2) end)
  cut.test("doubles", function() cut.assert_double(0.3, 0.1 + 0.2) end)
  cut.test("strings", function() cut.assert_string("abc", "a" .. "bc") end)
end)
`)
		s.Equal([]string{"lua.ints", "lua.doubles", "lua.strings"}, s.session.TestNames())
		s.Equal(cut.Pass, s.run())
		s.Equal(3, s.session.Counts().Tests[cut.Pass])
		s.Equal(3, s.session.Counts().Assertions[cut.Pass])
	})

	s.Run("failed assertion reports script position", func() {
		s.reset()
		s.load(`cut.suite("lua", function()
  cut.test("mismatch", function()
    cut.assert_int(1, 2)
  end)
end)
`)
		s.Equal(cut.Fail, s.run())
		s.Contains(s.out.String(), "smoke.lua:3: FAIL ")
		s.Contains(s.out.String(), "Proper:")
	})

	s.Run("a test continues after a mismatch", func() {
		s.reset()
		s.load(`cut.suite("lua", function()
  cut.test("both", function()
    cut.assert(false, "first")
    cut.assert(true, "second")
  end)
end)
`)
		s.Equal(cut.Fail, s.run())
		counts := s.session.Counts()
		s.Equal(1, counts.Assertions[cut.Fail])
		s.Equal(1, counts.Assertions[cut.Pass])
	})

	s.Run("a nil message falls back to the default", func() {
		s.reset()
		s.load(`cut.suite("lua", function()
  cut.test("nil_message", function()
    cut.assert(false, nil)
  end)
end)
`)
		s.Equal(cut.Fail, s.run())
		s.Contains(s.out.String(), "smoke.lua:3: FAIL  assertion\n")
	})
}

func (s *HostTestSuite) TestReturnValues() {
	s.load(`cut.suite("ret", function()
  cut.test("nothing", function() end)
  cut.test("true", function() return true end)
  cut.test("false", function() return false end)
  cut.test("skip", function() return cut.SKIP end)
  cut.test("named", function() return "error" end)
  cut.test("bodyless")
end)
`)
	s.Equal(cut.Error, s.run())

	counts := s.session.Counts()
	s.Equal(2, counts.Tests[cut.Pass])
	s.Equal(1, counts.Tests[cut.Fail])
	s.Equal(2, counts.Tests[cut.Skip])
	s.Equal(1, counts.Tests[cut.Error])
}

func (s *HostTestSuite) TestEndTestHelpers() {
	s.load(`cut.suite("end", function()
  cut.test("pass", function() return cut.pass() end)
  cut.test("skip", function() return cut.skip() end)
  cut.test("fail", function() return cut.fail() end)
end)
`)
	s.Equal(cut.Fail, s.run())

	counts := s.session.Counts()
	s.Equal([cut.NumResults]int{1, 1, 1, 0}, counts.Tests)
	s.Contains(s.out.String(), "smoke.lua:4: FAIL  end test: FAIL")
}

func (s *HostTestSuite) TestLuaErrors() {
	s.Run("error in test body fails the test", func() {
		s.reset()
		s.load(`cut.suite("lua", function()
  cut.test("boom", function()
    error("boom")
  end)
  cut.test("after", function() end)
end)
`)
		s.Equal(cut.Fail, s.run())
		s.Contains(s.out.String(), "smoke.lua:3: FAIL  Lua error during test: boom")
		s.Equal(1, s.session.Counts().Tests[cut.Pass])
	})

	s.Run("error in init is an ERROR and skips the body", func() {
		s.reset()
		s.load(`ran = false
cut.suite("lua", function()
  cut.config(function(t)
    error("no fixture")
  end)
  cut.test("body", function() ran = true end)
end)
`)
		s.Equal(cut.Error, s.run())
		s.Contains(s.out.String(), "smoke.lua:4: ERROR Lua error during test initialization: no fixture")
		s.Equal(1, s.session.Counts().Tests[cut.Error])
		s.Zero(s.session.Counts().Tests[cut.Pass])
	})

	s.Run("assert_error and assert_no_error", func() {
		s.reset()
		s.load(`cut.suite("lua", function()
  cut.test("raises", function()
    cut.assert_error(function() error("x") end)
    cut.assert_no_error(function() return 1 end)
  end)
end)
`)
		s.Equal(cut.Pass, s.run())
		s.Equal(2, s.session.Counts().Assertions[cut.Pass])
	})
}

func (s *HostTestSuite) TestFixtureTable() {
	s.load(`cut.suite("fx", function()
  cut.config(
    function(t) t.inits = (t.inits or 0) + 1 end,
    function(t) print("exit " .. tostring(t.inits) .. " " .. tostring(t.leaked)) end
  )
  cut.test("first", function(t)
    cut.assert_int(1, t.inits)
    t.leaked = true
  end)
  cut.test("second", function(t)
    cut.assert_int(1, t.inits)
    cut.assert(t.leaked == nil, "state is fresh")
  end)
end)
`)
	s.Equal(cut.Pass, s.run())
	s.Equal(2, s.session.Counts().Tests[cut.Pass])
	s.Contains(s.out.String(), "exit 1 true\n")
	s.Contains(s.out.String(), "exit 1 nil\n")
}

func (s *HostTestSuite) TestPrintIsCaptured() {
	s.load(`print("loading", 1, true, nil)
cut.suite("p", function() end)
`)
	s.Equal("loading\t1\ttrue\tnil\n", s.out.String())
}

func (s *HostTestSuite) TestInclude() {
	s.load(`cut.suite("inc", function()
  cut.test("alpha", function() end)
  cut.test("beta", function() return false end)
end)
found = cut.include("alpha")
missing = cut.include("gamma")
if not found or missing then error("include") end
`)
	s.Equal(cut.Pass, s.run())
	s.Equal(1, s.session.Counts().Tests[cut.Pass])
}

func (s *HostTestSuite) TestScriptErrors() {
	tests := []struct {
		name    string
		script  string
		errType string
		line    int // -1 when the position comes from a Go binding
	}{
		{"syntax", "cut.suite(\"x\",\n  function() end end)\n", "syntax", 2},
		{"runtime", "local x = nil\nx.field = 1\n", "runtime", 2},
		{"duplicate suite", "cut.suite('d', function() end)\ncut.suite('d', function() end)\n", "runtime", -1},
		{"config outside suite", "cut.config()\n", "runtime", -1},
		{"empty", "", "api", 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.reset()
			err := s.host.LoadString(tt.script, "bad.lua")
			s.Require().Error(err)

			var se *ScriptError
			s.Require().True(errors.As(err, &se))
			s.Equal(tt.errType, se.Type)
			if tt.line >= 0 {
				s.Equal(tt.line, se.Line)
			}
			s.True(errors.Is(err, &ScriptError{Type: tt.errType}))
		})
	}
}

func (s *HostTestSuite) TestLoadFile() {
	err := s.host.LoadFile(filepath.Join(s.T().TempDir(), "missing.lua"))
	s.ErrorContains(err, "failed to read script")
}

func (s *HostTestSuite) TestClosedHost() {
	s.host.Close()
	s.host.Close()

	err := s.host.LoadString("print(1)", "late.lua")
	s.ErrorContains(err, "host is closed")
}

func TestHostTestSuite(t *testing.T) {
	suite.Run(t, new(HostTestSuite))
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		msg  string
		loc  cut.Location
		rest string
		ok   bool
	}{
		{"smoke.lua:12: boom", cut.Location{File: "smoke.lua", Line: 12}, "boom", true},
		{"[string \"x\"]:1: bad: thing", cut.Location{File: "[string \"x\"]", Line: 1}, "bad: thing", true},
		{"smoke.lua:3: first\nstack traceback:", cut.Location{File: "smoke.lua", Line: 3}, "first\nstack traceback:", true},
		{"no position here", cut.Location{}, "no position here", false},
		{"a:b:c", cut.Location{}, "a:b:c", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			loc, rest, ok := splitLocation(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.loc, loc)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestScriptError(t *testing.T) {
	err := newScriptError("runtime", "suite.lua", errors.New("suite.lua:7: attempt to index a nil value"))

	assert.Equal(t, 7, err.Line)
	assert.Equal(t, "Lua runtime error (in suite.lua, line 7): attempt to index a nil value", err.Error())
	assert.ErrorContains(t, errors.Unwrap(err), "attempt to index")
	assert.False(t, errors.Is(err, &ScriptError{Type: "syntax"}))
}
