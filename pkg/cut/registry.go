package cut

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLen bounds a fully-qualified test name, terminator included.
const MaxNameLen = 0x100

// Suite is a named, ordered group of tests with an optional fixture.
type Suite struct {
	name    string
	tests   []*Test
	fixture Fixture
}

func (s *Suite) Name() string { return s.name }

// Tests returns the suite's tests in run order.
func (s *Suite) Tests() []*Test {
	return append([]*Test(nil), s.tests...)
}

// Test is a single named unit of verification. A nil body is reported as SKIP.
type Test struct {
	name string
	body func(Fixture) Result
}

// Name returns "<suite>.<test>".
func (t *Test) Name() string { return t.name }

// InstallSuite registers a suite, makes it the target of AddTest and
// ConfigureSuite, and runs install.
func (s *Session) InstallSuite(name string, install func()) error {
	if name == "" || install == nil {
		return fmt.Errorf("%w: suite needs a name and an installer", ErrInvalidArgument)
	}
	if _, exists := s.suites.Get(name); exists {
		return fmt.Errorf("%w: suite %q", ErrDuplicateName, name)
	}

	suite := &Suite{name: name}
	s.suites.Set(name, suite)

	prev := s.installing
	s.installing = suite
	defer func() { s.installing = prev }()

	s.log().WithField("suite", name).Debug("Installing suite")
	install()
	return nil
}

// ConfigureSuite attaches a fixture to the suite being installed. A nil
// fixture removes any previous one.
func (s *Session) ConfigureSuite(f Fixture) error {
	if s.installing == nil {
		return fmt.Errorf("configure suite: %w", ErrNoActiveSuite)
	}
	s.installing.fixture = f
	return nil
}

// AddTest appends a stateless test to the suite being installed.
func (s *Session) AddTest(name string, body func() Result) error {
	var run func(Fixture) Result
	if body != nil {
		run = func(Fixture) Result { return body() }
	}
	return s.addTest(name, run)
}

// AddStateTest appends a test that receives the suite's fixture state. The
// suite must already be configured with a fixture of the same type.
func AddStateTest[T any](s *Session, name string, body func(*T) Result) error {
	if s.installing == nil {
		return fmt.Errorf("add test %q: %w", name, ErrNoActiveSuite)
	}
	if _, err := stateOf[T](s.installing.fixture); err != nil {
		return fmt.Errorf("add test %q: %w", name, err)
	}

	var run func(Fixture) Result
	if body != nil {
		run = func(fx Fixture) Result {
			state, err := stateOf[T](fx)
			if err != nil {
				return s.AssertAt(callerLocation(1), false, err.Error())
			}
			return body(state)
		}
	}
	return s.addTest(name, run)
}

func (s *Session) addTest(name string, run func(Fixture) Result) error {
	if name == "" {
		return fmt.Errorf("%w: test needs a name", ErrInvalidArgument)
	}
	suite := s.installing
	if suite == nil {
		return fmt.Errorf("add test %q: %w", name, ErrNoActiveSuite)
	}

	full := truncateName(suite.name + "." + name)
	if _, exists := s.names[full]; exists {
		return fmt.Errorf("%w: test %q", ErrDuplicateName, full)
	}

	s.names[full] = struct{}{}
	suite.tests = append(suite.tests, &Test{name: full, body: run})
	return nil
}

// IncludeTest adds substr to the inclusion filter and reports whether it
// matches at least one registered test. Once the filter is non-empty, only
// tests whose name contains one of its substrings run.
func (s *Session) IncludeTest(substr string) bool {
	s.filters.Set(substr, struct{}{})
	for name := range s.names {
		if strings.Contains(name, substr) {
			return true
		}
	}
	return false
}

func (s *Session) included(name string) bool {
	if s.filters.Len() == 0 {
		return true
	}

	matched := false
	s.filters.Range(func(substr string, _ struct{}) bool {
		matched = strings.Contains(name, substr)
		return !matched
	})
	return matched
}

// Suites returns the registered suites in run order.
func (s *Session) Suites() []*Suite {
	out := make([]*Suite, 0, s.suites.Len())
	for pair := s.suites.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// TestNames lists every registered test in run order, ignoring the filter.
func (s *Session) TestNames() []string {
	var names []string
	for _, suite := range s.Suites() {
		for _, t := range suite.tests {
			names = append(names, t.name)
		}
	}
	return names
}

func truncateName(name string) string {
	if len(name) < MaxNameLen {
		return name
	}
	name = name[:MaxNameLen-1]
	for len(name) > 0 {
		r, size := utf8.DecodeLastRuneInString(name)
		if r != utf8.RuneError || size > 1 {
			break
		}
		name = name[:len(name)-1]
	}
	return name
}
