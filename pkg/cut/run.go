package cut

import (
	"context"
	"fmt"
)

// testState is the lifecycle of a single test within a run.
type testState int

const (
	stateNotStarted testState = iota
	stateInitializing
	stateRunning
	stateFinalizing
	stateDone
)

func (st testState) String() string {
	switch st {
	case stateNotStarted:
		return "not-started"
	case stateInitializing:
		return "initializing"
	case stateRunning:
		return "running"
	case stateFinalizing:
		return "finalizing"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("testState(%d)", int(st))
}

// activeTest is set while a test body runs; assertions failing outside it are ERROR.
type activeTest struct {
	test   *Test
	failed bool
}

func (s *Session) currentName() string {
	if s.active != nil {
		return s.active.test.name
	}
	return ""
}

// Run executes every included test, suites and tests in registration order,
// and returns the verdict: ERROR if any test errored, else FAIL if any failed,
// else PASS if any passed, else SKIP. Counters are reset first. When
// printSummary is set, the count table follows the test lines.
//
// Cancelling ctx stops the run before the next test; a test that is already
// running is never interrupted.
func (s *Session) Run(ctx context.Context, printSummary bool) Result {
	s.counts = Counts{}
	s.recap.drain()

	log := s.log()
	log.WithField("suites", s.suites.Len()).Debug("Run started")

run:
	for pair := s.suites.Oldest(); pair != nil; pair = pair.Next() {
		suite := pair.Value
		for _, t := range suite.tests {
			if err := ctx.Err(); err != nil {
				log.WithError(err).Warn("Run cancelled, remaining tests not started")
				break run
			}
			if !s.included(t.name) {
				continue
			}
			s.runTest(ctx, suite, t)
		}
	}

	verdict := s.counts.Verdict()
	log.WithField("result", verdict).Debug("Run finished")

	if printSummary {
		s.printer.printf("\n")
		PrintSummary(s.printer.w, s.counts, verdict)
	}
	return verdict
}

func (s *Session) runTest(ctx context.Context, suite *Suite, t *Test) {
	log := s.log().WithField("suite", suite.name).WithField("test", t.name)
	state := stateNotStarted
	transition := func(next testState) {
		log.WithField("state", next).Debugf("Test %s -> %s", state, next)
		state = next
	}

	start := s.now()
	s.printer.begin(testHeader(start, t.name))
	stop := s.watch(ctx, t.name)
	finished := false
	defer func() {
		// A callback panicked past the wrapper.
		if !finished {
			stop()
			s.printer.abandon()
		}
	}()

	fx := suite.fixture
	result := Pass

	transition(stateInitializing)
	if fx != nil {
		fx.reset()
		result = s.wrapper.WrapInit(s, fx.setup)
	}

	if result == Pass {
		transition(stateRunning)
		if t.body == nil {
			result = Skip
		} else {
			result = s.runBody(t, fx)
		}
	}

	if !result.Valid() {
		log.WithField("result", int(result)).Warn("Test returned an unknown result")
		result = Error
	}
	s.counts.Tests[result]++

	if fx != nil {
		transition(stateFinalizing)
		s.wrapper.WrapExit(s, fx.teardown)
	}

	elapsed := s.now().Sub(start)
	finished = true
	stop()
	transition(stateDone)
	log.WithField("result", result).WithField("elapsed", elapsed).Debug("Test finished")

	s.printer.end(s.verbosity.Tests.Has(result), result, elapsed)
}

// runBody runs the test body with t marked active. A body returning PASS
// after a failed assertion is FAIL.
func (s *Session) runBody(t *Test, fx Fixture) Result {
	active := &activeTest{test: t}
	s.active = active
	defer func() { s.active = nil }()

	result := s.wrapper.WrapTest(s, func() Result { return t.body(fx) })
	if result == Pass && active.failed {
		result = Fail
	}
	return result
}
