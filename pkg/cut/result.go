package cut

import (
	"fmt"
	"strings"
)

// Result is the outcome of an assertion, a test or a whole run.
type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

// NumResults is the number of distinct results.
const NumResults = 4

var resultNames = [NumResults]string{"PASS", "FAIL", "SKIP", "ERROR"}

func (r Result) String() string {
	if r.Valid() {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Valid reports whether r is one of the four known results.
func (r Result) Valid() bool {
	return r >= Pass && r <= Error
}

// Flag returns the verbosity bit of r.
func (r Result) Flag() Flags {
	if !r.Valid() {
		return 0
	}
	return 1 << uint(r)
}

// ParseResult maps a result name (case-insensitive) back to a Result.
func ParseResult(name string) (Result, error) {
	for i, n := range resultNames {
		if strings.EqualFold(n, name) {
			return Result(i), nil
		}
	}
	return Error, fmt.Errorf("%w: unknown result %q", ErrInvalidArgument, name)
}

// Flags is a bitset of results.
type Flags uint

// FlagAll has every result bit set.
const FlagAll Flags = 1<<NumResults - 1

const (
	defaultCaseFlags = Flags(1<<Fail | 1<<Error)
	defaultTestFlags = Flags(1<<Pass | 1<<Fail | 1<<Error)
)

// FlagsOf builds a bitset from results.
func FlagsOf(results ...Result) Flags {
	var f Flags
	for _, r := range results {
		f |= r.Flag()
	}
	return f
}

// Has reports whether the bit of r is set.
func (f Flags) Has(r Result) bool {
	return f&r.Flag() != 0
}

func (f Flags) String() string {
	var names []string
	for i, n := range resultNames {
		if f.Has(Result(i)) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Verbosity selects which assertion results (Cases) and which test results
// (Tests) produce output lines.
type Verbosity struct {
	Cases Flags
	Tests Flags
}

// DefaultVerbosity prints failing assertions and every non-skipped test.
func DefaultVerbosity() Verbosity {
	return Verbosity{Cases: defaultCaseFlags, Tests: defaultTestFlags}
}

// Counts holds per-result tallies of assertions and tests for one run.
type Counts struct {
	Assertions [NumResults]int
	Tests      [NumResults]int
}

// Verdict folds test counts into a run result: any ERROR wins, then any FAIL,
// then any PASS. A run where every test was skipped, or no test ran, is SKIP.
func (c Counts) Verdict() Result {
	switch {
	case c.Tests[Error] > 0:
		return Error
	case c.Tests[Fail] > 0:
		return Fail
	case c.Tests[Pass] > 0:
		return Pass
	}
	return Skip
}

func sum(counts [NumResults]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
