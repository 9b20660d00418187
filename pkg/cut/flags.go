package cut

import (
	"fmt"
	"io"
	"strings"
)

const usageText = `  -[no-]show-cases         Do [not] show all test assertions.
  -[no-]show-[type]-cases  Turn on showing of assertions for result <type>.
  -show-no-cases           Same as -no-show-cases; shows no assertions.
  -[no-]show-tests         Do [not] show all test results.
  -[no-]show-[type]-tests  Turn on showing of test results for <type>.
  -show-no-tests           Same as -no-show-tests; shows no test results.

  <type> - Result types may be pass, fail, skip, or error.

`

// Usage writes the help text for the flags recognized by ParseArgs.
func Usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// ParseArgs consumes the verbosity flags from args and returns the remaining
// arguments in their original order. Flags take one or two leading dashes:
//
//	-show-cases, -no-show-cases, -show-no-cases
//	-show-<type>-cases, -no-show-<type>-cases
//
// and the same forms with "tests" instead of "cases". Unrecognized arguments
// are kept for the caller. args must not include the program name; the
// returned slice shares its backing array.
func (v *Verbosity) ParseArgs(args []string) []string {
	kept := args[:0]
	for _, arg := range args {
		if !v.apply(arg) {
			kept = append(kept, arg)
		}
	}
	return kept
}

// IsVerbosityFlag reports whether ParseArgs would consume arg.
func IsVerbosityFlag(arg string) bool {
	var v Verbosity
	return v.apply(arg)
}

// ParseCommandLine applies the verbosity flags in args to the session.
func (s *Session) ParseCommandLine(args []string) []string {
	return s.verbosity.ParseArgs(args)
}

func (v *Verbosity) apply(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")

	negate := false
	if rest, ok := strings.CutPrefix(name, "no-"); ok {
		negate, name = true, rest
	}
	rest, ok := strings.CutPrefix(name, "show-")
	if !ok {
		return false
	}

	var target *Flags
	switch {
	case strings.HasSuffix(rest, "cases"):
		target, rest = &v.Cases, strings.TrimSuffix(rest, "cases")
	case strings.HasSuffix(rest, "tests"):
		target, rest = &v.Tests, strings.TrimSuffix(rest, "tests")
	default:
		return false
	}

	switch rest {
	case "":
		if negate {
			*target = 0
		} else {
			*target = FlagAll
		}
		return true
	case "no-":
		if negate {
			return false
		}
		*target = 0
		return true
	}

	kind, ok := strings.CutSuffix(rest, "-")
	if !ok {
		return false
	}
	r, err := ParseResult(kind)
	if err != nil || kind != strings.ToLower(kind) {
		return false
	}
	if negate {
		*target &^= r.Flag()
	} else {
		*target |= r.Flag()
	}
	return true
}
