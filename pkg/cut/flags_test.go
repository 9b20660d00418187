package cut_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/cut/pkg/cut"
)

func TestVerbosityParseArgs(t *testing.T) {
	const (
		pass = cut.Flags(1 << cut.Pass)
		fail = cut.Flags(1 << cut.Fail)
		skip = cut.Flags(1 << cut.Skip)
		errs = cut.Flags(1 << cut.Error)
	)

	tests := []struct {
		name      string
		args      []string
		wantCases cut.Flags
		wantTests cut.Flags
		wantRest  []string
	}{
		{
			name:      "defaults untouched",
			args:      []string{"simple"},
			wantCases: fail | errs,
			wantTests: pass | fail | errs,
			wantRest:  []string{"simple"},
		},
		{
			name:      "show all cases",
			args:      []string{"-show-cases"},
			wantCases: cut.FlagAll,
			wantTests: pass | fail | errs,
			wantRest:  []string{},
		},
		{
			name:      "double dash",
			args:      []string{"--show-pass-cases", "--no-show-pass-tests"},
			wantCases: pass | fail | errs,
			wantTests: fail | errs,
			wantRest:  []string{},
		},
		{
			name:      "clear then add",
			args:      []string{"-no-show-cases", "-show-skip-cases"},
			wantCases: skip,
			wantTests: pass | fail | errs,
			wantRest:  []string{},
		},
		{
			name:      "show-no forms",
			args:      []string{"-show-no-cases", "-show-no-tests"},
			wantCases: 0,
			wantTests: 0,
			wantRest:  []string{},
		},
		{
			name:      "unrecognized kept in order",
			args:      []string{"-x", "-show-tests", "name", "---show-cases", "-show-maybe-cases", "-no-show-no-cases"},
			wantCases: fail | errs,
			wantTests: cut.FlagAll,
			wantRest:  []string{"-x", "name", "---show-cases", "-show-maybe-cases", "-no-show-no-cases"},
		},
		{
			name:      "upper case result names are not flags",
			args:      []string{"-show-PASS-cases"},
			wantCases: fail | errs,
			wantTests: pass | fail | errs,
			wantRest:  []string{"-show-PASS-cases"},
		},
		{
			name:      "remove error tests",
			args:      []string{"-no-show-error-tests", "-no-show-fail-cases"},
			wantCases: errs,
			wantTests: pass | fail,
			wantRest:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cut.DefaultVerbosity()
			rest := v.ParseArgs(tt.args)

			assert.Equal(t, tt.wantCases, v.Cases, "cases: %s", v.Cases)
			assert.Equal(t, tt.wantTests, v.Tests, "tests: %s", v.Tests)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParseCommandLineUpdatesSession(t *testing.T) {
	s := cut.NewSession()
	args := []string{"-show-cases", "filter"}

	rest := s.ParseCommandLine(args)

	assert.Equal(t, []string{"filter"}, rest)
	assert.Equal(t, "filter", args[0], "matched arguments are removed in place")
	assert.Equal(t, cut.FlagAll, s.Verbosity().Cases)
}

func TestIsVerbosityFlag(t *testing.T) {
	for _, arg := range []string{"-show-cases", "--no-show-pass-tests", "-show-no-tests"} {
		assert.True(t, cut.IsVerbosityFlag(arg), arg)
	}
	for _, arg := range []string{"simple", "--config", "-show-maybe-cases", "-h"} {
		assert.False(t, cut.IsVerbosityFlag(arg), arg)
	}
}
