package cut_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/cut/pkg/cut"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestPrintSummary(t *testing.T) {
	counts := cut.Counts{
		Assertions: [cut.NumResults]int{12, 1, 0, 0},
		Tests:      [cut.NumResults]int{4, 1, 1, 0},
	}

	var buf bytes.Buffer
	cut.PrintSummary(&buf, counts, counts.Verdict())

	newGoldie(t).Assert(t, "summary", buf.Bytes())
}

func TestRunTranscript(t *testing.T) {
	var buf bytes.Buffer
	s := cut.NewSession(cut.WithOutput(&buf), cut.WithClock(newStepClock().Now))

	require.NoError(t, s.InstallSuite("golden", func() {
		require.NoError(t, s.AddTest("pass", func() cut.Result {
			return s.AssertAt(cut.Location{File: "golden.go", Line: 5}, true, "fine")
		}))
		require.NoError(t, s.AddTest("fail", func() cut.Result {
			s.AssertAt(cut.Location{File: "golden.go", Line: 10}, false, "forced")
			return cut.Pass
		}))
		require.NoError(t, s.AddTest("skip", nil))
		require.NoError(t, s.AddTest("error", func() cut.Result { return cut.Result(42) }))
	}))

	result := s.Run(context.Background(), true)

	assert.Equal(t, cut.Error, result)
	newGoldie(t).Assert(t, "run", buf.Bytes())
}

func TestRunTranscriptShowAll(t *testing.T) {
	var buf bytes.Buffer
	s := cut.NewSession(cut.WithOutput(&buf), cut.WithClock(newStepClock().Now))
	rest := s.ParseCommandLine([]string{"--show-cases", "-show-skip-tests"})
	require.Empty(t, rest)

	require.NoError(t, s.InstallSuite("all", func() {
		require.NoError(t, s.AddTest("one", func() cut.Result {
			return s.AssertAt(cut.Location{File: "all.go", Line: 3}, true, "1 == 1")
		}))
		require.NoError(t, s.AddTest("skipped", nil))
	}))

	assert.Equal(t, cut.Pass, s.Run(context.Background(), false))
	newGoldie(t).Assert(t, "run_show_all", buf.Bytes())
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	cut.Usage(&buf)
	newGoldie(t).Assert(t, "usage", buf.Bytes())
}
