package demo

import (
	"time"

	"github.com/srg/cut/pkg/cut"
)

func installSimple(in *installer, opts Options) {
	in.add("one", func(s *cut.Session) cut.Result {
		n := 5
		third := 1.0 / 3.0
		s.AssertInt(5, int64(n))
		s.AssertDouble(0.33333333, third)
		if opts.ForceFailure {
			s.AssertDoubleExact(0.33333333, third)
		}
		return s.Pass()
	})

	in.add("two", func(s *cut.Session) cut.Result {
		s.Assert(time.Now().Unix() > 0, "clock is past the epoch")
		return s.Pass()
	})

	// Not ready yet.
	in.add("three_internal_skip", func(s *cut.Session) cut.Result {
		return s.Skip()
	})

	in.add("four", func(s *cut.Session) cut.Result {
		time.Sleep(opts.Pause)
		return s.Pass()
	})

	in.add("fail_me", func(s *cut.Session) cut.Result {
		actual := "12345678"
		if opts.ForceFailure {
			actual = "123A5678"
		}
		s.AssertMemory([]byte("12345678"), []byte(actual), 8)
		return s.Pass()
	})
}
