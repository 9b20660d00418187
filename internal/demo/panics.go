package demo

import (
	"github.com/srg/cut/pkg/cut"
)

// installPanics needs the session to run with cut.PanicAdapter when
// ForceFailure is set; without it the forced panic aborts the run.
func installPanics(in *installer, opts Options) {
	in.add("assert_panics", func(s *cut.Session) cut.Result {
		s.AssertPanics(func() {
			var m map[string]int
			m["x"] = 1
		})
		return s.Pass()
	})

	in.add("assert_no_panic", func(s *cut.Session) cut.Result {
		s.AssertNoPanic(func() {
			m := map[string]int{}
			m["x"] = 1
		})
		return s.Pass()
	})

	in.add("recovered", func(s *cut.Session) cut.Result {
		if opts.ForceFailure {
			panic("forced failure")
		}
		return s.Pass()
	})
}
