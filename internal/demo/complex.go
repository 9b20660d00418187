package demo

import (
	"github.com/srg/cut/internal/compare"
	"github.com/srg/cut/pkg/cut"
)

// arithmetic is the code under test. The broken variant adds 0.5 to the real
// part of every sum.
type arithmetic struct {
	broken bool
}

func (a arithmetic) add(x, y complex128) complex128 {
	if a.broken {
		return x + y + 0.5
	}
	return x + y
}

func (arithmetic) sub(x, y complex128) complex128 { return x - y }
func (arithmetic) mul(x, y complex128) complex128 { return x * y }
func (arithmetic) div(x, y complex128) complex128 { return x / y }

// assertComplex is a domain comparator built from the double comparison. Both
// parts are reported at the caller's location.
func assertComplex(s *cut.Session, loc cut.Location, proper, actual complex128) cut.Result {
	ok, msg := compare.DoubleNear(real(proper), real(actual), cut.Epsilon)
	if r := s.AssertAt(loc, ok, "real"+msg); r != cut.Pass {
		return r
	}
	ok, msg = compare.DoubleNear(imag(proper), imag(actual), cut.Epsilon)
	return s.AssertAt(loc, ok, "imag"+msg)
}

func installComplex(in *installer, opts Options) {
	calc := arithmetic{broken: opts.ForceFailure}

	in.add("op_test", func(s *cut.Session) cut.Result {
		a := complex(-1, 3)
		b := complex(4, 0)

		checks := []struct {
			proper complex128
			actual complex128
		}{
			{complex(3, 3), calc.add(a, b)},
			{complex(3, 3), calc.add(b, a)},
			{complex(-5, 3), calc.sub(a, b)},
			{complex(5, -3), calc.sub(b, a)},
			{complex(-4, 12), calc.mul(a, b)},
			{complex(-4, 12), calc.mul(b, a)},
			{complex(-0.25, 0.75), calc.div(a, b)},
			{complex(-0.4, -1.2), calc.div(b, a)},
		}
		for _, c := range checks {
			assertComplex(s, cut.Here(), c.proper, c.actual)
		}
		return s.Pass()
	})
}
