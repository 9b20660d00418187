package demo

import (
	"bufio"
	"io/fs"
	"strconv"

	"github.com/srg/cut/pkg/cut"
)

const inputFile = "input-data.txt"

type inputState struct {
	file fs.File
}

// numbers reads every integer left in the input file.
func (st *inputState) numbers(s *cut.Session) []int {
	var values []int
	scanner := bufio.NewScanner(st.file)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			s.Assertf(false, "bad number %q in %s", scanner.Text(), inputFile)
			break
		}
		values = append(values, v)
	}
	return values
}

func installWithInit(in *installer, opts Options) {
	s := in.session

	// The tests are meaningless without the input file, so a missing one is
	// an ERROR raised from init. Exit runs even when init failed.
	in.check(s.ConfigureSuite(cut.NewFixture(
		func(st *inputState) cut.Result {
			var err error
			if opts.Data != nil {
				st.file, err = opts.Data.Open(inputFile)
			}
			return s.Assert(opts.Data != nil && err == nil, `missing "input-data.txt"`)
		},
		func(st *inputState) {
			if st.file != nil {
				st.file.Close()
			}
		},
	)))

	addState(in, "sum_test", func(s *cut.Session, st *inputState) cut.Result {
		sum := 0
		for _, v := range st.numbers(s) {
			sum += v
		}
		s.AssertInt(143, int64(sum))
		return s.Pass()
	})

	addState(in, "product_test", func(s *cut.Session, st *inputState) cut.Result {
		product := 1.0
		for _, v := range st.numbers(s) {
			product *= float64(v)
		}
		if opts.ForceFailure {
			product *= 1.0 + 2*cut.Epsilon
		}
		s.AssertDouble(122522400, product)
		return s.Pass()
	})
}
