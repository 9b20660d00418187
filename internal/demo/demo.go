// Package demo holds example suites that exercise the framework end to end.
// Every suite passes by default; Options.ForceFailure plants one failure in
// each so the failure output can be inspected.
package demo

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/srg/cut/pkg/cut"
)

//go:embed data
var dataFS embed.FS

// Options configure the demo suites.
type Options struct {
	ForceFailure bool

	// Pause is how long simple.four sleeps so the elapsed time shows.
	Pause time.Duration

	// Data holds input-data.txt for the with_init suite.
	Data fs.FS
}

// DefaultOptions returns the options used by the runner.
func DefaultOptions() Options {
	data, _ := fs.Sub(dataFS, "data")
	return Options{
		Pause: 1258 * time.Millisecond,
		Data:  data,
	}
}

// Install registers every Go demo suite with the session.
func Install(s *cut.Session, opts Options) error {
	installers := []struct {
		name    string
		install func(*installer, Options)
	}{
		{"simple", installSimple},
		{"with_init", installWithInit},
		{"complex", installComplex},
		{"formats", installFormats},
		{"panics", installPanics},
	}

	for _, suite := range installers {
		in := &installer{session: s}
		err := s.InstallSuite(suite.name, func() { suite.install(in, opts) })
		if err = errors.Join(append([]error{err}, in.errs...)...); err != nil {
			return fmt.Errorf("failed to install suite %s: %w", suite.name, err)
		}
	}
	return nil
}

// installer collects registration errors raised inside a suite installer,
// which cannot return them itself.
type installer struct {
	session *cut.Session
	errs    []error
}

func (in *installer) check(err error) {
	if err != nil {
		in.errs = append(in.errs, err)
	}
}

func (in *installer) add(name string, body func(s *cut.Session) cut.Result) {
	s := in.session
	in.check(s.AddTest(name, func() cut.Result { return body(s) }))
}

func addState[T any](in *installer, name string, body func(s *cut.Session, state *T) cut.Result) {
	s := in.session
	in.check(cut.AddStateTest(s, name, func(state *T) cut.Result { return body(s, state) }))
}
