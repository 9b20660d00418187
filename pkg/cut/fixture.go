package cut

import (
	"fmt"
	"reflect"
)

// Fixture is the per-suite shared state threaded through init, test body and
// exit. It is created with NewFixture; the zero value of the state is restored
// before every test of the suite.
type Fixture interface {
	reset()
	setup() Result
	teardown()
	stateType() reflect.Type
}

type fixture[T any] struct {
	data   *T
	initFn func(*T) Result
	exitFn func(*T)
}

// NewFixture allocates the shared state of type T once. init runs before each
// test and must return Pass for the body to run; exit runs after each test
// whatever happened before it. Either hook may be nil.
func NewFixture[T any](init func(*T) Result, exit func(*T)) Fixture {
	return &fixture[T]{
		data:   new(T),
		initFn: init,
		exitFn: exit,
	}
}

func (f *fixture[T]) reset() {
	var zero T
	*f.data = zero
}

func (f *fixture[T]) setup() Result {
	if f.initFn == nil {
		return Pass
	}
	return f.initFn(f.data)
}

func (f *fixture[T]) teardown() {
	if f.exitFn != nil {
		f.exitFn(f.data)
	}
}

func (f *fixture[T]) stateType() reflect.Type {
	return reflect.TypeFor[T]()
}

// stateOf extracts the typed state from a suite fixture.
func stateOf[T any](fx Fixture) (*T, error) {
	f, ok := fx.(*fixture[T])
	if !ok {
		have := "none"
		if fx != nil {
			have = fx.stateType().String()
		}
		return nil, fmt.Errorf("%w: test wants *%s, suite holds %s", ErrFixtureMismatch, reflect.TypeFor[T](), have)
	}
	return f.data, nil
}
