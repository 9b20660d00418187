package cut

import "errors"

// Registration errors
var (
	// ErrInvalidArgument indicates a missing name or callback.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoActiveSuite indicates AddTest or ConfigureSuite was called outside a suite installer.
	ErrNoActiveSuite = errors.New("no active suite")

	// ErrDuplicateName indicates a suite or test name that is already registered.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrFixtureMismatch indicates a stateful test whose state type differs from the suite fixture.
	ErrFixtureMismatch = errors.New("fixture type mismatch")
)

// ResultOf classifies a registration error: nil is PASS, anything else is FAIL.
func ResultOf(err error) Result {
	if err != nil {
		return Fail
	}
	return Pass
}
