package cut

import (
	"io"
	"os"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Session owns everything one test program needs: the suite registry, the
// inclusion filter, verbosity, run counters and the output printer.
//
// A Session is not safe for concurrent use. Suites are installed and run from
// a single goroutine.
type Session struct {
	suites  *orderedmap.OrderedMap[string, *Suite]
	names   map[string]struct{}
	filters *hashmap.Map[string, struct{}]

	installing *Suite
	active     *activeTest

	verbosity Verbosity
	counts    Counts
	recap     *failureRecap

	wrapper Wrapper
	printer *printer
	logger  *logrus.Logger
	runID   string
	now     func() time.Time
	slow    time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithOutput sets the writer for per-test and per-assertion lines and the summary.
// Terminal writers get live test headers; other writers get the same lines
// without the in-place rewrite.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.printer.w = w
		s.printer.interactive = isTerminal(w)
	}
}

// WithInteractive overrides terminal detection for the output writer.
func WithInteractive(interactive bool) Option {
	return func(s *Session) { s.printer.interactive = interactive }
}

// WithColor enables or disables colored result names.
func WithColor(enabled bool) Option {
	return func(s *Session) { s.printer.setColor(enabled) }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVerbosity replaces the default verbosity.
func WithVerbosity(v Verbosity) Option {
	return func(s *Session) { s.verbosity = v }
}

// WithWrapper installs the strategy used to invoke init, test and exit callbacks.
func WithWrapper(w Wrapper) Option {
	return func(s *Session) { s.SetWrapper(w) }
}

// WithClock replaces the wall clock used for header timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSlowTestThreshold logs a warning for every test that is still running
// after d. Zero disables the watchdog.
func WithSlowTestThreshold(d time.Duration) Option {
	return func(s *Session) { s.slow = d }
}

// WithRecap keeps the last n failing assertions available through RecentFailures.
func WithRecap(n int) Option {
	return func(s *Session) { s.recap = newFailureRecap(n) }
}

// NewSession creates an empty session writing to stdout with default verbosity.
func NewSession(opts ...Option) *Session {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	logger.SetOutput(os.Stderr)

	s := &Session{
		suites:    orderedmap.New[string, *Suite](),
		names:     make(map[string]struct{}),
		filters:   hashmap.New[string, struct{}](),
		verbosity: DefaultVerbosity(),
		recap:     newFailureRecap(defaultRecapSize),
		wrapper:   directWrapper{},
		printer:   newPrinter(os.Stdout),
		logger:    logger,
		runID:     uuid.Must(uuid.NewV7()).String(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetWrapper replaces the callback wrapper. A nil wrapper restores direct calls.
func (s *Session) SetWrapper(w Wrapper) {
	if w == nil {
		w = directWrapper{}
	}
	s.wrapper = w
}

// Verbosity returns a pointer to the session verbosity so command-line parsing
// can adjust it in place.
func (s *Session) Verbosity() *Verbosity {
	return &s.verbosity
}

// Counts returns the tallies of the most recent run.
func (s *Session) Counts() Counts {
	return s.counts
}

// RunID identifies this session in log output.
func (s *Session) RunID() string {
	return s.runID
}

// Logger returns the session logger.
func (s *Session) Logger() *logrus.Logger {
	return s.logger
}

// Printf writes free-form output to the session writer, first ending any
// pending test header line.
func (s *Session) Printf(format string, args ...any) {
	s.printer.printf(format, args...)
}

func (s *Session) log() *logrus.Entry {
	return s.logger.WithField("run", s.runID)
}
