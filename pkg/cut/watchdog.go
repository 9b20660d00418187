package cut

import (
	"context"
	"time"

	"github.com/srg/cut/internal/groutine"
)

// watch starts the slow-test watchdog for one test and returns the function
// that stops it. The watchdog only logs; it never interrupts the test.
func (s *Session) watch(ctx context.Context, name string) (stop func()) {
	if s.slow <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	log := s.log().WithField("test", name)
	threshold := s.slow

	done := groutine.Go(ctx, "watchdog:"+name, func(ctx context.Context) {
		timer := time.NewTimer(threshold)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			log.WithField("threshold", threshold).
				WithField("goroutine", groutine.Name(ctx)).
				Warn("Test is still running")
		}
	})

	return func() {
		cancel()
		<-done
	}
}
