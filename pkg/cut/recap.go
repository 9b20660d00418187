package cut

import (
	"fmt"
	"io"

	"github.com/hedzr/go-ringbuf/v2/mpmc"
)

const defaultRecapSize = 16

// Failure is a failed assertion kept for the end-of-run recap.
type Failure struct {
	Test     string
	Location Location
	Result   Result
	Message  string
}

// failureRecap keeps the most recent failures; older ones are overwritten.
type failureRecap struct {
	ring       mpmc.RichOverlappedRingBuffer[Failure]
	size       int
	overwrites uint64
}

func newFailureRecap(n int) *failureRecap {
	if n <= 0 {
		return nil
	}
	// The ring rounds up to a power of two and keeps one slot free.
	return &failureRecap{
		ring: mpmc.NewOverlappedRingBuffer[Failure](uint32(n + 1)),
		size: n,
	}
}

func (r *failureRecap) add(f Failure) {
	if r == nil {
		return
	}
	if overwrites, err := r.ring.EnqueueM(f); err == nil {
		r.overwrites += uint64(overwrites)
	}
}

func (r *failureRecap) drain() Recap {
	if r == nil {
		return Recap{}
	}

	recap := Recap{Dropped: r.overwrites}
	for !r.ring.IsEmpty() {
		f, err := r.ring.Dequeue()
		if err != nil {
			break
		}
		recap.Failures = append(recap.Failures, f)
	}
	if excess := len(recap.Failures) - r.size; excess > 0 {
		recap.Failures = recap.Failures[excess:]
		recap.Dropped += uint64(excess)
	}
	r.overwrites = 0
	return recap
}

// Recap is the tail of the failures of a run.
type Recap struct {
	Failures []Failure
	Dropped  uint64 // older failures overwritten by newer ones
}

// RecentFailures drains the failures recorded since the last call or the
// start of the current run, oldest first. Only the most recent ones are
// retained; see WithRecap.
func (s *Session) RecentFailures() Recap {
	return s.recap.drain()
}

// PrintRecap writes the retained failures, one per line.
func PrintRecap(w io.Writer, recap Recap) {
	if len(recap.Failures) == 0 && recap.Dropped == 0 {
		return
	}
	fmt.Fprintf(w, "Recent failures:\n")
	if recap.Dropped > 0 {
		fmt.Fprintf(w, "  (%d earlier failures not shown)\n", recap.Dropped)
	}
	for _, f := range recap.Failures {
		test := f.Test
		if test == "" {
			test = "-"
		}
		fmt.Fprintf(w, "  %-5s %s %s\n", f.Result, test, f.Location)
	}
}
