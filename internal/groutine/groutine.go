// Package groutine starts named goroutines. The name is attached as a pprof
// label, so it shows up in goroutine profiles, and is available to the
// goroutine through its context.
package groutine

import (
	"context"
	"runtime/pprof"
)

type ctxKey string

const nameKey ctxKey = "goroutine_name"

// Go runs fn in a new goroutine labelled with name and returns a channel that
// is closed once fn has returned. A nil parent means context.Background().
//
//	done := groutine.Go(ctx, "watchdog:suite.test", func(ctx context.Context) {
//	    <-ctx.Done()
//	})
//	<-done
func Go(parent context.Context, name string, fn func(ctx context.Context)) <-chan struct{} {
	if parent == nil {
		parent = context.Background()
	}

	done := make(chan struct{})
	labels := pprof.Labels("goroutine_name", name)

	go pprof.Do(parent, labels, func(ctx context.Context) {
		defer close(done)
		fn(context.WithValue(ctx, nameKey, name))
	})
	return done
}

// Name returns the goroutine name carried by ctx, or "" outside a goroutine
// started with Go.
func Name(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(nameKey).(string)
	return name
}
