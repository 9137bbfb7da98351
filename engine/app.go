// Package engine is a minimal fixed-cadence run loop: startup hooks run
// once, then tick systems run every interval until one requests shutdown
// or the context is cancelled. The loop goroutine is locked to its OS
// thread for the benefit of systems that call into native code.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/felixuxx/bevy-zig-scripting/internal/ctxlog"
)

// StartupFunc runs once on the loop thread before the first tick. A
// returned error aborts the run; hooks that want the engine to continue
// handle their own failures and return nil.
type StartupFunc func(ctx context.Context) error

// System runs once per tick with the elapsed seconds since the previous
// tick. Returning done stops the loop after the current tick; an error is
// logged and the loop continues.
type System func(ctx context.Context, dt float32) (done bool, err error)

// App owns the run loop.
type App struct {
	interval time.Duration
	startup  []StartupFunc
	systems  []System
}

// Option configures the App.
type Option func(*App)

// WithTickInterval sets the loop cadence. Default is one tick every
// 16.67ms (60 per second).
func WithTickInterval(d time.Duration) Option {
	return func(a *App) {
		a.interval = d
	}
}

// New creates an App with no hooks registered.
func New(opts ...Option) *App {
	a := &App{interval: time.Second / 60}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddStartup registers a startup hook. Hooks run in registration order.
func (a *App) AddStartup(fn StartupFunc) {
	a.startup = append(a.startup, fn)
}

// AddSystem registers a tick system. Systems run in registration order
// within a tick; a tick always runs every system before the loop stops.
func (a *App) AddSystem(fn System) {
	a.systems = append(a.systems, fn)
}

// Run executes the loop until a system requests shutdown or ctx is
// cancelled. It locks the calling goroutine to its OS thread for the
// duration, so startup hooks and systems all observe the same thread.
func (a *App) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := ctxlog.FromContext(ctx)

	for _, fn := range a.startup {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("startup hook failed: %w", err)
		}
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Info("run loop stopping", "reason", ctx.Err())
			return nil
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now

			var stop bool
			for _, sys := range a.systems {
				done, err := sys(ctx, dt)
				if err != nil {
					log.Error("tick system failed", "error", err)
				}
				stop = stop || done
			}
			if stop {
				log.Debug("shutdown requested by tick system")
				return nil
			}
		}
	}
}
