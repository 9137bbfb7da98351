package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixuxx/bevy-zig-scripting/domain/entities"
	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/domain/ports"
	"github.com/felixuxx/bevy-zig-scripting/internal/ctxlog"
)

// State is the scheduler's position in its activation lifecycle.
type State int

const (
	// StateInactive means no module has been activated; every detectable
	// activation failure lands (and stays) here.
	StateInactive State = iota

	// StateInitializing means the module is loaded and resolved but the
	// initializer has not completed.
	StateInitializing

	// StateRunning means the initializer completed and updates are being
	// dispatched once per tick.
	StateRunning

	// StateFinished is terminal: the tick bound was reached (or the
	// module faulted detectably) and no further call into it occurs.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Scheduler owns a loaded script module and its resolved entry points and
// is the only component allowed to call into them.
//
// Ownership policy: once activated, the module is never unloaded for the
// remaining life of the process. Resolved entry points are cached next to
// the owning module handle, never handed out, so their validity tracks the
// handle by construction.
//
// All calls into the module happen on the OS thread that performed
// activation; the module makes no thread-safety promise. Tick verifies the
// thread id where the platform allows it and refuses the call otherwise.
// The mutex is the defensive second line: it turns an accidentally
// introduced concurrent invocation into a blocking wait instead of a data
// race inside unverified native code.
type Scheduler struct {
	loader   ports.Loader
	path     string
	contract entities.Contract
	maxTicks uint64

	mu     sync.Mutex
	state  State
	module ports.Module
	init   ports.InitFunc
	update ports.UpdateFunc
	ticks   uint64
	tid     int
	faulted bool
}

// NewScheduler creates an inactive scheduler that will load the module at
// path with the given loader once Activate is called.
func NewScheduler(loader ports.Loader, path string, opts ...Option) *Scheduler {
	s := &Scheduler{
		loader:   loader,
		path:     path,
		contract: entities.DefaultContract(),
		maxTicks: DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate runs the one-shot activation pipeline: locate, load, resolve
// both required entry points, then run the initializer. It must be called
// on the thread that will later call Tick.
//
// Any failure leaves the scheduler Inactive permanently — a missing or
// broken module is not expected to start existing mid-run, so there is no
// retry. The returned error carries the failure for operator diagnostics;
// the host is expected to keep running without scripting.
func (s *Scheduler) Activate(ctx context.Context) error {
	log := ctxlog.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInactive {
		return fmt.Errorf("scheduler already activated (state %s)", s.state)
	}

	if err := Locate(s.path); err != nil {
		return err
	}

	module, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return err
	}
	log.Debug("script module loaded", "path", module.Path())

	// Both entry points must resolve before anything is called: a module
	// missing its update must never see its initializer run.
	init, err := module.ResolveInit(s.contract.Init)
	if err != nil {
		return err
	}
	update, err := module.ResolveUpdate(s.contract.Update)
	if err != nil {
		return err
	}
	log.Debug("entry points resolved",
		"init", s.contract.Init.String(),
		"update", s.contract.Update.String())

	s.module = module
	s.init = init
	s.update = update
	s.tid = threadID()
	s.state = StateInitializing

	if err := s.init(ctx); err != nil {
		s.state = StateInactive
		return fmt.Errorf("script initializer failed: %w", err)
	}
	s.state = StateRunning
	log.Debug("script initializer completed", "path", module.Path())
	return nil
}

// Tick dispatches one update call with the tick's elapsed seconds. It
// reports done=true when the scheduler has reached its tick bound and the
// host should stop its run loop.
//
// When the scheduler is Inactive, Tick is a no-op and never requests
// shutdown: with scripting disabled, exit is driven by host-level
// conditions alone.
func (s *Scheduler) Tick(ctx context.Context, dt float32) (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
	case StateFinished:
		// Keep requesting shutdown after a completed run; a faulted
		// module just stops receiving calls while the host runs on.
		return !s.faulted, nil
	default:
		return false, nil
	}

	if tid := threadID(); s.tid != 0 && tid != 0 && tid != s.tid {
		return false, &scripterrors.ThreadAffinityError{Want: s.tid, Got: tid}
	}

	if err := s.update(ctx, dt); err != nil {
		// A detectable fault from the module (wasm trap). The module is
		// not trusted with further calls; the host keeps running.
		s.state = StateFinished
		s.faulted = true
		return false, fmt.Errorf("script update failed on tick %d: %w", s.ticks, err)
	}
	s.ticks++

	if s.maxTicks > 0 && s.ticks >= s.maxTicks {
		s.state = StateFinished
		ctxlog.FromContext(ctx).Info("script tick bound reached, requesting shutdown", "ticks", s.ticks)
		return true, nil
	}
	return false, nil
}

// State returns the scheduler's current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ticks returns the number of completed update calls.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
