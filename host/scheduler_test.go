package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scripterrors "github.com/felixuxx/bevy-zig-scripting/domain/errors"
	"github.com/felixuxx/bevy-zig-scripting/scripttest"
)

// presentPath creates a file standing in for a built script module so the
// locator step passes and the fake loader is reached.
func presentPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libscript.so")
	require.NoError(t, os.WriteFile(path, []byte{0x7f}, 0o644))
	return path
}

// lockThread pins the test goroutine so the affinity check sees a stable
// thread id across Activate and Tick.
func lockThread(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func TestActivateMissingModule(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	loader := &scripttest.Loader{Module: module}
	s := NewScheduler(loader, filepath.Join(t.TempDir(), "libscript.so"))

	err := s.Activate(context.Background())

	var notFound *scripterrors.ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, StateInactive, s.State())
	// The load was never attempted and no native code ran.
	assert.Empty(t, loader.Loaded)
	assert.Empty(t, module.CallSequence())
}

func TestActivateLoadFailure(t *testing.T) {
	lockThread(t)
	loadErr := &scripterrors.LoadError{Path: "x", Err: errors.New("invalid ELF header")}
	s := NewScheduler(&scripttest.Loader{Err: loadErr}, presentPath(t))

	err := s.Activate(context.Background())

	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, StateInactive, s.State())
}

func TestActivateMissingUpdateExport(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{MissingUpdate: true}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))

	err := s.Activate(context.Background())

	var missing *scripterrors.SymbolNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "script_update", missing.Symbol)
	assert.Equal(t, StateInactive, s.State())
	// Required exports resolve jointly: init must never run when update
	// is missing.
	assert.Empty(t, module.CallSequence())
}

func TestActivateMissingInitExport(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{MissingInit: true}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))

	err := s.Activate(context.Background())

	var missing *scripterrors.SymbolNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "script_init", missing.Symbol)
	assert.Empty(t, module.CallSequence())
}

func TestActivateIsOneShot(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))

	require.NoError(t, s.Activate(context.Background()))
	assert.Error(t, s.Activate(context.Background()))
	assert.Equal(t, []string{"init"}, module.CallSequence())
}

func TestInitRunsOnceBeforeFirstUpdate(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))
	ctx := context.Background()

	require.NoError(t, s.Activate(ctx))
	assert.Equal(t, StateRunning, s.State())

	for i := 0; i < 3; i++ {
		done, err := s.Tick(ctx, 1.0/60.0)
		require.NoError(t, err)
		assert.False(t, done)
	}

	assert.Equal(t, []string{"init", "update", "update", "update"}, module.CallSequence())
}

func TestUpdatesAreOrderedByTick(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t), WithMaxTicks(0))
	ctx := context.Background()
	require.NoError(t, s.Activate(ctx))

	for i := 0; i < 5; i++ {
		_, err := s.Tick(ctx, float32(i))
		require.NoError(t, err)
	}

	assert.Equal(t, []float32{0, 1, 2, 3, 4}, module.Updates)
}

func TestTickBoundRequestsShutdown(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))
	ctx := context.Background()
	require.NoError(t, s.Activate(ctx))

	for i := 0; i < 9; i++ {
		done, err := s.Tick(ctx, 1.0/60.0)
		require.NoError(t, err)
		assert.False(t, done, "tick %d must not request shutdown", i+1)
	}

	done, err := s.Tick(ctx, 1.0/60.0)
	require.NoError(t, err)
	assert.True(t, done, "tenth update must request shutdown")
	assert.Equal(t, StateFinished, s.State())
	assert.Equal(t, uint64(10), s.Ticks())

	// Finished is terminal: no eleventh update, shutdown stays requested.
	done, err = s.Tick(ctx, 1.0/60.0)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Len(t, module.Updates, 10)
}

func TestUnboundedRun(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t), WithMaxTicks(0))
	ctx := context.Background()
	require.NoError(t, s.Activate(ctx))

	for i := 0; i < 25; i++ {
		done, err := s.Tick(ctx, 1.0/60.0)
		require.NoError(t, err)
		assert.False(t, done)
	}
	assert.Equal(t, uint64(25), s.Ticks())
}

func TestTickWhileInactiveIsNoop(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, filepath.Join(t.TempDir(), "absent.so"))
	ctx := context.Background()

	require.Error(t, s.Activate(ctx))

	// With scripting disabled the bridge never drives shutdown; exit is
	// the host's business.
	done, err := s.Tick(ctx, 1.0/60.0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, module.CallSequence())
}

func TestInitFailureKeepsSchedulerInactive(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{InitErr: errors.New("trap: unreachable")}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))
	ctx := context.Background()

	require.Error(t, s.Activate(ctx))
	assert.Equal(t, StateInactive, s.State())

	done, err := s.Tick(ctx, 1.0/60.0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, []string{"init"}, module.CallSequence())
}

func TestUpdateFaultDisablesScripting(t *testing.T) {
	lockThread(t)
	module := &scripttest.Module{UpdateErr: errors.New("trap: out of bounds")}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))
	ctx := context.Background()
	require.NoError(t, s.Activate(ctx))

	done, err := s.Tick(ctx, 1.0/60.0)
	assert.Error(t, err)
	assert.False(t, done)
	assert.Equal(t, StateFinished, s.State())

	// The faulted module receives no further calls, and the host is not
	// asked to shut down on its account.
	done, err = s.Tick(ctx, 1.0/60.0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, []string{"init", "update"}, module.CallSequence())
}

func TestTickRefusesForeignThread(t *testing.T) {
	if threadID() == 0 {
		t.Skip("thread ids unavailable on this platform")
	}
	lockThread(t)
	module := &scripttest.Module{}
	s := NewScheduler(&scripttest.Loader{Module: module}, presentPath(t))
	ctx := context.Background()
	require.NoError(t, s.Activate(ctx))

	errCh := make(chan error, 1)
	go func() {
		// The test goroutine holds its thread, so this goroutine is
		// guaranteed to run elsewhere once pinned.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		_, err := s.Tick(ctx, 1.0/60.0)
		errCh <- err
	}()

	var affinity *scripterrors.ThreadAffinityError
	require.ErrorAs(t, <-errCh, &affinity)
	assert.Empty(t, module.Updates)

	// The owning thread is still allowed through.
	_, err := s.Tick(ctx, 1.0/60.0)
	require.NoError(t, err)
	assert.Len(t, module.Updates, 1)
}
