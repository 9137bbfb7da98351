//go:build linux

package host

import "golang.org/x/sys/unix"

// threadID returns the OS thread id of the calling goroutine's current
// thread. Callers pin the goroutine with runtime.LockOSThread, so the id
// is stable between calls.
func threadID() int {
	return unix.Gettid()
}
