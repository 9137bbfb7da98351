//go:build !linux

package host

// threadID returns 0 on platforms without a cheap thread-id syscall,
// which disables the affinity check and leaves the mutex guard as the
// only defense.
func threadID() int {
	return 0
}
