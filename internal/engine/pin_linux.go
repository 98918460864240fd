//go:build linux

package engine

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinThread locks the calling goroutine to its OS thread and binds that
// thread to one core. Best-effort: callers log a failure and continue.
func pinThread(core int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	return unix.SchedSetaffinity(0, &set)
}

// elevatePriority raises the calling thread's scheduling priority.
// Best-effort; requires privileges it usually will not have.
func elevatePriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, -20)
}
