//go:build !linux

package engine

import (
	"errors"
	"runtime"
)

// pinThread locks the goroutine to its OS thread; core binding is not
// available off Linux, so callers get an error to log and carry on.
func pinThread(int) error {
	runtime.LockOSThread()
	return errors.New("core pinning unsupported on this platform")
}

func elevatePriority() error {
	return errors.New("priority elevation unsupported on this platform")
}
