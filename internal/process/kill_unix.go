//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillGroup sends SIGKILL to the process group led by pid, taking the
// browser's renderer and GPU children down with it. pid <= 0 is ignored
// because it would address the caller's own group.
func KillGroup(pid int) error {
	if pid <= 0 {
		return nil
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil // already gone
	}
	return err
}
