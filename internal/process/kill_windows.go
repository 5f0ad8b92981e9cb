//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillGroup kills a process tree with taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
// Errors are dropped: taskkill exits non-zero when the tree already exited.
func KillGroup(pid int) error {
	if pid <= 0 {
		return nil
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	return nil
}
