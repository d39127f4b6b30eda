// +build !windows

package astispeak

import (
	"os"
	"os/exec"
	"syscall"
)

// configureGroup starts the child in its own process group so that termination
// reaches the real audio process behind intermediate shells
func configureGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateGroup signals the whole process group of pid
func terminateGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGTERM)
}

// terminateProcess signals a single process
func terminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
