// +build windows

package astispeak

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

func configureGroup(cmd *exec.Cmd) {}

func terminateGroup(pid int) error {
	return errors.New("astispeak: process groups are not supported on this host")
}

func terminateProcess(p *os.Process) error {
	return p.Kill()
}
