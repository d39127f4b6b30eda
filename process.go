package astispeak

import (
	"io"
	"io/ioutil"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/asticode/go-astilog"
	"github.com/pkg/errors"
)

// doneOnce guards a DoneFunc against double invocation: the error-stream and
// exit events race to report completion, only the first one wins
type doneOnce struct {
	fn DoneFunc
	o  sync.Once
}

// newDoneOnce creates a new once guard
func newDoneOnce(fn DoneFunc) *doneOnce {
	return &doneOnce{fn: fn}
}

// done invokes the guarded func at most once
func (d *doneOnce) done(err error) {
	d.o.Do(func() {
		if d.fn != nil {
			d.fn(err)
		}
	})
}

// toASCII masks bytes to 7 bits, matching the ascii encoding of the piped streams
func toASCII(i string) (o []byte) {
	o = []byte(i)
	for idx := range o {
		o[idx] &= 0x7f
	}
	return
}

// spawn starts the speech command and monitors it until completion
func (s *Speaker) spawn(p profile, c command, d *doneOnce, e Event) {
	// Add binary dir path
	name := c.name
	if s.o.BinaryDirPath != "" {
		name = filepath.Join(s.o.BinaryDirPath, name)
	}

	// Another process is active
	s.m.Lock()
	if s.proc != nil {
		s.m.Unlock()
		go d.done(ErrBusy)
		return
	}

	// Create cmd
	cmd := s.execCommand(name, c.args...)

	// festival speaks through intermediate shells: isolate the process group so
	// that Stop can reach the real audio process
	if p.platform == PlatformLinux {
		configureGroup(cmd)
	}

	// Pipe stderr
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.m.Unlock()
		go d.done(errors.Wrap(err, "astispeak: piping stderr failed"))
		return
	}

	// Pipe stdin
	var stdin io.WriteCloser
	if c.payload != "" {
		if stdin, err = cmd.StdinPipe(); err != nil {
			s.m.Unlock()
			go d.done(errors.Wrap(err, "astispeak: piping stdin failed"))
			return
		}
	}

	// Start cmd
	astilog.Debugf("astispeak: executing %s", strings.Join(cmd.Args, " "))
	if err = cmd.Start(); err != nil {
		s.m.Unlock()
		go d.done(errors.Wrapf(err, "astispeak: starting %s failed", strings.Join(cmd.Args, " ")))
		return
	}

	// Store active process
	s.proc = cmd
	s.stdin = stdin
	s.m.Unlock()

	// Dispatch
	s.d.Dispatch(e)

	// Write piped payload
	if stdin != nil {
		go func() {
			if _, err := stdin.Write(toASCII(c.payload)); err != nil {
				astilog.Error(errors.Wrap(err, "astispeak: writing piped payload failed"))
			}
			if err := stdin.Close(); err != nil {
				astilog.Debugf("astispeak: closing stdin failed: %s", err)
			}
		}()
	}

	// Monitor
	go s.monitor(cmd, stderr, d, e)
}

// monitor relays the process outcome. The error stream is drained first: any
// output there reports a failure even if the process exits cleanly afterwards.
func (s *Speaker) monitor(cmd *exec.Cmd, stderr io.Reader, d *doneOnce, e Event) {
	// Drain stderr
	var serr error
	if b, _ := ioutil.ReadAll(stderr); len(b) > 0 {
		serr = StderrError{Output: strings.TrimSpace(string(b))}
		d.done(serr)
	}

	// Wait for the process to exit
	err := cmd.Wait()

	// Clear active process
	s.m.Lock()
	if s.proc == cmd {
		s.proc = nil
		s.stdin = nil
	}
	s.m.Unlock()

	// Process failed
	if err != nil {
		oe := ExitError{Code: -1}
		if ee, ok := err.(*exec.ExitError); ok {
			oe.Code = ee.ExitCode()
			if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				oe.Signal = ws.Signal().String()
			}
		}
		s.d.Dispatch(Event{Error: oe.Error(), Filename: e.Filename, Name: EventNameSpeechFailed, Text: e.Text})
		d.done(oe)
		return
	}

	// Clean exit but the process wrote to stderr
	if serr != nil {
		s.d.Dispatch(Event{Error: serr.Error(), Filename: e.Filename, Name: EventNameSpeechFailed, Text: e.Text})
		return
	}

	// Success
	n := EventNameSpeechDone
	if e.Filename != "" {
		n = EventNameExportDone
	}
	s.d.Dispatch(Event{Filename: e.Filename, Name: n, Text: e.Text})
	d.done(nil)
}
