package astispeak

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors reported through callbacks
var (
	ErrBusy            = errors.New("astispeak: speech already in progress")
	ErrMissingFilename = errors.New("astispeak: missing filename")
	ErrMissingText     = errors.New("astispeak: missing text")
	ErrNoSpeech        = errors.New("astispeak: no speech in progress")
)

// UnsupportedPlatformError reports a platform with no speech profile, or an
// operation the current profile can't perform
type UnsupportedPlatformError struct {
	Platform string
}

// Error implements the error interface
func (e UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("astispeak: unsupported platform %s", e.Platform)
}

// StderrError reports data the speech process wrote to its error stream
type StderrError struct {
	Output string
}

// Error implements the error interface
func (e StderrError) Error() string {
	return fmt.Sprintf("astispeak: process wrote to stderr: %s", e.Output)
}

// ExitError reports a speech process that exited with a non-zero code or was
// terminated by a signal
type ExitError struct {
	Code   int
	Signal string
}

// Error implements the error interface
func (e ExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("astispeak: process terminated by signal %s", e.Signal)
	}
	return fmt.Sprintf("astispeak: process exited with code %d", e.Code)
}
