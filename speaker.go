package astispeak

import (
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/asticode/go-astilog"
	"github.com/pkg/errors"
)

// DoneFunc is invoked exactly once when an operation completes, with a nil error
// on success. It is never invoked synchronously with the call.
type DoneFunc func(err error)

// Options represents speaker options
type Options struct {
	BinaryDirPath string `toml:"binary_dir_path"`
	Platform      string `toml:"platform"`
	Voice         string `toml:"voice"`
}

// SpeakOptions represents per-utterance options
type SpeakOptions struct {
	Speed float64 `toml:"speed"`
	Voice string  `toml:"voice"`
}

// Speaker says words to the audio output using the speech synthesis command of
// its platform profile. It drives at most one speech process at a time.
type Speaker struct {
	d           *Dispatcher
	execCommand func(name string, args ...string) *exec.Cmd
	m           sync.Mutex // Locks p, proc and stdin
	o           Options
	p           profile
	proc        *exec.Cmd
	stdin       io.WriteCloser
}

// New creates a new speaker. The platform defaults to the host platform and an
// unknown platform is a construction-time failure.
func New(o Options) (s *Speaker, err error) {
	// Default platform
	if o.Platform == "" {
		o.Platform = DefaultPlatform()
	}

	// Create speaker
	s = &Speaker{
		d:           NewDispatcher(),
		execCommand: exec.Command,
		o:           o,
	}

	// Create profile
	if s.p, err = newProfile(o.Platform); err != nil {
		return
	}
	return
}

// SetPlatform overrides the platform profile
func (s *Speaker) SetPlatform(platform string) (err error) {
	// Create profile
	var p profile
	if p, err = newProfile(platform); err != nil {
		return
	}

	// Store profile
	s.m.Lock()
	s.p = p
	s.m.Unlock()
	return
}

// Platform returns the platform of the current profile
func (s *Speaker) Platform() string {
	s.m.Lock()
	defer s.m.Unlock()
	return s.p.platform
}

// ExportSupported returns whether the current profile can render speech to a file
func (s *Speaker) ExportSupported() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.p.export
}

// ConvertSpeed converts a speed factor into the speaking rate of the current
// profile. It is only meaningful on profiles with a non-zero base rate.
func (s *Speaker) ConvertSpeed(speed float64) int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.p.convertSpeed(speed)
}

// On makes sure to handle speech lifecycle events with specific conditions
func (s *Speaker) On(c DispatchConditions, h EventHandler) {
	s.d.On(c, h)
}

// voice returns the utterance voice, falling back on the speaker default
func (s *Speaker) voice(o SpeakOptions) string {
	if o.Voice != "" {
		return o.Voice
	}
	return s.o.Voice
}

// Speak says text to the audio output
func (s *Speaker) Speak(text string, o SpeakOptions, fn DoneFunc) {
	// Create once guard
	d := newDoneOnce(fn)

	// No text
	if text == "" {
		go d.done(ErrMissingText)
		return
	}

	// Get profile
	s.m.Lock()
	p := s.p
	s.m.Unlock()

	// Spawn
	s.spawn(p, p.buildSpeak(text, s.voice(o), o.Speed), d, Event{Name: EventNameSpeechStarted, Text: text})
}

// Export renders text to an audio file instead of the speakers. Only profiles
// with export support can do this.
func (s *Speaker) Export(text, filename string, o SpeakOptions, fn DoneFunc) {
	// Create once guard
	d := newDoneOnce(fn)

	// No text
	if text == "" {
		go d.done(ErrMissingText)
		return
	}

	// No filename
	if filename == "" {
		go d.done(ErrMissingFilename)
		return
	}

	// Get profile
	s.m.Lock()
	p := s.p
	s.m.Unlock()

	// Export is not supported
	if !p.export {
		go d.done(UnsupportedPlatformError{Platform: p.platform})
		return
	}

	// Spawn
	s.spawn(p, p.buildExport(text, s.voice(o), o.Speed, filename), d, Event{Filename: filename, Name: EventNameSpeechStarted, Text: text})
}

// Stop terminates in-progress speech. Termination is fire-and-forget: the
// callback gets a nil error whether or not the process actually died.
func (s *Speaker) Stop(fn DoneFunc) {
	// Create once guard
	d := newDoneOnce(fn)

	// Detach active process
	s.m.Lock()
	p, proc, stdin := s.p, s.proc, s.stdin
	s.proc, s.stdin = nil, nil
	s.m.Unlock()

	// No active process
	if proc == nil {
		go d.done(ErrNoSpeech)
		return
	}

	// Terminate
	go func() {
		// Close input stream
		if stdin != nil {
			if err := stdin.Close(); err != nil {
				astilog.Debugf("astispeak: closing stdin failed: %s", err)
			}
		}

		// Platform-specific termination
		var err error
		switch p.platform {
		case PlatformLinux:
			// Signal the whole group so that the real audio process dies too
			err = terminateGroup(proc.Process.Pid)
		case PlatformWindows:
			err = exec.Command("taskkill", "/pid", strconv.Itoa(proc.Process.Pid), "/T", "/F").Run()
		default:
			err = terminateProcess(proc.Process)
		}
		if err != nil {
			astilog.Error(errors.Wrap(err, "astispeak: terminating process failed"))
		}

		// Dispatch
		s.d.Dispatch(Event{Name: EventNameSpeechStopped})

		// Done
		d.done(nil)
	}()
}
