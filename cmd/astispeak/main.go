package main

import (
	"flag"

	"github.com/asticode/go-astilog"
	asticonfig "github.com/asticode/go-astitools/config"
	astiworker "github.com/asticode/go-astitools/worker"
	"github.com/pkg/errors"

	"github.com/asticode/go-astispeak"
	"github.com/asticode/go-astispeak/server"
)

// Flags
var (
	addr          = flag.String("a", "", "the server addr")
	binaryDirPath = flag.String("b", "", "the speech binary dir path")
	config        = flag.String("c", "", "the config path")
	platform      = flag.String("p", "", "the platform profile")
	say           = flag.String("say", "", "say this text and exit")
	voice         = flag.String("voice", "", "the default voice")
)

func main() {
	// Parse flags
	flag.Parse()
	astilog.FlagInit()

	// Init configuration
	c := newConfiguration()

	// Init speaker
	s, err := astispeak.New(c.Speaker)
	if err != nil {
		astilog.Fatal(errors.Wrap(err, "main: creating speaker failed"))
	}

	// Say once and exit
	if *say != "" {
		ch := make(chan error)
		s.Speak(*say, astispeak.SpeakOptions{}, func(err error) { ch <- err })
		if err := <-ch; err != nil {
			astilog.Fatal(errors.Wrapf(err, "main: saying %q failed", *say))
		}
		return
	}

	// Init worker
	w := astiworker.NewWorker()

	// Handle signals
	w.HandleSignals()

	// Init server
	srv := server.New(s, c.Server)
	defer srv.Close()

	// Serve
	w.Serve(c.Server.Addr, srv.Handler())

	// Wait
	w.Wait()
}

// Configuration represents a configuration
type Configuration struct {
	Server  server.Options    `toml:"server"`
	Speaker astispeak.Options `toml:"speaker"`
}

// newConfiguration creates a new configuration
func newConfiguration() *Configuration {
	// Global config
	gc := &Configuration{
		Server: server.Options{Addr: "127.0.0.1:4000"},
	}

	// Flag config
	fc := &Configuration{
		Server: server.Options{Addr: *addr},
		Speaker: astispeak.Options{
			BinaryDirPath: *binaryDirPath,
			Platform:      *platform,
			Voice:         *voice,
		},
	}

	// Build configuration
	c, err := asticonfig.New(gc, *config, fc)
	if err != nil {
		astilog.Fatal(err)
	}
	return c.(*Configuration)
}
