package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/asticode/go-astilog"
	astihttp "github.com/asticode/go-astitools/http"
	"github.com/asticode/go-astiws"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/asticode/go-astispeak"
)

// Options represents server options
type Options struct {
	Addr string `toml:"addr"`
}

// Server exposes a speaker over HTTP and relays its lifecycle events to
// websocket clients
type Server struct {
	o  Options
	s  *astispeak.Speaker
	ws *astiws.Manager
}

// New creates a new server
func New(s *astispeak.Speaker, o Options) (srv *Server) {
	// Create server
	srv = &Server{
		o:  o,
		s:  s,
		ws: astiws.NewManager(astiws.ManagerConfiguration{}),
	}

	// Relay speech events to websocket clients
	s.On(astispeak.DispatchConditions{}, srv.sendEvent)
	return
}

// Close closes the server properly
func (s *Server) Close() error {
	if s.ws != nil {
		if err := s.ws.Close(); err != nil {
			astilog.Error(errors.Wrap(err, "server: closing websocket clients failed"))
		}
	}
	return nil
}

// Handler returns the http handler
func (s *Server) Handler() http.Handler {
	// Create router
	r := httprouter.New()

	// Add routes
	r.GET("/api/ok", s.ok)
	r.POST("/api/say", s.handleSay)
	r.POST("/api/export", s.handleExport)
	r.POST("/api/stop", s.handleStop)

	// Websockets
	r.GET("/websockets/events", s.handleEventsWebsocket)

	// Chain middlewares
	return astihttp.ChainMiddlewaresWithPrefix(r, []string{"/api/"}, astihttp.MiddlewareContentType("application/json"))
}

func (s *Server) ok(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {}

type sayBody struct {
	Speed float64 `json:"speed,omitempty"`
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
}

func (s *Server) handleSay(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Unmarshal
	var b sayBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(rw, http.StatusBadRequest, errors.Wrap(err, "server: unmarshaling say body failed"))
		return
	}

	// Say
	ch := make(chan error)
	s.s.Speak(b.Text, astispeak.SpeakOptions{Speed: b.Speed, Voice: b.Voice}, func(err error) { ch <- err })
	if err := <-ch; err != nil {
		writeError(rw, http.StatusInternalServerError, errors.Wrap(err, "server: saying failed"))
		return
	}

	// Write
	rw.WriteHeader(http.StatusNoContent)
}

type exportBody struct {
	Filename string  `json:"filename"`
	Speed    float64 `json:"speed,omitempty"`
	Text     string  `json:"text"`
	Voice    string  `json:"voice,omitempty"`
}

// exportPayload describes the rendered audio file
type exportPayload struct {
	Duration    float64 `json:"duration"`
	Filename    string  `json:"filename"`
	NumChannels int     `json:"num_channels"`
	SampleRate  int     `json:"sample_rate"`
}

func (s *Server) handleExport(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Unmarshal
	var b exportBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(rw, http.StatusBadRequest, errors.Wrap(err, "server: unmarshaling export body failed"))
		return
	}

	// Export
	ch := make(chan error)
	s.s.Export(b.Text, b.Filename, astispeak.SpeakOptions{Speed: b.Speed, Voice: b.Voice}, func(err error) { ch <- err })
	if err := <-ch; err != nil {
		writeError(rw, http.StatusInternalServerError, errors.Wrap(err, "server: exporting failed"))
		return
	}

	// Probe the rendered file
	p, err := probeWav(b.Filename)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, errors.Wrapf(err, "server: probing %s failed", b.Filename))
		return
	}

	// Write
	writeData(rw, p)
}

func (s *Server) handleStop(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Stop
	ch := make(chan error)
	s.s.Stop(func(err error) { ch <- err })
	if err := <-ch; err != nil {
		writeError(rw, http.StatusInternalServerError, errors.Wrap(err, "server: stopping failed"))
		return
	}

	// Write
	rw.WriteHeader(http.StatusNoContent)
}

// probeWav reads the header of an exported file
func probeWav(filename string) (p exportPayload, err error) {
	// Open file
	var f *os.File
	if f, err = os.Open(filename); err != nil {
		err = errors.Wrapf(err, "server: opening %s failed", filename)
		return
	}
	defer f.Close()

	// Create decoder
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		err = errors.Errorf("server: %s is not a valid wav file", filename)
		return
	}

	// Duration
	var du time.Duration
	if du, err = d.Duration(); err != nil {
		err = errors.Wrap(err, "server: reading duration failed")
		return
	}

	// Format
	var fm *audio.Format
	if fm = d.Format(); fm == nil {
		err = errors.New("server: reading format failed")
		return
	}

	// Create payload
	p = exportPayload{
		Duration:    du.Seconds(),
		Filename:    filename,
		NumChannels: fm.NumChannels,
		SampleRate:  fm.SampleRate,
	}
	return
}
