package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"

	"github.com/asticode/go-astispeak"
)

func testServer(t *testing.T) *Server {
	s, err := astispeak.New(astispeak.Options{Platform: astispeak.PlatformLinux})
	assert.NoError(t, err)
	return New(s, Options{})
}

func send(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rw
}

func errorMessage(t *testing.T, rw *httptest.ResponseRecorder) string {
	var e Error
	assert.NoError(t, json.NewDecoder(rw.Body).Decode(&e))
	return e.Message
}

func TestOK(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	rw := send(srv.Handler(), http.MethodGet, "/api/ok", "")
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "application/json", rw.Header().Get("Content-Type"))
}

func TestSayInvalidBody(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	rw := send(srv.Handler(), http.MethodPost, "/api/say", "{")
	assert.Equal(t, http.StatusBadRequest, rw.Code)
}

func TestSayMissingText(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	rw := send(srv.Handler(), http.MethodPost, "/api/say", `{"text":""}`)
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, errorMessage(t, rw), "missing text")
}

func TestExportUnsupportedPlatform(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	rw := send(srv.Handler(), http.MethodPost, "/api/export", `{"text":"hello","filename":"f.wav"}`)
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, errorMessage(t, rw), "unsupported platform")
}

func TestStopNoSpeech(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	rw := send(srv.Handler(), http.MethodPost, "/api/stop", "")
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, errorMessage(t, rw), "no speech")
}

func TestProbeWav(t *testing.T) {
	// Write a 1s mono file
	p := filepath.Join(os.TempDir(), "astispeak-probe.wav")
	defer os.Remove(p)
	f, err := os.Create(p)
	assert.NoError(t, err)
	e := wav.NewEncoder(f, 8000, 16, 1, 1)
	assert.NoError(t, e.Write(&audio.IntBuffer{
		Data:           make([]int, 8000),
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		SourceBitDepth: 16,
	}))
	assert.NoError(t, e.Close())
	assert.NoError(t, f.Close())

	// Probe
	o, err := probeWav(p)
	assert.NoError(t, err)
	assert.Equal(t, p, o.Filename)
	assert.Equal(t, 1, o.NumChannels)
	assert.Equal(t, 8000, o.SampleRate)
	assert.InDelta(t, 1, o.Duration, 0.01)

	// Not a wav file
	assert.NoError(t, os.Remove(p))
	assert.NoError(t, ioutil.WriteFile(p, []byte("not a wav"), 0644))
	_, err = probeWav(p)
	assert.Error(t, err)
}
