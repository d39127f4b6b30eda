package server

import (
	"encoding/json"
	"net/http"

	"github.com/asticode/go-astilog"
	"github.com/pkg/errors"
)

// Error represents a JSON error body
type Error struct {
	Message string `json:"message"`
}

func writeError(rw http.ResponseWriter, code int, err error) {
	rw.WriteHeader(code)
	astilog.Error(err)
	if err := json.NewEncoder(rw).Encode(Error{Message: err.Error()}); err != nil {
		astilog.Error(errors.Wrap(err, "server: marshaling failed"))
	}
}

func writeData(rw http.ResponseWriter, data interface{}) {
	if err := json.NewEncoder(rw).Encode(data); err != nil {
		writeError(rw, http.StatusInternalServerError, errors.Wrap(err, "server: json encoding failed"))
		return
	}
}
