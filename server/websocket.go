package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asticode/go-astilog"
	"github.com/asticode/go-astiws"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/asticode/go-astispeak"
)

// Events clients can't provide proper unique names, we need to come up with one
// when they connect
func eventsClientName(c *astiws.Client) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%p", c)))
}

func (s *Server) handleEventsWebsocket(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.ws.ServeHTTP(rw, r, func(c *astiws.Client) (err error) {
		// Get name
		name := eventsClientName(c)

		// Handle disconnect
		c.SetListener(astiws.EventNameDisconnect, func(_ *astiws.Client, _ string, _ json.RawMessage) (err error) {
			s.ws.UnregisterClient(name)
			astilog.Infof("server: events client %s has disconnected", name)
			return
		})

		// Register client
		s.ws.RegisterClient(name, c)

		// Log
		astilog.Infof("server: events client %s has connected", name)
		return
	}); err != nil {
		if v, ok := errors.Cause(err).(*websocket.CloseError); !ok || (v.Code != websocket.CloseNoStatusReceived && v.Code != websocket.CloseNormalClosure) {
			astilog.Error(errors.Wrap(err, "server: handling events websocket failed"))
		}
		return
	}
}

// sendEvent relays a speech lifecycle event to all websocket clients
func (s *Server) sendEvent(e astispeak.Event) (err error) {
	s.ws.Clients(func(_ interface{}, c *astiws.Client) error {
		if err := c.WriteJSON(e); err != nil {
			astilog.Error(errors.Wrap(err, "server: writing event failed"))
		}
		return nil
	})
	return
}
