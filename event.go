package astispeak

import (
	"sync"

	"github.com/asticode/go-astilog"
	"github.com/pkg/errors"
)

// Event names
const (
	EventNameExportDone    = "export.done"
	EventNameSpeechDone    = "speech.done"
	EventNameSpeechFailed  = "speech.failed"
	EventNameSpeechStarted = "speech.started"
	EventNameSpeechStopped = "speech.stopped"
)

// Event represents a speech lifecycle event
type Event struct {
	Error    string `json:"error,omitempty"`
	Filename string `json:"filename,omitempty"`
	Name     string `json:"name"`
	Text     string `json:"text,omitempty"`
}

// EventHandler handles an event
type EventHandler func(e Event) error

type dispatcherHandler struct {
	c DispatchConditions
	h EventHandler
}

// Dispatcher dispatches events to interested handlers
type Dispatcher struct {
	hs []dispatcherHandler
	m  *sync.Mutex
}

// NewDispatcher creates a new dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{m: &sync.Mutex{}}
}

// DispatchConditions restrict which events a handler receives. Zero conditions
// match every event.
type DispatchConditions struct {
	Name  *string
	Names map[string]bool
}

func (c DispatchConditions) match(e Event) bool {
	// Check name
	if c.Name != nil && *c.Name != e.Name {
		return false
	}

	// Check names
	if c.Names != nil && !c.Names[e.Name] {
		return false
	}
	return true
}

// Dispatch dispatches an event
func (d *Dispatcher) Dispatch(e Event) {
	// Lock
	d.m.Lock()
	defer d.m.Unlock()

	// Loop through handlers
	for _, h := range d.hs {
		// No match
		if !h.c.match(e) {
			continue
		}

		// Handle in a goroutine so that it's non blocking
		go func(h EventHandler) {
			if err := h(e); err != nil {
				astilog.Error(errors.Wrap(err, "astispeak: handling event failed"))
			}
		}(h.h)
	}
}

// On makes sure to handle events with specific conditions
func (d *Dispatcher) On(c DispatchConditions, h EventHandler) {
	d.m.Lock()
	defer d.m.Unlock()
	d.hs = append(d.hs, dispatcherHandler{
		c: c,
		h: h,
	})
}
