package astispeak

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher(t *testing.T) {
	// Create dispatcher
	d := NewDispatcher()
	matched := make(chan Event, 1)
	var others int32
	n := EventNameSpeechDone
	d.On(DispatchConditions{Name: &n}, func(e Event) error {
		matched <- e
		return nil
	})
	d.On(DispatchConditions{Names: map[string]bool{EventNameSpeechFailed: true}}, func(e Event) error {
		atomic.AddInt32(&others, 1)
		return nil
	})

	// Dispatch
	d.Dispatch(Event{Name: EventNameSpeechDone, Text: "hello"})

	// The matching handler receives the event
	select {
	case e := <-matched:
		assert.Equal(t, "hello", e.Text)
	case <-time.After(time.Second):
		t.Fatal("event was not dispatched")
	}

	// The non-matching handler doesn't
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&others))
}

func TestDispatchConditions(t *testing.T) {
	assert.True(t, DispatchConditions{}.match(Event{Name: EventNameSpeechDone}))
	n := EventNameSpeechDone
	assert.True(t, DispatchConditions{Name: &n}.match(Event{Name: EventNameSpeechDone}))
	assert.False(t, DispatchConditions{Name: &n}.match(Event{Name: EventNameSpeechFailed}))
	assert.True(t, DispatchConditions{Names: map[string]bool{EventNameSpeechDone: true}}.match(Event{Name: EventNameSpeechDone}))
	assert.False(t, DispatchConditions{Names: map[string]bool{EventNameSpeechDone: true}}.match(Event{Name: EventNameSpeechStopped}))
}
