package astispeak

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDoneOnce(t *testing.T) {
	var count int
	d := newDoneOnce(func(err error) { count++ })
	d.done(nil)
	d.done(errors.New("again"))
	assert.Equal(t, 1, count)

	// A nil func must not panic
	newDoneOnce(nil).done(nil)
}

func TestToASCII(t *testing.T) {
	assert.Equal(t, []byte("hello"), toASCII("hello"))
	assert.Equal(t, []byte{0x00, 0x43, 0x29}, toASCII("\x80\xc3\xa9"))
}
