package spinning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	Period = 10 * time.Millisecond
	s := New(context.Background())
	assert.Equal(t, "", s.Status())
	s.SetStatus("tick 10")
	assert.Equal(t, "tick 10", s.Status())
	time.Sleep(30 * time.Millisecond)
	s.SetStatus("tick 20")
	s.Done()
	assert.Equal(t, "tick 20", s.Status())
	s.Done() // Calling twice is fine.
}
