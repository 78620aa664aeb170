package contxt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx, cancel := NewContext(context.Background(), time.Minute)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestNewContextWithoutDeadline(t *testing.T) {
	t.Setenv("CONTEXT_TEST", "1")
	ctx, cancel := NewContext(context.Background(), time.Minute)
	_, ok := ctx.Deadline()
	assert.False(t, ok)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
