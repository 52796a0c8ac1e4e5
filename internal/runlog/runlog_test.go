package runlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilLoggerIsSafe(t *testing.T) {
	ctx := context.Background()
	var l *Logger

	assert.NotPanics(t, func() {
		l.Begin(ctx, "run-1", "unsc")
		l.Skipped(ctx, "run-1", "unsc", "abc")
		l.Succeeded(ctx, "run-1", "unsc", "abc", map[string]int{"records": 1}, []string{"key"})
		l.Failed(ctx, "run-1", "unsc", "boom")
	})
}
