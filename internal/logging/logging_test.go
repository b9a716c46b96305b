package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, log.Default(), FromContext(context.Background()))
}

func TestWithLogger_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.DebugLevel)
	ctx := WithLogger(context.Background(), l)

	got := FromContext(ctx)
	assert.Same(t, l, got)

	got.Debug("searching", "configs", 3)
	assert.Contains(t, buf.String(), "searching")
	assert.Contains(t, buf.String(), "configs=3")
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := Start(New(&buf, log.InfoLevel))
	p.Done("tiling search finished", "score", 0.5)
	assert.Contains(t, buf.String(), "tiling search finished")
	assert.Contains(t, buf.String(), "elapsed=")
}
