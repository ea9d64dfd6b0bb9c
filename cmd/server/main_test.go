package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunConfigError(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	err := run(context.Background())
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestRunListenError(t *testing.T) {
	t.Setenv("ADDR", "256.0.0.1:bad")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := run(ctx)
	assert.ErrorContains(t, err, "server stopped")
}
