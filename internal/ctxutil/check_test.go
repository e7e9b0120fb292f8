package ctxutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/latch/internal/ctxutil"
)

func TestCanceledReturnsNilWhenActive(t *testing.T) {
	assert.NoError(t, ctxutil.Canceled(context.Background()))
}

func TestCanceledReturnsErrWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ctxutil.Canceled(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
