package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New()
	require.NoError(t, err)
	require.NotNil(t, log)
	_ = log.Sync()
}

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		Must(nil, assert.AnError)
	})
}
