package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-10))
	assert.Equal(t, 0, ClampProgress(0))
	assert.Equal(t, 42, ClampProgress(42))
	assert.Equal(t, 100, ClampProgress(100))
	assert.Equal(t, 100, ClampProgress(150))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusOngoing, StatusFor(0))
	assert.Equal(t, StatusOngoing, StatusFor(99))
	assert.Equal(t, StatusFinished, StatusFor(100))
}
