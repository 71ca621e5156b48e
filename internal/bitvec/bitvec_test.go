package bitvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(0))
	assert.Equal(t, 1, Count(1))
	assert.Equal(t, 3, Count(0x7))
	assert.Equal(t, 64, Count(0xFFFFFFFFFFFFFFFF))
}

func TestBelow(t *testing.T) {
	assert.True(t, Below(0x7, 4))
	assert.False(t, Below(0xF, 4))
	assert.False(t, Below(0xFF, 4))

	// Zero has no bits set, so any positive limit passes.
	assert.True(t, Below(0, 1))
	assert.False(t, Below(0, 0))
	assert.False(t, Below(1, 0))
	assert.False(t, Below(1, 1))
	assert.True(t, Below(1, 2))
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 1, Weight(1, 2, 4))
	assert.Equal(t, 12, Weight(0x3, 0x7, 0x3))
	assert.Equal(t, 0, Weight(0, 0x7, 0x3))
}
