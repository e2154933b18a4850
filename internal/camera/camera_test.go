package camera

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSource(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))

	src := NewFrameSource([]image.Image{a, b}, false)

	got, err := src.Read()
	require.NoError(t, err)
	assert.Same(t, a, got)
	got, err = src.Read()
	require.NoError(t, err)
	assert.Same(t, b, got)
	_, err = src.Read()
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFrameSource_Loop(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src := NewFrameSource([]image.Image{a}, true)

	for i := 0; i < 3; i++ {
		got, err := src.Read()
		require.NoError(t, err)
		assert.Same(t, a, got)
	}

	require.NoError(t, src.Close())
	assert.True(t, src.Closed())
	_, err := src.Read()
	assert.ErrorIs(t, err, ErrNoFrame)
}
