package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageObjectExt(t *testing.T) {
	ext, ok := imageObjectExt("image/png", "photo.png")
	require.True(t, ok)
	require.Equal(t, ".png", ext)

	// A filename extension outside the allow-list never reaches the object
	// key; the declared content type wins.
	ext, ok = imageObjectExt("image/png", "photo.svg")
	require.True(t, ok)
	require.Equal(t, ".png", ext)

	ext, ok = imageObjectExt("image/jpeg", "Photo.JPEG")
	require.True(t, ok)
	require.Equal(t, ".jpeg", ext)

	ext, ok = imageObjectExt("image/webp", "picture")
	require.True(t, ok)
	require.Equal(t, ".webp", ext)

	_, ok = imageObjectExt("image/svg+xml", "photo.svg")
	require.False(t, ok)
	_, ok = imageObjectExt("", "photo.png")
	require.False(t, ok)
}
