package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bramgg/snapy/internal/media"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   []byte
		want media.Kind
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, media.Image},
		{"jpeg header only", []byte{0xFF, 0xD8}, media.Image},
		{"mp4", []byte{0x00, 0x00, 0x00, 0x18}, media.Video},
		{"zip", []byte("PK\x03\x04"), media.Video},
		{"text", []byte("hello"), media.Unknown},
		{"empty", nil, media.Unknown},
		{"one byte", []byte{0xFF}, media.Unknown},
		{"jpeg marker in second byte", []byte{0x00, 0xD8}, media.Unknown},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, media.Classify(tc.in))
		})
	}
}

func TestIsZip(t *testing.T) {
	assert.True(t, media.IsZip([]byte("PK\x03\x04")))
	assert.False(t, media.IsZip([]byte{0xFF, 0xD8}))
	assert.False(t, media.IsZip([]byte("P")))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", media.Extension(media.Image))
	assert.Equal(t, "mp4", media.Extension(media.Video))
	assert.Equal(t, "mp4", media.Extension(media.VideoNoAudio))
	assert.Equal(t, "", media.Extension(media.Unknown))
}
