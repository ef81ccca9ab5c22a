package images

import (
	"bytes"
	"testing"

	"github.com/marqueehq/marquee/internal/testgen"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	for mimeType, ext := range map[string]string{
		"image/png":  ".png",
		"image/jpeg": ".jpg",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	} {
		data := testgen.GenerateImage(t, mimeType)
		r := bytes.NewReader(data)
		got, err := Validate(mimeType, int64(len(data)), r)
		require.NoError(t, err, mimeType)
		assert.Equal(t, ext, got, mimeType)

		pos, err := r.Seek(0, 1)
		require.NoError(t, err)
		assert.Zero(t, pos, "reader is rewound for %s", mimeType)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	png := testgen.GenerateImage(t, "image/png")

	tests := []struct {
		name        string
		contentType string
		size        int64
		data        []byte
		message     string
	}{
		{"text/plain", "text/plain", 5, []byte("hello"), "Invalid file type"},
		{"declared svg", "image/svg+xml", int64(len(png)), png, "Invalid file type"},
		{"one byte over", "image/png", MaxImageSize + 1, png, "File too large"},
		{"content is not an image", "image/png", 11, []byte("hello world"), "not a supported image"},
		{"truncated header", "image/png", 16, png[:16], "could not be decoded"},
	}

	for _, tt := range tests {
		_, err := Validate(tt.contentType, tt.size, bytes.NewReader(tt.data))
		var e *errcodes.Error
		require.ErrorAs(t, err, &e, tt.name)
		assert.Equal(t, "invalid_file", e.Code, tt.name)
		assert.Contains(t, e.Message, tt.message, tt.name)
	}

	ext, err := Validate("image/png; charset=binary", MaxImageSize, bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
}
