package images

import (
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/marqueehq/marquee/pkg/errcodes"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxImageSize is the largest accepted upload, 10 MiB.
const MaxImageSize = 10 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Validate checks an upload against the allowed image types in order: the
// declared content type, the size, the sniffed content type, and finally
// that the image header decodes. It returns the file extension matching the
// sniffed type and leaves r rewound.
func Validate(contentType string, size int64, r io.ReadSeeker) (string, error) {
	declared, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		declared = strings.ToLower(strings.TrimSpace(contentType))
	}
	if _, ok := allowedTypes[declared]; !ok {
		return "", errcodes.InvalidFile("Invalid file type. Allowed types are image/jpeg, image/png, image/gif and image/webp.")
	}

	if size > MaxImageSize {
		return "", errcodes.InvalidFile("File too large. The maximum size is 10 MB.")
	}

	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", errors.WithStack(err)
	}
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return "", errcodes.InvalidFile("Invalid file type. The file content is not a supported image.")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", errors.WithStack(err)
	}
	if _, _, err := image.DecodeConfig(r); err != nil {
		return "", errcodes.InvalidFile("The image could not be decoded.")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", errors.WithStack(err)
	}
	return ext, nil
}
