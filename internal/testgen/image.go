package testgen

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime"
	"mime/multipart"
	"net/textproto"
	"testing"
)

// webp1x1 is a lossless 1x1 WebP. The x/image module only ships a decoder, so
// the payload is embedded rather than encoded.
const webp1x1 = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

// GenerateImage returns a small solid color image encoded as mimeType
// ("image/png", "image/jpeg", "image/gif" or "image/webp").
func GenerateImage(t *testing.T, mimeType string) []byte {
	t.Helper()

	if mimeType == "image/webp" {
		data, err := base64.StdEncoding.DecodeString(webp1x1)
		if err != nil {
			t.Fatalf("failed to decode WebP: %v", err)
		}
		return data
	}

	// Create a simple 100x150 poster-shaped image
	img := image.NewRGBA(image.Rect(0, 0, 100, 150))
	blue := color.RGBA{0, 100, 200, 255}
	for y := 0; y < 150; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, blue)
		}
	}

	var buf bytes.Buffer
	switch mimeType {
	case "image/jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			t.Fatalf("failed to encode JPEG: %v", err)
		}
	case "image/gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			t.Fatalf("failed to encode GIF: %v", err)
		}
	default: // image/png
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("failed to encode PNG: %v", err)
		}
	}

	return buf.Bytes()
}

// MultipartFile builds a multipart body holding a single file part under
// field, declared with contentType. It returns the body and its content type.
func MultipartFile(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write multipart part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return body, w.FormDataContentType()
}

// FileHeader parses a single-file multipart body and returns the header of
// the file, as a handler would receive it.
func FileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	body, ctype := MultipartFile(t, "file", filename, contentType, data)
	_, params, err := mime.ParseMediaType(ctype)
	if err != nil {
		t.Fatalf("failed to parse content type: %v", err)
	}

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to read multipart form: %v", err)
	}
	t.Cleanup(func() {
		_ = form.RemoveAll()
	})

	headers := form.File["file"]
	if len(headers) == 0 {
		t.Fatalf("multipart form has no file")
	}
	return headers[0]
}
