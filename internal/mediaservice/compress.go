package mediaservice

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Compress decodes an image, downscales it to the policy's maximum width
// when it is wider, and re-encodes it as JPEG at the policy's quality.
// Returns the encoded bytes and the file extension for the object path.
func Compress(data []byte, p Policy) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > p.MaxWidth {
		newH := h * p.MaxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, p.MaxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), "jpg", nil
}
