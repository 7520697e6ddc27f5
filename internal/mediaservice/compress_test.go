package mediaservice

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("could not decode compressed image: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestCompressDownscalesWideImages(t *testing.T) {
	testCases := []struct {
		name   string
		kind   Kind
		inW    int
		inH    int
		wantW  int
		wantH  int
	}{
		{name: "featured downscale", kind: KindFeatured, inW: 2400, inH: 1200, wantW: 1200, wantH: 600},
		{name: "inline downscale", kind: KindInline, inW: 1600, inH: 400, wantW: 800, wantH: 200},
		{name: "narrow image untouched", kind: KindInline, inW: 300, inH: 500, wantW: 300, wantH: 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, ext, err := Compress(pngBytes(t, tc.inW, tc.inH), PolicyFor(tc.kind))
			assert.NoError(t, err)
			assert.Equal(t, "jpg", ext)

			w, h := decodeDims(t, out)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestCompressRejectsNonImageData(t *testing.T) {
	_, _, err := Compress([]byte("definitely not an image"), PolicyFor(KindInline))
	assert.ErrorContains(t, err, "decode image")
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, Policy{MaxWidth: 1200, Quality: 85}, PolicyFor(KindFeatured))
	assert.Equal(t, Policy{MaxWidth: 800, Quality: 80}, PolicyFor(KindInline))
	// Unknown kinds fall back to the inline policy.
	assert.Equal(t, PolicyFor(KindInline), PolicyFor(Kind("banner")))
}
