// Package imageprep shrinks photos on the client before they are uploaded.
// It is a bandwidth optimization only; the server enforces its own limits
// on whatever bytes arrive and never runs this code.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"math"
	"strings"

	"github.com/nfnt/resize"
)

// Defaults used by the uploader CLI.
const (
	DefaultQuality  = 0.7
	DefaultMaxWidth = 1920
)

// Options controls re-encoding.
type Options struct {
	// Quality is the JPEG quality factor in (0, 1].
	Quality float64
	// MaxWidth is the widest output allowed, in pixels.
	MaxWidth int
}

// Result is what should be transmitted.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	// Reencoded is false when the original bytes were kept.
	Reencoded bool
}

// Process downsamples data to opts.MaxWidth and re-encodes it as JPEG.
// Non-image content and image formats without a registered decoder pass
// through untouched, images are never upscaled,
// and the output is never larger than the input: if the re-encoded JPEG
// would grow, the original bytes are returned instead.
func Process(data []byte, contentType string, opts Options) (Result, error) {
	orig := Result{Data: data, ContentType: contentType}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return orig, nil
	}
	if opts.Quality <= 0 || opts.Quality > 1 {
		return Result{}, fmt.Errorf("quality must be in (0, 1], got %v", opts.Quality)
	}
	if opts.MaxWidth <= 0 {
		return Result{}, fmt.Errorf("max width must be positive, got %d", opts.MaxWidth)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		// No decoder for this format (WebP, HEIC): send it as is.
		return orig, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	orig.Width, orig.Height = b.Dx(), b.Dy()

	w, h := ScaledSize(b.Dx(), b.Dy(), opts.MaxWidth)
	if w != b.Dx() || h != b.Dy() {
		img = resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	q := int(math.Round(opts.Quality * 100))
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return Result{}, fmt.Errorf("encode jpeg: %w", err)
	}

	if buf.Len() > len(data) {
		return orig, nil
	}
	return Result{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       w,
		Height:      h,
		Reencoded:   true,
	}, nil
}

// ScaledSize returns the dimensions after fitting width into maxWidth,
// keeping the aspect ratio. Height is rounded to the nearest pixel.
func ScaledSize(width, height, maxWidth int) (int, int) {
	if width <= maxWidth || width == 0 {
		return width, height
	}
	h := int(math.Round(float64(height) * float64(maxWidth) / float64(width)))
	if h < 1 {
		h = 1
	}
	return maxWidth, h
}
