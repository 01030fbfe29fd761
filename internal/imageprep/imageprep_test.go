package imageprep

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func flatPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func defaultOptions() Options {
	return Options{Quality: DefaultQuality, MaxWidth: DefaultMaxWidth}
}

func TestScaledSize(t *testing.T) {
	w, h := ScaledSize(4000, 3000, 1920)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1440, h)

	w, h = ScaledSize(800, 600, 1920)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	// 1000x333 → 333*0.5 = 166.5 rounds up
	w, h = ScaledSize(1000, 333, 500)
	assert.Equal(t, 500, w)
	assert.Equal(t, 167, h)
}

func TestProcess_DownscalesWideImage(t *testing.T) {
	if testing.Short() {
		t.Skip("large image")
	}
	in := noisyJPEG(t, 4000, 3000)

	res, err := Process(in, "image/jpeg", defaultOptions())
	require.NoError(t, err)
	require.True(t, res.Reencoded)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Less(t, len(res.Data), len(in))

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1440, cfg.Height)
}

func TestProcess_KeepsOriginalWhenReencodeIsLarger(t *testing.T) {
	in := flatPNG(t, 800, 600)

	res, err := Process(in, "image/png", defaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Reencoded)
	assert.Equal(t, in, res.Data)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 600, res.Height)
}

func TestProcess_NeverUpscales(t *testing.T) {
	in := noisyJPEG(t, 800, 600)

	res, err := Process(in, "image/jpeg", defaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Data), len(in))

	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestProcess_PassesThroughNonImages(t *testing.T) {
	in := []byte("%PDF-1.7 not a photo")

	res, err := Process(in, "application/pdf", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, in, res.Data)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.False(t, res.Reencoded)
}

func TestProcess_PassesThroughUndecodableFormats(t *testing.T) {
	// 1x1 lossless WebP; no WebP decoder is registered.
	webp := []byte("RIFF\x1a\x00\x00\x00WEBPVP8L\x0d\x00\x00\x00\x2f\x00\x00\x00\x10\x07\x10\x11\x11\x88\x88\xfe\x07\x00")
	heic := []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic")

	for contentType, in := range map[string][]byte{"image/webp": webp, "image/heic": heic} {
		res, err := Process(in, contentType, defaultOptions())
		require.NoError(t, err, contentType)
		assert.Equal(t, in, res.Data)
		assert.Equal(t, contentType, res.ContentType)
		assert.False(t, res.Reencoded)
	}
}

func TestProcess_CorruptKnownFormatFails(t *testing.T) {
	in := flatPNG(t, 10, 10)

	_, err := Process(in[:len(in)/2], "image/png", defaultOptions())
	assert.Error(t, err)
}

func TestProcess_RejectsBadOptions(t *testing.T) {
	in := flatPNG(t, 10, 10)

	_, err := Process(in, "image/png", Options{Quality: 0, MaxWidth: 100})
	assert.Error(t, err)
	_, err = Process(in, "image/png", Options{Quality: 0.5, MaxWidth: 0})
	assert.Error(t, err)
	_, err = Process([]byte("garbage"), "image/png", defaultOptions())
	assert.Error(t, err)
}
