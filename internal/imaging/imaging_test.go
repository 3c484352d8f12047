package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"hash/crc32"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "landscape", w: 4000, h: 3000, wantW: 800, wantH: 600},
		{name: "portrait", w: 1000, h: 2000, wantW: 400, wantH: 800},
		{name: "square", w: 1600, h: 1600, wantW: 800, wantH: 800},
		{name: "already fits", w: 640, h: 480, wantW: 640, wantH: 480},
		{name: "very thin", w: 10000, h: 2, wantW: 800, wantH: 1},
		{name: "empty", w: 0, h: 10, wantW: 0, wantH: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.w, tt.h, MaxWidth, MaxHeight)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestResize_NoUpscale(t *testing.T) {
	src := solid(100, 50)
	assert.Same(t, src, Resize(src, MaxWidth, MaxHeight))
}

func TestPrepare(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(1200, 900)))

	up, err := Prepare(&buf)
	require.NoError(t, err)

	b := up.Preview.Bounds()
	assert.Equal(t, 800, b.Dx())
	assert.Equal(t, 600, b.Dy())
	assert.True(t, strings.HasPrefix(up.DataURI, "data:image/jpeg;base64,"))
	assert.NotContains(t, up.DataURI, "\n")

	back, err := Decode(up.DataURI)
	require.NoError(t, err)
	assert.Equal(t, b.Size(), back.Bounds().Size())
}

func TestPrepare_NotAnImage(t *testing.T) {
	_, err := Prepare(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_BareBase64(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(4, 3)))
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 3), img.Bounds().Size())

	// line-wrapped payloads are accepted too
	wrapped := encoded[:10] + "\n" + encoded[10:]
	_, err = Decode("data:image/png;base64," + wrapped)
	assert.NoError(t, err)
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{"", "data:image/jpeg;base64,!!!", "aGVsbG8="} {
		_, err := Decode(in)
		assert.ErrorIs(t, err, ErrDecode, "input %q", in)
	}
}

// hugePNG returns a valid 1x1 PNG whose header claims 2^29 x 2^29 pixels.
func hugePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(1, 1)))
	b := buf.Bytes()
	require.Equal(t, "IHDR", string(b[12:16]))
	binary.BigEndian.PutUint32(b[16:20], 1<<29)
	binary.BigEndian.PutUint32(b[20:24], 1<<29)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestDecode_TooLarge(t *testing.T) {
	raw := hugePNG(t)

	_, err := Decode("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorContains(t, err, "exceeds")

	_, err = DecodeBytes(raw)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPrepare_TooLarge(t *testing.T) {
	_, err := Prepare(bytes.NewReader(hugePNG(t)))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder()
	assert.True(t, IsPlaceholder(img))
	assert.Equal(t, image.Rect(0, 0, PlaceholderSize, PlaceholderSize), img.Bounds())
	assert.Equal(t, PlaceholderColor, color.RGBAModel.Convert(img.At(5, 7)))
	assert.False(t, IsPlaceholder(image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.False(t, IsPlaceholder(image.NewUniform(PlaceholderColor)))

	// a placeholder can be encoded like any other picture
	_, err := EncodeDataURI(img)
	assert.NoError(t, err)
}
