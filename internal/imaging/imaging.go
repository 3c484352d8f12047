// Package imaging prepares pictures for upload and decodes the ones that come back.
//
// Uploads are downscaled to fit an 800x800 box, re-encoded as JPEG and sent as
// a data: URI. Downloads accept either a data: URI or bare base64.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxWidth and MaxHeight bound every uploaded image.
	MaxWidth  = 800
	MaxHeight = 800
	// Quality is the JPEG quality used for uploads.
	Quality = 80
	// MaxPixels bounds the size of any image this package will decode.
	MaxPixels = 40_000_000
	// PlaceholderSize is the edge length of the placeholder square.
	PlaceholderSize = 64

	dataURIPrefix = "data:image/jpeg;base64,"
)

// ErrDecode is returned when bytes or base64 text are not a supported image.
var ErrDecode = errors.New("imaging: cannot decode image")

// Fit returns the size of a w x h image scaled uniformly to fit inside
// maxW x maxH. Images that already fit are returned unchanged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1 {
		return w, h
	}
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}

// Resize scales img down to fit inside maxW x maxH, preserving aspect ratio.
func Resize(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeDataURI encodes img as a JPEG data: URI without line wrapping.
func EncodeDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Upload is a picture ready to send to the API.
type Upload struct {
	// Preview is the resized image.
	Preview image.Image
	// DataURI is the value for the API's image fields.
	DataURI string
}

// Prepare decodes a picked file, fits it into the upload box and encodes it.
func Prepare(r io.Reader) (*Upload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	src, err := DecodeBytes(raw)
	if err != nil {
		return nil, err
	}

	resized := Resize(src, MaxWidth, MaxHeight)
	uri, err := EncodeDataURI(resized)
	if err != nil {
		return nil, err
	}
	return &Upload{Preview: resized, DataURI: uri}, nil
}

// Decode turns an API image field into an image. Anything after the first
// comma is treated as the payload, so data: URIs and bare base64 both work.
func Decode(s string) (image.Image, error) {
	payload := s
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	return DecodeBytes(raw)
}

// DecodeBytes decodes an encoded image. The header is checked first and
// images larger than MaxPixels are rejected before any pixels are allocated.
func DecodeBytes(raw []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// PlaceholderColor is the flat gray shown instead of undecodable images.
var PlaceholderColor = color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}

type placeholder struct {
	*image.RGBA
}

// Placeholder returns a flat gray PlaceholderSize square.
func Placeholder() image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(PlaceholderColor), image.Point{}, draw.Src)
	return placeholder{dst}
}

// IsPlaceholder reports whether img came from Placeholder.
func IsPlaceholder(img image.Image) bool {
	_, ok := img.(placeholder)
	return ok
}
