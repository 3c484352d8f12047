package apitest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/imaging"
)

const (
	maxStoredImageBytes = 500000
	initialQuality      = 90
	minQuality          = 10
	qualityStep         = 10
)

// compressImage re-encodes an uploaded data: URI as JPEG, lowering the
// quality in steps of 10 while the result is larger than 500 KB.
func compressImage(dataURI string) (string, error) {
	comma := strings.IndexByte(dataURI, ',')
	if comma < 0 {
		return "", fmt.Errorf("%w: missing data URI header", imaging.ErrDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(dataURI[comma+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", imaging.ErrDecode, err)
	}
	src, err := imaging.DecodeBytes(raw)
	if err != nil {
		return "", err
	}

	quality := initialQuality
	out, err := encodeJPEG(src, quality)
	if err != nil {
		return "", err
	}
	for len(out) > maxStoredImageBytes && quality > minQuality {
		quality -= qualityStep
		if out, err = encodeJPEG(src, quality); err != nil {
			return "", err
		}
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(out), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
