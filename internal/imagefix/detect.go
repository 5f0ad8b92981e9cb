// Package imagefix finds PNG files that were saved as base64 text and
// rewrites them as binary.
package imagefix

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
)

// Sentinel errors for image fixing.
var (
	ErrNotBase64 = errors.New("content is not valid base64")
	ErrNotPNG    = errors.New("decoded content is not a PNG image")
	ErrTooLarge  = errors.New("file exceeds maximum size")
)

// MaxFileSize bounds the files read by the fixer (default 64MB).
var MaxFileSize int64 = 64 << 20

// Base64Magic is the base64 encoding of the first PNG signature bytes.
const Base64Magic = "iVBORw0KGgo"

// DataURLPrefix is stripped before decoding when present.
const DataURLPrefix = "data:image/png;base64,"

// PNGSignature opens every binary PNG file.
var PNGSignature = []byte("\x89PNG\r\n\x1a\n")

// IsBinaryPNG reports whether data starts with the PNG signature.
func IsBinaryPNG(data []byte) bool {
	return bytes.HasPrefix(data, PNGSignature)
}

// IsBase64PNG reports whether data is PNG text in base64, optionally behind
// a data URL prefix and surrounding whitespace.
func IsBase64PNG(data []byte) bool {
	return bytes.HasPrefix(payload(data), []byte(Base64Magic))
}

// Decode returns the binary PNG encoded in data. Whitespace inside the text
// is ignored. The result must carry the PNG signature.
func Decode(data []byte) ([]byte, error) {
	text := stripSpace(payload(data))

	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		// Some writers drop the padding.
		out = make([]byte, base64.RawStdEncoding.DecodedLen(len(text)))
		n, err = base64.RawStdEncoding.Decode(out, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotBase64, err)
		}
	}
	out = out[:n]

	if !IsBinaryPNG(out) {
		return nil, ErrNotPNG
	}
	return out, nil
}

// payload trims whitespace and the data URL prefix.
func payload(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) >= len(DataURLPrefix) && bytes.EqualFold(data[:len(DataURLPrefix)], []byte(DataURLPrefix)) {
		data = bytes.TrimSpace(data[len(DataURLPrefix):])
	}
	return data
}

func stripSpace(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		out = append(out, c)
	}
	return out
}
