// Package qrcode renders QR images for ticket payloads as base64 data
// URIs ready to embed in PDFs or API responses.
package qrcode

import (
	"encoding/base64"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

const (
	// DataURIPrefix precedes the base64 payload in every generated URI.
	DataURIPrefix = "data:image/png;base64,"

	imageSize = 256
)

// DataURI encodes data into a PNG QR image with the highest error
// correction level and returns it as a data URI.
func DataURI(data string) (string, error) {
	png, err := PNG(data)
	if err != nil {
		return "", err
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// PNG encodes data into raw PNG bytes with the highest error correction
// level.
func PNG(data string) ([]byte, error) {
	png, err := qr.Encode(data, qr.Highest, imageSize)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
