// Package qr generates profile QR codes for badge rendering.
package qr

import (
	"image"

	"github.com/skip2/go-qrcode"

	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// Image renders url as a QR code image sizePx pixels square. Medium error
// correction survives lanyard wear and mediocre phone cameras.
func Image(url string, sizePx int) (image.Image, error) {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode QR content")
	}
	return code.Image(sizePx), nil
}

// PNG renders url as an encoded PNG sizePx pixels square.
func PNG(url string, sizePx int) ([]byte, error) {
	data, err := qrcode.Encode(url, qrcode.Medium, sizePx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode QR content")
	}
	return data, nil
}
