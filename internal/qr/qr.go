// Package qr encodes wallet data as QR images for the panel.
package qr

import (
	"errors"
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder renders text as a QR image with the requested edge length in
// pixels. It satisfies the renderer's QREncoder interface.
type Encoder struct {
	level qrcode.RecoveryLevel
}

// NewEncoder returns an encoder at high recovery level, which keeps the
// code readable on the small panel even with a scuffed screen.
func NewEncoder() *Encoder {
	return &Encoder{level: qrcode.High}
}

func (e *Encoder) Encode(data string, size int) (image.Image, error) {
	if data == "" {
		return nil, errors.New("qr: empty payload")
	}
	if size <= 0 {
		return nil, fmt.Errorf("qr: invalid size %d", size)
	}

	code, err := qrcode.New(data, e.level)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	code.DisableBorder = false
	return code.Image(size), nil
}

// Decoder extracts QR payloads from camera frames. No detector library is
// wired in yet, so Scan reports no result and the capture flow falls back
// to its none-result path.
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) Scan(frame image.Image) (string, bool) {
	return "", false
}
