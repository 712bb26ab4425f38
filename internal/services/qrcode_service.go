package services

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// CodeEncoder turns a payload string into a scannable PNG image. A generic
// scanning client must recover the exact payload from the image.
type CodeEncoder interface {
	Encode(payload string) ([]byte, error)
}

type qrCodeEncoder struct {
	size int
}

func NewQRCodeEncoder() CodeEncoder {
	return &qrCodeEncoder{size: 256}
}

func (e *qrCodeEncoder) Encode(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
