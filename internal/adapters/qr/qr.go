package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"inviteticketing/internal/domain"
)

type renderer struct {
	level qrcode.RecoveryLevel
}

// NewRenderer returns a QRRenderer producing PNGs with medium error correction.
func NewRenderer() domain.QRRenderer {
	return &renderer{level: qrcode.Medium}
}

func (r *renderer) PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, r.level, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
