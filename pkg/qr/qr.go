package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSizePx = 256

// Renderer turns opaque session payloads into displayable QR images.
type Renderer struct {
	sizePx int
}

// NewRenderer constructs a renderer producing PNGs of the given pixel size.
func NewRenderer(sizePx int) *Renderer {
	if sizePx <= 0 {
		sizePx = defaultSizePx
	}
	return &Renderer{sizePx: sizePx}
}

// DataURI encodes the payload as a QR PNG and returns it as a data URI
// suitable for direct embedding in an <img> tag.
func (r *Renderer) DataURI(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("qr payload is empty")
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, r.sizePx)
	if err != nil {
		return "", fmt.Errorf("encode qr payload: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
