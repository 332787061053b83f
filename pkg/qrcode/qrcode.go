package qrcode

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("qrcode.errors.empty_content")
	ErrGenerate     = errors.New("qrcode.errors.generate_failed")
)

const (
	DefaultSize = 256
	maxSize     = 1024
)

// Generate encodes content as a PNG QR code of size x size pixels.
// Non-positive sizes fall back to DefaultSize; sizes are capped at 1024.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	size = min(size, maxSize)

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// DataURI returns the QR code as a data:image/png;base64 URI for inline <img> tags.
func DataURI(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Handler serves a fixed QR code as a cacheable PNG. The image is encoded on
// first request and reused afterwards.
func Handler(content string, size int) http.Handler {
	var (
		once sync.Once
		png  []byte
		err  error
	)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() { png, err = Generate(content, size) })
		if err != nil {
			http.Error(w, "qr code unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(png)
	})
}
