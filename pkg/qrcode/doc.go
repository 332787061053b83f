// Package qrcode renders QR codes as PNG bytes, data URIs or a cached HTTP
// handler, using github.com/skip2/go-qrcode.
package qrcode
