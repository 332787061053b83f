package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minSecretLength = 32

// Manager writes HMAC-signed cookies. The first key signs; every key
// verifies, so a new secret can be rolled out before the old one is retired.
type Manager struct {
	keys [][]byte
	base Options
}

// siteDefaults apply to every cookie the site writes. Lax keeps the cookie
// on links from search results and maps.
func siteDefaults() []Option {
	return []Option{
		WithPath("/"),
		WithHTTPOnly(true),
		WithSameSite(http.SameSiteLaxMode),
	}
}

// New builds a Manager from secrets, newest first. Blank entries are skipped.
func New(secrets []string, opts ...Option) (*Manager, error) {
	var keys [][]byte
	for _, s := range secrets {
		if s == "" {
			continue
		}
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, len(keys), len(s), minSecretLength)
		}
		keys = append(keys, []byte(s))
	}
	if len(keys) == 0 {
		return nil, ErrNoSecret
	}

	return &Manager{
		keys: keys,
		base: applyOptions(Options{}, append(siteDefaults(), opts...)),
	}, nil
}

// SetSigned stores value under name as base64(value) "." base64(mac). The
// mac covers the cookie name, so a value cannot be replayed under another one.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	signed := base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + m.mac(m.keys[0], name, value)
	http.SetCookie(w, applyOptions(m.base, opts).cookie(name, signed))
}

// GetSigned returns the verified value of cookie name.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}

	encoded, signature, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	value := string(raw)
	for _, key := range m.keys {
		if hmac.Equal([]byte(signature), []byte(m.mac(key, name, value))) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

func (m *Manager) mac(key []byte, name, value string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// VisitorID is a signed cookie carrying a random UUID that identifies one
// browser. It is the key for per-visitor state such as the contact cooldown.
type VisitorID struct {
	m      *Manager
	name   string
	maxAge time.Duration
}

func (m *Manager) VisitorID(name string, maxAge time.Duration) *VisitorID {
	return &VisitorID{m: m, name: name, maxAge: maxAge}
}

// Read returns the id carried by r. A value that verifies but is not a UUID
// is reported as ErrInvalidFormat.
func (v *VisitorID) Read(r *http.Request) (string, error) {
	id, err := v.m.GetSigned(r, v.name)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidFormat
	}
	return id, nil
}

// Ensure returns the id carried by r, issuing a fresh one on w when the
// cookie is missing, forged or malformed. issued reports the latter.
func (v *VisitorID) Ensure(w http.ResponseWriter, r *http.Request, opts ...Option) (id string, issued bool) {
	if id, err := v.Read(r); err == nil {
		return id, false
	}

	id = uuid.NewString()
	opts = append([]Option{WithMaxAge(int(v.maxAge / time.Second))}, opts...)
	v.m.SetSigned(w, v.name, id, opts...)
	return id, true
}
