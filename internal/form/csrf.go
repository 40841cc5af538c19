// internal/form/csrf.go
//
// Adept – Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Adept pages embed a hidden `csrf_token` input generated at render time.
//   The server must verify this token on POST to ensure the request originated
//   from a form it rendered.  We implement a *stateless* token:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.  Prevents replay across users.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – calculated with the process secret.  Verifies authenticity.
//
//   Validation checks the signature and ensures the timestamp is within
//   MaxAge.  No server-side sessions are required, keeping the system cache-
//   friendly and multi-instance safe.
//
// Workflow
//   •  SetSecret(key)    → called once at boot with the configured key.
//   •  GenerateToken()   → returns token string for renderer.
//   •  VerifyToken(tok)  → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// TokenField is the hidden input name, TokenHeader the XHR header.
	TokenField  = "csrf_token"
	TokenHeader = "X-CSRF-Token"

	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig
	maxAge     = 2 * time.Hour        // token valid window
	minKeyLen  = 32
)

var (
	secretMu  sync.Mutex
	secretKey []byte
)

// SetSecret installs the HMAC key.  An empty key makes the package generate
// an ephemeral random key on first use.  Keys shorter than 32 bytes are
// rejected.
func SetSecret(key []byte) error {
	if len(key) > 0 && len(key) < minKeyLen {
		return fmt.Errorf("csrf key must be at least %d bytes, got %d", minKeyLen, len(key))
	}
	secretMu.Lock()
	defer secretMu.Unlock()
	secretKey = key
	return nil
}

// DecodeKey parses a base64url (padded or raw) key string.
func DecodeKey(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New("csrf key is not valid base64url")
	}
	return b, nil
}

// GenerateToken creates a new CSRF token.  Call once per form render.
func GenerateToken() (string, error) {
	sec := fetchSecret()

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(time.Now().UnixMicro()))

	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(ts)
	sig := mac.Sum(nil)

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, sig...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyToken returns true if tok passes HMAC and age checks.
func VerifyToken(tok string) bool {
	if tok == "" {
		return false
	}
	sec := fetchSecret()

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:16]
	tsBytes := raw[16:24]
	sig := raw[24:]

	// Timestamp window check.
	ts := binary.BigEndian.Uint64(tsBytes)
	issued := time.UnixMicro(int64(ts))
	if time.Since(issued) > maxAge || time.Until(issued) > time.Minute {
		// Future timestamp (clock skew) or older than maxAge.
		return false
	}

	// Recompute HMAC.
	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(tsBytes)
	want := mac.Sum(nil)

	return hmac.Equal(sig, want)
}

// fetchSecret returns the process-wide CSRF secret, generating an ephemeral
// one when SetSecret was never given a key.
func fetchSecret() []byte {
	secretMu.Lock()
	defer secretMu.Unlock()
	if len(secretKey) == 0 {
		secretKey = make([]byte, minKeyLen)
		_, _ = rand.Read(secretKey)
		zap.S().Warnw("csrf key not configured, using ephemeral random key")
	}
	return secretKey
}
