package whatsappx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

const (
	SignatureHeader = "X-Hub-Signature-256"
	signaturePrefix = "sha256="
)

// HMACSHA256 is the standard library HMACFunc
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// escapeUnicode rewrites every non-ASCII code point as \uXXXX escapes of its
// UTF-16 units. Meta signs the body in that form, so a payload containing
// "é" is hashed as the six bytes \u00e9.
func escapeUnicode(body []byte) []byte {
	s := string(body)
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			ascii = false
			break
		}
	}
	if ascii {
		return body
	}

	const hexdigits = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)
	for _, r := range s {
		if r <= 0x7f {
			b.WriteRune(r)
			continue
		}
		units := []uint16{uint16(r)}
		if r > 0xffff {
			r1, r2 := utf16.EncodeRune(r)
			units = []uint16{uint16(r1), uint16(r2)}
		}
		for _, u := range units {
			b.WriteString(`\u`)
			b.WriteByte(hexdigits[u>>12&0xf])
			b.WriteByte(hexdigits[u>>8&0xf])
			b.WriteByte(hexdigits[u>>4&0xf])
			b.WriteByte(hexdigits[u&0xf])
		}
	}
	return []byte(b.String())
}

// Sign returns the X-Hub-Signature-256 value Meta would send for body
func Sign(secret string, body []byte, fn HMACFunc) string {
	return signaturePrefix + hex.EncodeToString(fn([]byte(secret), escapeUnicode(body)))
}

// VerifySignature checks signature (with or without the sha256= prefix)
// against body in constant time
func VerifySignature(secret string, body []byte, signature string, fn HMACFunc) error {
	if secret == "" {
		return ErrorRegistry.New(ErrMissingAppSecret)
	}
	if fn == nil {
		return ErrorRegistry.New(ErrMissingCryptoPrimitive)
	}

	expected := Sign(secret, body, fn)[len(signaturePrefix):]
	received := strings.TrimPrefix(signature, signaturePrefix)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		return ErrorRegistry.New(ErrFailedToVerify).
			WithDetail("body_length", len(body))
	}
	return nil
}
