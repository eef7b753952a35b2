package auth

import (
	"crypto/rand"
	"encoding/base64"
	"io"
)

const verificationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRefreshToken returns an opaque random token. It is stored server-side
// with its own expiry and revoked flag; it is not a JWT.
func GenerateRefreshToken() (string, error) {
	bytes := make([]byte, 64)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

// GenerateVerificationCode returns a 6-character code from a fixed alphanumeric
// alphabet, drawn from a cryptographically secure source.
func GenerateVerificationCode() (string, error) {
	return generateVerificationCode(rand.Reader)
}

// generateVerificationCode draws each character by rejection sampling: bytes
// from the biased tail above the largest multiple of the alphabet size are
// discarded, so every character is equally likely.
func generateVerificationCode(r io.Reader) (string, error) {
	limit := byte(256 - 256%len(verificationAlphabet))
	code := make([]byte, 6)
	buf := make([]byte, 1)
	for i := 0; i < len(code); {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		if buf[0] >= limit {
			continue
		}
		code[i] = verificationAlphabet[int(buf[0])%len(verificationAlphabet)]
		i++
	}
	return string(code), nil
}

// GenerateResetToken returns a URL-safe token for the password reset flow.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
