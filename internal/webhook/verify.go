package webhook

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"strings"
)

// Verifier checks Telnyx webhook signatures. The signed message is the
// byte-concatenation of the timestamp header and the raw request body,
// verified against the account's Ed25519 public key.
type Verifier struct {
	key ed25519.PublicKey
}

// NewVerifier parses the base64-encoded public key. A missing or malformed
// key is a configuration fault and kills the process at startup; it must not
// be discovered one silently-accepted webhook at a time.
func NewVerifier(publicKeyB64 string) (*Verifier, error) {
	publicKeyB64 = strings.TrimSpace(publicKeyB64)
	if publicKeyB64 == "" {
		return nil, errors.New("webhook public key is not set")
	}

	raw, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, errors.New("webhook public key is not valid base64")
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("webhook public key has wrong length")
	}

	return &Verifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify reports whether the signature matches timestamp||body. Every decode
// or size problem is a plain false: this is a security boundary and callers
// only need accept/reject.
func (v *Verifier) Verify(signatureB64, timestamp string, body []byte) bool {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	return ed25519.Verify(v.key, message, sig)
}
