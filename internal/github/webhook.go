package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature checks an X-Hub-Signature-256 header against the
// payload. The expected value is "sha256=" + hex(HMAC-SHA256(secret, payload)).
// A length mismatch returns false before the comparison so the constant-time
// path is only taken for equal-length inputs; malformed headers simply
// compare unequal.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if len(signature) != len(expected) {
		return false
	}

	return hmac.Equal([]byte(signature), []byte(expected))
}
