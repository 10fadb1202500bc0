package util

import (
	"crypto/rand"
	"encoding/hex"
)

// CryptoRandomBytes generates cryptographically secure random bytes
func CryptoRandomBytes(length int) ([]byte, error) {
	buf := make([]byte, length)
	_, err := rand.Read(buf)
	return buf, err
}

// RandomHex returns a random hex string of length characters.
// Used for OAuth state nonces and other unguessable identifiers.
func RandomHex(length int) (string, error) {
	bytes, err := CryptoRandomBytes((length + 1) / 2)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
