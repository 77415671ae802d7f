// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferenceCode returns prefix-XXXXXXXX using characters that are hard
// to misread on a printed form.
func GenerateReferenceCode(prefix string, length int) (string, error) {
	body, err := randomFrom(referenceCharset, length)
	if err != nil {
		return "", err
	}
	return prefix + "-" + body, nil
}

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}
