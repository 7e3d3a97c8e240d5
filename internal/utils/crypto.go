// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

// Alphabet omits easily confused characters (0/O, 1/I/L).
const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateOrderNumber returns a reference like TS-7K2M9QX4AB.
func GenerateOrderNumber() (string, error) {
	ref, err := randomFromCharset(10, orderNumberAlphabet)
	if err != nil {
		return "", err
	}
	return "TS-" + ref, nil
}

func randomFromCharset(length int, charset string) (string, error) {
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
