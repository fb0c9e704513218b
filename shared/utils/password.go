package utils

import (
	"crypto/rand"
	"math/big"
)

const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultPasswordLength is the length used for tenant principal secrets.
const DefaultPasswordLength = 24

// GeneratePassword returns a random alphanumeric secret drawn from
// crypto/rand, suitable as a database principal password. Lengths below one
// fall back to DefaultPasswordLength.
func GeneratePassword(length int) (string, error) {
	if length < 1 {
		length = DefaultPasswordLength
	}

	b := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = passwordCharset[n.Int64()]
	}
	return string(b), nil
}
