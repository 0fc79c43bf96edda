package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var tempPasswordCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// TempPasswordLength is what admin-created accounts receive before their
// first forced password change.
const TempPasswordLength = 12

// GenerateTempPassword produces a random string suitable for temporary
// credentials. The value is provisioned to the identity provider and mailed
// to the user; it is never stored locally.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(tempPasswordCharset))
		if err != nil {
			return "", err
		}
		result[i] = tempPasswordCharset[idx]
	}
	return string(result), nil
}

// randInt draws uniformly from [0, max); reducing a raw byte modulo max
// would skew toward the low end of the charset.
func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
