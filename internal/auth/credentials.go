package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/rs/xid"
)

// GeneratedPasswordLength is the length of passwords issued on registration.
const GeneratedPasswordLength = 12

// passwordAlphabet leaves out characters that are easy to misread (0/O, 1/l/I).
const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewUsername returns a fresh login name such as "user_cv37rs3pp9olc6atsptg".
// xid values are unique per process and sortable by creation time.
func NewUsername() string {
	return "user_" + xid.New().String()
}

// NewPassword returns a random password of length n drawn from crypto/rand.
func NewPassword(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("auth: password length must be positive, got %d", n)
	}

	max := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("auth: generating password: %w", err)
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
