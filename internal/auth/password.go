// Package auth handles password hashing, generated credentials and the
// HTTP Basic credentials guard.
//
// TWO SCHEMES:
//
//	sha256  unsalted SHA-256, stored as 64 lowercase hex characters.
//	        This is the format existing Users rows carry, so it is the default.
//	bcrypt  salted, iterated; opt-in through PASSWORD_SCHEME=bcrypt.
//
// SECURITY GAP: the sha256 scheme has no per-user salt and no work factor.
// Identical passwords produce identical digests and a leaked table is cheap
// to brute-force. Switching the default changes the stored format and needs
// a rehash-on-login rollout, so the choice stays with the operator.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Scheme names a password storage format.
type Scheme string

const (
	SchemeSHA256 Scheme = "sha256"
	SchemeBcrypt Scheme = "bcrypt"
)

// defaultCost is the bcrypt work factor used when none is configured.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService hashes and verifies passwords under one scheme.
type PasswordService struct {
	scheme Scheme
	cost   int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordService returns the default sha256 service.
func NewPasswordService() *PasswordService {
	return &PasswordService{scheme: SchemeSHA256}
}

// NewPasswordServiceForScheme builds a service from configuration values.
// cost is only consulted for bcrypt; zero selects the default.
func NewPasswordServiceForScheme(scheme Scheme, cost int) (*PasswordService, error) {
	switch scheme {
	case SchemeSHA256, "":
		return NewPasswordService(), nil
	case SchemeBcrypt:
		if cost == 0 {
			cost = defaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("auth: bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return &PasswordService{scheme: SchemeBcrypt, cost: cost}, nil
	default:
		return nil, fmt.Errorf("auth: unknown password scheme %q", scheme)
	}
}

// NewPasswordServiceForTest creates a bcrypt PasswordService with an
// arbitrary cost. Tests use cost 4 (the bcrypt minimum) to stay fast.
//
// Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{scheme: SchemeBcrypt, cost: cost}
}

// Scheme reports the configured scheme.
func (p *PasswordService) Scheme() Scheme {
	return p.scheme
}

// Digest returns the hex-encoded SHA-256 of the password. It is the stored
// form under the sha256 scheme.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Hash returns the stored form of plaintext under the configured scheme.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if p.scheme != SchemeBcrypt {
		return Digest(plaintext), nil
	}

	// bcrypt silently truncates past 72 bytes; reject instead.
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plaintext against a stored hash.
//
// The stored format is detected per row, so a table holding both sha256
// digests and bcrypt hashes verifies under either configured scheme. Returns
// nil on match and ErrPasswordMismatch otherwise; a stored value neither
// scheme can read never matches.
//
// Both schemes compare in constant time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	switch {
	case isBcryptHash(hash):
		if len(plaintext) > 72 {
			return ErrPasswordMismatch
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) != nil {
			return ErrPasswordMismatch
		}
		return nil
	case isDigest(hash):
		if subtle.ConstantTimeCompare([]byte(hash), []byte(Digest(plaintext))) != 1 {
			return ErrPasswordMismatch
		}
		return nil
	default:
		p.CompareDummy(plaintext)
		return ErrPasswordMismatch
	}
}

// CompareDummy spends the same work as a failed Verify under the configured
// scheme. Callers run it when there is no stored hash to check, so a missing
// user costs as much as a wrong password.
func (p *PasswordService) CompareDummy(plaintext string) {
	if p.scheme != SchemeBcrypt {
		subtle.ConstantTimeCompare([]byte(Digest("")), []byte(Digest(plaintext)))
		return
	}

	p.dummyOnce.Do(func() {
		// Any fixed input works; only the cost matters.
		hashed, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), p.cost)
		if err == nil {
			p.dummyHash = hashed
		}
	})
	if p.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(plaintext))
	}
}

// isBcryptHash reports whether stored looks like a modular-crypt bcrypt hash
// ($2a$, $2b$, $2y$).
func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// isDigest reports whether stored is a 64-character lowercase hex SHA-256.
func isDigest(stored string) bool {
	if len(stored) != sha256.Size*2 {
		return false
	}
	for _, r := range stored {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
