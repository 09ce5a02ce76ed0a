package crypto

import (
	"errors"
	"fmt"
	"strings"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	ErrHashing       = errors.New("password hashing failed")
	ErrUnknownHasher = errors.New("unknown password hashing algorithm")
)

// Hasher turns plaintext passwords into storable secrets and checks them later.
// Verify reports false for malformed stored values instead of failing.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// PasswordHasher hashes new passwords with one algorithm and verifies stored
// hashes produced by any supported algorithm, chosen by the hash prefix.
type PasswordHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

// NewHasher returns a PasswordHasher that hashes with the named algorithm.
// An empty algorithm selects bcrypt.
func NewHasher(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	b, err := NewBcryptHasher(bcryptCost)
	if err != nil {
		return nil, err
	}
	h := &PasswordHasher{
		bcrypt: b,
		argon2: NewArgon2Hasher(DefaultArgon2Params()),
	}

	switch algorithm {
	case "", AlgorithmBcrypt:
		h.primary = h.bcrypt
	case AlgorithmArgon2id:
		h.primary = h.argon2
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, algorithm)
	}

	return h, nil
}

// Hash hashes password with the configured algorithm.
func (h *PasswordHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Verify checks password against encodedHash using the algorithm the hash names.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	switch {
	case strings.HasPrefix(encodedHash, "$"+AlgorithmArgon2id+"$"):
		return h.argon2.Verify(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2"):
		return h.bcrypt.Verify(password, encodedHash)
	default:
		return false
	}
}
