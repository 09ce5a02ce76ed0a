package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost existing habinote password rows were hashed with.
const DefaultBcryptCost = 10

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxInput = 72

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

var ErrBcryptCost = errors.New("bcrypt cost out of range")

// ValidateBcryptCost reports ErrBcryptCost unless cost is within
// bcrypt.MinCost..bcrypt.MaxCost.
func ValidateBcryptCost(cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBcryptCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// NewBcryptHasher creates a BcryptHasher.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if err := ValidateBcryptCost(cost); err != nil {
		return nil, err
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash returns a $2a$ bcrypt hash with a random salt.
func (b *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the bcrypt hash. Any $2a$, $2b$ or
// $2y$ hash is accepted regardless of the configured cost.
func (b *BcryptHasher) Verify(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), bcryptInput(password)) == nil
}

// bcryptInput truncates to the 72 bytes bcrypt uses. Newer x/crypto releases
// reject longer input instead of ignoring the tail.
func bcryptInput(password string) []byte {
	p := []byte(password)
	if len(p) > bcryptMaxInput {
		p = p[:bcryptMaxInput]
	}
	return p
}
