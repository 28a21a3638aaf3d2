package security

import (
	"github.com/taskapp/auth-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements auth.PasswordHasher. The cost is bounded so a
// single verification stays interactive (sub-300ms on commodity hardware)
// while remaining expensive enough to resist offline brute force.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Compare returns nil if password matches hash.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
