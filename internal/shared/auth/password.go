package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword hashes a plain text password using bcrypt
func HashPassword(password string) (string, error) {
	return BcryptHasher{}.Hash(password)
}

// VerifyPassword checks if a plain text password matches the hashed password
func VerifyPassword(hashedPassword, password string) error {
	return BcryptHasher{}.Verify(hashedPassword, password)
}

// BcryptHasher hashes passwords with bcrypt. A zero Cost means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// EqualizeTiming runs one bcrypt comparison against a fixed hash of the same
// cost, so a lookup miss takes as long as a wrong password.
func (h BcryptHasher) EqualizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("driverfinance-timing-equalizer"), h.cost())
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
