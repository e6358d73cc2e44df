package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used when no cost is configured.
const DefaultBcryptCost = 10

// HashPassword returns a salted bcrypt digest of plain. Each call produces a
// different digest for the same input.
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored digest. Malformed
// digests fail closed: the function returns false rather than an error.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
