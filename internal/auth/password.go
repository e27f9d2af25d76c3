// Package auth implements the authentication flow: password hashing,
// login, registration, and password reset.
package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLen is the only password policy the system enforces.
// Length 6 is accepted, length 5 is not.
const MinPasswordLen = 6

// HashPassword returns the bcrypt encoding of a password: a fresh
// random salt plus the cost parameter plus the digest, all embedded in
// one string. cost <= 0 falls back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored encoding.
// The comparison is constant time. A malformed or truncated hash fails
// closed: the function returns false instead of erroring out.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
