package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored hashes.
const PasswordCost = 10

// MinPasswordLength is the shortest password accepted on change.
const MinPasswordLength = 6

// HashPassword returns the bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
