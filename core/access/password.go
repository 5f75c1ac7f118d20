package access

import (
	"strings"

	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns true if password matches the bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GeneratePassword returns a random password of the given length with at least one
// lowercase letter, uppercase letter, digit and symbol. length must be at least 4.
func GeneratePassword(length int) (string, error) {
	if length < 4 {
		length = 4
	}
	digits, symbols := 2, 2
	if length < 6 {
		digits, symbols = 1, 1
	}
	for {
		generated, err := password.Generate(length, digits, symbols, false, true)
		if err != nil {
			return "", err
		}
		if strings.ContainsAny(generated, password.LowerLetters) && strings.ContainsAny(generated, password.UpperLetters) {
			return generated, nil
		}
	}
}
