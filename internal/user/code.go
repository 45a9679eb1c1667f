package user

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed size of a user lookup code.
const CodeLength = 8

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// GenerateCode returns a random 8-character code over A-Z0-9. Uniqueness is
// enforced by the caller against the users table.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate user code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// ValidCode reports whether s has the shape of a lookup code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
