package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// passwordLength is the length of generated one-time passwords. Long enough
// that guessing is impractical, short enough for a parent to read out loud.
const passwordLength = 12

const passwordChars = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword generates a random one-time password for a child login.
// Ambiguous characters (0/O, 1/l/I) are excluded.
func GeneratePassword() (string, error) {
	password := make([]byte, passwordLength)
	for i := range password {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordChars))))
		if err != nil {
			return "", err
		}
		password[i] = passwordChars[num.Int64()]
	}
	return string(password), nil
}

// GenerateLoginEmail builds a throwaway, email-shaped login identifier for a
// child. It is never communicated anywhere; it only exists because the
// identity store requires logins to look like email addresses. The random
// suffix keeps two children with the same display name from colliding.
func GenerateLoginEmail(username, domain string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}

	local := sanitizeLocalPart(username)
	if local == "" {
		local = "child"
	}

	return fmt.Sprintf("%s-%x@%s", local, suffix, domain), nil
}

// sanitizeLocalPart reduces a display name to characters safe in the local
// part of an email address
func sanitizeLocalPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('.')
		}
	}
	return strings.Trim(b.String(), ".")
}
