package service

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validPhone accepts any formatting that normalizes to exactly 10 digits
func validPhone(phone string) bool {
	return len(digitsOnly(phone)) == 10
}

// validZip accepts codes normalizing to 5 or 6 digits
func validZip(zip string) bool {
	n := len(digitsOnly(zip))
	return n >= 5 && n <= 6
}

func validPassword(password string) bool {
	return len(password) >= 6
}
