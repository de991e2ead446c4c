package forms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 8

	// Attribute fragments shorter than this are not compared.
	minSimilarPart = 4
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// commonPasswords holds the most leaked passwords that still pass the length rule.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password12":  {},
	"password123": {},
	"passw0rd":    {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"87654321":    {},
	"11111111":    {},
	"00000000":    {},
	"qwertyui":    {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"1q2w3e4r":    {},
	"1qaz2wsx":    {},
	"iloveyou":    {},
	"sunshine":    {},
	"princess":    {},
	"football":    {},
	"baseball":    {},
	"superman":    {},
	"trustno1":    {},
	"welcome1":    {},
	"letmein1":    {},
	"abcd1234":    {},
	"aa123456":    {},
	"dragon123":   {},
	"monkey123":   {},
	"admin123":    {},
	"changeme":    {},
}

// passwordProblems returns the strength messages for password, checked in the
// order users see them: similarity, length, common, numeric.
func passwordProblems(password, username, email string) []string {
	var problems []string
	lower := strings.ToLower(password)

	if attr := similarAttribute(lower, username, email); attr != "" {
		problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr))
	}
	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if _, ok := commonPasswords[strings.TrimSpace(lower)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}

// similarAttribute names the account attribute the password overlaps with, or
// returns "" when there is none. A match is either side containing the other
// where the shorter one covers at least half of the password.
func similarAttribute(password, username, email string) string {
	attrs := []struct {
		name  string
		value string
	}{
		{"username", username},
		{"email address", email},
	}
	for _, a := range attrs {
		value := strings.ToLower(a.value)
		if value == "" {
			continue
		}
		parts := append([]string{value}, nonWord.Split(value, -1)...)
		for _, part := range parts {
			if len(part) < minSimilarPart {
				continue
			}
			if strings.Contains(part, password) {
				return a.name
			}
			if strings.Contains(password, part) && 2*len(part) >= len(password) {
				return a.name
			}
		}
	}
	return ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
