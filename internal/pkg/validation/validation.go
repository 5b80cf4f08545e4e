package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var deviceIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{8,120}$`)
var applicationCodeRe = regexp.MustCompile(`^[A-Z0-9]{8,16}$`)
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SafeText trims the value and returns it only when its length is within
// [min, max]; otherwise empty string.
func SafeText(value string, min, max int) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < min || len(trimmed) > max {
		return ""
	}
	return trimmed
}

// SafeStringArray trims entries, drops empties and caps the list at max.
func SafeStringArray(values []string, max int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		t := strings.TrimSpace(v)
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == max {
			break
		}
	}
	return out
}

func IsValidDeviceID(id string) bool {
	return deviceIDRe.MatchString(id)
}

func IsValidApplicationCode(code string) bool {
	return applicationCodeRe.MatchString(code)
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters containing a letter, a
// number and a special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// ClampFocus clamps an icon focus coordinate to [0, 100], defaulting to
// center when absent.
func ClampFocus(v *int) int {
	if v == nil {
		return 50
	}
	if *v < 0 {
		return 0
	}
	if *v > 100 {
		return 100
	}
	return *v
}
