package utils

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NormalizeGrade extracts the digits from free-text grade input and returns
// them as the canonical grade code: "Grade 10" -> "10", " 9 " -> "9",
// "1 0" -> "10". Returns "" when the input contains no digits. Range
// validation against the recognized grades is the caller's responsibility,
// so display-only contexts can still show out-of-range values.
func NormalizeGrade(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidGrades are the academic grade levels the academy tutors.
var ValidGrades = []string{"9", "10", "11", "12"}

// IsValidGrade checks a normalized grade code against the recognized set
func IsValidGrade(grade string) bool {
	for _, g := range ValidGrades {
		if grade == g {
			return true
		}
	}
	return false
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	validRoles := []string{"owner", "admin", "tutor"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

// MonthKey formats a time as the canonical YYYY-MM payment month key
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DateKey formats a time as the canonical YYYY-MM-DD attendance date key
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekdayDateKeys returns every weekday of the given month as canonical
// YYYY-MM-DD keys, in ascending order.
func WeekdayDateKeys(year int, month time.Month) []string {
	var keys []string
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Month() == month {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			keys = append(keys, d.Format("2006-01-02"))
		}
		d = d.AddDate(0, 0, 1)
	}
	return keys
}

// DefaultIfEmpty trims the input and substitutes a fallback when nothing is left
func DefaultIfEmpty(value, fallback string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback
	}
	return v
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}
