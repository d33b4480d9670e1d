package utils

import (
	"fmt"
	"strings"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitFullName splits "Juan Dela Cruz" into "Juan" and "Dela Cruz".
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Capitalize upper-cases the first letter, used for status labels.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// BookingCode renders the display reference used on dashboards, e.g. BKP00042.
func BookingCode(id int64) string {
	return fmt.Sprintf("BKP%05d", id)
}
