// Package match compares an input business listing against a directory
// candidate field by field and reduces the comparisons to one status label.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// phoneDigits is the length of a national (NANP) phone number.
const phoneDigits = 10

// lower applies full Unicode lowercasing. A Caser is stateful, so each call
// builds its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NormalizeText lowercases s, replaces every rune that is neither a letter,
// a number nor whitespace with a space, then collapses whitespace runs to a
// single space and trims the ends.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range lower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizePhone keeps only the ASCII digits of s. Anything longer than a
// national number is cut to its last ten digits, dropping country codes.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > phoneDigits {
		digits = digits[len(digits)-phoneDigits:]
	}
	return digits
}
