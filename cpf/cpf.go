// Package cpf validates Brazilian CPF numbers using the Receita Federal
// mod-11 check digit scheme.
package cpf

import "strings"

// Normalize strips the conventional punctuation ("000.000.000-00").
func Normalize(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, "-", "")
}

// Valid reports whether s is a well-formed CPF: 11 digits, not all the same,
// with both check digits correct.
func Valid(s string) bool {
	s = Normalize(s)
	if len(s) != 11 {
		return false
	}
	same := true
	for i := 0; i < 11; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		if s[i] != s[0] {
			same = false
		}
	}
	if same {
		return false
	}
	if checkDigit(s, 9) != int(s[9]-'0') {
		return false
	}
	return checkDigit(s, 10) == int(s[10]-'0')
}

// checkDigit computes the verification digit over the first n digits, with
// weights n+1 down to 2.
func checkDigit(s string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(s[i]-'0') * (n + 1 - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		d = 0
	}
	return d
}
