package domain

import "strings"

const documentLength = 11

// DocumentNumber is a validated CPF held in its canonical digits-only form.
// The only way to obtain a non-zero value is ParseDocument.
type DocumentNumber struct {
	digits string
}

// ParseDocument strips every non-digit character from raw and validates the
// result with the CPF checksum algorithm.
func ParseDocument(raw string) (DocumentNumber, error) {
	digits := CleanDocument(raw)
	if len(digits) != documentLength || allSameDigit(digits) {
		return DocumentNumber{}, ErrInvalidDocument
	}

	if checkDigit(digits[:9], 10) != int(digits[9]-'0') {
		return DocumentNumber{}, ErrInvalidDocument
	}
	if checkDigit(digits[:10], 11) != int(digits[10]-'0') {
		return DocumentNumber{}, ErrInvalidDocument
	}

	return DocumentNumber{digits: digits}, nil
}

// Digits returns the 11-digit canonical form.
func (d DocumentNumber) Digits() string { return d.digits }

// Format returns the display form ddd.ddd.ddd-dd.
func (d DocumentNumber) Format() string { return FormatDigits(d.digits) }

// Masked keeps the first three and the last two digits. Use it for logs.
func (d DocumentNumber) Masked() string {
	if d.IsZero() {
		return ""
	}
	return d.digits[:3] + ".***.***-" + d.digits[9:]
}

func (d DocumentNumber) IsZero() bool { return d.digits == "" }

func (d DocumentNumber) String() string { return d.digits }

// CleanDocument keeps only the ASCII digits of raw. Storage adapters use it
// to compare documents saved either formatted or raw.
func CleanDocument(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatDigits renders an 11-digit string as ddd.ddd.ddd-dd. Any other input
// is returned unchanged.
func FormatDigits(digits string) string {
	if len(digits) != documentLength {
		return digits
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

// checkDigit weighs each digit starting at firstWeight and decreasing by one,
// then reduces (sum*10) mod 11 with 10 mapped to 0.
func checkDigit(digits string, firstWeight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (firstWeight - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}
	return r
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
