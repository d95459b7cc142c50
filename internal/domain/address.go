package domain

import (
	"strconv"
	"strings"
)

type ValidationResult int

const (
	Invalid ValidationResult = iota
	Valid
)

func (r ValidationResult) String() string {
	if r == Valid {
		return "valid"
	}
	return "invalid"
}

// NormalizeAddress trims the whitespace a user typically leaves around a
// pasted address.
func NormalizeAddress(s string) string {
	return strings.TrimSpace(s)
}

// ValidateAddress checks that s is a dotted-quad IPv4 address: four segments
// of one to three decimal digits, each in [0, 255]. Leading zeros are
// accepted, so "192.168.001.001" is Valid.
func ValidateAddress(s string) ValidationResult {
	segments := strings.Split(s, ".")
	if len(segments) != 4 {
		return Invalid
	}
	for _, seg := range segments {
		if len(seg) == 0 || len(seg) > 3 {
			return Invalid
		}
		for _, r := range seg {
			if r < '0' || r > '9' {
				return Invalid
			}
		}
		n, err := strconv.Atoi(seg)
		if err != nil || n > 255 {
			return Invalid
		}
	}
	return Valid
}
