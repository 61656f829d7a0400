package utils

import (
	"regexp"
	"strings"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// IsValidMobile reports whether s is a 10-digit Indian mobile number
func IsValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// IsValidPincode reports whether s is a 6-digit postal code
func IsValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// JoinAddress joins the non-blank parts with ", "
func JoinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
